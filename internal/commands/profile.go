package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/massamany/proxyprofiles/internal/proxy"
)

// ProfileInput is a profile as typed into a form: every field is text.
type ProfileInput struct {
	Name      string
	Mode      string
	Hosts     map[proxy.Protocol]string
	Ports     map[proxy.Protocol]string
	Ignored   string
	UseAuth   bool
	AuthUser  string
	AuthPass  string
	ConfigURL string
}

// NewProfileInput prefills a form from an existing profile.
func NewProfileInput(p proxy.Profile) ProfileInput {
	in := ProfileInput{
		Name:  p.Name,
		Mode:  p.Mode().String(),
		Hosts: map[proxy.Protocol]string{},
		Ports: map[proxy.Protocol]string{},
	}
	if m, ok := p.Manual(); ok {
		for _, proto := range proxy.Protocols {
			ep := m.Endpoint(proto)
			in.Hosts[proto] = ep.Host
			if ep.Port != 0 {
				in.Ports[proto] = strconv.Itoa(ep.Port)
			}
		}
		in.Ignored = proxy.JoinHosts(m.Ignored)
		in.UseAuth = m.Auth.Enabled
		in.AuthUser = m.Auth.User
		in.AuthPass = m.Auth.Password
	}
	if a, ok := p.Auto(); ok {
		in.ConfigURL = a.ConfigURL
	}
	return in
}

// Profile validates the input and builds the profile it describes.
func (in ProfileInput) Profile() (proxy.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return proxy.Profile{}, fmt.Errorf("profile name is required")
	}
	mode, err := proxy.ParseMode(in.Mode)
	if err != nil {
		return proxy.Profile{}, err
	}
	switch mode {
	case proxy.ModeManual:
		var m proxy.Manual
		for _, proto := range proxy.Protocols {
			port, err := ParsePort(in.Ports[proto])
			if err != nil {
				return proxy.Profile{}, fmt.Errorf("%s port: %w", proto, err)
			}
			m.SetEndpoint(proto, proxy.Endpoint{Host: strings.TrimSpace(in.Hosts[proto]), Port: port})
		}
		m.Ignored = proxy.ParseHosts(in.Ignored)
		m.Auth = proxy.Auth{Enabled: in.UseAuth, User: in.AuthUser, Password: in.AuthPass}
		return proxy.NewManual(name, m), nil
	case proxy.ModeAuto:
		return proxy.NewAuto(name, strings.TrimSpace(in.ConfigURL)), nil
	}
	return proxy.Profile{}, fmt.Errorf("%w: a profile needs mode %s or %s", proxy.ErrInvalidMode, proxy.ModeManual, proxy.ModeAuto)
}

// ParsePort parses a port field. Blank means no port.
func ParsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return n, nil
}

// ParseEndpoint parses "host[:port]". IPv6 hosts with a port need
// brackets, as in "[::1]:3128".
func ParseEndpoint(s string) (proxy.Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return proxy.Endpoint{}, nil
	}
	host, portText, err := net.SplitHostPort(s)
	if err != nil {
		return proxy.Endpoint{Host: strings.Trim(s, "[]")}, nil
	}
	port, err := ParsePort(portText)
	if err != nil {
		return proxy.Endpoint{}, err
	}
	return proxy.Endpoint{Host: host, Port: port}, nil
}

// ProfileSummary returns a one-line description of p.
func ProfileSummary(p proxy.Profile) string {
	switch c := p.Config.(type) {
	case *proxy.Auto:
		if c.ConfigURL == "" {
			return "automatic"
		}
		return "automatic, " + c.ConfigURL
	case *proxy.Manual:
		var parts []string
		for _, proto := range proxy.Protocols {
			ep := c.Endpoint(proto)
			if ep.IsZero() {
				continue
			}
			if ep.Port != 0 {
				parts = append(parts, fmt.Sprintf("%s %s:%d", proto, ep.Host, ep.Port))
			} else {
				parts = append(parts, fmt.Sprintf("%s %s", proto, ep.Host))
			}
		}
		if len(c.Ignored) > 0 {
			parts = append(parts, fmt.Sprintf("%d ignored host%s", len(c.Ignored), plural(len(c.Ignored))))
		}
		if c.Auth.Enabled {
			parts = append(parts, "auth")
		}
		if len(parts) == 0 {
			return "manual"
		}
		return "manual, " + strings.Join(parts, ", ")
	}
	return "no mode"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
