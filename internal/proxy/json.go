package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// wireProfile is the flat object stored in the profiles file.
type wireProfile struct {
	Name string `json:"name"`
	Mode string `json:"mode,omitempty"`

	HTTPHost  string `json:"httpHost,omitempty"`
	HTTPPort  port   `json:"httpPort,omitempty"`
	HTTPSHost string `json:"httpsHost,omitempty"`
	HTTPSPort port   `json:"httpsPort,omitempty"`
	FTPHost   string `json:"ftpHost,omitempty"`
	FTPPort   port   `json:"ftpPort,omitempty"`
	SOCKSHost string `json:"socksHost,omitempty"`
	SOCKSPort port   `json:"socksPort,omitempty"`
	Ignored   string `json:"ignored,omitempty"`

	HTTPUseAuthentication      bool   `json:"httpUseAuthentication,omitempty"`
	HTTPAuthenticationUser     string `json:"httpAuthenticationUser,omitempty"`
	HTTPAuthenticationPassword string `json:"httpAuthenticationPassword,omitempty"`

	AutoConfigURL string `json:"autoConfigUrl,omitempty"`
}

var wireKeys = []string{
	"name", "mode",
	"httpHost", "httpPort", "httpsHost", "httpsPort",
	"ftpHost", "ftpPort", "socksHost", "socksPort", "ignored",
	"httpUseAuthentication", "httpAuthenticationUser", "httpAuthenticationPassword",
	"autoConfigUrl",
}

// port decodes from a JSON number or a numeric string. The preferences
// dialog used to store ports as text, so both forms exist in the wild.
type port int

func (p *port) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = port(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("port must be a number or numeric string: %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port %q is not a number", s)
	}
	*p = port(n)
	return nil
}

// MarshalJSON writes p in the flat format used by the profiles file.
// Keys of the other mode are never written.
func (p Profile) MarshalJSON() ([]byte, error) {
	w := wireProfile{Name: p.Name}
	switch c := p.Config.(type) {
	case *Manual:
		w.Mode = string(ModeManual)
		w.HTTPHost, w.HTTPPort = c.HTTP.Host, port(c.HTTP.Port)
		w.HTTPSHost, w.HTTPSPort = c.HTTPS.Host, port(c.HTTPS.Port)
		w.FTPHost, w.FTPPort = c.FTP.Host, port(c.FTP.Port)
		w.SOCKSHost, w.SOCKSPort = c.SOCKS.Host, port(c.SOCKS.Port)
		w.Ignored = JoinHosts(c.Ignored)
		w.HTTPUseAuthentication = c.Auth.Enabled
		w.HTTPAuthenticationUser = c.Auth.User
		w.HTTPAuthenticationPassword = c.Auth.Password
	case *Auto:
		w.Mode = string(ModeAuto)
		w.AutoConfigURL = c.ConfigURL
	}

	data, err := json.Marshal(w)
	if err != nil || len(p.extra) == 0 {
		return data, err
	}

	merged := make(map[string]json.RawMessage, len(p.extra)+len(wireKeys))
	for k, v := range p.extra {
		merged[k] = v
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads the flat stored format. A missing mode yields a
// profile without payload; an unknown mode is an error.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var w wireProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range wireKeys {
		delete(raw, k)
	}

	out := Profile{Name: w.Name}
	if len(raw) > 0 {
		out.extra = raw
	}

	if w.Mode != "" {
		mode, err := ParseMode(w.Mode)
		if err != nil {
			return fmt.Errorf("profile %q: %w", w.Name, err)
		}
		switch mode {
		case ModeManual:
			out.Config = &Manual{
				HTTP:    Endpoint{Host: w.HTTPHost, Port: int(w.HTTPPort)},
				HTTPS:   Endpoint{Host: w.HTTPSHost, Port: int(w.HTTPSPort)},
				FTP:     Endpoint{Host: w.FTPHost, Port: int(w.FTPPort)},
				SOCKS:   Endpoint{Host: w.SOCKSHost, Port: int(w.SOCKSPort)},
				Ignored: ParseHosts(w.Ignored),
				Auth: Auth{
					Enabled:  w.HTTPUseAuthentication,
					User:     w.HTTPAuthenticationUser,
					Password: w.HTTPAuthenticationPassword,
				},
			}
		case ModeAuto:
			out.Config = &Auto{ConfigURL: w.AutoConfigURL}
		default:
			return fmt.Errorf("profile %q: %w: profiles cannot use mode %q", w.Name, ErrInvalidMode, mode)
		}
	}

	*p = out
	return nil
}
