package proxy

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Protocol identifies one of the four manually configured proxy protocols.
type Protocol string

const (
	HTTP  Protocol = "http"
	HTTPS Protocol = "https"
	FTP   Protocol = "ftp"
	SOCKS Protocol = "socks"
)

// Protocols lists the manual protocols in settings order.
var Protocols = []Protocol{HTTP, HTTPS, FTP, SOCKS}

// Endpoint is a proxy host and port for one protocol.
type Endpoint struct {
	Host string
	Port int
}

// IsZero reports whether neither host nor port is set.
func (e Endpoint) IsZero() bool {
	return e.Host == "" && e.Port == 0
}

// Auth holds the optional HTTP proxy credentials.
type Auth struct {
	Enabled  bool
	User     string
	Password string
}

// Config is the mode-specific payload of a Profile. It is implemented by
// *Manual and *Auto only.
type Config interface {
	Mode() Mode
	clone() Config
}

// Manual is the payload of a manual-mode profile.
type Manual struct {
	HTTP    Endpoint
	HTTPS   Endpoint
	FTP     Endpoint
	SOCKS   Endpoint
	Ignored []string
	Auth    Auth
}

func (*Manual) Mode() Mode { return ModeManual }

func (m *Manual) clone() Config {
	c := *m
	c.Ignored = slices.Clone(m.Ignored)
	return &c
}

// Endpoint returns the endpoint configured for protocol p.
func (m *Manual) Endpoint(p Protocol) Endpoint {
	switch p {
	case HTTP:
		return m.HTTP
	case HTTPS:
		return m.HTTPS
	case FTP:
		return m.FTP
	case SOCKS:
		return m.SOCKS
	}
	return Endpoint{}
}

// SetEndpoint replaces the endpoint for protocol p.
func (m *Manual) SetEndpoint(p Protocol, e Endpoint) {
	switch p {
	case HTTP:
		m.HTTP = e
	case HTTPS:
		m.HTTPS = e
	case FTP:
		m.FTP = e
	case SOCKS:
		m.SOCKS = e
	}
}

// Auto is the payload of an auto-config (PAC) profile.
type Auto struct {
	ConfigURL string
}

func (*Auto) Mode() Mode { return ModeAuto }

func (a *Auto) clone() Config {
	c := *a
	return &c
}

// Profile is a named, mode-tagged proxy configuration.
type Profile struct {
	Name   string
	Config Config

	// extra keeps keys of the stored object this version does not know about.
	extra map[string]json.RawMessage
}

// NewManual returns a manual profile with the given payload.
func NewManual(name string, m Manual) Profile {
	return Profile{Name: name, Config: &m}
}

// NewAuto returns an auto-config profile pointing at url.
func NewAuto(name, url string) Profile {
	return Profile{Name: name, Config: &Auto{ConfigURL: url}}
}

// Mode returns the profile mode, or ModeNone for the zero Profile.
func (p Profile) Mode() Mode {
	if p.Config == nil {
		return ModeNone
	}
	return p.Config.Mode()
}

// IsZero reports whether p is the empty profile returned for unknown names.
func (p Profile) IsZero() bool {
	return p.Name == "" && p.Config == nil
}

// Manual returns the manual payload if p is a manual profile.
func (p Profile) Manual() (*Manual, bool) {
	m, ok := p.Config.(*Manual)
	return m, ok
}

// Auto returns the auto payload if p is an auto-config profile.
func (p Profile) Auto() (*Auto, bool) {
	a, ok := p.Config.(*Auto)
	return a, ok
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	c := Profile{Name: p.Name, extra: maps.Clone(p.extra)}
	if p.Config != nil {
		c.Config = p.Config.clone()
	}
	return c
}

// WithMode returns a copy of p switched to mode. Switching to a different
// mode starts from an empty payload so no field of the previous mode
// survives. Profiles cannot be in ModeNone.
func (p Profile) WithMode(mode Mode) (Profile, error) {
	c := p.Clone()
	if mode == p.Mode() {
		return c, nil
	}
	switch mode {
	case ModeManual:
		c.Config = &Manual{}
	case ModeAuto:
		c.Config = &Auto{}
	default:
		return Profile{}, fmt.Errorf("%w: profiles cannot use mode %q", ErrInvalidMode, mode)
	}
	return c, nil
}
