package settings

import (
	"fmt"
	"math"

	"github.com/massamany/proxyprofiles/internal/proxy"
)

// ProxySettings is a typed view over a Store. Its setters are
// default-aware: a value that is empty, zero or equal to the key's default
// resets the key instead of storing an override.
type ProxySettings struct {
	store Store
}

// NewProxySettings wraps store.
func NewProxySettings(store Store) *ProxySettings {
	return &ProxySettings{store: store}
}

// Store returns the underlying backend.
func (s *ProxySettings) Store() Store { return s.store }

// Mode returns the live proxy mode.
func (s *ProxySettings) Mode() (proxy.Mode, error) {
	v, err := s.getString(Mode)
	if err != nil {
		return "", err
	}
	return proxy.ParseMode(v)
}

// SetMode writes the mode key directly. Mode switches are always stored,
// even when equal to the default, so subscribers see the change.
func (s *ProxySettings) SetMode(m proxy.Mode) error {
	if _, err := proxy.ParseMode(string(m)); err != nil {
		return err
	}
	return s.store.Set(Mode, string(m))
}

// OnModeChanged registers fn for changes to the mode key.
func (s *ProxySettings) OnModeChanged(fn func()) (func(), error) {
	return s.store.Subscribe(Mode, fn)
}

func (s *ProxySettings) Host(p proxy.Protocol) (string, error) {
	return s.getString(HostKey(p))
}

func (s *ProxySettings) SetHost(p proxy.Protocol, host string) error {
	return s.setString(HostKey(p), host)
}

func (s *ProxySettings) Port(p proxy.Protocol) (int, error) {
	v, err := s.get(PortKey(p))
	if err != nil {
		return 0, err
	}
	return int(v.(int32)), nil
}

func (s *ProxySettings) SetPort(p proxy.Protocol, port int) error {
	if port < 0 || port > math.MaxInt32 {
		return fmt.Errorf("invalid %s port %d", p, port)
	}
	def, err := s.DefaultPort(p)
	if err != nil {
		return err
	}
	if port != 0 && port != def {
		return s.store.Set(PortKey(p), int32(port))
	}
	return s.store.Reset(PortKey(p))
}

// DefaultPort returns the schema default port of protocol p.
func (s *ProxySettings) DefaultPort(p proxy.Protocol) (int, error) {
	def, err := s.store.Default(PortKey(p))
	if err != nil {
		return 0, err
	}
	return int(def.(int32)), nil
}

// Endpoint reads host and port of protocol p.
func (s *ProxySettings) Endpoint(p proxy.Protocol) (proxy.Endpoint, error) {
	host, err := s.Host(p)
	if err != nil {
		return proxy.Endpoint{}, err
	}
	port, err := s.Port(p)
	if err != nil {
		return proxy.Endpoint{}, err
	}
	return proxy.Endpoint{Host: host, Port: port}, nil
}

// SetEndpoint writes host and port of protocol p.
func (s *ProxySettings) SetEndpoint(p proxy.Protocol, e proxy.Endpoint) error {
	if err := s.SetHost(p, e.Host); err != nil {
		return err
	}
	return s.SetPort(p, e.Port)
}

func (s *ProxySettings) UseAuthentication() (bool, error) {
	v, err := s.get(HTTPUseAuthentication)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *ProxySettings) SetUseAuthentication(enabled bool) error {
	def, err := s.store.Default(HTTPUseAuthentication)
	if err != nil {
		return err
	}
	if enabled != def.(bool) {
		return s.store.Set(HTTPUseAuthentication, enabled)
	}
	return s.store.Reset(HTTPUseAuthentication)
}

func (s *ProxySettings) AuthenticationUser() (string, error) {
	return s.getString(HTTPAuthenticationUser)
}

func (s *ProxySettings) SetAuthenticationUser(user string) error {
	return s.setString(HTTPAuthenticationUser, user)
}

func (s *ProxySettings) AuthenticationPassword() (string, error) {
	return s.getString(HTTPAuthenticationPassword)
}

func (s *ProxySettings) SetAuthenticationPassword(password string) error {
	return s.setString(HTTPAuthenticationPassword, password)
}

func (s *ProxySettings) AutoconfigURL() (string, error) {
	return s.getString(AutoconfigURL)
}

func (s *ProxySettings) SetAutoconfigURL(url string) error {
	return s.setString(AutoconfigURL, url)
}

// DefaultIgnoredHosts returns the schema default ignore list.
func (s *ProxySettings) DefaultIgnoredHosts() ([]string, error) {
	def, err := s.store.Default(IgnoreHosts)
	if err != nil {
		return nil, err
	}
	return def.([]string), nil
}

// IgnoredHosts returns the live ignore list, or nil when it equals the
// default list.
func (s *ProxySettings) IgnoredHosts() ([]string, error) {
	v, err := s.get(IgnoreHosts)
	if err != nil {
		return nil, err
	}
	def, err := s.DefaultIgnoredHosts()
	if err != nil {
		return nil, err
	}
	hosts := v.([]string)
	if len(hosts) == 0 || proxy.HostsEqual(hosts, def) {
		return nil, nil
	}
	return hosts, nil
}

// SetIgnoredHosts writes hosts with whitespace removed. An empty list or
// one equal to the default list resets the key.
func (s *ProxySettings) SetIgnoredHosts(hosts []string) error {
	key := proxy.HostsKey(hosts)
	if key == "" {
		return s.store.Reset(IgnoreHosts)
	}
	def, err := s.DefaultIgnoredHosts()
	if err != nil {
		return err
	}
	if key == proxy.HostsKey(def) {
		return s.store.Reset(IgnoreHosts)
	}
	return s.store.Set(IgnoreHosts, proxy.ParseHosts(key))
}

func (s *ProxySettings) get(key Key) (any, error) {
	v, err := s.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := CheckValue(key, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *ProxySettings) getString(key Key) (string, error) {
	v, err := s.get(key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *ProxySettings) setString(key Key, value string) error {
	def, err := s.store.Default(key)
	if err != nil {
		return err
	}
	if value != "" && value != def.(string) {
		return s.store.Set(key, value)
	}
	return s.store.Reset(key)
}
