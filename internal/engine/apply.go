package engine

import (
	"fmt"

	"github.com/massamany/proxyprofiles/internal/logger"
	"github.com/massamany/proxyprofiles/internal/proxy"
)

// GenerateProfile builds a profile called name from the live settings of
// the given mode. It reports false for ModeNone or when the settings
// cannot be read.
func (e *Engine) GenerateProfile(name string, mode proxy.Mode) (proxy.Profile, bool) {
	switch mode {
	case proxy.ModeManual:
		m, err := e.liveManual()
		if err != nil {
			logger.Log.Warnf("reading manual proxy settings: %v", err)
			return proxy.Profile{}, false
		}
		return proxy.NewManual(name, m), true
	case proxy.ModeAuto:
		url, err := e.settings.AutoconfigURL()
		if err != nil {
			logger.Log.Warnf("reading autoconfig url: %v", err)
			return proxy.Profile{}, false
		}
		return proxy.NewAuto(name, url), true
	}
	return proxy.Profile{}, false
}

func (e *Engine) liveManual() (proxy.Manual, error) {
	var m proxy.Manual
	for _, p := range proxy.Protocols {
		ep, err := e.settings.Endpoint(p)
		if err != nil {
			return proxy.Manual{}, err
		}
		m.SetEndpoint(p, ep)
	}
	hosts, err := e.settings.IgnoredHosts()
	if err != nil {
		return proxy.Manual{}, err
	}
	m.Ignored = hosts

	if m.Auth.Enabled, err = e.settings.UseAuthentication(); err != nil {
		return proxy.Manual{}, err
	}
	if m.Auth.User, err = e.settings.AuthenticationUser(); err != nil {
		return proxy.Manual{}, err
	}
	if m.Auth.Password, err = e.settings.AuthenticationPassword(); err != nil {
		return proxy.Manual{}, err
	}
	return m, nil
}

// ApplyProfile writes the stored profile called name onto the live
// settings. Values equal to a key's default reset that key. The HTTP
// authentication keys are only written when the profile sets them. When the
// autoActivateModeOnApplyProfile preference is on, the live mode is
// switched last. An unknown name changes nothing.
func (e *Engine) ApplyProfile(name string) error {
	p, ok := e.profiles.Get(name)
	if !ok {
		logger.Log.Debugf("apply: no profile named %q", name)
		return nil
	}
	logger.Log.Debugf("applying profile %q (%s)", p.Name, p.Mode())

	switch c := p.Config.(type) {
	case *proxy.Manual:
		if err := e.applyManual(c); err != nil {
			return fmt.Errorf("applying profile %q: %w", name, err)
		}
	case *proxy.Auto:
		if err := e.settings.SetAutoconfigURL(c.ConfigURL); err != nil {
			return fmt.Errorf("applying profile %q: %w", name, err)
		}
	default:
		return fmt.Errorf("applying profile %q: %w", name, proxy.ErrInvalidMode)
	}

	if e.profiles.AutoActivateModeOnApplyProfile() {
		if err := e.settings.SetMode(p.Mode()); err != nil {
			return fmt.Errorf("activating %s mode: %w", p.Mode(), err)
		}
	}
	return nil
}

func (e *Engine) applyManual(m *proxy.Manual) error {
	for _, p := range proxy.Protocols {
		if err := e.settings.SetEndpoint(p, m.Endpoint(p)); err != nil {
			return err
		}
	}
	if err := e.settings.SetIgnoredHosts(m.Ignored); err != nil {
		return err
	}
	// Live credentials are left alone for profiles that carry none.
	if m.Auth == (proxy.Auth{}) {
		return nil
	}
	if err := e.settings.SetUseAuthentication(m.Auth.Enabled); err != nil {
		return err
	}
	if err := e.settings.SetAuthenticationUser(m.Auth.User); err != nil {
		return err
	}
	return e.settings.SetAuthenticationPassword(m.Auth.Password)
}

// SetMode switches the live proxy mode.
func (e *Engine) SetMode(mode proxy.Mode) error {
	if err := e.settings.SetMode(mode); err != nil {
		return fmt.Errorf("setting proxy mode: %w", err)
	}
	return nil
}

// SaveCurrent stores the live settings of mode as a profile called name,
// replacing any profile with that name. mode defaults to the live mode.
func (e *Engine) SaveCurrent(name string, mode proxy.Mode) (proxy.Profile, error) {
	if mode == "" {
		mode = e.CurrentInfo(false).Mode
	}
	if mode.IsNone() {
		return proxy.Profile{}, fmt.Errorf("%w: the proxy is deactivated, nothing to save", proxy.ErrInvalidMode)
	}
	p, ok := e.GenerateProfile(name, mode)
	if !ok {
		return proxy.Profile{}, fmt.Errorf("cannot read %s proxy settings", mode)
	}
	if err := e.profiles.Upsert(p); err != nil {
		return proxy.Profile{}, err
	}
	return p, nil
}
