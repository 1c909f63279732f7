// Package engine reconciles stored proxy profiles with the live system
// proxy settings.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/massamany/proxyprofiles/internal/logger"
	"github.com/massamany/proxyprofiles/internal/profiles"
	"github.com/massamany/proxyprofiles/internal/proxy"
	"github.com/massamany/proxyprofiles/internal/settings"
)

// CurrentInfo describes the live proxy state. Profile is nil when no
// stored profile matches, or when matching was not requested.
type CurrentInfo struct {
	Mode    proxy.Mode
	Profile *proxy.Profile
}

// ProfileName returns the matched profile name, or "".
func (c CurrentInfo) ProfileName() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.Name
}

// Engine ties a settings backend to a profile store.
type Engine struct {
	settings *settings.ProxySettings
	profiles *profiles.Store

	mu        sync.Mutex
	listeners map[int]func(CurrentInfo)
	nextID    int
	cancels   []func()
	closed    bool
}

// New subscribes to live mode changes and to external edits of the
// profiles file. Call Close to release both subscriptions. A backend that
// cannot watch the mode is tolerated and logged.
func New(store settings.Store, profileStore *profiles.Store) (*Engine, error) {
	e := &Engine{
		settings:  settings.NewProxySettings(store),
		profiles:  profileStore,
		listeners: map[int]func(CurrentInfo){},
	}
	cancelMode, err := e.settings.OnModeChanged(func() { e.changed("mode") })
	if errors.Is(err, settings.ErrUnknownKey) {
		return nil, fmt.Errorf("subscribing to proxy mode: %w", err)
	}
	if err != nil {
		// Without a session bus the engine still works; it just cannot
		// report mode changes made by other programs.
		logger.Log.Warnf("proxy mode changes will not be reported: %v", err)
		cancelMode = func() {}
	}
	cancelProfiles := profileStore.Subscribe(func() { e.changed("profiles file") })
	e.cancels = []func(){cancelMode, cancelProfiles}
	return e, nil
}

// Settings returns the typed live settings.
func (e *Engine) Settings() *settings.ProxySettings { return e.settings }

// Profiles returns the profile store.
func (e *Engine) Profiles() *profiles.Store { return e.profiles }

// OnChange registers fn to receive the recomputed state after every mode
// change or external profile edit.
func (e *Engine) OnChange(fn func(CurrentInfo)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

func (e *Engine) changed(source string) {
	e.mu.Lock()
	if e.closed || len(e.listeners) == 0 {
		e.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(CurrentInfo), len(ids))
	for i, id := range ids {
		fns[i] = e.listeners[id]
	}
	e.mu.Unlock()

	info := e.CurrentInfo(true)
	logger.Log.Debugf("%s changed: mode=%s profile=%q", source, info.Mode, info.ProfileName())
	for _, fn := range fns {
		fn(info)
	}
}

// Close cancels the subscriptions taken by New. It is safe to call twice.
func (e *Engine) Close() error {
	e.mu.Lock()
	cancels := e.cancels
	e.cancels = nil
	e.closed = true
	clear(e.listeners)
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return nil
}

// CurrentInfo reads the live mode and, when includeProfile is set, looks
// for the first stored profile whose fields match the live settings.
// It never fails: an unreadable mode is reported as none.
func (e *Engine) CurrentInfo(includeProfile bool) CurrentInfo {
	mode, err := e.settings.Mode()
	if err != nil {
		logger.Log.Warnf("reading proxy mode: %v", err)
		mode = proxy.ModeNone
	}
	info := CurrentInfo{Mode: mode}
	if !includeProfile || mode.IsNone() {
		return info
	}

	candidates := e.profiles.List()
	if len(candidates) == 0 {
		return info
	}
	norm, err := e.normalizer()
	if err != nil {
		logger.Log.Warnf("reading proxy defaults: %v", err)
		return info
	}
	for _, candidate := range candidates {
		if candidate.Mode() != mode {
			continue
		}
		live, ok := e.GenerateProfile(candidate.Name, mode)
		if !ok {
			continue
		}
		if norm.equal(candidate, live) {
			logger.Log.Debugf("live settings match profile %q", candidate.Name)
			info.Profile = &candidate
			return info
		}
	}
	return info
}
