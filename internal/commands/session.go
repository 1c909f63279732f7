package commands

import (
	"fmt"

	"github.com/massamany/proxyprofiles/internal/config"
	"github.com/massamany/proxyprofiles/internal/engine"
	"github.com/massamany/proxyprofiles/internal/logger"
	"github.com/massamany/proxyprofiles/internal/profiles"
	"github.com/massamany/proxyprofiles/internal/settings"
)

// Session holds everything a command needs: the settings backend, the
// profile store and the engine joining them.
type Session struct {
	Config   config.Config
	Settings settings.Store
	Profiles *profiles.Store
	Engine   *engine.Engine
}

// OpenSettings returns the settings backend selected by cfg.
func OpenSettings(cfg config.Config) (settings.Store, error) {
	switch cfg.Backend {
	case config.BackendGSettings:
		return settings.NewGSettingsStore(), nil
	case config.BackendSQLite:
		return settings.OpenSQLite(cfg.SettingsDB)
	case config.BackendMemory:
		return settings.NewMemoryStore(), nil
	}
	return nil, cfg.Validate()
}

// OpenSession opens the backend and profile store named in cfg.
func OpenSession(cfg config.Config) (*Session, error) {
	store, err := OpenSettings(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s settings: %w", cfg.Backend, err)
	}
	return NewSession(cfg, store)
}

// NewSession wires an already opened settings backend. The session owns
// store from here on and closes it in Close.
func NewSession(cfg config.Config, store settings.Store) (*Session, error) {
	profileStore, err := profiles.Open(cfg.ProfilesFile)
	if err != nil {
		store.Close()
		return nil, err
	}
	eng, err := engine.New(store, profileStore)
	if err != nil {
		profileStore.Close()
		store.Close()
		return nil, err
	}
	logger.Log.Debugf("session: backend=%s profiles=%s", cfg.Backend, cfg.ProfilesFile)
	return &Session{Config: cfg, Settings: store, Profiles: profileStore, Engine: eng}, nil
}

// Close releases the engine subscriptions, the file watch and the
// backend, in that order.
func (s *Session) Close() error {
	if err := s.Engine.Close(); err != nil {
		return err
	}
	if err := s.Profiles.Close(); err != nil {
		return err
	}
	return s.Settings.Close()
}
