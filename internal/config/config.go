package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/massamany/proxyprofiles/internal/paths"
	"go.yaml.in/yaml/v3"
)

// Settings backends.
const (
	BackendGSettings = "gsettings"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

// Config represents ~/.config/proxyprofiles/config.yaml.
type Config struct {
	Backend      string `yaml:"backend"`
	ProfilesFile string `yaml:"profiles_file,omitempty"`
	SettingsDB   string `yaml:"settings_db,omitempty"`
	LogFile      string `yaml:"log_file,omitempty"`
	Verbose      bool   `yaml:"verbose,omitempty"`
	Watch        bool   `yaml:"watch_profiles_file"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:      BackendGSettings,
		ProfilesFile: paths.ProfilesFile(),
		SettingsDB:   paths.SettingsDB(),
		Watch:        true,
	}
}

// Parse parses config.yaml bytes on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.ProfilesFile == "" {
		cfg.ProfilesFile = paths.ProfilesFile()
	}
	if cfg.SettingsDB == "" {
		cfg.SettingsDB = paths.SettingsDB()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. A missing file yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		path = paths.ConfigFile()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendGSettings, BackendSQLite, BackendMemory:
		return nil
	}
	return fmt.Errorf("unknown settings backend %q (want %s, %s or %s)", c.Backend, BackendGSettings, BackendSQLite, BackendMemory)
}
