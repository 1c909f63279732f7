package paths

import (
	"os"
	"path/filepath"
)

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// ProfilesFile returns ~/.proxyprofile.json.
func ProfilesFile() string {
	return filepath.Join(home(), ".proxyprofile.json")
}

// ConfigDir returns ~/.config/proxyprofiles.
func ConfigDir() string {
	return filepath.Join(home(), ".config", "proxyprofiles")
}

// ConfigFile returns ~/.config/proxyprofiles/config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns ~/.local/share/proxyprofiles.
func DataDir() string {
	return filepath.Join(home(), ".local", "share", "proxyprofiles")
}

// SettingsDB returns ~/.local/share/proxyprofiles/settings.db.
func SettingsDB() string {
	return filepath.Join(DataDir(), "settings.db")
}

// IconDir returns ~/.local/share/proxyprofiles/icons.
func IconDir() string {
	return filepath.Join(DataDir(), "icons")
}
