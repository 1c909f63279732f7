package commands

import (
	"fmt"
	"os/exec"

	"github.com/massamany/proxyprofiles/internal/logger"
)

// Launcher starts a desktop program without waiting for it.
type Launcher func(name string, args ...string) error

// Launch is the Launcher used by the menu actions. Tests replace it.
var Launch Launcher = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Log.Debugf("%s exited: %v", name, err)
		}
	}()
	return nil
}

// OpenSettingsFile opens the profiles file with the desktop's default
// editor.
func OpenSettingsFile(path string) error {
	logger.Log.Debugf("opening settings file %s", path)
	return Launch("xdg-open", path)
}

// OpenNetworkSettings opens the desktop network proxy panel.
func OpenNetworkSettings() error {
	logger.Log.Debug("opening network settings")
	return Launch("gnome-control-center", "network")
}
