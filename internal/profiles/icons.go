package profiles

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

//go:embed icons/*.png
var packagedIcons embed.FS

// InstallIcons writes the packaged status icons into dir. Files that
// already exist are left untouched, so user replacements survive.
func InstallIcons(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating icon directory: %w", err)
	}
	for _, kind := range IconKinds {
		name := defaultIconFiles[kind]
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		data, err := packagedIcons.ReadFile("icons/" + name)
		if err != nil {
			return err
		}
		if err := renameio.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
	}
	return nil
}
