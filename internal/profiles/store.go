// Package profiles persists proxy profiles and preferences in a single JSON
// document and reports edits made to it by other programs.
package profiles

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/renameio"
	"github.com/massamany/proxyprofiles/internal/logger"
	"github.com/massamany/proxyprofiles/internal/proxy"
)

var (
	ErrConfigRead  = errors.New("cannot read profiles file")
	ErrConfigWrite = errors.New("cannot write profiles file")
)

// Store owns the profiles document and its file.
type Store struct {
	path string

	mu      sync.Mutex
	doc     Document
	digest  [sha256.Size]byte
	subs    map[int]func()
	nextSub int
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open loads the document at path. A missing file is created empty.
func Open(path string) (*Store, error) {
	s := &Store{path: path, subs: map[int]func(){}}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load re-reads the file. On failure the in-memory document is unchanged.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Log.Infof("creating profiles file %s", s.path)
		doc := Document{}
		if err := s.write(doc); err != nil {
			return err
		}
		s.doc = doc
		logger.SetDebug(false)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigRead, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigRead, s.path, err)
	}
	s.doc = doc
	s.digest = sha256.Sum256(data)
	logger.SetDebug(doc.flag(PrefActivateDebugLogs))
	return nil
}

// Save writes the current document.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.doc)
}

// write replaces the file atomically and records its digest so the watch
// can tell this write from an external edit. Callers hold mu.
func (s *Store) write(doc Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	if err := renameio.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	s.digest = sha256.Sum256(data)
	return nil
}

// update applies fn to a copy of the document and saves it. The copy only
// becomes current once the write succeeded. fn reports whether anything
// changed; nothing is written otherwise.
func (s *Store) update(fn func(*Document) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc.Clone()
	changed, err := fn(&doc)
	if err != nil || !changed {
		return err
	}
	if err := s.write(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// Document returns a copy of the current document.
func (s *Store) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// List returns the profiles in stored order.
func (s *Store) List() []proxy.Profile {
	return s.Document().Profiles
}

// Get returns the profile called name.
func (s *Store) Get(name string) (proxy.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.doc.Index(name)
	if i < 0 {
		return proxy.Profile{}, false
	}
	return s.doc.Profiles[i].Clone(), true
}

// Upsert replaces the profile with the same name, or appends it.
func (s *Store) Upsert(p proxy.Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.Mode().IsNone() {
		return fmt.Errorf("profile %q: %w: a profile needs mode %s or %s", p.Name, proxy.ErrInvalidMode, proxy.ModeManual, proxy.ModeAuto)
	}
	return s.update(func(doc *Document) (bool, error) {
		if i := doc.Index(p.Name); i >= 0 {
			doc.Profiles[i] = p.Clone()
		} else {
			doc.Profiles = append(doc.Profiles, p.Clone())
		}
		return true, nil
	})
}

// Delete removes the profile called name and reports whether it existed.
func (s *Store) Delete(name string) (bool, error) {
	removed := false
	err := s.update(func(doc *Document) (bool, error) {
		i := doc.Index(name)
		if i < 0 {
			return false, nil
		}
		doc.Profiles = append(doc.Profiles[:i], doc.Profiles[i+1:]...)
		removed = true
		return true, nil
	})
	return removed && err == nil, err
}

// Move swaps the profile with its neighbor. direction is -1 (up) or +1
// (down). It returns false without writing when the profile is unknown or
// already at that end of the list.
func (s *Store) Move(name string, direction int) (bool, error) {
	if direction != -1 && direction != 1 {
		return false, fmt.Errorf("invalid move direction %d", direction)
	}
	moved := false
	err := s.update(func(doc *Document) (bool, error) {
		i := doc.Index(name)
		j := i + direction
		if i < 0 || j < 0 || j >= len(doc.Profiles) {
			return false, nil
		}
		doc.Profiles[i], doc.Profiles[j] = doc.Profiles[j], doc.Profiles[i]
		moved = true
		return true, nil
	})
	return moved && err == nil, err
}

// Preferences returns a copy of the stored preferences.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Preferences.clone()
}

// SetPreference assigns a preference from its textual form and saves.
func (s *Store) SetPreference(name, value string) error {
	err := s.update(func(doc *Document) (bool, error) {
		return true, doc.Preferences.Set(name, value)
	})
	if err == nil && name == PrefActivateDebugLogs {
		logger.SetDebug(s.ActivateDebugLogs())
	}
	return err
}

func (s *Store) setBool(name string, value bool) error {
	err := s.update(func(doc *Document) (bool, error) {
		return true, doc.Preferences.SetBool(name, value)
	})
	if err == nil && name == PrefActivateDebugLogs {
		logger.SetDebug(value)
	}
	return err
}

func (s *Store) ShowStatus() bool { return s.Preferences().flag(PrefShowStatus) }

func (s *Store) SetShowStatus(v bool) error { return s.setBool(PrefShowStatus, v) }

func (s *Store) ShowOpenSettingsFile() bool { return s.Preferences().flag(PrefShowOpenSettingsFile) }

func (s *Store) SetShowOpenSettingsFile(v bool) error {
	return s.setBool(PrefShowOpenSettingsFile, v)
}

func (s *Store) ShowOpenNetworkSettings() bool {
	return s.Preferences().flag(PrefShowOpenNetworkSettings)
}

func (s *Store) SetShowOpenNetworkSettings(v bool) error {
	return s.setBool(PrefShowOpenNetworkSettings, v)
}

func (s *Store) ShowProfilesAsSubMenu() bool {
	return s.Preferences().flag(PrefShowProfilesAsSubMenu)
}

func (s *Store) SetShowProfilesAsSubMenu(v bool) error {
	return s.setBool(PrefShowProfilesAsSubMenu, v)
}

func (s *Store) AutoActivateModeOnApplyProfile() bool {
	return s.Preferences().flag(PrefAutoActivateModeOnApplyProfile)
}

func (s *Store) SetAutoActivateModeOnApplyProfile(v bool) error {
	return s.setBool(PrefAutoActivateModeOnApplyProfile, v)
}

func (s *Store) ActivateDebugLogs() bool { return s.Preferences().flag(PrefActivateDebugLogs) }

func (s *Store) SetActivateDebugLogs(v bool) error { return s.setBool(PrefActivateDebugLogs, v) }

// Icon returns the icon path for kind, or the packaged default.
func (s *Store) Icon(kind IconKind) string { return s.Preferences().Icon(kind) }

// IconOrEmpty returns the configured icon path for kind, or "".
func (s *Store) IconOrEmpty(kind IconKind) string { return s.Preferences().IconOrEmpty(kind) }

// SetIcon stores the icon path for kind.
func (s *Store) SetIcon(kind IconKind, path string) error {
	return s.update(func(doc *Document) (bool, error) {
		return true, doc.Preferences.SetIcon(kind, path)
	})
}
