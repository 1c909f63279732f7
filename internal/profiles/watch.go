package profiles

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/massamany/proxyprofiles/internal/logger"
)

// Subscribe registers fn to run after the file was changed by another
// program. Listeners run without the store lock, so they may read or
// mutate the store.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) listeners() []func() {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = s.subs[id]
	}
	return fns
}

// Refresh re-reads the file and notifies subscribers when its content
// differs from what was last loaded or saved. Writes made by this store
// are therefore never reported.
//
// The read happens under the store lock so a concurrent save cannot land
// between reading the file and replacing the document.
func (s *Store) Refresh() (bool, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %w", ErrConfigRead, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		// Truncated mid-write; the next event carries the content.
		s.mu.Unlock()
		return false, nil
	}
	sum := sha256.Sum256(data)
	if sum == s.digest {
		s.mu.Unlock()
		return false, nil
	}
	doc, err := ParseDocument(data)
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s: %w", ErrConfigRead, s.path, err)
	}
	s.doc = doc
	s.digest = sum
	fns := s.listeners()
	s.mu.Unlock()

	logger.Log.Debugf("profiles file %s changed", s.path)
	logger.SetDebug(doc.flag(PrefActivateDebugLogs))
	for _, fn := range fns {
		fn()
	}
	return true, nil
}

// Watch follows edits to the file until ctx is done or Close is called.
// The parent directory is watched so that editors replacing the file by
// rename are seen too.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	s.mu.Lock()
	if s.watcher != nil {
		s.mu.Unlock()
		w.Close()
		return errors.New("profiles file is already watched")
	}
	s.watcher = w
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.watchLoop(ctx, w, done)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, done chan struct{}) {
	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			s.stopWatch(w)
			return
		case <-done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if _, err := s.Refresh(); err != nil {
				logger.Log.Errorf("reloading profiles: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Log.Warnf("watching %s: %v", s.path, err)
		}
	}
}

// stopWatch releases w if it is still the active watcher.
func (s *Store) stopWatch(w *fsnotify.Watcher) {
	s.mu.Lock()
	if s.watcher != w {
		s.mu.Unlock()
		return
	}
	close(s.done)
	s.watcher = nil
	s.mu.Unlock()
	w.Close()
}

// Close stops the watch and drops every listener.
func (s *Store) Close() error {
	s.mu.Lock()
	w := s.watcher
	if w != nil {
		close(s.done)
		s.watcher = nil
	}
	clear(s.subs)
	s.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}
