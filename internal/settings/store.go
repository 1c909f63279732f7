// Package settings models the live system proxy configuration as a typed
// key/value store with per-key defaults and change subscriptions.
package settings

import (
	"sync"
)

// Store is the live proxy settings backend.
//
// Values are string, int32, bool or []string depending on the key's Kind.
// Get returns the schema default when the key has no override; Reset
// removes the override.
type Store interface {
	Get(key Key) (any, error)
	Set(key Key, value any) error
	Reset(key Key) error
	Default(key Key) (any, error)
	// Subscribe registers fn to run after key changes. The returned cancel
	// function is idempotent.
	Subscribe(key Key, fn func()) (cancel func(), err error)
	Close() error
}

// notifier fans change events out to per-key listeners. Listeners are
// called without the lock held so they may read or write the store.
type notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[Key]map[int]func()
}

func (n *notifier) subscribe(key Key, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[Key]map[int]func())
	}
	if n.listeners[key] == nil {
		n.listeners[key] = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.listeners[key], id)
		})
	}
}

func (n *notifier) notify(key Key) {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners[key]))
	for _, fn := range n.listeners[key] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (n *notifier) hasListeners() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range n.listeners {
		if len(m) > 0 {
			return true
		}
	}
	return false
}

func (n *notifier) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = nil
}
