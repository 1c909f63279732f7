package settings

import (
	"sync"
)

// MemoryStore keeps overrides in memory. It backs tests and dry runs.
type MemoryStore struct {
	mu        sync.Mutex
	overrides map[Key]any
	notifier
}

// NewMemoryStore returns an empty store where every key reads its default.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{overrides: make(map[Key]any)}
}

func (m *MemoryStore) Get(key Key) (any, error) {
	def, err := DefaultValue(key)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.overrides[key]; ok {
		return copyValue(v), nil
	}
	return def, nil
}

func (m *MemoryStore) Set(key Key, value any) error {
	if err := CheckValue(key, value); err != nil {
		return err
	}
	m.mu.Lock()
	m.overrides[key] = copyValue(value)
	m.mu.Unlock()
	m.notify(key)
	return nil
}

func (m *MemoryStore) Reset(key Key) error {
	if _, err := key.Kind(); err != nil {
		return err
	}
	m.mu.Lock()
	_, had := m.overrides[key]
	delete(m.overrides, key)
	m.mu.Unlock()
	if had {
		m.notify(key)
	}
	return nil
}

func (m *MemoryStore) Default(key Key) (any, error) {
	return DefaultValue(key)
}

func (m *MemoryStore) Subscribe(key Key, fn func()) (func(), error) {
	if _, err := key.Kind(); err != nil {
		return nil, err
	}
	return m.subscribe(key, fn), nil
}

// IsSet reports whether key carries an override.
func (m *MemoryStore) IsSet(key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.overrides[key]
	return ok
}

func (m *MemoryStore) Close() error {
	m.clear()
	return nil
}
