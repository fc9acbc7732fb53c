package localstorage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store for tests and the CLI dry-run path.
// SetErr, when non-nil, is returned from every SetItem to simulate a failing disk.
type MemoryStore struct {
	mu     sync.Mutex
	items  map[string]map[string]string
	sets   int
	SetErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]map[string]string)}
}

// GetItem implements Store.
func (m *MemoryStore) GetItem(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[scope][key]
	return v, ok, nil
}

// SetItem implements Store.
func (m *MemoryStore) SetItem(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	if len(value) > MaxValueBytes {
		return fmt.Errorf("set %s/%s: %w", scope, key, ErrQuotaExceeded)
	}
	if m.items[scope] == nil {
		m.items[scope] = make(map[string]string)
	}
	m.items[scope][key] = value
	return nil
}

// RemoveItem implements Store.
func (m *MemoryStore) RemoveItem(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[scope], key)
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, scope)
	return nil
}

// SetCalls returns how many times SetItem was called, including failed calls.
func (m *MemoryStore) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
