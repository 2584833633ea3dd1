package settings

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu    sync.Mutex
	value string
}

// NewMemoryStore returns a store seeded with value; an empty seed means absent.
func NewMemoryStore(value string) *MemoryStore {
	return &MemoryStore{value: value}
}

func (m *MemoryStore) Get(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.value != "", nil
}

func (m *MemoryStore) Set(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	return nil
}
