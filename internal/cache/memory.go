package cache

import (
	"context"
	"maps"
	"slices"
)

// MemoryStore is a process-local [Store]. It forgets everything on exit.
type MemoryStore struct {
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	clear(m.entries)
	return nil
}

func (m *MemoryStore) Len(context.Context) (int, error) {
	return len(m.entries), nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	return slices.Sorted(maps.Keys(m.entries))
}
