package prefs

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

// NullStore never stores anything. Every Get is a miss, so the typed
// helpers always return defaults.
type NullStore struct{}

func (NullStore) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }
func (NullStore) Set(ctx context.Context, key, value string) error          { return nil }
func (NullStore) Delete(ctx context.Context, key string) error              { return nil }
func (NullStore) Close() error                                              { return nil }

var _ Store = NullStore{}
