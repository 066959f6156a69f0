package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

const memoryBackend = "memory"

// MemoryStore keeps dashboards in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryEntry
}

type memoryEntry struct {
	info Info
	body []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (dashboard.Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return dashboard.Document{}, err
	}
	s.mu.RLock()
	e, ok := s.docs[name]
	s.mu.RUnlock()

	observability.Store().OnRead(ctx, memoryBackend, name, ok)
	if !ok {
		return dashboard.Document{}, notFound(name)
	}
	return decode(name, e.body)
}

func (s *MemoryStore) Put(ctx context.Context, name string, doc dashboard.Document) error {
	body, info, err := encode(name, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[name] = memoryEntry{info: info, body: body}
	s.mu.Unlock()

	observability.Store().OnWrite(ctx, memoryBackend, name, len(body))
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return notFound(name)
	}
	delete(s.docs, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.docs))
	for _, e := range s.docs {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
