package blob

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]int64
}

func NewMemory() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]int64)}
}

// Put records a blob of the given size under ref.
func (s *MemoryStore) Put(ref string, sizeBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = sizeBytes
}

func (s *MemoryStore) Exists(_ context.Context, ref string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[ref]
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, ref string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	size, ok := s.blobs[ref]
	if !ok {
		return 0, ErrNotFound
	}
	delete(s.blobs, ref)
	return size, nil
}
