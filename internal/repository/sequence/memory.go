package sequence

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory returns an in-memory counter store for tests and local runs.
func NewMemory() Repository {
	return &memoryRepo{counters: make(map[string]int64)}
}

func (r *memoryRepo) AtomicIncrement(_ context.Context, scopeKey string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[scopeKey]++
	return r.counters[scopeKey], nil
}
