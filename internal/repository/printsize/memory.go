package printsize

import (
	"context"
	"sort"
	"sync"
	"time"

	"photoprint/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	sizes map[string]domain.PrintSize
}

// NewMemory returns an in-memory catalog for tests and local runs.
func NewMemory() Repository {
	return &memoryRepo{sizes: make(map[string]domain.PrintSize)}
}

func (r *memoryRepo) Create(_ context.Context, size domain.PrintSize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sizes[size.SizeCode]; exists {
		return domain.ErrAlreadyExists
	}
	now := time.Now()
	size.CreatedAt = now
	size.UpdatedAt = now
	r.sizes[size.SizeCode] = size
	return nil
}

func (r *memoryRepo) Update(_ context.Context, size domain.PrintSize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.sizes[size.SizeCode]
	if !ok {
		return domain.ErrNotFound
	}
	size.CreatedAt = existing.CreatedAt
	size.UpdatedAt = time.Now()
	r.sizes[size.SizeCode] = size
	return nil
}

func (r *memoryRepo) SetActive(_ context.Context, sizeCode string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	size, ok := r.sizes[sizeCode]
	if !ok {
		return domain.ErrNotFound
	}
	size.Active = active
	size.UpdatedAt = time.Now()
	r.sizes[sizeCode] = size
	return nil
}

func (r *memoryRepo) GetByCode(_ context.Context, sizeCode string) (*domain.PrintSize, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	size, ok := r.sizes[sizeCode]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &size, nil
}

func (r *memoryRepo) List(_ context.Context, includeInactive bool) ([]domain.PrintSize, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sizes := make([]domain.PrintSize, 0, len(r.sizes))
	for _, size := range r.sizes {
		if !includeInactive && !size.Active {
			continue
		}
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].UnitPriceCents < sizes[j].UnitPriceCents })
	return sizes, nil
}
