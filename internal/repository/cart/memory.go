package cart

import (
	"context"
	"sync"
	"time"

	"photoprint/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	carts map[domain.UserID]*domain.Cart
}

// NewMemory returns an in-memory cart store for tests and local runs.
func NewMemory() Repository {
	return &memoryRepo{carts: make(map[domain.UserID]*domain.Cart)}
}

func (r *memoryRepo) GetByOwner(_ context.Context, owner domain.UserID) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[owner]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyCart(cart), nil
}

func (r *memoryRepo) UpsertLine(_ context.Context, owner domain.UserID, line domain.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.ensure(owner)
	for i, existing := range cart.Lines {
		if existing.PhotoID == line.PhotoID && existing.SizeCode == line.SizeCode {
			cart.Lines[i] = line
			return nil
		}
	}
	cart.Lines = append(cart.Lines, line)
	return nil
}

func (r *memoryRepo) RemoveLine(_ context.Context, owner domain.UserID, photoID domain.PhotoID, sizeCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[owner]
	if !ok {
		return domain.ErrNotFound
	}
	for i, line := range cart.Lines {
		if line.PhotoID == photoID && line.SizeCode == sizeCode {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			cart.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryRepo) ReplaceLinesForPhoto(_ context.Context, owner domain.UserID, photoID domain.PhotoID, lines []domain.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.ensure(owner)
	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.PhotoID != photoID {
			kept = append(kept, line)
		}
	}
	cart.Lines = append(kept, lines...)
	return nil
}

func (r *memoryRepo) Clear(_ context.Context, owner domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart, ok := r.carts[owner]; ok {
		cart.Lines = nil
		cart.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memoryRepo) DeleteIdle(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for owner, cart := range r.carts {
		if cart.UpdatedAt.Before(cutoff) {
			delete(r.carts, owner)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memoryRepo) ensure(owner domain.UserID) *domain.Cart {
	cart, ok := r.carts[owner]
	if !ok {
		cart = &domain.Cart{ID: domain.NewCartID(), OwnerID: owner}
		r.carts[owner] = cart
	}
	cart.UpdatedAt = time.Now()
	return cart
}

func copyCart(cart *domain.Cart) *domain.Cart {
	out := *cart
	out.Lines = append([]domain.CartLine(nil), cart.Lines...)
	return &out
}
