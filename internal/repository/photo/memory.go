package photo

import (
	"context"
	"sort"
	"sync"
	"time"

	"photoprint/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	photos map[domain.PhotoID]domain.Photo
}

// NewMemory returns an in-memory photo store for tests and local runs.
func NewMemory() Repository {
	return &memoryRepo{photos: make(map[domain.PhotoID]domain.Photo)}
}

func (r *memoryRepo) Create(_ context.Context, photo domain.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.photos[photo.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.photos[photo.ID] = photo
	return nil
}

func (r *memoryRepo) GetByOwner(_ context.Context, owner domain.UserID, id domain.PhotoID) (*domain.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	photo, ok := r.photos[id]
	if !ok || photo.OwnerID != owner || photo.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	return &photo, nil
}

func (r *memoryRepo) ListByOwner(_ context.Context, owner domain.UserID, limit, offset int) ([]domain.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	photos := r.collect(func(p domain.Photo) bool {
		return p.OwnerID == owner && p.DeletedAt == nil
	})
	if offset >= len(photos) {
		return nil, nil
	}
	photos = photos[offset:]
	if limit > 0 && limit < len(photos) {
		photos = photos[:limit]
	}
	return photos, nil
}

func (r *memoryRepo) ListDeletableByOwner(_ context.Context, owner domain.UserID) ([]domain.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(p domain.Photo) bool {
		return p.OwnerID == owner && p.Deletable()
	}), nil
}

func (r *memoryRepo) Lock(_ context.Context, ids []domain.PhotoID, orderID domain.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Check first so a failed claim leaves nothing locked.
	for _, id := range ids {
		photo, ok := r.photos[id]
		if !ok || photo.DeletedAt != nil {
			return domain.ErrAlreadyLocked
		}
		if photo.LockedByOrderID != nil && *photo.LockedByOrderID != orderID {
			return domain.ErrAlreadyLocked
		}
	}
	for _, id := range ids {
		photo := r.photos[id]
		lock := orderID
		photo.LockedByOrderID = &lock
		r.photos[id] = photo
	}
	return nil
}

func (r *memoryRepo) Unlock(_ context.Context, ids []domain.PhotoID, orderID domain.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		photo, ok := r.photos[id]
		if !ok || photo.LockedByOrderID == nil || *photo.LockedByOrderID != orderID {
			continue
		}
		photo.LockedByOrderID = nil
		r.photos[id] = photo
	}
	return nil
}

func (r *memoryRepo) ScheduleDeletion(_ context.Context, ids []domain.PhotoID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		photo, ok := r.photos[id]
		if !ok || photo.DeletedAt != nil {
			continue
		}
		when := at
		photo.ScheduledDelAt = &when
		r.photos[id] = photo
	}
	return nil
}

func (r *memoryRepo) ListPurgeable(_ context.Context, before time.Time, limit int) ([]domain.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	photos := r.collect(func(p domain.Photo) bool {
		return p.ScheduledDelAt != nil && !p.ScheduledDelAt.After(before) && p.DeletedAt == nil
	})
	if limit > 0 && limit < len(photos) {
		photos = photos[:limit]
	}
	return photos, nil
}

func (r *memoryRepo) MarkDeleted(_ context.Context, id domain.PhotoID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.photos[id]
	if !ok || photo.DeletedAt != nil {
		return domain.ErrNotFound
	}
	when := at
	photo.DeletedAt = &when
	r.photos[id] = photo
	return nil
}

func (r *memoryRepo) collect(keep func(domain.Photo) bool) []domain.Photo {
	var photos []domain.Photo
	for _, photo := range r.photos {
		if keep(photo) {
			photos = append(photos, photo)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})
	return photos
}
