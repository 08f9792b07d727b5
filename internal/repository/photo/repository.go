package photo

import (
	"context"
	"time"

	"photoprint/internal/domain"
)

// Repository persists photo metadata. Owner-scoped reads never return
// soft-deleted photos and never reveal whether a photo exists under a
// different owner.
type Repository interface {
	Create(ctx context.Context, photo domain.Photo) error
	GetByOwner(ctx context.Context, owner domain.UserID, id domain.PhotoID) (*domain.Photo, error)
	ListByOwner(ctx context.Context, owner domain.UserID, limit, offset int) ([]domain.Photo, error)
	// ListDeletableByOwner returns the owner's photos eligible for manual
	// deletion: not locked by an order and not already deleted.
	ListDeletableByOwner(ctx context.Context, owner domain.UserID) ([]domain.Photo, error)

	// Lock claims every photo in ids for orderID. It is idempotent when a
	// photo is already held by the same order and fails with
	// domain.ErrAlreadyLocked, claiming nothing, when any photo is deleted,
	// missing or held by a different order.
	Lock(ctx context.Context, ids []domain.PhotoID, orderID domain.OrderID) error
	// Unlock releases photos held by orderID. Photos locked by other orders
	// are left untouched.
	Unlock(ctx context.Context, ids []domain.PhotoID, orderID domain.OrderID) error

	ScheduleDeletion(ctx context.Context, ids []domain.PhotoID, at time.Time) error
	// ListPurgeable returns photos whose scheduled deletion date has passed
	// and that have not been purged yet.
	ListPurgeable(ctx context.Context, before time.Time, limit int) ([]domain.Photo, error)
	MarkDeleted(ctx context.Context, id domain.PhotoID, at time.Time) error
}
