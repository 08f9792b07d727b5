package order

import (
	"context"
	"time"

	"photoprint/internal/domain"
)

// StatusUpdate carries one transition's writes. The update only applies if
// the stored status still equals From, so two admins racing to advance the
// same order cannot both succeed.
type StatusUpdate struct {
	From domain.OrderStatus
	To   domain.OrderStatus
	Note string
	At   time.Time

	// Set on entering payment_verified.
	PaymentVerifiedAt *time.Time
	// Set on entering completed.
	ShippedAt      *time.Time
	TrackingNumber *string
	CompletedAt    *time.Time
}

// Repository persists orders. Orders are append-only apart from the status
// fields: Delete exists solely to roll back a creation whose photo locking
// failed, before the order was ever visible.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	GetByOwner(ctx context.Context, owner domain.UserID, id domain.OrderID) (*domain.Order, error)
	ListByOwner(ctx context.Context, owner domain.UserID, limit, offset int) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Order, error)
	// UpdateStatus applies upd conditionally and returns the refreshed
	// order, or domain.ErrInvalidTransition if the stored status no longer
	// matches upd.From.
	UpdateStatus(ctx context.Context, id domain.OrderID, upd StatusUpdate) (*domain.Order, error)
	Delete(ctx context.Context, id domain.OrderID) error
}
