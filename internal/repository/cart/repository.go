package cart

import (
	"context"
	"time"

	"photoprint/internal/domain"
)

// Repository persists one cart per owner, created lazily on the first line
// write. Line mutations recompute the line total from the frozen unit price
// and bump the cart's last-modified timestamp.
type Repository interface {
	// GetByOwner returns the owner's cart, or domain.ErrNotFound if none has
	// been created yet.
	GetByOwner(ctx context.Context, owner domain.UserID) (*domain.Cart, error)
	// UpsertLine inserts or replaces the line keyed by (photo, size code).
	UpsertLine(ctx context.Context, owner domain.UserID, line domain.CartLine) error
	RemoveLine(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, sizeCode string) error
	// ReplaceLinesForPhoto swaps every line for the photo with lines; an
	// empty slice removes the photo from the cart entirely.
	ReplaceLinesForPhoto(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, lines []domain.CartLine) error
	Clear(ctx context.Context, owner domain.UserID) error
	// DeleteIdle removes carts untouched since before cutoff and reports how
	// many were deleted.
	DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error)
}
