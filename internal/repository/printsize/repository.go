package printsize

import (
	"context"

	"photoprint/internal/domain"
)

// Repository is the print-size catalog. Mutations are admin operations; the
// ordering path only reads through GetByCode.
type Repository interface {
	Create(ctx context.Context, size domain.PrintSize) error
	Update(ctx context.Context, size domain.PrintSize) error
	SetActive(ctx context.Context, sizeCode string, active bool) error
	GetByCode(ctx context.Context, sizeCode string) (*domain.PrintSize, error)
	List(ctx context.Context, includeInactive bool) ([]domain.PrintSize, error)
}
