package pricing

import (
	"context"

	"photoprint/internal/domain"
)

// Quote is a frozen price for one print size, taken from the catalog at the
// moment a cart line is created or updated. Lines keep the quoted price for
// their whole lifetime; later catalog edits never reprice an existing line.
type Quote struct {
	SizeCode       string
	DisplayName    string
	UnitPriceCents int64
	MinPixelWidth  int
	MinPixelHeight int
}

type catalog interface {
	GetByCode(ctx context.Context, sizeCode string) (*domain.PrintSize, error)
}

// Service is the only reader of mutable catalog prices on the ordering path.
type Service struct {
	catalog catalog
}

func New(catalog catalog) *Service {
	return &Service{catalog: catalog}
}

// Resolve snapshots the current price for sizeCode. Fails with
// domain.ErrNotFound for unknown codes and domain.ErrSizeInactive for sizes
// disabled for ordering.
func (s *Service) Resolve(ctx context.Context, sizeCode string) (Quote, error) {
	size, err := s.catalog.GetByCode(ctx, sizeCode)
	if err != nil {
		return Quote{}, err
	}
	if !size.Active {
		return Quote{}, domain.ErrSizeInactive
	}
	return Quote{
		SizeCode:       size.SizeCode,
		DisplayName:    size.DisplayName,
		UnitPriceCents: size.UnitPriceCents,
		MinPixelWidth:  size.MinPixelWidth,
		MinPixelHeight: size.MinPixelHeight,
	}, nil
}
