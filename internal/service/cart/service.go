package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photoprint/internal/domain"
	"photoprint/internal/service/pricing"
	"photoprint/internal/service/tax"
)

// MaxQuantity bounds prints per cart line.
const MaxQuantity = 1000

type cartRepo interface {
	GetByOwner(ctx context.Context, owner domain.UserID) (*domain.Cart, error)
	UpsertLine(ctx context.Context, owner domain.UserID, line domain.CartLine) error
	RemoveLine(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, sizeCode string) error
	ReplaceLinesForPhoto(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, lines []domain.CartLine) error
	Clear(ctx context.Context, owner domain.UserID) error
	DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

type photoRepo interface {
	GetByOwner(ctx context.Context, owner domain.UserID, id domain.PhotoID) (*domain.Photo, error)
}

type priceResolver interface {
	Resolve(ctx context.Context, sizeCode string) (pricing.Quote, error)
}

// Service owns cart mutations and the display rollup. Prices enter a cart
// exactly once, through the pricing resolver, at line write time.
type Service struct {
	repo           cartRepo
	photos         photoRepo
	pricing        priceResolver
	estimateTaxBps int64
}

func New(repo cartRepo, photos photoRepo, pricing priceResolver, estimateTaxBps int64) *Service {
	return &Service{repo: repo, photos: photos, pricing: pricing, estimateTaxBps: estimateTaxBps}
}

// LineInput is one requested (size, quantity) selection for a photo.
type LineInput struct {
	SizeCode string `json:"sizeCode"`
	Quantity int    `json:"quantity"`
}

// Get returns the owner's cart; an owner who has never written a line gets
// an empty cart rather than an error.
func (s *Service) Get(ctx context.Context, owner domain.UserID) (*domain.Cart, error) {
	cart, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Cart{OwnerID: owner}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddOrUpdateLine inserts or replaces the line for (photoID, sizeCode) with
// a freshly quoted unit price and a recomputed line total.
func (s *Service) AddOrUpdateLine(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, sizeCode string, quantity int) (*domain.Cart, error) {
	line, err := s.buildLine(ctx, owner, photoID, LineInput{SizeCode: sizeCode, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertLine(ctx, owner, line); err != nil {
		return nil, err
	}
	return s.repo.GetByOwner(ctx, owner)
}

// RemoveLine drops the line for (photoID, sizeCode).
func (s *Service) RemoveLine(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, sizeCode string) (*domain.Cart, error) {
	if err := s.repo.RemoveLine(ctx, owner, photoID, sizeCode); err != nil {
		return nil, err
	}
	return s.repo.GetByOwner(ctx, owner)
}

// ReplaceAllLinesForPhoto swaps every selection for the photo. An empty
// inputs slice removes the photo from the cart entirely.
func (s *Service) ReplaceAllLinesForPhoto(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, inputs []LineInput) (*domain.Cart, error) {
	lines := make([]domain.CartLine, 0, len(inputs))
	for _, in := range inputs {
		line, err := s.buildLine(ctx, owner, photoID, in)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := s.repo.ReplaceLinesForPhoto(ctx, owner, photoID, lines); err != nil {
		return nil, err
	}
	return s.repo.GetByOwner(ctx, owner)
}

// Summarize computes the display rollup. Tax here is an estimate at the
// configured default rate; the authoritative rate is only known at order
// creation, once a shipping address is present.
func (s *Service) Summarize(ctx context.Context, owner domain.UserID) (domain.CartSummary, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return domain.CartSummary{}, err
	}
	summary := domain.CartSummary{
		PhotoCount:      len(cart.PhotoIDs()),
		SubtotalCents:   cart.SubtotalCents(),
		EstimatedTaxBps: s.estimateTaxBps,
	}
	for _, line := range cart.Lines {
		summary.PrintCount += line.Quantity
	}
	summary.EstimatedTaxCents = tax.Amount(summary.SubtotalCents, s.estimateTaxBps)
	summary.EstimatedTotal = summary.SubtotalCents + summary.EstimatedTaxCents
	return summary, nil
}

// Clear empties the cart. Called after a successful order creation.
func (s *Service) Clear(ctx context.Context, owner domain.UserID) error {
	return s.repo.Clear(ctx, owner)
}

// ExpireIdle deletes carts untouched since before cutoff and reports the
// count. Orders are unaffected.
func (s *Service) ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteIdle(ctx, cutoff)
}

func (s *Service) buildLine(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, in LineInput) (domain.CartLine, error) {
	if in.Quantity < 1 || in.Quantity > MaxQuantity {
		return domain.CartLine{}, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrValidation, MaxQuantity)
	}
	photo, err := s.photos.GetByOwner(ctx, owner, photoID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if photo.Locked() {
		return domain.CartLine{}, domain.ErrPhotoLocked
	}
	quote, err := s.pricing.Resolve(ctx, in.SizeCode)
	if err != nil {
		return domain.CartLine{}, err
	}
	size := domain.PrintSize{MinPixelWidth: quote.MinPixelWidth, MinPixelHeight: quote.MinPixelHeight}
	if !size.FitsDimensions(photo.WidthPx, photo.HeightPx) {
		return domain.CartLine{}, fmt.Errorf("%w: photo resolution too low for %s", domain.ErrValidation, quote.SizeCode)
	}
	return domain.CartLine{
		PhotoID:        photoID,
		SizeCode:       quote.SizeCode,
		SizeName:       quote.DisplayName,
		Quantity:       in.Quantity,
		UnitPriceCents: quote.UnitPriceCents,
		TotalCents:     int64(in.Quantity) * quote.UnitPriceCents,
	}, nil
}
