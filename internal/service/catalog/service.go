package catalog

import (
	"context"
	"fmt"
	"strings"

	"photoprint/internal/domain"
	printsizerepo "photoprint/internal/repository/printsize"
)

// Service is the admin surface of the print-size catalog. The ordering path
// never touches this; it reads prices only through the pricing snapshot.
type Service struct {
	repo printsizerepo.Repository
}

func New(repo printsizerepo.Repository) *Service {
	return &Service{repo: repo}
}

// Input describes a print size to create or update.
type Input struct {
	SizeCode       string `json:"sizeCode"`
	DisplayName    string `json:"displayName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Active         bool   `json:"active"`
	MinPixelWidth  int    `json:"minPixelWidth"`
	MinPixelHeight int    `json:"minPixelHeight"`
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.PrintSize, error) {
	size, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, size); err != nil {
		return nil, err
	}
	return s.repo.GetByCode(ctx, size.SizeCode)
}

func (s *Service) Update(ctx context.Context, in Input) (*domain.PrintSize, error) {
	size, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, size); err != nil {
		return nil, err
	}
	return s.repo.GetByCode(ctx, size.SizeCode)
}

func (s *Service) SetActive(ctx context.Context, sizeCode string, active bool) error {
	return s.repo.SetActive(ctx, sizeCode, active)
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]domain.PrintSize, error) {
	return s.repo.List(ctx, includeInactive)
}

func fromInput(in Input) (domain.PrintSize, error) {
	code := strings.TrimSpace(in.SizeCode)
	if code == "" {
		return domain.PrintSize{}, fmt.Errorf("%w: size code required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return domain.PrintSize{}, fmt.Errorf("%w: display name required", domain.ErrValidation)
	}
	if in.UnitPriceCents <= 0 {
		return domain.PrintSize{}, fmt.Errorf("%w: unit price must be positive", domain.ErrValidation)
	}
	if in.MinPixelWidth < 0 || in.MinPixelHeight < 0 {
		return domain.PrintSize{}, fmt.Errorf("%w: minimum dimensions must not be negative", domain.ErrValidation)
	}
	return domain.PrintSize{
		SizeCode:       code,
		DisplayName:    strings.TrimSpace(in.DisplayName),
		UnitPriceCents: in.UnitPriceCents,
		Active:         in.Active,
		MinPixelWidth:  in.MinPixelWidth,
		MinPixelHeight: in.MinPixelHeight,
	}, nil
}
