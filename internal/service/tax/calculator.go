package tax

import (
	"context"
	"strings"

	"photoprint/internal/domain"
)

// Result is the authoritative tax for an order. Rates are basis points of
// the subtotal; amounts are integer cents.
type Result struct {
	RateBps    int64
	TaxCents   int64
	TotalCents int64
}

// Calculator computes sales tax for a subtotal shipped to a US state.
type Calculator interface {
	Compute(ctx context.Context, subtotalCents int64, stateCode string) (Result, error)
}

// Amount applies a basis-point rate to a subtotal, rounding half-up to the
// nearest cent.
func Amount(subtotalCents, rateBps int64) int64 {
	return (subtotalCents*rateBps + 5000) / 10000
}

// StaticCalculator resolves rates from a fixed per-state table. States
// without an entry fail with domain.ErrUnsupportedJurisdiction.
type StaticCalculator struct {
	rates map[string]int64
}

// NewStatic builds a calculator over the given state -> basis points table.
func NewStatic(rates map[string]int64) *StaticCalculator {
	normalized := make(map[string]int64, len(rates))
	for state, bps := range rates {
		normalized[strings.ToUpper(strings.TrimSpace(state))] = bps
	}
	return &StaticCalculator{rates: normalized}
}

// DefaultRates is the built-in state table used when no external rate feed
// is configured.
func DefaultRates() map[string]int64 {
	return map[string]int64{
		"MA": 625,
		"CA": 725,
		"NY": 400,
		"TX": 625,
		"WA": 650,
		"FL": 600,
		"NH": 0,
		"OR": 0,
	}
}

func (c *StaticCalculator) Compute(_ context.Context, subtotalCents int64, stateCode string) (Result, error) {
	bps, ok := c.rates[strings.ToUpper(strings.TrimSpace(stateCode))]
	if !ok {
		return Result{}, domain.ErrUnsupportedJurisdiction
	}
	taxCents := Amount(subtotalCents, bps)
	return Result{
		RateBps:    bps,
		TaxCents:   taxCents,
		TotalCents: subtotalCents + taxCents,
	}, nil
}
