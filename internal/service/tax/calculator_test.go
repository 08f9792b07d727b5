package tax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoprint/internal/domain"
)

func TestAmountRoundsHalfUp(t *testing.T) {
	cases := []struct {
		name     string
		subtotal int64
		rateBps  int64
		want     int64
	}{
		{"massachusetts example", 550, 625, 34},
		{"exact cent", 1000, 625, 63},
		{"rounds down below half", 100, 40, 0},
		{"rounds up at half", 100, 50, 1},
		{"zero rate", 550, 0, 0},
		{"zero subtotal", 0, 625, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Amount(tc.subtotal, tc.rateBps))
		})
	}
}

func TestStaticCalculatorCompute(t *testing.T) {
	calc := NewStatic(DefaultRates())

	res, err := calc.Compute(context.Background(), 550, "MA")
	require.NoError(t, err)
	assert.Equal(t, int64(625), res.RateBps)
	assert.Equal(t, int64(34), res.TaxCents)
	assert.Equal(t, int64(584), res.TotalCents)
}

func TestStaticCalculatorNormalizesState(t *testing.T) {
	calc := NewStatic(DefaultRates())

	res, err := calc.Compute(context.Background(), 1000, " ma ")
	require.NoError(t, err)
	assert.Equal(t, int64(625), res.RateBps)
}

func TestStaticCalculatorUnknownState(t *testing.T) {
	calc := NewStatic(DefaultRates())

	_, err := calc.Compute(context.Background(), 1000, "ZZ")
	assert.ErrorIs(t, err, domain.ErrUnsupportedJurisdiction)
}

func TestStaticCalculatorZeroRateState(t *testing.T) {
	calc := NewStatic(DefaultRates())

	res, err := calc.Compute(context.Background(), 550, "NH")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TaxCents)
	assert.Equal(t, int64(550), res.TotalCents)
}
