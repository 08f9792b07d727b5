package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type sizeSeed struct {
	Code           string
	DisplayName    string
	UnitPriceCents int64
	MinPixelWidth  int
	MinPixelHeight int
}

// Apply inserts the default print size catalog. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	sizes := []sizeSeed{
		{Code: "4x6", DisplayName: "4\" x 6\"", UnitPriceCents: 25, MinPixelWidth: 800, MinPixelHeight: 1200},
		{Code: "5x7", DisplayName: "5\" x 7\"", UnitPriceCents: 79, MinPixelWidth: 1000, MinPixelHeight: 1400},
		{Code: "8x10", DisplayName: "8\" x 10\"", UnitPriceCents: 300, MinPixelWidth: 1600, MinPixelHeight: 2000},
		{Code: "11x14", DisplayName: "11\" x 14\"", UnitPriceCents: 750, MinPixelWidth: 2200, MinPixelHeight: 2800},
		{Code: "16x20", DisplayName: "16\" x 20\"", UnitPriceCents: 1799, MinPixelWidth: 3200, MinPixelHeight: 4000},
	}

	for _, s := range sizes {
		if err := upsertSize(ctx, pool, s); err != nil {
			return fmt.Errorf("upsert print size %s: %w", s.Code, err)
		}
	}

	return nil
}

func upsertSize(ctx context.Context, pool *pgxpool.Pool, s sizeSeed) error {
	const q = `
INSERT INTO print_sizes (size_code, display_name, unit_price_cents, active, min_pixel_width, min_pixel_height)
VALUES ($1, $2, $3, true, $4, $5)
ON CONFLICT (size_code) DO UPDATE SET
    display_name = EXCLUDED.display_name,
    unit_price_cents = EXCLUDED.unit_price_cents,
    min_pixel_width = EXCLUDED.min_pixel_width,
    min_pixel_height = EXCLUDED.min_pixel_height,
    updated_at = now()
`

	_, err := pool.Exec(ctx, q, s.Code, s.DisplayName, s.UnitPriceCents, s.MinPixelWidth, s.MinPixelHeight)
	return err
}
