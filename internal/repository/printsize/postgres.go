package printsize

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"photoprint/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, size domain.PrintSize) error {
	const q = `
INSERT INTO print_sizes (size_code, display_name, unit_price_cents, active, min_pixel_width, min_pixel_height)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.pool.Exec(ctx, q,
		size.SizeCode, size.DisplayName, size.UnitPriceCents, size.Active,
		size.MinPixelWidth, size.MinPixelHeight,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *postgresRepo) Update(ctx context.Context, size domain.PrintSize) error {
	const q = `
UPDATE print_sizes
SET display_name = $2,
    unit_price_cents = $3,
    active = $4,
    min_pixel_width = $5,
    min_pixel_height = $6,
    updated_at = now()
WHERE size_code = $1
`
	cmd, err := r.pool.Exec(ctx, q,
		size.SizeCode, size.DisplayName, size.UnitPriceCents, size.Active,
		size.MinPixelWidth, size.MinPixelHeight,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetActive(ctx context.Context, sizeCode string, active bool) error {
	const q = `
UPDATE print_sizes
SET active = $2, updated_at = now()
WHERE size_code = $1
`
	cmd, err := r.pool.Exec(ctx, q, sizeCode, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, sizeCode string) (*domain.PrintSize, error) {
	const q = `
SELECT size_code, display_name, unit_price_cents, active, min_pixel_width, min_pixel_height, created_at, updated_at
FROM print_sizes
WHERE size_code = $1
`
	var size domain.PrintSize
	err := r.pool.QueryRow(ctx, q, sizeCode).Scan(
		&size.SizeCode,
		&size.DisplayName,
		&size.UnitPriceCents,
		&size.Active,
		&size.MinPixelWidth,
		&size.MinPixelHeight,
		&size.CreatedAt,
		&size.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &size, nil
}

func (r *postgresRepo) List(ctx context.Context, includeInactive bool) ([]domain.PrintSize, error) {
	q := `
SELECT size_code, display_name, unit_price_cents, active, min_pixel_width, min_pixel_height, created_at, updated_at
FROM print_sizes
`
	if !includeInactive {
		q += "WHERE active\n"
	}
	q += "ORDER BY unit_price_cents ASC"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []domain.PrintSize
	for rows.Next() {
		var size domain.PrintSize
		if err := rows.Scan(
			&size.SizeCode,
			&size.DisplayName,
			&size.UnitPriceCents,
			&size.Active,
			&size.MinPixelWidth,
			&size.MinPixelHeight,
			&size.CreatedAt,
			&size.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return sizes, rows.Err()
}
