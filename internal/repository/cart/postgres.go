package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"photoprint/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByOwner(ctx context.Context, owner domain.UserID) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, owner_id, updated_at
FROM carts
WHERE owner_id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, string(owner)).Scan(&cart.ID, &cart.OwnerID, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT photo_id::text, size_code, size_name, quantity, unit_price_cents, total_cents
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, string(cart.ID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.PhotoID,
			&line.SizeCode,
			&line.SizeName,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) UpsertLine(ctx context.Context, owner domain.UserID, line domain.CartLine) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureCart(ctx, tx, owner)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO cart_lines (cart_id, photo_id, size_code, size_name, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (cart_id, photo_id, size_code)
DO UPDATE SET size_name = EXCLUDED.size_name,
              quantity = EXCLUDED.quantity,
              unit_price_cents = EXCLUDED.unit_price_cents,
              total_cents = EXCLUDED.total_cents
`
	if _, err := tx.Exec(ctx, q,
		cartID, string(line.PhotoID), line.SizeCode, line.SizeName,
		line.Quantity, line.UnitPriceCents, line.TotalCents,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, sizeCode string) error {
	const q = `
DELETE FROM cart_lines
WHERE cart_id = (SELECT id FROM carts WHERE owner_id = $1)
  AND photo_id = $2 AND size_code = $3
`
	cmd, err := r.pool.Exec(ctx, q, string(owner), string(photoID), sizeCode)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.touch(ctx, owner)
}

func (r *postgresRepo) ReplaceLinesForPhoto(ctx context.Context, owner domain.UserID, photoID domain.PhotoID, lines []domain.CartLine) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureCart(ctx, tx, owner)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND photo_id = $2
`, cartID, string(photoID)); err != nil {
		return err
	}

	for _, line := range lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, photo_id, size_code, size_name, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, cartID, string(line.PhotoID), line.SizeCode, line.SizeName,
			line.Quantity, line.UnitPriceCents, line.TotalCents,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, owner domain.UserID) error {
	const q = `
DELETE FROM cart_lines
WHERE cart_id = (SELECT id FROM carts WHERE owner_id = $1)
`
	if _, err := r.pool.Exec(ctx, q, string(owner)); err != nil {
		return err
	}
	return r.touch(ctx, owner)
}

func (r *postgresRepo) DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	// cart_lines rows go with the cart via ON DELETE CASCADE.
	const q = `
DELETE FROM carts
WHERE updated_at < $1
`
	cmd, err := r.pool.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *postgresRepo) touch(ctx context.Context, owner domain.UserID) error {
	_, err := r.pool.Exec(ctx, `
UPDATE carts SET updated_at = now() WHERE owner_id = $1
`, string(owner))
	return err
}

// ensureCart creates the owner's cart row on first use and always bumps the
// last-modified timestamp.
func ensureCart(ctx context.Context, tx pgx.Tx, owner domain.UserID) (string, error) {
	const q = `
INSERT INTO carts (owner_id)
VALUES ($1)
ON CONFLICT (owner_id) DO UPDATE SET updated_at = now()
RETURNING id::text
`
	var cartID string
	if err := tx.QueryRow(ctx, q, string(owner)).Scan(&cartID); err != nil {
		return "", err
	}
	return cartID, nil
}
