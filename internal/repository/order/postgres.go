package order

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

const orderColumns = `id::text, order_number, owner_id, ship_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code,
payment_method, payment_branch, payment_status, status, subtotal_cents, tax_rate_bps, tax_amount_cents, total_cents,
created_at, payment_verified_at, shipped_at, completed_at, tracking_number`

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (id, order_number, owner_id, ship_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code,
                    payment_method, payment_branch, payment_status, status, subtotal_cents, tax_rate_bps, tax_amount_cents, total_cents, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
`
	addr := o.ShippingAddress
	if _, err := tx.Exec(ctx, q,
		string(o.ID), o.Number, string(o.OwnerID),
		addr.Name, addr.Line1, addr.Line2, addr.City, addr.State, addr.PostalCode,
		string(o.PaymentMethod), o.PaymentBranch, string(o.PaymentStatus), string(o.Status),
		o.SubtotalCents, o.TaxRateBps, o.TaxAmountCents, o.TotalCents, o.CreatedAt,
	); err != nil {
		return err
	}

	for i, line := range o.Lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, position, photo_id, size_code, size_name, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, string(o.ID), i, string(line.PhotoID), line.SizeCode, line.SizeName,
			line.Quantity, line.UnitPriceCents, line.TotalCents,
		); err != nil {
			return err
		}
	}

	for _, note := range o.Notes {
		if err := insertNote(ctx, tx, o.ID, note); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	return r.fetchOne(ctx, q, string(id))
}

func (r *postgresRepo) GetByOwner(ctx context.Context, owner domain.UserID, id domain.OrderID) (*domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE owner_id = $1 AND id = $2
`
	return r.fetchOne(ctx, q, string(owner), string(id))
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner domain.UserID, limit, offset int) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
	return r.fetchMany(ctx, q, string(owner), limit, offset)
}

func (r *postgresRepo) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE status = $1
ORDER BY created_at ASC
LIMIT $2 OFFSET $3
`
	return r.fetchMany(ctx, q, string(status), limit, offset)
}

func (r *postgresRepo) ListCreatedBetween(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE created_at >= $1 AND created_at < $2
ORDER BY created_at ASC
LIMIT $3 OFFSET $4
`
	return r.fetchMany(ctx, q, from, to, limit, offset)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id domain.OrderID, upd StatusUpdate) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Conditional write: the transition only lands if the stored status is
	// still the expected "from" state.
	const q = `
UPDATE orders
SET status = $3,
    payment_verified_at = COALESCE($4::timestamptz, payment_verified_at),
    payment_status = CASE WHEN $4::timestamptz IS NOT NULL THEN 'verified' ELSE payment_status END,
    shipped_at = COALESCE($5::timestamptz, shipped_at),
    completed_at = COALESCE($6::timestamptz, completed_at),
    tracking_number = COALESCE($7::text, tracking_number)
WHERE id = $1 AND status = $2
`
	cmd, err := tx.Exec(ctx, q,
		string(id), string(upd.From), string(upd.To),
		upd.PaymentVerifiedAt, upd.ShippedAt, upd.CompletedAt, upd.TrackingNumber,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrInvalidTransition
	}

	if err := insertNote(ctx, tx, id, domain.StatusNote{Status: upd.To, Note: upd.Note, CreatedAt: upd.At}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id domain.OrderID) error {
	// order_lines and order_status_notes cascade.
	_, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, string(id))
	return err
}

func insertNote(ctx context.Context, tx pgx.Tx, id domain.OrderID, note domain.StatusNote) error {
	_, err := tx.Exec(ctx, `
INSERT INTO order_status_notes (order_id, status, note, created_at)
VALUES ($1, $2, $3, $4)
`, string(id), string(note.Status), note.Note, note.CreatedAt)
	return err
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, args ...interface{}) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	if err := r.loadNotes(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) loadLines(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT photo_id::text, size_code, size_name, quantity, unit_price_cents, total_cents
FROM order_lines
WHERE order_id = $1
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, q, string(o.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.PhotoID,
			&line.SizeCode,
			&line.SizeName,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
		); err != nil {
			return err
		}
		o.Lines = append(o.Lines, line)
	}
	return rows.Err()
}

func (r *postgresRepo) loadNotes(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT status, note, created_at
FROM order_status_notes
WHERE order_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q, string(o.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var note domain.StatusNote
		if err := rows.Scan(&note.Status, &note.Note, &note.CreatedAt); err != nil {
			return err
		}
		o.Notes = append(o.Notes, note)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.Number,
		&o.OwnerID,
		&o.ShippingAddress.Name,
		&o.ShippingAddress.Line1,
		&o.ShippingAddress.Line2,
		&o.ShippingAddress.City,
		&o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode,
		&o.PaymentMethod,
		&o.PaymentBranch,
		&o.PaymentStatus,
		&o.Status,
		&o.SubtotalCents,
		&o.TaxRateBps,
		&o.TaxAmountCents,
		&o.TotalCents,
		&o.CreatedAt,
		&o.PaymentVerifiedAt,
		&o.ShippedAt,
		&o.CompletedAt,
		&o.TrackingNumber,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
