package photo

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

const photoColumns = `id::text, owner_id, blob_ref, filename, width_px, height_px, size_bytes, uploaded_at, locked_by_order_id::text, scheduled_deletion_at, deleted_at`

func (r *postgresRepo) Create(ctx context.Context, photo domain.Photo) error {
	const q = `
INSERT INTO photos (id, owner_id, blob_ref, filename, width_px, height_px, size_bytes, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.pool.Exec(ctx, q,
		string(photo.ID), string(photo.OwnerID), photo.BlobRef, photo.Filename,
		photo.WidthPx, photo.HeightPx, photo.SizeBytes, photo.UploadedAt,
	)
	return err
}

func (r *postgresRepo) GetByOwner(ctx context.Context, owner domain.UserID, id domain.PhotoID) (*domain.Photo, error) {
	q := `
SELECT ` + photoColumns + `
FROM photos
WHERE owner_id = $1 AND id = $2 AND deleted_at IS NULL
`
	return r.fetchOne(ctx, q, string(owner), string(id))
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner domain.UserID, limit, offset int) ([]domain.Photo, error) {
	q := `
SELECT ` + photoColumns + `
FROM photos
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY uploaded_at DESC
LIMIT $2 OFFSET $3
`
	return r.fetchMany(ctx, q, string(owner), limit, offset)
}

func (r *postgresRepo) ListDeletableByOwner(ctx context.Context, owner domain.UserID) ([]domain.Photo, error) {
	q := `
SELECT ` + photoColumns + `
FROM photos
WHERE owner_id = $1 AND deleted_at IS NULL AND locked_by_order_id IS NULL
ORDER BY uploaded_at DESC
`
	return r.fetchMany(ctx, q, string(owner))
}

// Lock claims all ids for orderID in a single conditional update inside a
// transaction. If any photo is deleted, missing, or held by another order,
// the affected-row count falls short, the transaction is rolled back and
// nothing is claimed.
func (r *postgresRepo) Lock(ctx context.Context, ids []domain.PhotoID, orderID domain.OrderID) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE photos
SET locked_by_order_id = $2
WHERE id = ANY($1)
  AND deleted_at IS NULL
  AND (locked_by_order_id IS NULL OR locked_by_order_id = $2)
`
	cmd, err := tx.Exec(ctx, q, idStrings(ids), string(orderID))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() != int64(len(ids)) {
		return domain.ErrAlreadyLocked
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Unlock(ctx context.Context, ids []domain.PhotoID, orderID domain.OrderID) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
UPDATE photos
SET locked_by_order_id = NULL
WHERE id = ANY($1) AND locked_by_order_id = $2
`
	_, err := r.pool.Exec(ctx, q, idStrings(ids), string(orderID))
	return err
}

func (r *postgresRepo) ScheduleDeletion(ctx context.Context, ids []domain.PhotoID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
UPDATE photos
SET scheduled_deletion_at = $2
WHERE id = ANY($1) AND deleted_at IS NULL
`
	_, err := r.pool.Exec(ctx, q, idStrings(ids), at)
	return err
}

func (r *postgresRepo) ListPurgeable(ctx context.Context, before time.Time, limit int) ([]domain.Photo, error) {
	q := `
SELECT ` + photoColumns + `
FROM photos
WHERE scheduled_deletion_at IS NOT NULL
  AND scheduled_deletion_at <= $1
  AND deleted_at IS NULL
ORDER BY scheduled_deletion_at ASC
LIMIT $2
`
	return r.fetchMany(ctx, q, before, limit)
}

func (r *postgresRepo) MarkDeleted(ctx context.Context, id domain.PhotoID, at time.Time) error {
	const q = `
UPDATE photos
SET deleted_at = $2
WHERE id = $1 AND deleted_at IS NULL
`
	cmd, err := r.pool.Exec(ctx, q, string(id), at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, args ...interface{}) (*domain.Photo, error) {
	photo, err := scanPhoto(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, q string, args ...interface{}) ([]domain.Photo, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *photo)
	}
	return photos, rows.Err()
}

func scanPhoto(row pgx.Row) (*domain.Photo, error) {
	var photo domain.Photo
	var lockedBy *string
	if err := row.Scan(
		&photo.ID,
		&photo.OwnerID,
		&photo.BlobRef,
		&photo.Filename,
		&photo.WidthPx,
		&photo.HeightPx,
		&photo.SizeBytes,
		&photo.UploadedAt,
		&lockedBy,
		&photo.ScheduledDelAt,
		&photo.DeletedAt,
	); err != nil {
		return nil, err
	}
	if lockedBy != nil {
		orderID := domain.OrderID(*lockedBy)
		photo.LockedByOrderID = &orderID
	}
	return &photo, nil
}

func idStrings(ids []domain.PhotoID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
