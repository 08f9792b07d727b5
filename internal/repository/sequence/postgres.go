package sequence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// AtomicIncrement issues the next value for scopeKey in one statement. The
// upsert creates the counter on first use and the RETURNING clause reports
// the value handed out, so two concurrent callers can never observe the same
// result.
func (r *postgresRepo) AtomicIncrement(ctx context.Context, scopeKey string) (int64, error) {
	const q = `
INSERT INTO sequence_counters (scope_key, next_value)
VALUES ($1, 2)
ON CONFLICT (scope_key)
DO UPDATE SET next_value = sequence_counters.next_value + 1
RETURNING next_value - 1
`
	var issued int64
	if err := r.pool.QueryRow(ctx, q, scopeKey).Scan(&issued); err != nil {
		return 0, err
	}
	return issued, nil
}
