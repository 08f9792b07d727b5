package sequence

import "context"

// Repository hands out values from named counters. AtomicIncrement must be a
// single atomic read-and-increment: a value is issued to at most one caller
// ever, under any interleaving. Reading the current value and writing back
// value+1 as two steps is not an acceptable implementation.
type Repository interface {
	AtomicIncrement(ctx context.Context, scopeKey string) (int64, error)
}
