package blob

import (
	"context"
	"errors"
)

// ErrNotFound indicates the blob does not exist under the given reference.
var ErrNotFound = errors.New("blob not found")

// Store holds photo bytes under opaque references. Upload and download paths
// live outside the lifecycle engine; the engine only needs existence checks
// and deletion with the freed byte count.
type Store interface {
	Exists(ctx context.Context, ref string) (bool, error)
	// Delete removes the blob and returns how many bytes were freed. A
	// missing blob fails with ErrNotFound.
	Delete(ctx context.Context, ref string) (int64, error)
}
