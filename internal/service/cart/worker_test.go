package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryWorkerDeletesIdleCarts(t *testing.T) {
	f := newFixture(t)
	f.addPhoto(t, "p1")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := f.svc.AddOrUpdateLine(ctx, owner, "p1", "4x6", 1)
	require.NoError(t, err)

	worker := NewExpiryWorker(f.svc, WithSweepInterval(10*time.Millisecond), WithMaxAge(time.Millisecond))
	go worker.Run(ctx)

	assert.Eventually(t, func() bool {
		cart, err := f.svc.Get(ctx, owner)
		return err == nil && len(cart.Lines) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestExpiryWorkerStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewExpiryWorker(f.svc, WithSweepInterval(10*time.Millisecond)).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestNewExpiryWorkerRejectsBadOptions(t *testing.T) {
	w := NewExpiryWorker(nil, WithSweepInterval(0), WithMaxAge(-time.Hour))
	assert.Equal(t, defaultSweepInterval, w.interval)
	assert.Equal(t, defaultMaxAge, w.maxAge)
}
