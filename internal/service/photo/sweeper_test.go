package photo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoprint/internal/domain"
)

func TestSweeperPurgesOnTick(t *testing.T) {
	svc, _, blobs := newService()
	photo := register(t, svc, blobs, "old.jpg", 1024)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.ScheduleDeletion(ctx, []domain.PhotoID{photo.ID}, time.Now().Add(-time.Hour)))

	sweeper := NewSweeper(svc, WithInterval(10*time.Millisecond), WithBatchSize(10))
	go sweeper.Run(ctx)

	assert.Eventually(t, func() bool {
		_, err := svc.Get(ctx, owner, photo.ID)
		return errors.Is(err, domain.ErrNotFound)
	}, time.Second, 10*time.Millisecond)
}

func TestSweeperStopsOnCancel(t *testing.T) {
	svc, _, _ := newService()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewSweeper(svc, WithInterval(10*time.Millisecond)).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestNewSweeperRejectsBadOptions(t *testing.T) {
	s := NewSweeper(New(nil, nil), WithInterval(-1), WithBatchSize(0))
	assert.Equal(t, defaultPurgeInterval, s.interval)
	assert.Equal(t, defaultBatchSize, s.batchSize)
}
