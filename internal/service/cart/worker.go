package cart

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/metrics"
)

const (
	defaultSweepInterval = 6 * time.Hour
	defaultMaxAge        = 30 * 24 * time.Hour
)

// ExpiryWorker periodically deletes carts that have been idle longer than
// the configured age, to bound storage growth. Order records are never
// touched.
type ExpiryWorker struct {
	svc      *Service
	logger   *log.Entry
	interval time.Duration
	maxAge   time.Duration
}

type ExpiryOption func(*ExpiryWorker)

func WithSweepInterval(interval time.Duration) ExpiryOption {
	return func(w *ExpiryWorker) { w.interval = interval }
}

func WithMaxAge(maxAge time.Duration) ExpiryOption {
	return func(w *ExpiryWorker) { w.maxAge = maxAge }
}

func NewExpiryWorker(svc *Service, options ...ExpiryOption) *ExpiryWorker {
	w := &ExpiryWorker{
		svc:      svc,
		logger:   log.WithField("component", "cart-expiry-worker"),
		interval: defaultSweepInterval,
		maxAge:   defaultMaxAge,
	}
	for _, option := range options {
		option(w)
	}
	if w.interval <= 0 {
		w.interval = defaultSweepInterval
	}
	if w.maxAge <= 0 {
		w.maxAge = defaultMaxAge
	}
	return w
}

// Run sweeps on a ticker until ctx is canceled.
func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.WithField("interval", w.interval).Info("cart expiry worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cart expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.maxAge)
	deleted, err := w.svc.ExpireIdle(ctx, cutoff)
	if err != nil {
		w.logger.WithError(err).Error("cart expiry sweep failed")
		return
	}
	if deleted > 0 {
		metrics.CartsExpired.Add(float64(deleted))
		w.logger.WithField("deleted", deleted).Info("expired idle carts")
	}
}
