package photo

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/metrics"
)

const (
	defaultPurgeInterval = time.Hour
	defaultBatchSize     = 200
)

// Sweeper periodically purges photos past their scheduled deletion date. It
// is safe alongside request traffic and safe to re-run after a crash: it
// only touches photos already past their date, and each photo is guarded by
// its deleted-at marker.
type Sweeper struct {
	svc       *Service
	logger    *log.Entry
	interval  time.Duration
	batchSize int
}

type SweeperOption func(*Sweeper)

func WithInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) { s.interval = interval }
}

func WithBatchSize(batchSize int) SweeperOption {
	return func(s *Sweeper) { s.batchSize = batchSize }
}

func NewSweeper(svc *Service, options ...SweeperOption) *Sweeper {
	s := &Sweeper{
		svc:       svc,
		logger:    log.WithField("component", "photo-purge-sweeper"),
		interval:  defaultPurgeInterval,
		batchSize: defaultBatchSize,
	}
	for _, option := range options {
		option(s)
	}
	if s.interval <= 0 {
		s.interval = defaultPurgeInterval
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultBatchSize
	}
	return s
}

// Run sweeps on a ticker until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.WithField("interval", s.interval).Info("photo purge sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("photo purge sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	bytesFreed, err := s.svc.Purge(ctx, time.Now(), s.batchSize)
	if err != nil {
		metrics.PurgeRuns.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("purge sweep failed")
		return
	}
	metrics.PurgeRuns.WithLabelValues("ok").Inc()
	if bytesFreed > 0 {
		s.logger.WithField("bytes_freed", bytesFreed).Info("purged expired photos")
	}
}
