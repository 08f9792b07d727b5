package sequence

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	seqrepo "photoprint/internal/repository/sequence"
)

const (
	orderScopePrefix = "ORDER"
	userScopePrefix  = "USER"

	defaultMaxAttempts = 4
	defaultBackoff     = 100 * time.Millisecond
)

// Generator hands out human-readable identifiers backed by per-scope atomic
// counters. Scope keys embed the calendar year, so numbering restarts each
// January without colliding with prior years.
type Generator struct {
	repo        seqrepo.Repository
	logger      *log.Entry
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

type Option func(*Generator)

func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(g *Generator) {
		g.maxAttempts = maxAttempts
		g.backoff = backoff
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(repo seqrepo.Repository, opts ...Option) *Generator {
	g := &Generator{
		repo:        repo,
		logger:      log.WithField("component", "sequence-generator"),
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OrderNumber issues the next order number, e.g. ORD-2026-000042.
func (g *Generator) OrderNumber(ctx context.Context) (string, error) {
	year := g.now().Year()
	n, err := g.next(ctx, ScopeKey(orderScopePrefix, year))
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(year, n), nil
}

// UserNumber issues the next user identifier, e.g. USR-2026-000007.
func (g *Generator) UserNumber(ctx context.Context) (string, error) {
	year := g.now().Year()
	n, err := g.next(ctx, ScopeKey(userScopePrefix, year))
	if err != nil {
		return "", err
	}
	return FormatUserNumber(year, n), nil
}

// next retries the atomic increment with bounded backoff. The increment
// itself never re-issues a value, so retrying a failed attempt can at worst
// burn a sequence value, never duplicate one.
func (g *Generator) next(ctx context.Context, scopeKey string) (int64, error) {
	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		n, err := g.repo.AtomicIncrement(ctx, scopeKey)
		if err == nil {
			return n, nil
		}
		lastErr = err
		g.logger.WithError(err).WithFields(log.Fields{
			"scope":   scopeKey,
			"attempt": attempt,
		}).Warn("sequence increment failed")

		if attempt == g.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(g.backoff * time.Duration(attempt)):
		}
	}
	return 0, fmt.Errorf("sequence %s: %w", scopeKey, lastErr)
}

// ScopeKey names the counter for a prefix and year, e.g. ORDER-2026.
func ScopeKey(prefix string, year int) string {
	return fmt.Sprintf("%s-%d", prefix, year)
}

// FormatOrderNumber renders an issued value as a customer-facing order
// number. Pure function of its inputs.
func FormatOrderNumber(year int, n int64) string {
	return fmt.Sprintf("ORD-%d-%06d", year, n)
}

// FormatUserNumber renders an issued value as a user identifier.
func FormatUserNumber(year int, n int64) string {
	return fmt.Sprintf("USR-%d-%06d", year, n)
}
