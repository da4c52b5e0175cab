// Package retry provides a reusable bounded-retry policy with
// exponential backoff. The ingestion pipeline applies it at batch
// granularity around vector index upserts; query-time calls do not
// retry to keep user-facing latency bounded.
package retry

import (
	"context"
	"time"

	"github.com/custodia-labs/sagesearch/internal/logger"
)

// Default policy values.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 200 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
)

// Policy describes a bounded retry with exponential backoff.
// The zero value retries nothing; use Default for sane defaults.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt.
	BaseDelay time.Duration

	// MaxDelay caps the backoff curve.
	MaxDelay time.Duration
}

// Default returns the policy used when configuration does not
// override it.
func Default() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Do runs op until it succeeds, the attempts are exhausted, or ctx is
// cancelled. It returns the last error on exhaustion and ctx.Err() on
// cancellation.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.delay(attempt - 1)
			logger.Debug("Retrying in %s (attempt %d/%d)", delay, attempt+1, attempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err = op(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("Attempt %d/%d failed: %v", attempt+1, attempts, err)
	}

	return err
}

// delay returns the backoff for the given 0-based retry, doubling from
// BaseDelay and capped at MaxDelay.
func (p Policy) delay(retry int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	max := p.MaxDelay
	if max <= 0 {
		max = DefaultMaxDelay
	}

	d := base
	for i := 0; i < retry; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
