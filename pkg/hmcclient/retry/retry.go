// Package retry implements the exponential-backoff retry loop that wraps
// every logical HMC operation: one idempotency key and one correlation id
// per operation, shared across all of its attempts.
package retry

import (
	"context"
	"math/rand"
	"time"

	"mercator-hq/hmcorch/pkg/config"
	"mercator-hq/hmcorch/pkg/hmcclient/herrors"
)

// Operation is one attempt of a logical HMC call. attempt is 1-indexed.
type Operation func(ctx context.Context, attempt int) error

// Do runs op up to cfg.Total times, stopping early on success or
// on a non-retryable error. Backoff between attempts is
//
//	delay = min(maxBackoff, backoffBase*2^(attempt-1)) + uniform(0, backoffBase)
//
// unless the failing attempt carried a Retry-After, in which case that
// value is used (still capped by maxBackoff).
func Do(ctx context.Context, cfg config.RetriesConfig, op Operation) error {
	var lastErr error
	total := cfg.Total
	if total < 1 {
		total = 1
	}

	for attempt := 1; attempt <= total; attempt++ {
		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if !herrors.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == total {
			break
		}

		delay := backoffDelay(cfg, attempt, lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func backoffDelay(cfg config.RetriesConfig, attempt int, err error) time.Duration {
	if ra, ok := herrors.RetryAfter(err); ok {
		if ra > cfg.MaxBackoff {
			return cfg.MaxBackoff
		}
		return ra
	}

	exp := cfg.BackoffBase << uint(attempt-1) // backoff_base * 2^(attempt-1)
	if exp > cfg.MaxBackoff || exp < 0 {
		exp = cfg.MaxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(cfg.BackoffBase) + 1))
	return exp + jitter
}
