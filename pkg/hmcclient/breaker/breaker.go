// Package breaker implements a per-session circuit breaker guarding the
// HMC REST endpoint against a thundering herd of retries once it starts
// failing.
package breaker

import (
	"sync"
	"time"

	"mercator-hq/hmcorch/pkg/hmcclient/herrors"
)

// State is one of the breaker's three states.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker tracks consecutive failures and trips Open once a threshold is
// reached, refusing calls until Cooldown elapses, then allows exactly one
// HalfOpen probe before deciding whether to close or re-open.
type Breaker struct {
	mu sync.Mutex

	threshold int
	cooldown  time.Duration

	state      State
	failures   int
	openedAt   time.Time
	probeInUse bool
}

// New creates a Breaker that trips after threshold consecutive failures
// and stays Open for cooldown before allowing a probe.
func New(threshold int, cooldown time.Duration) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, state: Closed}
}

// Allow reports whether a call may proceed. It transitions Open→HalfOpen
// once the cooldown has elapsed, and grants at most one in-flight probe
// while HalfOpen.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return nil
	case Open:
		if time.Since(b.openedAt) < b.cooldown {
			return &herrors.TransientError{Op: "breaker", Reason: "circuit open"}
		}
		b.state = HalfOpen
		b.probeInUse = true
		return nil
	case HalfOpen:
		if b.probeInUse {
			return &herrors.TransientError{Op: "breaker", Reason: "circuit half-open, probe in flight"}
		}
		b.probeInUse = true
		return nil
	}
	return nil
}

// RecordResult classifies the call outcome and transitions state. A
// "failure" is a network error, HTTP 429, or any HTTP 5xx; any other
// status, including 401 and other 4xx, counts as a success.
func (b *Breaker) RecordResult(status int, networkErr error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := networkErr != nil || status == 429 || status >= 500

	switch b.state {
	case HalfOpen:
		b.probeInUse = false
		if failed {
			b.state = Open
			b.openedAt = time.Now()
			b.failures = b.threshold
			return
		}
		b.state = Closed
		b.failures = 0
	default:
		if failed {
			b.failures++
			if b.failures >= b.threshold {
				b.state = Open
				b.openedAt = time.Now()
			}
		} else {
			b.failures = 0
		}
	}
}

// CurrentState returns the current breaker state. For diagnostics and tests.
func (b *Breaker) CurrentState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
