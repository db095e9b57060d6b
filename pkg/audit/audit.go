// Package audit records successfully applied Decisions to an
// append-only sink: a newline-delimited JSON file or a SQLite table.
// Only Decisions that the orchestrator actually applied are written
// here; planned-but-not-applied Decisions live only in the plan/apply
// report artifacts.
package audit

import (
	"context"

	"mercator-hq/hmcorch/pkg/policy"
)

// Sink persists applied Decisions. Implementations must be safe for
// sequential use from a single apply run; concurrent use is not
// required since the orchestrator applies Decisions one at a time.
type Sink interface {
	Record(ctx context.Context, runID string, d policy.Decision) error
	Close() error
}

// NopSink discards every record. Used when no --audit-log path is
// configured.
type NopSink struct{}

func (NopSink) Record(ctx context.Context, runID string, d policy.Decision) error { return nil }
func (NopSink) Close() error                                                      { return nil }
