// Package metrics provides Prometheus instrumentation for the HMC
// client and policy engine: request counts and latencies, circuit
// breaker state, retry counts, policy rule hit/miss counts, and applied
// resize operations.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("ListLPARs", "success", 120*time.Millisecond)
//	collector.RecordPolicyHit("scale-up-prod")
//	collector.RecordResize("up", "applied", 1.0)
//
// Because the orchestrator runs as a one-shot CLI rather than a
// long-running server, Collector.Handler is normally unused; it exists
// so a future `hmcorch serve-metrics` subcommand could expose the
// registry without further changes here.
package metrics
