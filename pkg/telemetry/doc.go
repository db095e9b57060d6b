// Package telemetry groups the HMC orchestrator's observability
// subpackages.
//
// # Components
//
//   - logging: structured logging with secret redaction
//   - metrics: Prometheus metrics collection
//   - tracing: OpenTelemetry distributed tracing
//
// Each subpackage is constructed independently from its slice of
// config.TelemetryConfig; there is no single aggregator type. The CLI
// wires the tracer into the HMC transport and the metrics collector into
// the plan/apply driver; internal packages log through a plain
// *slog.Logger, so the CLI does not construct a logging.Logger.
//
//	logger, _ := logging.New(logging.Config{Level: cfg.Telemetry.Logging.Level, Format: cfg.Telemetry.Logging.Format})
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, _ := tracing.New(tracing.FromConfig(cfg.Telemetry.Tracing))
package telemetry
