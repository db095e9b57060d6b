package config

import "time"

// Default values for configuration fields, mirrored from the
// field-level defaults of the original implementation's Config model.
const (
	DefaultPort = 12443

	DefaultTimeoutConnect = 5 * time.Second
	DefaultTimeoutRead    = 20 * time.Second

	DefaultRetriesTotal       = 5
	DefaultRetriesBackoffBase = 500 * time.Millisecond
	DefaultRetriesMaxBackoff  = 8 * time.Second

	DefaultConcurrencyPerFrame = 4

	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"

	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "hmcorch"
	DefaultMetricsSubsystem = "client"

	DefaultTracingServiceName = "hmcorch"
)

// ApplyDefaults fills zero-valued fields with their defaults. Idempotent.
func ApplyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Verify == (VerifyMode{}) {
		cfg.Verify = VerifyMode{Kind: VerifySystemRoots}
	}
	if cfg.Timeout.Connect == 0 {
		cfg.Timeout.Connect = DefaultTimeoutConnect
	}
	if cfg.Timeout.Read == 0 {
		cfg.Timeout.Read = DefaultTimeoutRead
	}
	if cfg.Retries.Total == 0 {
		cfg.Retries.Total = DefaultRetriesTotal
	}
	if cfg.Retries.BackoffBase == 0 {
		cfg.Retries.BackoffBase = DefaultRetriesBackoffBase
	}
	if cfg.Retries.MaxBackoff == 0 {
		cfg.Retries.MaxBackoff = DefaultRetriesMaxBackoff
	}
	if cfg.Concurrency.PerFrame == 0 {
		cfg.Concurrency.PerFrame = DefaultConcurrencyPerFrame
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}
