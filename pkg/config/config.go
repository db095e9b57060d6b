package config

import "time"

// Config is the root configuration for the HMC orchestrator: connection
// details for a single Hardware Management Console plus the resilience
// knobs that govern every request the client stack issues against it.
type Config struct {
	// Host is the HMC hostname or IP address.
	Host string `yaml:"host"`

	// Port is the HMC REST API port.
	// Default: 12443
	Port int `yaml:"port"`

	// Username authenticates against the HMC.
	Username string `yaml:"username"`

	// Password authenticates against the HMC. Never logged.
	// Supports $VAR / ${VAR} expansion, expanded at load time.
	// If empty after CLI/env/YAML layering, Load prompts on stdin.
	Password string `yaml:"password"`

	// Verify controls TLS trust for the HMC connection: skip verification,
	// trust the system root pool, or trust a specific CA bundle.
	Verify VerifyMode `yaml:"verify"`

	Timeout     TimeoutConfig     `yaml:"timeout"`
	Retries     RetriesConfig     `yaml:"retries"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TimeoutConfig bounds a single HTTP round trip.
type TimeoutConfig struct {
	// Connect is the dial timeout.
	// Default: 5s
	Connect time.Duration `yaml:"connect"`

	// Read is the response-read timeout.
	// Default: 20s
	Read time.Duration `yaml:"read"`
}

// RetriesConfig governs the retry/backoff loop around each logical HMC
// operation.
type RetriesConfig struct {
	// Total is the maximum number of attempts (the first attempt plus
	// retries).
	// Default: 5
	Total int `yaml:"total"`

	// BackoffBase is the base duration for exponential backoff and the
	// upper bound of the jitter added to each delay.
	// Default: 500ms
	BackoffBase time.Duration `yaml:"backoff_base"`

	// MaxBackoff caps the computed backoff delay before jitter.
	// Default: 8s
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// ConcurrencyConfig bounds in-flight requests per collection frame (one
// inventory/plan/apply pass).
type ConcurrencyConfig struct {
	// PerFrame is the number of requests allowed in flight at once.
	// Default: 4
	PerFrame int `yaml:"per_frame"`
}

// VerifyModeKind discriminates VerifyMode's three states.
type VerifyModeKind int

const (
	// VerifyInsecure skips TLS certificate verification.
	VerifyInsecure VerifyModeKind = iota
	// VerifySystemRoots verifies against the OS trust store.
	VerifySystemRoots
	// VerifyCABundle verifies against a specific CA bundle file.
	VerifyCABundle
)

// VerifyMode models the HMC config's verify field, which in the original
// implementation is either a boolean or a path to a CA bundle.
type VerifyMode struct {
	Kind   VerifyModeKind
	Bundle string // set when Kind == VerifyCABundle
}

// UnmarshalYAML accepts either a bool or a string, matching the
// boolean-or-path shape of the upstream configuration field.
func (v *VerifyMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var asBool bool
	if err := unmarshal(&asBool); err == nil {
		if asBool {
			*v = VerifyMode{Kind: VerifySystemRoots}
		} else {
			*v = VerifyMode{Kind: VerifyInsecure}
		}
		return nil
	}

	var asString string
	if err := unmarshal(&asString); err != nil {
		return err
	}
	switch asString {
	case "true", "1", "yes", "on":
		*v = VerifyMode{Kind: VerifySystemRoots}
	case "false", "0", "no", "off", "":
		*v = VerifyMode{Kind: VerifyInsecure}
	default:
		*v = VerifyMode{Kind: VerifyCABundle, Bundle: asString}
	}
	return nil
}

// ParseVerifyMode parses a string value (as seen from CLI flags or
// environment variables) into a VerifyMode using the same rules as
// UnmarshalYAML.
func ParseVerifyMode(s string) VerifyMode {
	switch s {
	case "true", "1", "yes", "on":
		return VerifyMode{Kind: VerifySystemRoots}
	case "false", "0", "no", "off", "":
		return VerifyMode{Kind: VerifyInsecure}
	default:
		return VerifyMode{Kind: VerifyCABundle, Bundle: s}
	}
}

// TelemetryConfig contains ambient observability configuration, carried
// regardless of spec.md's non-goals around long-running observability
// surfaces (see SPEC_FULL.md §3.1).
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	Addsource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus metrics registry.
type MetricsConfig struct {
	// Enabled controls whether a metrics registry is created at all.
	// When the orchestrator runs as a one-shot CLI there is no HTTP
	// server to expose /metrics on; Enabled still governs in-process
	// counters that get reported in the plan/apply summary.
	// Default: true
	Enabled bool `yaml:"enabled"`

	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig configures the OpenTelemetry tracer.
type TracingConfig struct {
	// Enabled controls whether spans are exported via OTLP. When false
	// a noop tracer is used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP/gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// ServiceName identifies this service in exported spans.
	ServiceName string `yaml:"service_name"`
}
