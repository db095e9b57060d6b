package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	Field   string
	Message string
}

// Error implements error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates one or more FieldErrors.
type ValidationError struct {
	Errors []FieldError
}

// Error implements error.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("  - " + err.Error() + "\n")
	}
	return sb.String()
}

// Validate checks a Config for missing required fields and out-of-range
// values. It returns nil when the configuration is usable.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Host == "" {
		errs = append(errs, FieldError{Field: "host", Message: "host is required"})
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, FieldError{Field: "port", Message: "port must be between 1 and 65535"})
	}
	if cfg.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	// Password is intentionally not required here: Load prompts for it
	// interactively when still empty after CLI/env/YAML layering.

	if cfg.Timeout.Connect <= 0 {
		errs = append(errs, FieldError{Field: "timeout.connect", Message: "must be positive"})
	}
	if cfg.Timeout.Read <= 0 {
		errs = append(errs, FieldError{Field: "timeout.read", Message: "must be positive"})
	}

	if cfg.Retries.Total < 0 {
		errs = append(errs, FieldError{Field: "retries.total", Message: "must be non-negative"})
	}
	if cfg.Retries.BackoffBase < 0 {
		errs = append(errs, FieldError{Field: "retries.backoff_base", Message: "must be non-negative"})
	}
	if cfg.Retries.MaxBackoff < 0 {
		errs = append(errs, FieldError{Field: "retries.max_backoff", Message: "must be non-negative"})
	}

	if cfg.Concurrency.PerFrame < 1 {
		errs = append(errs, FieldError{Field: "concurrency.per_frame", Message: "must be at least 1"})
	}

	if cfg.Verify.Kind == VerifyCABundle && cfg.Verify.Bundle == "" {
		errs = append(errs, FieldError{Field: "verify", Message: "CA bundle path is empty"})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Telemetry.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q: must be debug, info, warn, or error", cfg.Telemetry.Logging.Level),
		})
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Telemetry.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q: must be json or text", cfg.Telemetry.Logging.Format),
		})
	}
	if cfg.Telemetry.Tracing.Enabled && cfg.Telemetry.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
