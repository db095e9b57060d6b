// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats (console
//     uses the same text handler as text)
//   - Redaction of HMC secrets: passwords, Authorization headers and
//     session cookies
//   - Context-aware logging with request IDs and metadata
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// Create a logger
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	// Log structured data
//	logger.Info("resize applied",
//	    "run_id", "run-123",
//	    "password", "s3cr3t",  // Automatically redacted
//	    "duration_ms", 1234,
//	)
//
//	// Create context-aware logger
//	ctx := context.WithValue(ctx, logging.RequestIDKey, "req-123")
//	ctxLogger := logger.WithContext(ctx)
//	ctxLogger.Info("Processing")  // Includes request_id automatically
//
// # Redaction
//
// When RedactPII is enabled, log field values are redacted before they
// reach the handler:
//
//   - A value under a key containing password, passwd, pwd, secret,
//     token, auth, cookie or session becomes ***
//   - password=... or "password": ... inside a string becomes password: ***
//   - Authorization: Bearer abc... becomes Authorization: Bearer ***
//   - Cookie: X-API-Session=... becomes Cookie: ***
//
// Emails, IP addresses, card numbers and other personal data are not
// redacted unless a custom RedactPattern matches them.
//
// # Writes
//
// Each log call writes synchronously to the configured Writer through
// the slog handler. LogBuffer wraps that writer but queues nothing, so
// DroppedCount stays zero.
package logging
