package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for the plan/apply run ID.
	RequestIDKey contextKey = "request_id"

	// HostKey is the context key for the HMC host being operated on.
	HostKey contextKey = "host"

	// FrameKey is the context key for the ManagedSystem (frame) UUID.
	FrameKey contextKey = "frame"

	// LPARKey is the context key for the LPAR UUID.
	LPARKey contextKey = "lpar"

	// SessionKey is the context key for the HMC session identifier.
	SessionKey contextKey = "session"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"

	// SpanIDKey is the context key for span IDs.
	SpanIDKey contextKey = "span_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithHost adds the HMC host to the context.
func WithHost(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, HostKey, host)
}

// GetHost retrieves the HMC host from the context.
func GetHost(ctx context.Context) string {
	if host, ok := ctx.Value(HostKey).(string); ok {
		return host
	}
	return ""
}

// WithFrame adds a ManagedSystem UUID to the context.
func WithFrame(ctx context.Context, frame string) context.Context {
	return context.WithValue(ctx, FrameKey, frame)
}

// GetFrame retrieves the ManagedSystem UUID from the context.
func GetFrame(ctx context.Context) string {
	if frame, ok := ctx.Value(FrameKey).(string); ok {
		return frame
	}
	return ""
}

// WithLPAR adds an LPAR UUID to the context.
func WithLPAR(ctx context.Context, lpar string) context.Context {
	return context.WithValue(ctx, LPARKey, lpar)
}

// GetLPAR retrieves the LPAR UUID from the context.
func GetLPAR(ctx context.Context) string {
	if lpar, ok := ctx.Value(LPARKey).(string); ok {
		return lpar
	}
	return ""
}

// WithSession adds a session identifier to the context.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSession retrieves the session identifier from the context.
func GetSession(ctx context.Context) string {
	if session, ok := ctx.Value(SessionKey).(string); ok {
		return session
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// WithSpanID adds a span ID to the context.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, SpanIDKey, spanID)
}

// GetSpanID retrieves the span ID from the context.
func GetSpanID(ctx context.Context) string {
	if spanID, ok := ctx.Value(SpanIDKey).(string); ok {
		return spanID
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	// Extract request ID
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	// Extract HMC host
	if host := GetHost(ctx); host != "" {
		fields = append(fields, "host", host)
	}

	// Extract frame (ManagedSystem) UUID
	if frame := GetFrame(ctx); frame != "" {
		fields = append(fields, "frame", frame)
	}

	// Extract LPAR UUID
	if lpar := GetLPAR(ctx); lpar != "" {
		fields = append(fields, "lpar", lpar)
	}

	// Extract session
	if session := GetSession(ctx); session != "" {
		fields = append(fields, "session", session)
	}

	// Extract trace ID
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}

	// Extract span ID
	if spanID := GetSpanID(ctx); spanID != "" {
		fields = append(fields, "span_id", spanID)
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}
