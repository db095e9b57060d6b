package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// W3C Trace Context Propagation
//
// The W3C Trace Context specification (https://www.w3.org/TR/trace-context/)
// defines standard HTTP headers for propagating trace context across service
// boundaries.
//
// # Headers
//
// traceparent: Required header containing trace context
// Format: version-trace_id-parent_id-trace_flags
// Example: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// tracestate: Optional header containing vendor-specific trace context
// Format: key1=value1,key2=value2
// Example: congo=t61rcWkgMzE,rojo=00f067aa0ba902b7
//
// This client is the start of every trace it emits (there is no inbound
// HMC call to extract a parent context from), so only the outbound half
// of propagation — Inject — is used, by transport.Do on every request.

// Propagator returns the configured text map propagator.
// This is typically a composite propagator that handles both
// W3C Trace Context and W3C Baggage.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// Inject injects trace context into HTTP headers.
//
// This should be called on the client side before making an HTTP request:
//
//	req, _ := http.NewRequestWithContext(ctx, "POST", url, body)
//	propagation.Inject(ctx, req.Header)
//	resp, err := client.Do(req)
//
// The trace context from ctx is serialized into traceparent and tracestate headers.
func Inject(ctx context.Context, headers http.Header) {
	Propagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
