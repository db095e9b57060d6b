package tracing

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestPropagator(t *testing.T) {
	p := Propagator()
	if p == nil {
		t.Fatal("Propagator() returned nil")
	}
	if _, ok := p.(propagation.TextMapPropagator); !ok {
		t.Fatal("Propagator() did not return a propagation.TextMapPropagator")
	}
}

func TestInject(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx := context.Background()
	headers := http.Header{}

	// With no span in context, Inject should not panic and should leave
	// headers untouched (no active trace to propagate).
	Inject(ctx, headers)
	if headers.Get("traceparent") != "" {
		t.Errorf("expected no traceparent header without an active span, got %q", headers.Get("traceparent"))
	}
}

func TestInject_EmptyHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Inject panicked on empty headers: %v", r)
		}
	}()

	Inject(context.Background(), http.Header{})
}
