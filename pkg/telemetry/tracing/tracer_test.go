package tracing

import (
	"context"
	"testing"

	"mercator-hq/hmcorch/pkg/config"
)

func TestNewDisabledReturnsNoopTracer(t *testing.T) {
	tracer, err := New(&Options{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tracer.Enabled() {
		t.Fatal("expected disabled tracer")
	}

	ctx, span := tracer.Start(context.Background(), "test.op")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Fatal("expected noop span to have no valid span context")
	}
	if TraceID(ctx) != "" {
		t.Fatalf("TraceID = %q, want empty for noop span", TraceID(ctx))
	}
}

func TestNewNilOptionsErrors(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil options")
	}
}

func TestShutdownOnDisabledTracerIsNoop(t *testing.T) {
	tracer, err := New(&Options{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.TracingConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "hmcorch",
	}
	opts := FromConfig(cfg)
	if !opts.Enabled || opts.Endpoint != "localhost:4317" || !opts.Insecure || opts.ServiceName != "hmcorch" {
		t.Fatalf("FromConfig produced unexpected options: %+v", opts)
	}
}

func TestSetStatusAndSetError(t *testing.T) {
	tracer, _ := New(&Options{Enabled: false})
	_, span := tracer.Start(context.Background(), "test.op")
	defer span.End()

	SetStatus(span, nil)
	SetError(span, nil)
}
