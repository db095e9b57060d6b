// Package tracing provides OpenTelemetry distributed tracing for the HMC
// orchestrator.
//
// # Overview
//
// transport.Do wraps each HMC request attempt in a span, giving
// visibility into retry/backoff behavior without needing to read logs
// line by line. Policy evaluation is not traced. Every span is sampled;
// export is OTLP/gRPC or, when tracing is disabled, a noop tracer with
// negligible overhead.
//
// # Trace Context Propagation
//
// The package implements W3C Trace Context (https://www.w3.org/TR/trace-context/)
// for propagating trace context across process boundaries:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	tracestate: congo=t61rcWkgMzE
//
// # Usage
//
//	tracer, err := tracing.New(tracing.FromConfig(cfg.Telemetry.Tracing))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "hmc.resize_lpar")
//	defer span.End()
//	span.SetAttributes(
//	    attribute.String(AttrManagedSystem, msUUID),
//	    attribute.String(AttrLPAR, lparUUID),
//	)
//
// # Span Names
//
// Each request attempt is one span named hmc.<METHOD>.<path>, a child of
// whatever span the caller's context carries (the CLI starts none):
//
//	hmc.GET./rest/api/uom/ManagedSystem
//	hmc.GET./rest/api/uom/LogicalPartition
//	hmc.POST./rest/api/uom/ManagedSystem/.../LogicalPartition/...
package tracing
