package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys used across HMC client and policy engine spans.
const (
	AttrManagedSystem = "hmcorch.managed_system_uuid"
	AttrLPAR          = "hmcorch.lpar_uuid"
	AttrCorrelationID = "hmcorch.correlation_id"
	AttrIdempotency   = "hmcorch.idempotency_key"
	AttrRunID         = "hmcorch.run_id"

	AttrPolicyRule   = "hmcorch.policy.rule_id"
	AttrPolicyAction = "hmcorch.policy.action"

	AttrRetryAttempt = "hmcorch.retry.attempt"
	AttrBreakerState = "hmcorch.breaker.state"

	AttrErrorType    = "hmcorch.error.type"
	AttrErrorMessage = "error.message"
)

// SetHMCRequestAttributes sets the attributes common to every HMC REST
// span: the managed system and LPAR being operated on, plus the
// correlation id threading the whole logical operation together.
func SetHMCRequestAttributes(span trace.Span, msUUID, lparUUID, correlationID string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrCorrelationID, correlationID),
	}
	if msUUID != "" {
		attrs = append(attrs, attribute.String(AttrManagedSystem, msUUID))
	}
	if lparUUID != "" {
		attrs = append(attrs, attribute.String(AttrLPAR, lparUUID))
	}
	span.SetAttributes(attrs...)
}

// SetPolicyAttributes sets policy decision attributes on a span.
func SetPolicyAttributes(span trace.Span, ruleID, action string) {
	span.SetAttributes(
		attribute.String(AttrPolicyRule, ruleID),
		attribute.String(AttrPolicyAction, action),
	)
}

// SetRetryAttribute records the current attempt number on a span.
func SetRetryAttribute(span trace.Span, attempt int) {
	span.SetAttributes(attribute.Int(AttrRetryAttempt, attempt))
}

// SetBreakerStateAttribute records the circuit breaker's state at the
// time of the call.
func SetBreakerStateAttribute(span trace.Span, state string) {
	span.SetAttributes(attribute.String(AttrBreakerState, state))
}

// SetErrorAttributes records an error on a span: its message, an
// orchestrator-defined error type, and the standard OTel error status.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMessage, err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
