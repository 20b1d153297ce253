package machine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "machine"

// startRunSpan creates the root span for a run.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startRunSpan(ctx context.Context, machineName, runID, initialState string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "machine.run")
	span.SetAttributes(
		attribute.String("machine", machineName),
		attribute.String("run_id", runID),
		attribute.String("initial_state", initialState),
	)

	return ctx, span
}

// startAttemptSpan creates a child span for a single state attempt.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startAttemptSpan(
	ctx context.Context,
	machineName, runID, state string,
	retryCount int,
) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "state."+state)
	span.SetAttributes(
		attribute.String("machine", machineName),
		attribute.String("run_id", runID),
		attribute.String("state", state),
		attribute.Int("retry_count", retryCount),
	)

	return ctx, span
}
