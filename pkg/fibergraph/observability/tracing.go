package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("fibergraph")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NewNoopTracing() when
// disabled.
type SpanManager interface {
	// StartRunSpan starts a span covering an entire graph run.
	StartRunSpan(ctx context.Context, runID, graphID string) (context.Context, trace.Span)

	// StartFiberSpan starts a span covering one fiber, child of the run
	// span.
	StartFiberSpan(ctx context.Context, fiberID, rootID string) (context.Context, trace.Span)

	// StartNodeSpan starts a span covering one node execution.
	StartNodeSpan(ctx context.Context, nodeID, nodeType string) (context.Context, trace.Span)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span covering an entire graph run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, runID, graphID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "fibergraph.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("graph.id", graphID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartFiberSpan starts a span covering one fiber.
func (m *otelSpanManager) StartFiberSpan(ctx context.Context, fiberID, rootID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "fibergraph.fiber",
		trace.WithAttributes(
			attribute.String("fiber.id", fiberID),
			attribute.String("fiber.root", rootID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartNodeSpan starts a span covering one node execution.
func (m *otelSpanManager) StartNodeSpan(ctx context.Context, nodeID, nodeType string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "fibergraph.node."+nodeID,
		trace.WithAttributes(
			attribute.String("node.id", nodeID),
			attribute.String("node.type", nodeType),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
