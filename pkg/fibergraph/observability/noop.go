package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// NewNoopMetrics returns a recorder that discards everything.
func NewNoopMetrics() MetricsRecorder {
	return NoopMetrics{}
}

// RecordRun does nothing.
func (NoopMetrics) RecordRun(_ context.Context, _, _ string, _ time.Duration) {}

// RecordNodeExecution does nothing.
func (NoopMetrics) RecordNodeExecution(_ context.Context, _, _ string, _ time.Duration) {}

// RecordFiberSpawn does nothing.
func (NoopMetrics) RecordFiberSpawn(_ context.Context, _ string) {}

// RecordWaiterBlock does nothing.
func (NoopMetrics) RecordWaiterBlock(_ context.Context, _ string, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// NewNoopTracing returns a span manager that records nothing.
func NewNoopTracing() SpanManager {
	return NoopSpanManager{}
}

// noopSpan comes from the OTel noop package so callers get a valid
// span value.
var noopSpan = noop.Span{}

// StartRunSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartRunSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartFiberSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartFiberSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartNodeSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartNodeSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}
