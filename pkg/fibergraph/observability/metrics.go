package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NewNoopMetrics() when
// disabled.
type MetricsRecorder interface {
	// RecordRun records a run reaching a terminal state.
	RecordRun(ctx context.Context, graphID, state string, duration time.Duration)

	// RecordNodeExecution records one node execution with its result
	// status ("fault" for errors and panics).
	RecordNodeExecution(ctx context.Context, nodeType, status string, duration time.Duration)

	// RecordFiberSpawn records a fiber starting.
	RecordFiberSpawn(ctx context.Context, graphID string)

	// RecordWaiterBlock records how long a fiber stayed suspended on a
	// wait request.
	RecordWaiterBlock(ctx context.Context, nodeID string, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	runs           metric.Int64Counter
	runLatency     metric.Float64Histogram
	nodeExecutions metric.Int64Counter
	nodeLatency    metric.Float64Histogram
	fiberSpawns    metric.Int64Counter
	waitLatency    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("fibergraph")

	runs, err := meter.Int64Counter("fibergraph.run.count",
		metric.WithDescription("Number of graph runs by terminal state"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("fibergraph.run.latency_ms",
		metric.WithDescription("Graph run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodeExecutions, err := meter.Int64Counter("fibergraph.node.executions",
		metric.WithDescription("Number of node executions by status"),
	)
	if err != nil {
		return nil, err
	}

	nodeLatency, err := meter.Float64Histogram("fibergraph.node.latency_ms",
		metric.WithDescription("Node execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	fiberSpawns, err := meter.Int64Counter("fibergraph.fiber.spawns",
		metric.WithDescription("Number of fibers spawned"),
	)
	if err != nil {
		return nil, err
	}

	waitLatency, err := meter.Float64Histogram("fibergraph.wait.latency_ms",
		metric.WithDescription("Time fibers spend suspended on wait requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		runs:           runs,
		runLatency:     runLatency,
		nodeExecutions: nodeExecutions,
		nodeLatency:    nodeLatency,
		fiberSpawns:    fiberSpawns,
		waitLatency:    waitLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRun records a run completion.
func (m *otelMetrics) RecordRun(ctx context.Context, graphID, state string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("graph_id", graphID),
		attribute.String("state", state),
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordNodeExecution records a node execution.
func (m *otelMetrics) RecordNodeExecution(ctx context.Context, nodeType, status string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("node_type", nodeType),
		attribute.String("status", status),
	}
	m.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.nodeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordFiberSpawn records a fiber starting.
func (m *otelMetrics) RecordFiberSpawn(ctx context.Context, graphID string) {
	m.fiberSpawns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("graph_id", graphID),
	))
}

// RecordWaiterBlock records a wait suspension.
func (m *otelMetrics) RecordWaiterBlock(ctx context.Context, nodeID string, duration time.Duration) {
	m.waitLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("node_id", nodeID),
	))
}
