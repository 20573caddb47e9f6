// Package observability provides structured logging, metrics, and
// tracing for graph runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogRunStart logs the start of a graph run.
func LogRunStart(logger *slog.Logger, runID, graphID string) {
	if logger == nil {
		return
	}
	logger.Info("run starting",
		slog.String("run_id", runID),
		slog.String("graph_id", graphID),
	)
}

// LogRunComplete logs a run reaching a terminal state.
func LogRunComplete(logger *slog.Logger, runID, state string, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Info("run finished",
		slog.String("run_id", runID),
		slog.String("state", state),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}

// LogRunError logs the fault that failed a run.
func LogRunError(logger *slog.Logger, runID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
	)
}

// LogFiberSpawn logs a new fiber starting at its root node.
func LogFiberSpawn(logger *slog.Logger, runID, fiberID, rootID string) {
	if logger == nil {
		return
	}
	logger.Debug("fiber spawned",
		slog.String("run_id", runID),
		slog.String("fiber_id", fiberID),
		slog.String("root_node", rootID),
	)
}

// LogFiberExit logs a fiber draining its queue.
func LogFiberExit(logger *slog.Logger, runID, fiberID string, steps int) {
	if logger == nil {
		return
	}
	logger.Debug("fiber exited",
		slog.String("run_id", runID),
		slog.String("fiber_id", fiberID),
		slog.Int("steps", steps),
	)
}

// LogNodeStart logs node execution start.
func LogNodeStart(logger *slog.Logger, nodeID, nodeType string) {
	if logger == nil {
		return
	}
	logger.Debug("node starting",
		slog.String("node_id", nodeID),
		slog.String("node_type", nodeType),
	)
}

// LogNodeComplete logs a node finishing with its result status.
func LogNodeComplete(logger *slog.Logger, nodeID, status string, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("node completed",
		slog.String("node_id", nodeID),
		slog.String("status", status),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}

// LogNodeError logs a node fault.
func LogNodeError(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("node failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// LogWaitStart logs a fiber suspending on completion of other nodes.
func LogWaitStart(logger *slog.Logger, runID, nodeID string, targets []string) {
	if logger == nil {
		return
	}
	logger.Debug("fiber waiting",
		slog.String("run_id", runID),
		slog.String("node_id", nodeID),
		slog.Any("targets", targets),
	)
}

// LogWaitEnd logs a suspended fiber resuming.
func LogWaitEnd(logger *slog.Logger, runID, nodeID string, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("fiber resumed",
		slog.String("run_id", runID),
		slog.String("node_id", nodeID),
		slog.Float64("waited_ms", float64(duration.Milliseconds())),
	)
}

// LogSignal logs an execution signal latch.
func LogSignal(logger *slog.Logger, runID, kind, reason string) {
	if logger == nil {
		return
	}
	logger.Info("signal latched",
		slog.String("run_id", runID),
		slog.String("kind", kind),
		slog.String("reason", reason),
	)
}
