package fibergraph

import (
	"log/slog"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph/observability"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/template"
)

// DefaultMaxSteps bounds the number of node executions per fiber. A
// fiber that exceeds it fails the run, which catches flow cycles
// without an exit condition.
const DefaultMaxSteps = 10000

type runnerConfig struct {
	entityID   string
	adapter    Adapter
	services   Services
	library    Library
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	tracer     observability.SpanManager
	scope      *Scope
	blackboard *Blackboard
	runID      string
	maxSteps   int
	expander   *template.Expander
}

// Option configures a Runner.
type Option func(*runnerConfig)

// WithEntity sets the run's default entity. Fibers act for this entity
// unless a node pins its own.
func WithEntity(entityID string) Option {
	return func(c *runnerConfig) {
		c.entityID = entityID
	}
}

// WithAdapter sets the host adapter available to nodes.
func WithAdapter(adapter Adapter) Option {
	return func(c *runnerConfig) {
		c.adapter = adapter
	}
}

// WithServices sets the host service bag available to nodes.
func WithServices(services Services) Option {
	return func(c *runnerConfig) {
		c.services = services
	}
}

// WithLibrary sets the graph library used to resolve referenced
// assets.
func WithLibrary(library Library) Option {
	return func(c *runnerConfig) {
		c.library = library
	}
}

// WithLogger sets the run's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runnerConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Defaults to no-op metrics.
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(c *runnerConfig) {
		c.metrics = metrics
	}
}

// WithTracing sets the span manager. Defaults to no-op tracing.
func WithTracing(tracer observability.SpanManager) Option {
	return func(c *runnerConfig) {
		c.tracer = tracer
	}
}

// WithScope seeds the run with an existing scope instead of an empty
// one. Subgraph runs use this to share the parent's scope.
func WithScope(scope *Scope) Option {
	return func(c *runnerConfig) {
		c.scope = scope
	}
}

// WithBlackboard seeds the run with an existing blackboard instead of
// an empty one.
func WithBlackboard(blackboard *Blackboard) Option {
	return func(c *runnerConfig) {
		c.blackboard = blackboard
	}
}

// WithRunID overrides the generated run id.
func WithRunID(runID string) Option {
	return func(c *runnerConfig) {
		c.runID = runID
	}
}

// WithMaxSteps overrides DefaultMaxSteps. Values below one disable the
// guard.
func WithMaxSteps(maxSteps int) Option {
	return func(c *runnerConfig) {
		c.maxSteps = maxSteps
	}
}

// WithExpander overrides the template expander applied to literal
// string inputs before execution.
func WithExpander(expander *template.Expander) Option {
	return func(c *runnerConfig) {
		c.expander = expander
	}
}
