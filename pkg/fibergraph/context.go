package fibergraph

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph/signal"
)

// ExecContext is everything a node sees while executing: its resolved
// inputs, the run's shared state, and the host surfaces. It is built
// fresh per node execution and must not be retained past Execute.
type ExecContext struct {
	goCtx    context.Context
	runID    string
	fiberID  string
	nodeID   string
	entityID string

	adapter  Adapter
	services Services
	library  Library

	sig        *signal.Signal
	scope      *Scope
	blackboard *Blackboard

	inputs map[string]any

	logger *slog.Logger

	fastForward bool
}

// ContextConfig carries the fields of an ExecContext. The runner fills
// it internally; tests and custom schedulers construct it directly.
type ContextConfig struct {
	Context  context.Context
	RunID    string
	FiberID  string
	NodeID   string
	EntityID string

	Adapter  Adapter
	Services Services
	Library  Library

	Signal     *signal.Signal
	Scope      *Scope
	Blackboard *Blackboard

	Inputs map[string]any

	Logger *slog.Logger

	FastForward bool
}

// NewExecContext builds an execution context from cfg. Nil Context,
// Scope and Blackboard fields get usable defaults.
func NewExecContext(cfg ContextConfig) *ExecContext {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Scope == nil {
		cfg.Scope = NewScope()
	}
	if cfg.Blackboard == nil {
		cfg.Blackboard = NewBlackboard()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ExecContext{
		goCtx:       cfg.Context,
		runID:       cfg.RunID,
		fiberID:     cfg.FiberID,
		nodeID:      cfg.NodeID,
		entityID:    cfg.EntityID,
		adapter:     cfg.Adapter,
		services:    cfg.Services,
		library:     cfg.Library,
		sig:         cfg.Signal,
		scope:       cfg.Scope,
		blackboard:  cfg.Blackboard,
		inputs:      cfg.Inputs,
		logger:      cfg.Logger,
		fastForward: cfg.FastForward,
	}
}

// Context returns the Go context of the run.
func (c *ExecContext) Context() context.Context { return c.goCtx }

// RunID returns the run's unique id.
func (c *ExecContext) RunID() string { return c.runID }

// FiberID returns the executing fiber's id.
func (c *ExecContext) FiberID() string { return c.fiberID }

// NodeID returns the executing node's id.
func (c *ExecContext) NodeID() string { return c.nodeID }

// EntityID returns the entity the node acts for: the node's pinned
// entity when the asset declares one, otherwise the fiber's entity.
func (c *ExecContext) EntityID() string { return c.entityID }

// Adapter returns the host adapter, or nil when none is configured.
func (c *ExecContext) Adapter() Adapter { return c.adapter }

// Services returns the host service bag.
func (c *ExecContext) Services() Services { return c.services }

// Service returns the host service under key, or nil.
func (c *ExecContext) Service(key string) any {
	if c.services == nil {
		return nil
	}
	return c.services[key]
}

// Library returns the graph library, or nil when none is configured.
func (c *ExecContext) Library() Library { return c.library }

// Signal returns the run's execution signal.
func (c *ExecContext) Signal() *signal.Signal { return c.sig }

// Scope returns the run's pin-level scope.
func (c *ExecContext) Scope() *Scope { return c.scope }

// Blackboard returns the run's shared blackboard.
func (c *ExecContext) Blackboard() *Blackboard { return c.blackboard }

// Inputs returns the node's resolved input values keyed by pin id.
// The map is the node's to read; it is rebuilt per execution.
func (c *ExecContext) Inputs() map[string]any { return c.inputs }

// Input returns the resolved value on an input pin and whether one is
// bound.
func (c *ExecContext) Input(pinID string) (any, bool) {
	v, ok := c.inputs[pinID]
	return v, ok
}

// InputOr returns the resolved value on an input pin, or defaultVal.
func (c *ExecContext) InputOr(pinID string, defaultVal any) any {
	if v, ok := c.inputs[pinID]; ok {
		return v
	}
	return defaultVal
}

// Logger returns a logger annotated with run, fiber and node ids.
func (c *ExecContext) Logger() *slog.Logger { return c.logger }

// FastForward reports whether this execution was dispatched as a
// fast-forward of the node rather than a normal run.
func (c *ExecContext) FastForward() bool { return c.fastForward }
