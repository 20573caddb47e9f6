package fibergraph

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph/observability"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/signal"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/template"
)

// State is the lifecycle state of a run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Terminal reports whether the state is one of the three end states.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Runner executes one hydrated graph. A Runner runs at most once;
// create a new one per run.
type Runner struct {
	graph *Graph
	cfg   runnerConfig

	runID      string
	sig        *signal.Signal
	scope      *Scope
	blackboard *Blackboard

	runCtx  context.Context
	started time.Time
	wg      sync.WaitGroup
	done    chan struct{}

	mu           sync.Mutex
	state        State
	failure      error
	nodeFailures []NodeFailure
	counts       map[string]int
	waiters      map[string][]*waiter
	ffNodes      map[string]bool
	ffRules      []func(nodeID, nodeType string) bool
	nextFiberID  int
	handle       *Handle
	launched     bool
}

// NewRunner builds a runner for the graph with the given options.
func NewRunner(graph *Graph, opts ...Option) *Runner {
	cfg := runnerConfig{
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.metrics == nil {
		cfg.metrics = observability.NewNoopMetrics()
	}
	if cfg.tracer == nil {
		cfg.tracer = observability.NewNoopTracing()
	}
	if cfg.scope == nil {
		cfg.scope = NewScope()
	}
	if cfg.blackboard == nil {
		cfg.blackboard = NewBlackboard()
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}
	if cfg.expander == nil {
		cfg.expander = template.New()
	}

	return &Runner{
		graph:      graph,
		cfg:        cfg,
		runID:      cfg.runID,
		sig:        signal.New(signal.WithLogger(cfg.logger)),
		scope:      cfg.scope,
		blackboard: cfg.blackboard,
		done:       make(chan struct{}),
		state:      StateIdle,
		counts:     make(map[string]int),
		waiters:    make(map[string][]*waiter),
		ffNodes:    make(map[string]bool),
	}
}

// Run starts the graph: one fiber per entry node, each seeded with its
// root. Run returns immediately with a Handle; repeated calls return
// the same handle without starting a second run.
//
// Cancelling ctx cancels the run.
func (r *Runner) Run(ctx context.Context) *Handle {
	r.mu.Lock()
	if r.launched {
		h := r.handle
		r.mu.Unlock()
		return h
	}
	r.launched = true
	r.state = StateRunning
	r.handle = &Handle{runner: r}
	r.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, span := r.cfg.tracer.StartRunSpan(ctx, r.runID, r.graph.ID())
	r.runCtx = runCtx
	r.started = time.Now()

	observability.LogRunStart(r.cfg.logger, r.runID, r.graph.ID())

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				r.cancel("context cancelled: " + ctx.Err().Error())
			case <-r.done:
			}
		}()
	}

	for _, rootID := range r.graph.Roots() {
		r.spawnFiber(rootID)
	}

	go func() {
		r.wg.Wait()
		r.finish()
		observability.EndSpanWithError(span, r.handle.Err())
	}()

	return r.handle
}

// Graph returns the graph this runner executes.
func (r *Runner) Graph() *Graph {
	return r.graph
}

func (r *Runner) spawnFiber(rootID string) *fiber {
	r.mu.Lock()
	r.nextFiberID++
	id := r.nextFiberID
	r.mu.Unlock()

	f := newFiber(r, id, rootID)
	r.wg.Add(1)

	observability.LogFiberSpawn(r.cfg.logger, r.runID, f.id, rootID)
	r.cfg.metrics.RecordFiberSpawn(r.runCtx, r.graph.ID())

	go f.run()
	return f
}

// NodeFailure records a node that finished with a failure status.
type NodeFailure struct {
	NodeID string
	Reason string
}

func (r *Runner) recordNodeFailure(nodeID, reason string) {
	r.mu.Lock()
	r.nodeFailures = append(r.nodeFailures, NodeFailure{NodeID: nodeID, Reason: reason})
	r.mu.Unlock()
}

func (r *Runner) recordFailure(err error) {
	r.mu.Lock()
	first := r.failure == nil
	if first {
		r.failure = err
	}
	r.mu.Unlock()

	if first {
		observability.LogRunError(r.cfg.logger, r.runID, err)
	}
	r.cancel("run failed: " + err.Error())
}

// cancel latches the signal first so in-flight nodes observe it, then
// releases every suspended fiber.
func (r *Runner) cancel(reason string) {
	r.sig.Cancel(reason)
	r.resolveAllWaiters()
}

func (r *Runner) finish() {
	r.mu.Lock()
	switch {
	case r.failure != nil:
		r.state = StateFailed
	case r.sig.Cancelled():
		r.state = StateCancelled
	default:
		r.state = StateCompleted
	}
	state := r.state
	r.mu.Unlock()

	close(r.done)

	dur := time.Since(r.started)
	observability.LogRunComplete(r.cfg.logger, r.runID, string(state), dur)
	r.cfg.metrics.RecordRun(r.runCtx, r.graph.ID(), string(state), dur)
}

func (r *Runner) isFastForwardTarget(nodeID, nodeType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ffNodes[nodeID] {
		return true
	}
	for _, rule := range r.ffRules {
		if rule(nodeID, nodeType) {
			return true
		}
	}
	return false
}

// expandLiteral applies template expansion to a literal input value
// against the current blackboard. Expansion failures leave the literal
// untouched.
func (r *Runner) expandLiteral(v any) any {
	expanded, err := r.cfg.expander.ExpandValue(v, r.blackboard.Snapshot())
	if err != nil {
		return v
	}
	return expanded
}

// Handle is the caller's view of a running (or finished) graph run.
type Handle struct {
	runner *Runner
}

// AwaitCompletion blocks until the run reaches a terminal state or ctx
// expires. It returns the run state and, for failed runs, the fault.
func (h *Handle) AwaitCompletion(ctx context.Context) (State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-h.runner.done:
	case <-ctx.Done():
		return h.Status(), ctx.Err()
	}
	return h.Status(), h.Err()
}

// Done returns a channel closed when the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.runner.done
}

// Status returns the current run state.
func (h *Handle) Status() State {
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	return h.runner.state
}

// Err returns the fault that failed the run, or nil.
func (h *Handle) Err() error {
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	return h.runner.failure
}

// NodeFailures lists the nodes that finished with a failure status, in
// completion order. A node failure stops routing past that node but
// does not tear the run down.
func (h *Handle) NodeFailures() []NodeFailure {
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	out := make([]NodeFailure, len(h.runner.nodeFailures))
	copy(out, h.runner.nodeFailures)
	return out
}

// Cancel latches the run's cancel signal with the given reason.
func (h *Handle) Cancel(reason string) {
	observability.LogSignal(h.runner.cfg.logger, h.runner.runID, "cancel", reason)
	h.runner.cancel(reason)
}

// FastForward latches the global fast-forward signal: every node
// executed from now on runs its fast-forward path.
func (h *Handle) FastForward() {
	observability.LogSignal(h.runner.cfg.logger, h.runner.runID, "fast_forward", "")
	h.runner.sig.FastForward()
}

// FastForwardNode marks one node so its next execution runs the
// fast-forward path instead of the normal one.
func (h *Handle) FastForwardNode(nodeID string) {
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	h.runner.ffNodes[nodeID] = true
}

// FastForwardWhere installs a predicate over (node id, node type);
// matching nodes run their fast-forward path.
func (h *Handle) FastForwardWhere(rule func(nodeID, nodeType string) bool) {
	if rule == nil {
		return
	}
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	h.runner.ffRules = append(h.runner.ffRules, rule)
}

// Signal returns the run's execution signal.
func (h *Handle) Signal() *signal.Signal {
	return h.runner.sig
}

// RunID returns the run's unique id.
func (h *Handle) RunID() string {
	return h.runner.runID
}

// ScopeSnapshot returns a copy of the run scope keyed by
// "nodeId:pinId".
func (h *Handle) ScopeSnapshot() map[string]any {
	return h.runner.scope.Snapshot()
}

// BlackboardSnapshot returns a copy of the run blackboard.
func (h *Handle) BlackboardSnapshot() map[string]any {
	return h.runner.blackboard.Snapshot()
}

// CompletionCount returns how many times the node has completed during
// this run.
func (h *Handle) CompletionCount(nodeID string) int {
	h.runner.mu.Lock()
	defer h.runner.mu.Unlock()
	return h.runner.counts[nodeID]
}
