package fibergraph

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph/observability"
)

// fiber is one logical execution lane: a goroutine draining a FIFO
// queue of node ids. Sequential transitions go to the front of the
// queue; parallel transitions spawn sibling fibers which the spawner
// awaits unless the transition detaches them.
type fiber struct {
	id     string
	runner *Runner
	queue  []string
	steps  int
	done   chan struct{}
}

func newFiber(r *Runner, seq int, rootID string) *fiber {
	return &fiber{
		id:     fmt.Sprintf("f-%d", seq),
		runner: r,
		queue:  []string{rootID},
		done:   make(chan struct{}),
	}
}

func (f *fiber) run() {
	defer f.runner.wg.Done()
	defer close(f.done)

	for len(f.queue) > 0 {
		nodeID := f.queue[0]
		f.queue = f.queue[1:]
		if !f.step(nodeID) {
			return
		}
	}

	observability.LogFiberExit(f.runner.cfg.logger, f.runner.runID, f.id, f.steps)
}

// step executes one node and processes its result. It returns false
// when the fiber must stop (a fault tore the run down).
func (f *fiber) step(nodeID string) bool {
	r := f.runner

	f.steps++
	if r.cfg.maxSteps > 0 && f.steps > r.cfg.maxSteps {
		r.recordFailure(&MaxStepsError{Limit: r.cfg.maxSteps, NodeID: nodeID})
		return false
	}

	node := r.graph.Node(nodeID)
	if node == nil {
		r.recordFailure(&NodeError{NodeID: nodeID, Op: "lookup",
			Err: fmt.Errorf("node not in graph")})
		return false
	}

	entityID := node.EntityID
	if entityID == "" {
		entityID = r.cfg.entityID
	}

	logger := r.cfg.logger.With(
		"run_id", r.runID,
		"fiber_id", f.id,
		"node_id", nodeID,
		"node_type", node.Type,
	)

	execCtx := NewExecContext(ContextConfig{
		Context:     r.runCtx,
		RunID:       r.runID,
		FiberID:     f.id,
		NodeID:      nodeID,
		EntityID:    entityID,
		Adapter:     r.cfg.adapter,
		Services:    r.cfg.services,
		Library:     r.cfg.library,
		Signal:      r.sig,
		Scope:       r.scope,
		Blackboard:  r.blackboard,
		Inputs:      f.buildInputs(node),
		Logger:      logger,
		FastForward: r.isFastForwardTarget(nodeID, node.Type),
	})

	observability.LogNodeStart(logger, nodeID, node.Type)
	spanCtx, span := r.cfg.tracer.StartNodeSpan(r.runCtx, nodeID, node.Type)
	_ = spanCtx
	start := time.Now()

	result, err := f.invoke(execCtx, node)

	dur := time.Since(start)
	observability.EndSpanWithError(span, err)

	if err != nil {
		observability.LogNodeError(logger, nodeID, err)
		r.cfg.metrics.RecordNodeExecution(r.runCtx, node.Type, "fault", dur)
		r.recordFailure(err)
		return false
	}
	if result == nil {
		result = Success()
	}

	observability.LogNodeComplete(logger, nodeID, string(result.Status), dur)
	r.cfg.metrics.RecordNodeExecution(r.runCtx, node.Type, string(result.Status), dur)

	if result.Status == StatusFailure {
		r.recordNodeFailure(nodeID, result.Reason)
	}

	for pinID, value := range result.Outputs {
		r.scope.Set(nodeID, pinID, value)
	}

	// Completion is counted once outputs are visible, before any wait
	// the result requests, so mutual waits cannot deadlock.
	r.markCompleted(nodeID)

	if len(result.WaitFor) > 0 {
		if !f.awaitResult(nodeID, result) {
			return false
		}
	}

	return f.route(nodeID, node, result)
}

// invoke runs the node through the signal gates with panic recovery.
func (f *fiber) invoke(ctx *ExecContext, node *GraphNode) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &PanicError{NodeID: node.ID, Value: rec, Stack: debug.Stack()}
		}
	}()

	result, err = Invoke(ctx, node.Instance)
	if err != nil {
		return nil, &NodeError{NodeID: node.ID, Op: "execute", Err: err}
	}
	return result, nil
}

// buildInputs resolves a node's input values: literal inputs (with
// template expansion of string values) overlaid by data-wire values
// from the scope, last wire winning per pin.
func (f *fiber) buildInputs(node *GraphNode) map[string]any {
	r := f.runner
	inputs := make(map[string]any, len(node.LiteralInputs))
	for pinID, value := range node.LiteralInputs {
		inputs[pinID] = r.expandLiteral(value)
	}
	for _, binding := range r.graph.DataSources(node.ID) {
		if v, ok := r.scope.Get(binding.From.NodeID, binding.From.PinID); ok {
			inputs[binding.InputPin] = v
		}
	}
	return inputs
}

// awaitResult suspends the fiber on the result's wait request.
func (f *fiber) awaitResult(nodeID string, result *Result) bool {
	r := f.runner

	chans, err := r.awaitNodes(result.WaitFor, result.WaitForNext)
	if err != nil {
		r.recordFailure(&NodeError{NodeID: nodeID, Op: "wait", Err: err})
		return false
	}
	if len(chans) == 0 {
		return true
	}

	observability.LogWaitStart(r.cfg.logger, r.runID, nodeID, result.WaitFor)
	start := time.Now()
	for _, ch := range chans {
		<-ch
	}
	dur := time.Since(start)
	observability.LogWaitEnd(r.cfg.logger, r.runID, nodeID, dur)
	r.cfg.metrics.RecordWaiterBlock(r.runCtx, nodeID, dur)
	return true
}

// route processes the result's transitions: sequential targets move to
// the front of this fiber's queue in declaration order, parallel
// targets fork sibling fibers awaited unless detached.
func (f *fiber) route(nodeID string, node *GraphNode, result *Result) bool {
	r := f.runner

	transitions := result.Transitions
	if len(transitions) == 0 &&
		result.Status == StatusSuccess &&
		node.Definition.DefaultOutput != "" {
		transitions = []Transition{{PinID: node.Definition.DefaultOutput}}
	}

	var sequential []string
	var awaited []*fiber

	for _, tr := range transitions {
		strategy := tr.Strategy
		if strategy == "" {
			strategy = node.Definition.OutputStrategy(tr.PinID)
		}
		for _, target := range r.graph.FlowTargets(nodeID, tr.PinID) {
			if strategy == StrategyParallel {
				child := r.spawnFiber(target.NodeID)
				if !tr.Detach {
					awaited = append(awaited, child)
				}
			} else {
				sequential = append(sequential, target.NodeID)
			}
		}
	}

	if len(sequential) > 0 {
		f.queue = append(sequential, f.queue...)
	}

	for _, child := range awaited {
		<-child.done
	}
	return true
}
