package nodes

import "github.com/randalmurphal/fibergraph/pkg/fibergraph"

// Built-in node type ids.
const (
	TypeBranch        = "branch"
	TypeDelay         = "delay"
	TypeParallel      = "parallel"
	TypeSetVariable   = "set-variable"
	TypeGetVariable   = "get-variable"
	TypeLoop          = "loop"
	TypeWaitForNodes  = "wait-for-nodes"
	TypeRunSubgraph   = "run-subgraph"
	TypeOnEvent       = "on-event"
	TypeCallComponent = "call-component"
)

// Register adds every built-in kind to the registry.
func Register(reg *fibergraph.Registry) error {
	defs := []*fibergraph.Definition{
		branchDefinition(),
		delayDefinition(),
		parallelDefinition(),
		setVariableDefinition(),
		getVariableDefinition(),
		loopDefinition(),
		waitForNodesDefinition(),
		runSubgraphDefinition(),
		onEventDefinition(),
		callComponentDefinition(),
	}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister(reg *fibergraph.Registry) {
	if err := Register(reg); err != nil {
		panic(err)
	}
}
