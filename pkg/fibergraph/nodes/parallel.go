package nodes

import (
	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// parallelBranchPins are the fan-out pins, forked in this order.
var parallelBranchPins = []string{"branchA", "branchB", "branchC", "branchD"}

// parallelNode forks up to four parallel branches. awaitCompletion
// applies to all of them uniformly; detached branches outlive the
// spawning fiber's step.
type parallelNode struct {
	await bool
}

func parallelDefinition() *fibergraph.Definition {
	pins := []fibergraph.Pin{
		{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
	}
	for _, id := range parallelBranchPins {
		pins = append(pins, fibergraph.Pin{
			ID:        id,
			Direction: fibergraph.PinOut,
			Kind:      fibergraph.PinKindFlow,
			Strategy:  fibergraph.StrategyParallel,
		})
	}
	return &fibergraph.Definition{
		Type:        TypeParallel,
		Label:       "Parallel",
		Description: "Forks flow into parallel branches.",
		Pins:        pins,
		Parameters: []fibergraph.Parameter{
			{ID: "awaitCompletion", Description: "Await forked branches before continuing.", DefaultValue: true},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &parallelNode{await: cfg.Bool("awaitCompletion", true)}, nil
		},
	}
}

func (n *parallelNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	transitions := make([]fibergraph.Transition, 0, len(parallelBranchPins))
	for _, pin := range parallelBranchPins {
		transitions = append(transitions, fibergraph.Transition{
			PinID:    pin,
			Strategy: fibergraph.StrategyParallel,
			Detach:   !n.await,
		})
	}
	return &fibergraph.Result{
		Status:      fibergraph.StatusSuccess,
		Transitions: transitions,
	}, nil
}

// OnFastForward skips without forking anything.
func (n *parallelNode) OnFastForward(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	return fibergraph.Skipped("fast-forwarded"), nil
}
