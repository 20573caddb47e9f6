package nodes

import (
	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// runSubgraphNode runs another graph from the library as a child run.
// Scope and blackboard can be shared with the parent; an "args" input
// seeds the child blackboard.
type runSubgraphNode struct {
	fibergraph.PassthroughFastForward
	graphID         string
	await           bool
	shareScope      bool
	shareBlackboard bool
}

func runSubgraphDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:        TypeRunSubgraph,
		Label:       "Run Subgraph",
		Description: "Runs a library graph as a child run.",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "graphId", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "args", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "scope", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
			{ID: "runId", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "graphId", Description: "Library id of the graph to run."},
			{ID: "awaitCompletion", Description: "Await the child run before continuing.", DefaultValue: true},
			{ID: "shareScope", Description: "Child writes into the parent scope.", DefaultValue: false},
			{ID: "shareBlackboard", Description: "Child shares the parent blackboard.", DefaultValue: false},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &runSubgraphNode{
				PassthroughFastForward: fibergraph.PassthroughFastForward{PinID: "next"},
				graphID:                cfg.String("graphId", ""),
				await:                  cfg.Bool("awaitCompletion", true),
				shareScope:             cfg.Bool("shareScope", false),
				shareBlackboard:        cfg.Bool("shareBlackboard", false),
			}, nil
		},
	}
}

func (n *runSubgraphNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	lib := ctx.Library()
	if lib == nil {
		return fibergraph.Failure("run-subgraph: graph library not configured"), nil
	}

	graphID := n.graphID
	if v, ok := ctx.Input("graphId"); ok {
		if s, ok := v.(string); ok && s != "" {
			graphID = s
		}
	}
	if graphID == "" {
		return fibergraph.Failure("run-subgraph: graph id is required"), nil
	}

	child, err := lib.Instantiate(ctx.Context(), graphID)
	if err != nil {
		return fibergraph.Failure("run-subgraph: " + err.Error()), nil
	}

	opts := []fibergraph.Option{
		fibergraph.WithEntity(ctx.EntityID()),
		fibergraph.WithAdapter(ctx.Adapter()),
		fibergraph.WithServices(ctx.Services()),
		fibergraph.WithLibrary(lib),
		fibergraph.WithLogger(ctx.Logger()),
	}
	if n.shareScope {
		opts = append(opts, fibergraph.WithScope(ctx.Scope()))
	}

	args, _ := ctx.Input("args")
	if n.shareBlackboard {
		opts = append(opts, fibergraph.WithBlackboard(ctx.Blackboard()))
		seedArgs(ctx.Blackboard(), args)
	} else {
		bb := fibergraph.NewBlackboard()
		seedArgs(bb, args)
		opts = append(opts, fibergraph.WithBlackboard(bb))
	}

	handle := fibergraph.NewRunner(child, opts...).Run(ctx.Context())

	// Parent teardown reaches the child even while we are suspended on
	// it.
	go func() {
		select {
		case <-ctx.Signal().Done():
			handle.Cancel("parent run cancelled")
		case <-handle.Done():
		}
	}()

	if !n.await {
		return &fibergraph.Result{
			Status:      fibergraph.StatusSuccess,
			Outputs:     map[string]any{"runId": handle.RunID()},
			Transitions: []fibergraph.Transition{{PinID: "next"}},
		}, nil
	}

	state, _ := handle.AwaitCompletion(ctx.Context())
	switch state {
	case fibergraph.StateFailed:
		reason := "child run failed"
		if err := handle.Err(); err != nil {
			reason = "child run failed: " + err.Error()
		}
		return fibergraph.Failure(reason), nil
	case fibergraph.StateCancelled:
		return fibergraph.Skipped("child run cancelled"), nil
	default:
		if failures := handle.NodeFailures(); len(failures) > 0 {
			return fibergraph.Failure("child run failed: " + failures[0].Reason), nil
		}
		return &fibergraph.Result{
			Status: fibergraph.StatusSuccess,
			Outputs: map[string]any{
				"runId": handle.RunID(),
				"scope": handle.ScopeSnapshot(),
			},
			Transitions: []fibergraph.Transition{{PinID: "next"}},
		}, nil
	}
}

// seedArgs copies an args object into a blackboard.
func seedArgs(bb *fibergraph.Blackboard, args any) {
	if m, ok := args.(map[string]any); ok {
		for k, v := range m {
			bb.Set(k, v)
		}
	}
}
