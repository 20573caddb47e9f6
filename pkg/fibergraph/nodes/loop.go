package nodes

import (
	"fmt"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// loopNode iterates a fixed number of times. State lives on the
// blackboard under "loop:<nodeId>:<loopKey>" so the node survives
// being re-entered by the flow cycle through its body.
type loopNode struct {
	count   int
	loopKey string
}

func loopDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:        TypeLoop,
		Label:       "Loop",
		Description: "Routes through its body a fixed number of times.",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "count", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "body", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "complete", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "index", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "count", Description: "Number of body iterations.", DefaultValue: 0},
			{ID: "loopKey", Description: "Suffix of the blackboard key holding the iteration index.", DefaultValue: "i"},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &loopNode{
				count:   cfg.Int("count", 0),
				loopKey: cfg.String("loopKey", "i"),
			}, nil
		},
	}
}

func (n *loopNode) stateKey(ctx *fibergraph.ExecContext) string {
	return fmt.Sprintf("loop:%s:%s", ctx.NodeID(), n.loopKey)
}

func (n *loopNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	count := n.count
	if v, ok := ctx.Input("count"); ok {
		count = config.New(map[string]any{"count": v}).Int("count", count)
	}

	key := n.stateKey(ctx)
	index := 0
	if v, ok := ctx.Blackboard().Get(key); ok {
		index = config.New(map[string]any{"index": v}).Int("index", 0)
	}

	if index < count {
		ctx.Blackboard().Set(key, index+1)
		return &fibergraph.Result{
			Status:      fibergraph.StatusSuccess,
			Outputs:     map[string]any{"index": index},
			Transitions: []fibergraph.Transition{{PinID: "body"}},
		}, nil
	}

	ctx.Blackboard().Delete(key)
	return &fibergraph.Result{
		Status:      fibergraph.StatusSuccess,
		Transitions: []fibergraph.Transition{{PinID: "complete"}},
	}, nil
}

// OnFastForward abandons the remaining iterations: clears the loop
// state and routes to complete.
func (n *loopNode) OnFastForward(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	ctx.Blackboard().Delete(n.stateKey(ctx))
	return &fibergraph.Result{
		Status:      fibergraph.StatusSkipped,
		Reason:      "fast-forwarded",
		Transitions: []fibergraph.Transition{{PinID: "complete"}},
	}, nil
}
