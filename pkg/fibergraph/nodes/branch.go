package nodes

import (
	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/expr"
)

// branchNode routes to "true" or "false" from a coerced condition.
//
// The condition resolves in order: the "condition" input pin, an
// "expression" parameter evaluated against the blackboard merged with
// the node's inputs, else the "defaultCondition" parameter.
type branchNode struct {
	expression       string
	defaultCondition bool
}

func branchDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:        TypeBranch,
		Label:       "Branch",
		Description: "Routes flow by a boolean condition.",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "condition", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "true", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "false", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "expression", Description: "Condition expression evaluated against the blackboard."},
			{ID: "defaultCondition", Description: "Condition used when neither input nor expression is set.", DefaultValue: false},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &branchNode{
				expression:       cfg.String("expression", ""),
				defaultCondition: cfg.Bool("defaultCondition", false),
			}, nil
		},
	}
}

func (n *branchNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	verdict, err := n.decide(ctx)
	if err != nil {
		return fibergraph.Failure(err.Error()), nil
	}

	pin := "false"
	if verdict {
		pin = "true"
	}
	return &fibergraph.Result{
		Status:      fibergraph.StatusSuccess,
		Outputs:     map[string]any{"result": verdict},
		Transitions: []fibergraph.Transition{{PinID: pin}},
	}, nil
}

// OnFastForward evaluates normally: the decision is pure and the flow
// must still pick a side.
func (n *branchNode) OnFastForward(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	return n.Execute(ctx)
}

func (n *branchNode) decide(ctx *fibergraph.ExecContext) (bool, error) {
	if v, ok := ctx.Input("condition"); ok {
		return expr.IsTruthy(v), nil
	}
	if n.expression != "" {
		vars := ctx.Blackboard().Snapshot()
		for k, v := range ctx.Inputs() {
			vars[k] = v
		}
		return expr.Eval(n.expression, vars)
	}
	return n.defaultCondition, nil
}
