package nodes

import (
	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// argPins are the positional argument input pins, in call order.
var argPins = []string{"arg0", "arg1", "arg2", "arg3"}

// callComponentNode invokes a named action on a host component
// through the adapter.
//
// The target entity resolves in order: the "entity" input, the
// "targetEntity" parameter, the context entity. The "useCurrentEntity"
// parameter is advisory and does not change that order.
type callComponentNode struct {
	fibergraph.PassthroughFastForward
	component    string
	action       string
	targetEntity string
	args         []any
}

func callComponentDefinition() *fibergraph.Definition {
	pins := []fibergraph.Pin{
		{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
		{ID: "entity", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
		{ID: "args", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
		{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
		{ID: "result", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
	}
	for _, id := range argPins {
		pins = append(pins, fibergraph.Pin{
			ID:        id,
			Direction: fibergraph.PinIn,
			Kind:      fibergraph.PinKindData,
		})
	}
	return &fibergraph.Definition{
		Type:          TypeCallComponent,
		Label:         "Call Component",
		Description:   "Invokes a component action through the host adapter.",
		DefaultOutput: "next",
		Pins:          pins,
		Parameters: []fibergraph.Parameter{
			{ID: "component", Description: "Component type holding the action."},
			{ID: "action", Description: "Action id to invoke."},
			{ID: "targetEntity", Description: "Entity id overriding the context entity."},
			{ID: "useCurrentEntity", Description: "Advisory; resolution order is entity input, targetEntity, context entity.", DefaultValue: true},
			{ID: "args", Description: "Argument list used when no argument inputs are wired."},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &callComponentNode{
				PassthroughFastForward: fibergraph.PassthroughFastForward{PinID: "next"},
				component:              cfg.String("component", ""),
				action:                 cfg.String("action", ""),
				targetEntity:           cfg.String("targetEntity", ""),
				args:                   cfg.AnySlice("args", nil),
			}, nil
		},
	}
}

func (n *callComponentNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	adapter := ctx.Adapter()
	if adapter == nil {
		return fibergraph.Failure("call-component: adapter not configured"), nil
	}
	if n.component == "" {
		return fibergraph.Failure("call-component: component is required"), nil
	}
	if n.action == "" {
		return fibergraph.Failure("call-component: action is required"), nil
	}

	entityID := ctx.EntityID()
	if n.targetEntity != "" {
		entityID = n.targetEntity
	}
	if v, ok := ctx.Input("entity"); ok {
		if s, ok := v.(string); ok && s != "" {
			entityID = s
		}
	}

	args := n.resolveArgs(ctx)

	result, err := adapter.InvokeAction(ctx.Context(), entityID, n.component, n.action, args)
	if err != nil {
		// Host faults tear the run down.
		return nil, err
	}

	return &fibergraph.Result{
		Status:  fibergraph.StatusSuccess,
		Outputs: map[string]any{"result": result},
	}, nil
}

func (n *callComponentNode) resolveArgs(ctx *fibergraph.ExecContext) []any {
	if v, ok := ctx.Input("args"); ok {
		if list := config.New(map[string]any{"args": v}).AnySlice("args", nil); list != nil {
			return list
		}
	}
	var positional []any
	for _, pin := range argPins {
		if v, ok := ctx.Input(pin); ok {
			positional = append(positional, v)
		}
	}
	if positional != nil {
		return positional
	}
	return n.args
}
