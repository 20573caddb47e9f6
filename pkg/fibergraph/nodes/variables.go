package nodes

import (
	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// setVariableNode writes a value to the blackboard. The key comes from
// the "key" input or parameter; the value from the "value" input or
// parameter.
type setVariableNode struct {
	fibergraph.PassthroughFastForward
	key   string
	value any
}

func setVariableDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:          TypeSetVariable,
		Label:         "Set Variable",
		Description:   "Writes a blackboard variable.",
		DefaultOutput: "next",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "key", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "value", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "value", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "key", Description: "Blackboard key to write."},
			{ID: "value", Description: "Value to write when the value input is unset."},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &setVariableNode{
				PassthroughFastForward: fibergraph.PassthroughFastForward{PinID: "next"},
				key:                    cfg.String("key", ""),
				value:                  cfg.Any("value", nil),
			}, nil
		},
	}
}

func (n *setVariableNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	key := n.key
	if v, ok := ctx.Input("key"); ok {
		if s, ok := v.(string); ok {
			key = s
		}
	}
	if key == "" {
		return fibergraph.Failure("set-variable: key is required"), nil
	}

	value := ctx.InputOr("value", n.value)
	ctx.Blackboard().Set(key, value)

	return &fibergraph.Result{
		Status:  fibergraph.StatusSuccess,
		Outputs: map[string]any{"value": value},
	}, nil
}

// getVariableNode reads a blackboard variable, falling back to a
// configured default when unset.
type getVariableNode struct {
	fibergraph.PassthroughFastForward
	key          string
	defaultValue any
}

func getVariableDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:          TypeGetVariable,
		Label:         "Get Variable",
		Description:   "Reads a blackboard variable.",
		DefaultOutput: "next",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "key", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "value", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
			{ID: "found", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "key", Description: "Blackboard key to read."},
			{ID: "default", Description: "Value emitted when the key is unset."},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &getVariableNode{
				PassthroughFastForward: fibergraph.PassthroughFastForward{PinID: "next"},
				key:                    cfg.String("key", ""),
				defaultValue:           cfg.Any("default", nil),
			}, nil
		},
	}
}

func (n *getVariableNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	key := n.key
	if v, ok := ctx.Input("key"); ok {
		if s, ok := v.(string); ok {
			key = s
		}
	}
	if key == "" {
		return fibergraph.Failure("get-variable: key is required"), nil
	}

	value, found := ctx.Blackboard().Get(key)
	if !found {
		value = n.defaultValue
	}

	return &fibergraph.Result{
		Status:  fibergraph.StatusSuccess,
		Outputs: map[string]any{"value": value, "found": found},
	}, nil
}
