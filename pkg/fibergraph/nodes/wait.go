package nodes

import (
	"strings"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// waitForNodesNode suspends its fiber until a set of other nodes has
// completed. Targets come from the "nodes" parameter (comma or
// whitespace delimited string, or a string array) unioned with the
// "nodes" input pin; at least one target is required.
type waitForNodesNode struct {
	fibergraph.PassthroughFastForward
	targets     []string
	waitForNext bool
}

func waitForNodesDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:        TypeWaitForNodes,
		Label:       "Wait For Nodes",
		Description: "Suspends until other nodes have completed.",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "nodes", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "nodes", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
		},
		Parameters: []fibergraph.Parameter{
			{ID: "nodes", Description: "Node ids to wait for."},
			{ID: "waitForNext", Description: "Demand a completion after the wait begins.", DefaultValue: false},
		},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &waitForNodesNode{
				PassthroughFastForward: fibergraph.PassthroughFastForward{PinID: "next"},
				targets:                parseTargets(cfg.Any("nodes", nil)),
				waitForNext:            cfg.Bool("waitForNext", false),
			}, nil
		},
	}
}

func (n *waitForNodesNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	targets := unionTargets(n.targets, parseTargets(ctx.InputOr("nodes", nil)))
	if len(targets) == 0 {
		return fibergraph.Failure("wait-for-nodes: no target nodes"), nil
	}

	return &fibergraph.Result{
		Status:      fibergraph.StatusSuccess,
		Outputs:     map[string]any{"nodes": targets},
		Transitions: []fibergraph.Transition{{PinID: "next"}},
		WaitFor:     targets,
		WaitForNext: n.waitForNext,
	}, nil
}

// parseTargets accepts a delimited string or a string array.
func parseTargets(v any) []string {
	switch val := v.(type) {
	case string:
		return strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
	case []string:
		return val
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// unionTargets merges target lists preserving first-seen order.
func unionTargets(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
