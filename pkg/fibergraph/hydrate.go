package fibergraph

import (
	"fmt"
	"maps"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
)

// Hydrate validates an asset against a registry of node kinds and
// builds the runnable graph: every node constructed with its merged
// parameters, every connection resolved to declared pins, and entry
// nodes determined.
//
// Parameter merge order is definition defaults first, then the asset's
// bindings; the constructor sees the union. Entry nodes resolve from
// the asset's declared roots when present, otherwise from flow
// topology (nodes with no inbound flow connection), otherwise the
// first declared node.
func Hydrate(asset *GraphAsset, reg *Registry) (*Graph, error) {
	if asset == nil {
		return nil, &HydrationError{Err: fmt.Errorf("nil asset")}
	}
	if reg == nil {
		return nil, &HydrationError{GraphID: asset.ID, Err: fmt.Errorf("nil registry")}
	}

	g := &Graph{
		id:      asset.ID,
		name:    asset.Name,
		nodes:   make(map[string]*GraphNode, len(asset.Nodes)),
		flowOut: make(map[string]*orderedmap.OrderedMap[string, []PinRef]),
		dataIn:  make(map[string]*orderedmap.OrderedMap[string, []PinRef]),
	}

	for _, sn := range asset.Nodes {
		if sn.ID == "" {
			return nil, &HydrationError{GraphID: asset.ID, Err: fmt.Errorf("node with empty id")}
		}
		if _, exists := g.nodes[sn.ID]; exists {
			return nil, &HydrationError{GraphID: asset.ID,
				Err: fmt.Errorf("%w: %q", ErrDuplicateNode, sn.ID)}
		}

		def, ok := reg.Get(sn.Type)
		if !ok {
			return nil, &HydrationError{GraphID: asset.ID,
				Err: fmt.Errorf("%w: %q (node %q)", ErrUnknownNodeType, sn.Type, sn.ID)}
		}

		params := make(map[string]any, len(def.Parameters)+len(sn.Params))
		for _, p := range def.Parameters {
			if p.DefaultValue != nil {
				params[p.ID] = p.DefaultValue
			}
		}
		maps.Copy(params, sn.Params)

		instance, err := def.New(config.New(params))
		if err != nil {
			return nil, &HydrationError{GraphID: asset.ID,
				Err: fmt.Errorf("construct node %q (type %q): %w", sn.ID, sn.Type, err)}
		}

		var literals map[string]any
		if len(sn.Inputs) > 0 {
			literals = make(map[string]any, len(sn.Inputs))
			maps.Copy(literals, sn.Inputs)
		}

		g.nodes[sn.ID] = &GraphNode{
			ID:            sn.ID,
			Type:          sn.Type,
			EntityID:      sn.EntityID,
			Instance:      instance,
			Definition:    def,
			LiteralInputs: literals,
		}
		g.order = append(g.order, sn.ID)
	}

	for i, conn := range asset.Connections {
		if err := validateConnection(g, conn); err != nil {
			return nil, &HydrationError{GraphID: asset.ID,
				Err: fmt.Errorf("connection %d: %w", i, err)}
		}
		switch conn.Kind {
		case ConnectionFlow:
			om := g.flowOut[conn.From.NodeID]
			if om == nil {
				om = orderedmap.New[string, []PinRef]()
				g.flowOut[conn.From.NodeID] = om
			}
			targets, _ := om.Get(conn.From.PinID)
			om.Set(conn.From.PinID, append(targets, conn.To))
		case ConnectionData:
			om := g.dataIn[conn.To.NodeID]
			if om == nil {
				om = orderedmap.New[string, []PinRef]()
				g.dataIn[conn.To.NodeID] = om
			}
			sources, _ := om.Get(conn.To.PinID)
			om.Set(conn.To.PinID, append(sources, conn.From))
		default:
			return nil, &HydrationError{GraphID: asset.ID,
				Err: fmt.Errorf("connection %d: unknown kind %q", i, conn.Kind)}
		}
	}

	roots, err := resolveRoots(asset, g)
	if err != nil {
		return nil, &HydrationError{GraphID: asset.ID, Err: err}
	}
	g.roots = roots

	return g, nil
}

func validateConnection(g *Graph, conn Connection) error {
	from := g.nodes[conn.From.NodeID]
	if from == nil {
		return fmt.Errorf("%w: source node %q", ErrDanglingConnection, conn.From.NodeID)
	}
	to := g.nodes[conn.To.NodeID]
	if to == nil {
		return fmt.Errorf("%w: target node %q", ErrDanglingConnection, conn.To.NodeID)
	}
	if !from.Definition.HasOutputPin(conn.From.PinID) {
		return fmt.Errorf("%w: node %q has no output pin %q",
			ErrDanglingConnection, conn.From.NodeID, conn.From.PinID)
	}
	if !to.Definition.HasInputPin(conn.To.PinID) {
		return fmt.Errorf("%w: node %q has no input pin %q",
			ErrDanglingConnection, conn.To.NodeID, conn.To.PinID)
	}
	return nil
}

func resolveRoots(asset *GraphAsset, g *Graph) ([]string, error) {
	if len(asset.Root) > 0 {
		roots := make([]string, 0, len(asset.Root))
		for _, id := range asset.Root {
			if g.nodes[id] == nil {
				return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, id)
			}
			roots = append(roots, id)
		}
		return roots, nil
	}

	var roots []string
	for _, id := range g.order {
		if !g.HasInboundFlow(id) {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 && len(g.order) > 0 {
		roots = []string{g.order[0]}
	}
	return roots, nil
}
