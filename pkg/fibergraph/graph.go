package fibergraph

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// GraphNode is one hydrated node: the constructed instance plus
// everything routing and input building need about it.
type GraphNode struct {
	ID       string
	Type     string
	EntityID string

	Instance   Node
	Definition *Definition

	// LiteralInputs holds the asset's literal input values keyed by
	// input pin id. Data connections overlay these at execution time.
	LiteralInputs map[string]any
}

// DataBinding is one data wire feeding a node, in asset declaration
// order.
type DataBinding struct {
	InputPin string
	From     PinRef
}

// Graph is a hydrated, immutable graph ready to run.
//
// Adjacency preserves asset declaration order: flow targets of a pin
// run (or fork) in the order their connections were authored, and data
// bindings overlay literal inputs in authored order, last write
// winning per input pin.
type Graph struct {
	id    string
	name  string
	nodes map[string]*GraphNode
	order []string
	roots []string

	// flowOut: node id -> (output pin id -> targets, insertion ordered).
	flowOut map[string]*orderedmap.OrderedMap[string, []PinRef]
	// dataIn: node id -> (input pin id -> sources, insertion ordered).
	dataIn map[string]*orderedmap.OrderedMap[string, []PinRef]
}

// ID returns the asset id the graph was hydrated from.
func (g *Graph) ID() string {
	return g.id
}

// Name returns the asset's display name.
func (g *Graph) Name() string {
	return g.name
}

// Node returns the hydrated node with the given id, or nil.
func (g *Graph) Node(id string) *GraphNode {
	return g.nodes[id]
}

// NodeIDs returns all node ids in asset declaration order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Roots returns the entry node ids in resolution order.
func (g *Graph) Roots() []string {
	roots := make([]string, len(g.roots))
	copy(roots, g.roots)
	return roots
}

// FlowTargets returns the flow connections leaving the given output
// pin, in declaration order.
func (g *Graph) FlowTargets(nodeID, pinID string) []PinRef {
	om := g.flowOut[nodeID]
	if om == nil {
		return nil
	}
	targets, _ := om.Get(pinID)
	return targets
}

// DataSources returns the data wires feeding a node, in declaration
// order across all of its input pins.
func (g *Graph) DataSources(nodeID string) []DataBinding {
	om := g.dataIn[nodeID]
	if om == nil {
		return nil
	}
	var bindings []DataBinding
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		for _, src := range pair.Value {
			bindings = append(bindings, DataBinding{InputPin: pair.Key, From: src})
		}
	}
	return bindings
}

// HasInboundFlow reports whether any flow connection targets the node.
func (g *Graph) HasInboundFlow(nodeID string) bool {
	for _, om := range g.flowOut {
		for pair := om.Oldest(); pair != nil; pair = pair.Next() {
			for _, target := range pair.Value {
				if target.NodeID == nodeID {
					return true
				}
			}
		}
	}
	return false
}
