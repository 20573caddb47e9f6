package fibergraph

import (
	"fmt"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// ConnectionKind distinguishes the two wire types of a graph asset.
type ConnectionKind string

const (
	// ConnectionFlow carries execution sequencing between nodes.
	ConnectionFlow ConnectionKind = "flow"
	// ConnectionData carries a produced value from an output pin to an
	// input pin.
	ConnectionData ConnectionKind = "data"
)

// PinRef addresses one pin on one node.
type PinRef struct {
	NodeID string `json:"nodeId" yaml:"nodeId"`
	PinID  string `json:"pinId" yaml:"pinId"`
}

func (r PinRef) String() string {
	return r.NodeID + ":" + r.PinID
}

// Connection is a directed wire between two pins.
type Connection struct {
	Kind ConnectionKind `json:"kind" yaml:"kind"`
	From PinRef         `json:"from" yaml:"from"`
	To   PinRef         `json:"to" yaml:"to"`
}

// SerializedNode is one node entry in an authored asset.
//
// Params carries the author's parameter bindings; Inputs carries literal
// input values keyed by input pin id. Both are optional. EntityID pins
// the node to a specific host entity instead of the fiber's entity.
type SerializedNode struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Inputs   map[string]any `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	EntityID string         `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// RootList holds the asset's declared entry nodes. It decodes from
// either a single string or a list of strings.
type RootList []string

// UnmarshalJSON accepts "nodeId" or ["a", "b"].
func (r *RootList) UnmarshalJSON(data []byte) error {
	var single string
	if err := sonic.Unmarshal(data, &single); err == nil {
		*r = RootList{single}
		return nil
	}
	var many []string
	if err := sonic.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("root must be a string or list of strings: %w", err)
	}
	*r = RootList(many)
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence.
func (r *RootList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*r = RootList{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*r = RootList(many)
		return nil
	default:
		return fmt.Errorf("root must be a string or list of strings")
	}
}

// GraphAsset is the serialized form of an authored graph.
//
// Root is optional: when empty, hydration derives entry nodes from the
// flow topology (nodes with no inbound flow connection), falling back to
// the first declared node.
type GraphAsset struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Root        RootList         `json:"root,omitempty" yaml:"root,omitempty"`
	Nodes       []SerializedNode `json:"nodes" yaml:"nodes"`
	Connections []Connection     `json:"connections,omitempty" yaml:"connections,omitempty"`
	Metadata    map[string]any   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
