package fibergraph

import "github.com/randalmurphal/fibergraph/pkg/fibergraph/config"

// PinDirection tells whether a pin accepts or produces.
type PinDirection string

const (
	PinIn  PinDirection = "in"
	PinOut PinDirection = "out"
)

// PinKind distinguishes sequencing pins from value pins.
type PinKind string

const (
	PinKindFlow PinKind = "flow"
	PinKindData PinKind = "data"
)

// Strategy controls how a flow output pin continues execution.
type Strategy string

const (
	// StrategySequential continues on the spawning fiber, ahead of its
	// queued work.
	StrategySequential Strategy = "sequential"
	// StrategyParallel forks a new fiber for each target.
	StrategyParallel Strategy = "parallel"
)

// Pin declares one connection point on a node kind.
// Strategy is meaningful only for flow output pins.
type Pin struct {
	ID        string
	Direction PinDirection
	Kind      PinKind
	Strategy  Strategy
}

// Parameter declares one configurable value of a node kind.
// DefaultValue applies when the asset binds nothing for the id.
type Parameter struct {
	ID           string
	Description  string
	DefaultValue any
}

// Definition describes a registered node kind: its pin layout, its
// parameter schema, and how to construct an instance.
//
// DefaultOutput names the flow output pin that routing follows when a
// successful result carries no explicit transitions. Kinds that route
// conditionally leave it empty and return transitions themselves.
type Definition struct {
	Type          string
	Label         string
	Description   string
	DefaultOutput string
	Pins          []Pin
	Parameters    []Parameter

	// New builds a node instance from its merged parameters
	// (declared defaults overlaid with the asset's bindings).
	New func(cfg config.Config) (Node, error)
}

// Pin returns the declared pin with the given id and direction, or
// nil. A kind may declare an input and an output under the same id, so
// lookups are direction-qualified.
func (d *Definition) Pin(id string, dir PinDirection) *Pin {
	for i := range d.Pins {
		if d.Pins[i].ID == id && d.Pins[i].Direction == dir {
			return &d.Pins[i]
		}
	}
	return nil
}

// OutputStrategy reports the strategy of the named flow output pin.
// Unknown pins and pins without a declared strategy are sequential.
func (d *Definition) OutputStrategy(pinID string) Strategy {
	p := d.Pin(pinID, PinOut)
	if p == nil || p.Strategy == "" {
		return StrategySequential
	}
	return p.Strategy
}

// HasInputPin reports whether the kind declares an input pin with the
// given id.
func (d *Definition) HasInputPin(id string) bool {
	return d.Pin(id, PinIn) != nil
}

// HasOutputPin reports whether the kind declares an output pin (flow
// or data) with the given id.
func (d *Definition) HasOutputPin(id string) bool {
	return d.Pin(id, PinOut) != nil
}
