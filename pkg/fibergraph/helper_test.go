package fibergraph_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/nodes"
)

var errBoom = errors.New("boom")

// recorder collects execution facts across fibers.
type recorder struct {
	mu       sync.Mutex
	order    []string
	entities map[string]string
}

func newRecorder() *recorder {
	return &recorder{entities: make(map[string]string)}
}

func (r *recorder) add(nodeID, entityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, nodeID)
	r.entities[nodeID] = entityID
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func (r *recorder) entity(nodeID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entities[nodeID]
}

// index returns the position of the first execution of nodeID, or -1.
func (r *recorder) index(nodeID string) int {
	for i, id := range r.list() {
		if id == nodeID {
			return i
		}
	}
	return -1
}

func (r *recorder) count(nodeID string) int {
	n := 0
	for _, id := range r.list() {
		if id == nodeID {
			n++
		}
	}
	return n
}

// probeNode records its execution and echoes a value.
type probeNode struct {
	fibergraph.PassthroughFastForward
	rec   *recorder
	value any
}

func (n *probeNode) Execute(ctx *fibergraph.ExecContext) (*fibergraph.Result, error) {
	n.rec.add(ctx.NodeID(), ctx.EntityID())
	return &fibergraph.Result{
		Status:  fibergraph.StatusSuccess,
		Outputs: map[string]any{"value": ctx.InputOr("value", n.value)},
	}, nil
}

func probeDefinition(rec *recorder) *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:          "probe",
		Label:         "Probe",
		DefaultOutput: "next",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "value", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindData},
			{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
			{ID: "value", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindData},
		},
		Parameters: []fibergraph.Parameter{{ID: "value"}},
		New: func(cfg config.Config) (fibergraph.Node, error) {
			return &probeNode{
				PassthroughFastForward: fibergraph.PassthroughFastForward{PinID: "next"},
				rec:                    rec,
				value:                  cfg.Any("value", nil),
			}, nil
		},
	}
}

// faultNode returns a host fault.
type faultNode struct {
	fibergraph.PassthroughFastForward
}

func (n *faultNode) Execute(*fibergraph.ExecContext) (*fibergraph.Result, error) {
	return nil, errBoom
}

func faultDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type:          "fault",
		DefaultOutput: "next",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
			{ID: "next", Direction: fibergraph.PinOut, Kind: fibergraph.PinKindFlow},
		},
		New: func(config.Config) (fibergraph.Node, error) {
			return &faultNode{fibergraph.PassthroughFastForward{PinID: "next"}}, nil
		},
	}
}

// explodeNode panics.
type explodeNode struct {
	fibergraph.PassthroughFastForward
}

func (n *explodeNode) Execute(*fibergraph.ExecContext) (*fibergraph.Result, error) {
	panic("kaboom")
}

func explodeDefinition() *fibergraph.Definition {
	return &fibergraph.Definition{
		Type: "explode",
		Pins: []fibergraph.Pin{
			{ID: "in", Direction: fibergraph.PinIn, Kind: fibergraph.PinKindFlow},
		},
		New: func(config.Config) (fibergraph.Node, error) {
			return &explodeNode{}, nil
		},
	}
}

func newTestRegistry(t *testing.T, rec *recorder) *fibergraph.Registry {
	t.Helper()
	reg := fibergraph.NewRegistry()
	nodes.MustRegister(reg)
	reg.MustRegister(probeDefinition(rec))
	reg.MustRegister(faultDefinition())
	reg.MustRegister(explodeDefinition())
	return reg
}

func node(id, nodeType string) fibergraph.SerializedNode {
	return fibergraph.SerializedNode{ID: id, Type: nodeType}
}

func flow(fromNode, fromPin, toNode string) fibergraph.Connection {
	return fibergraph.Connection{
		Kind: fibergraph.ConnectionFlow,
		From: fibergraph.PinRef{NodeID: fromNode, PinID: fromPin},
		To:   fibergraph.PinRef{NodeID: toNode, PinID: "in"},
	}
}

func data(fromNode, fromPin, toNode, toPin string) fibergraph.Connection {
	return fibergraph.Connection{
		Kind: fibergraph.ConnectionData,
		From: fibergraph.PinRef{NodeID: fromNode, PinID: fromPin},
		To:   fibergraph.PinRef{NodeID: toNode, PinID: toPin},
	}
}

func mustHydrate(t *testing.T, asset *fibergraph.GraphAsset, reg *fibergraph.Registry) *fibergraph.Graph {
	t.Helper()
	g, err := fibergraph.Hydrate(asset, reg)
	require.NoError(t, err)
	return g
}

// runToCompletion runs a graph and asserts it terminates within the
// test deadline.
func runToCompletion(t *testing.T, g *fibergraph.Graph, opts ...fibergraph.Option) (*fibergraph.Handle, fibergraph.State) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	h := fibergraph.NewRunner(g, opts...).Run(ctx)
	state, _ := h.AwaitCompletion(ctx)
	require.True(t, state.Terminal(), "run did not terminate, state %s", state)
	return h, state
}
