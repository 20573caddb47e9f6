package nodes_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/config"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/nodes"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/signal"
)

func newTestRegistry(t *testing.T) *fibergraph.Registry {
	t.Helper()
	reg := fibergraph.NewRegistry()
	nodes.MustRegister(reg)
	return reg
}

// makeNode constructs a built-in node instance from its registered
// definition.
func makeNode(t *testing.T, nodeType string, params map[string]any) fibergraph.Node {
	t.Helper()
	def, ok := newTestRegistry(t).Get(nodeType)
	require.True(t, ok, "node type %q not registered", nodeType)
	n, err := def.New(config.New(params))
	require.NoError(t, err)
	return n
}

// execCtx builds an ExecContext with a live signal so nodes that block
// on it can be released.
func execCtx(cfg fibergraph.ContextConfig) *fibergraph.ExecContext {
	if cfg.Signal == nil {
		cfg.Signal = signal.New()
	}
	if cfg.NodeID == "" {
		cfg.NodeID = "node-under-test"
	}
	return fibergraph.NewExecContext(cfg)
}

type invocation struct {
	EntityID  string
	Component string
	Action    string
	Args      []any
}

// fakeAdapter records InvokeAction calls and answers with a canned
// result or error.
type fakeAdapter struct {
	mu     sync.Mutex
	calls  []invocation
	result any
	err    error
}

func (a *fakeAdapter) GetEntity(context.Context, string) (any, error) {
	return nil, nil
}

func (a *fakeAdapter) GetComponent(context.Context, string, string) (any, error) {
	return nil, nil
}

func (a *fakeAdapter) InvokeAction(_ context.Context, entityID, componentType, actionID string, args []any) (any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, invocation{
		EntityID:  entityID,
		Component: componentType,
		Action:    actionID,
		Args:      args,
	})
	return a.result, a.err
}

func (a *fakeAdapter) invocations() []invocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]invocation(nil), a.calls...)
}

// transitionPins flattens a result's transitions to their pin ids.
func transitionPins(res *fibergraph.Result) []string {
	pins := make([]string, 0, len(res.Transitions))
	for _, tr := range res.Transitions {
		pins = append(pins, tr.PinID)
	}
	return pins
}
