package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/nodes"
)

func TestWaitForNodesParameterForms(t *testing.T) {
	cases := []struct {
		name  string
		param any
		want  []string
	}{
		{"comma string", "a, b", []string{"a", "b"}},
		{"whitespace string", "a\tb\nc", []string{"a", "b", "c"}},
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"any slice", []any{"a", "", "b", 7}, []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := makeNode(t, nodes.TypeWaitForNodes, map[string]any{"nodes": tc.param})
			res, err := n.Execute(execCtx(fibergraph.ContextConfig{}))
			require.NoError(t, err)
			assert.Equal(t, fibergraph.StatusSuccess, res.Status)
			assert.Equal(t, tc.want, res.WaitFor)
			assert.Equal(t, tc.want, res.Outputs["nodes"])
			assert.Equal(t, []string{"next"}, transitionPins(res))
		})
	}
}

func TestWaitForNodesUnionsInputAndParameter(t *testing.T) {
	n := makeNode(t, nodes.TypeWaitForNodes, map[string]any{"nodes": "a,b"})

	res, err := n.Execute(execCtx(fibergraph.ContextConfig{
		Inputs: map[string]any{"nodes": []string{"b", "c"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.WaitFor)
}

func TestWaitForNodesRequiresTargets(t *testing.T) {
	n := makeNode(t, nodes.TypeWaitForNodes, nil)
	res, err := n.Execute(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusFailure, res.Status)
	assert.Equal(t, "wait-for-nodes: no target nodes", res.Reason)
}

func TestWaitForNodesCarriesWaitForNext(t *testing.T) {
	n := makeNode(t, nodes.TypeWaitForNodes, map[string]any{
		"nodes":       "a",
		"waitForNext": true,
	})
	res, err := n.Execute(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.True(t, res.WaitForNext)

	n = makeNode(t, nodes.TypeWaitForNodes, map[string]any{"nodes": "a"})
	res, err = n.Execute(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.False(t, res.WaitForNext)
}

func TestWaitForNodesFastForward(t *testing.T) {
	n := makeNode(t, nodes.TypeWaitForNodes, map[string]any{"nodes": "a"})
	res, err := n.OnFastForward(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusSkipped, res.Status)
	assert.Empty(t, res.WaitFor)
	assert.Equal(t, []string{"next"}, transitionPins(res))
}
