package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/nodes"
)

func TestParallelForksAllBranches(t *testing.T) {
	n := makeNode(t, nodes.TypeParallel, nil)

	res, err := n.Execute(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusSuccess, res.Status)
	assert.Equal(t, []string{"branchA", "branchB", "branchC", "branchD"}, transitionPins(res))
	for _, tr := range res.Transitions {
		assert.Equal(t, fibergraph.StrategyParallel, tr.Strategy)
		assert.False(t, tr.Detach)
	}
}

func TestParallelDetachedBranches(t *testing.T) {
	n := makeNode(t, nodes.TypeParallel, map[string]any{"awaitCompletion": false})

	res, err := n.Execute(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	for _, tr := range res.Transitions {
		assert.True(t, tr.Detach)
	}
}

func TestParallelFastForwardForksNothing(t *testing.T) {
	n := makeNode(t, nodes.TypeParallel, nil)

	res, err := n.OnFastForward(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusSkipped, res.Status)
	assert.Empty(t, res.Transitions)
}
