package nodes_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/nodes"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/signal"
)

func TestDelayZeroDurationImmediate(t *testing.T) {
	n := makeNode(t, nodes.TypeDelay, nil)

	start := time.Now()
	res, err := n.Execute(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusSuccess, res.Status)
	assert.Equal(t, []string{"next"}, transitionPins(res))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDelaySleepsConfiguredDuration(t *testing.T) {
	n := makeNode(t, nodes.TypeDelay, map[string]any{"ms": 30})

	start := time.Now()
	res, err := n.Execute(execCtx(fibergraph.ContextConfig{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"next"}, transitionPins(res))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDelayInputOverridesParameter(t *testing.T) {
	n := makeNode(t, nodes.TypeDelay, map[string]any{"ms": 30_000})

	start := time.Now()
	res, err := n.Execute(execCtx(fibergraph.ContextConfig{
		Inputs: map[string]any{"ms": 10},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"next"}, transitionPins(res))
	assert.Less(t, time.Since(start), time.Second)
}

func TestDelayCancelSkipsWithoutRouting(t *testing.T) {
	n := makeNode(t, nodes.TypeDelay, map[string]any{"ms": 30_000})

	sig := signal.New()
	go func() {
		time.Sleep(10 * time.Millisecond)
		sig.Cancel("test teardown")
	}()

	res, err := n.Execute(execCtx(fibergraph.ContextConfig{Signal: sig}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusSkipped, res.Status)
	assert.Equal(t, "run cancelled", res.Reason)
	assert.Empty(t, res.Transitions)
}

func TestDelayFastForwardStillRoutes(t *testing.T) {
	n := makeNode(t, nodes.TypeDelay, map[string]any{"ms": 30_000})

	sig := signal.New()
	go func() {
		time.Sleep(10 * time.Millisecond)
		sig.FastForward()
	}()

	res, err := n.Execute(execCtx(fibergraph.ContextConfig{Signal: sig}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusSkipped, res.Status)
	assert.Equal(t, []string{"next"}, transitionPins(res))
}
