package nodes_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/nodes"
)

func TestCallComponentInvokes(t *testing.T) {
	adapter := &fakeAdapter{result: "pong"}
	n := makeNode(t, nodes.TypeCallComponent, map[string]any{
		"component": "combat",
		"action":    "ping",
	})

	res, err := n.Execute(execCtx(fibergraph.ContextConfig{
		Adapter:  adapter,
		EntityID: "hero",
	}))
	require.NoError(t, err)
	assert.Equal(t, fibergraph.StatusSuccess, res.Status)
	assert.Equal(t, "pong", res.Outputs["result"])

	calls := adapter.invocations()
	require.Len(t, calls, 1)
	assert.Equal(t, "hero", calls[0].EntityID)
	assert.Equal(t, "combat", calls[0].Component)
	assert.Equal(t, "ping", calls[0].Action)
	assert.Nil(t, calls[0].Args)
}

func TestCallComponentValidation(t *testing.T) {
	cases := []struct {
		name    string
		params  map[string]any
		adapter fibergraph.Adapter
		reason  string
	}{
		{
			name:   "no adapter",
			params: map[string]any{"component": "c", "action": "a"},
			reason: "call-component: adapter not configured",
		},
		{
			name:    "no component",
			params:  map[string]any{"action": "a"},
			adapter: &fakeAdapter{},
			reason:  "call-component: component is required",
		},
		{
			name:    "no action",
			params:  map[string]any{"component": "c"},
			adapter: &fakeAdapter{},
			reason:  "call-component: action is required",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := makeNode(t, nodes.TypeCallComponent, tc.params)
			res, err := n.Execute(execCtx(fibergraph.ContextConfig{Adapter: tc.adapter}))
			require.NoError(t, err)
			assert.Equal(t, fibergraph.StatusFailure, res.Status)
			assert.Equal(t, tc.reason, res.Reason)
		})
	}
}

func TestCallComponentEntityResolutionOrder(t *testing.T) {
	params := map[string]any{"component": "c", "action": "a"}

	t.Run("context entity", func(t *testing.T) {
		adapter := &fakeAdapter{}
		n := makeNode(t, nodes.TypeCallComponent, params)
		_, err := n.Execute(execCtx(fibergraph.ContextConfig{
			Adapter:  adapter,
			EntityID: "ctx-entity",
		}))
		require.NoError(t, err)
		assert.Equal(t, "ctx-entity", adapter.invocations()[0].EntityID)
	})

	t.Run("targetEntity parameter wins over context", func(t *testing.T) {
		adapter := &fakeAdapter{}
		n := makeNode(t, nodes.TypeCallComponent, map[string]any{
			"component": "c", "action": "a", "targetEntity": "pinned",
		})
		_, err := n.Execute(execCtx(fibergraph.ContextConfig{
			Adapter:  adapter,
			EntityID: "ctx-entity",
		}))
		require.NoError(t, err)
		assert.Equal(t, "pinned", adapter.invocations()[0].EntityID)
	})

	t.Run("entity input wins over everything", func(t *testing.T) {
		adapter := &fakeAdapter{}
		n := makeNode(t, nodes.TypeCallComponent, map[string]any{
			"component": "c", "action": "a", "targetEntity": "pinned",
		})
		_, err := n.Execute(execCtx(fibergraph.ContextConfig{
			Adapter:  adapter,
			EntityID: "ctx-entity",
			Inputs:   map[string]any{"entity": "wired"},
		}))
		require.NoError(t, err)
		assert.Equal(t, "wired", adapter.invocations()[0].EntityID)
	})
}

func TestCallComponentArgResolution(t *testing.T) {
	base := map[string]any{"component": "c", "action": "a", "args": []any{"param"}}

	t.Run("args parameter", func(t *testing.T) {
		adapter := &fakeAdapter{}
		n := makeNode(t, nodes.TypeCallComponent, base)
		_, err := n.Execute(execCtx(fibergraph.ContextConfig{Adapter: adapter}))
		require.NoError(t, err)
		assert.Equal(t, []any{"param"}, adapter.invocations()[0].Args)
	})

	t.Run("positional pins win over parameter", func(t *testing.T) {
		adapter := &fakeAdapter{}
		n := makeNode(t, nodes.TypeCallComponent, base)
		_, err := n.Execute(execCtx(fibergraph.ContextConfig{
			Adapter: adapter,
			Inputs:  map[string]any{"arg0": 1, "arg1": "two"},
		}))
		require.NoError(t, err)
		assert.Equal(t, []any{1, "two"}, adapter.invocations()[0].Args)
	})

	t.Run("args input wins over everything", func(t *testing.T) {
		adapter := &fakeAdapter{}
		n := makeNode(t, nodes.TypeCallComponent, base)
		_, err := n.Execute(execCtx(fibergraph.ContextConfig{
			Adapter: adapter,
			Inputs: map[string]any{
				"args": []any{"wired"},
				"arg0": "ignored",
			},
		}))
		require.NoError(t, err)
		assert.Equal(t, []any{"wired"}, adapter.invocations()[0].Args)
	})
}

func TestCallComponentAdapterErrorIsFault(t *testing.T) {
	boom := errors.New("component exploded")
	adapter := &fakeAdapter{err: boom}
	n := makeNode(t, nodes.TypeCallComponent, map[string]any{
		"component": "c", "action": "a",
	})

	res, err := n.Execute(execCtx(fibergraph.ContextConfig{Adapter: adapter}))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
}
