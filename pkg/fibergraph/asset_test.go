package fibergraph_test

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
)

func TestRootListJSON(t *testing.T) {
	var asset fibergraph.GraphAsset
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":"g","root":"start","nodes":[]}`), &asset))
	assert.Equal(t, fibergraph.RootList{"start"}, asset.Root)

	require.NoError(t, sonic.Unmarshal([]byte(`{"id":"g","root":["a","b"],"nodes":[]}`), &asset))
	assert.Equal(t, fibergraph.RootList{"a", "b"}, asset.Root)

	var bad fibergraph.GraphAsset
	assert.Error(t, sonic.Unmarshal([]byte(`{"id":"g","root":7,"nodes":[]}`), &bad))
}

func TestRootListYAML(t *testing.T) {
	var asset fibergraph.GraphAsset
	require.NoError(t, yaml.Unmarshal([]byte("id: g\nroot: start\n"), &asset))
	assert.Equal(t, fibergraph.RootList{"start"}, asset.Root)

	require.NoError(t, yaml.Unmarshal([]byte("id: g\nroot: [a, b]\n"), &asset))
	assert.Equal(t, fibergraph.RootList{"a", "b"}, asset.Root)

	var bad fibergraph.GraphAsset
	assert.Error(t, yaml.Unmarshal([]byte("id: g\nroot: {x: 1}\n"), &bad))
}

func TestGraphAssetDecode(t *testing.T) {
	raw := `{
		"id": "patrol",
		"name": "Patrol Loop",
		"root": "start",
		"nodes": [
			{"id": "start", "type": "probe", "params": {"value": 1}},
			{"id": "end", "type": "probe", "inputs": {"value": "x"}, "entityId": "guard-1"}
		],
		"connections": [
			{"kind": "flow", "from": {"nodeId": "start", "pinId": "next"}, "to": {"nodeId": "end", "pinId": "in"}}
		],
		"metadata": {"author": "tests"}
	}`

	var asset fibergraph.GraphAsset
	require.NoError(t, sonic.Unmarshal([]byte(raw), &asset))

	assert.Equal(t, "patrol", asset.ID)
	assert.Equal(t, "Patrol Loop", asset.Name)
	require.Len(t, asset.Nodes, 2)
	assert.Equal(t, "guard-1", asset.Nodes[1].EntityID)
	require.Len(t, asset.Connections, 1)
	assert.Equal(t, fibergraph.ConnectionFlow, asset.Connections[0].Kind)
	assert.Equal(t, "start:next", asset.Connections[0].From.String())
}
