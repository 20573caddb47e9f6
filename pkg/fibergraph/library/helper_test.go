package library_test

import (
	"testing"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
	"github.com/randalmurphal/fibergraph/pkg/fibergraph/nodes"
)

func newTestRegistry(t *testing.T) *fibergraph.Registry {
	t.Helper()
	reg := fibergraph.NewRegistry()
	nodes.MustRegister(reg)
	return reg
}

const sampleJSON = `{
  "id": "patrol",
  "name": "Patrol",
  "nodes": [
    {"id": "start", "type": "set-variable", "params": {"key": "state", "value": "patrolling"}},
    {"id": "pause", "type": "delay", "params": {"ms": 5}}
  ],
  "connections": [
    {"kind": "flow", "from": {"nodeId": "start", "pinId": "next"}, "to": {"nodeId": "pause", "pinId": "in"}}
  ]
}`

const sampleYAML = `id: patrol
name: Patrol
nodes:
  - id: start
    type: set-variable
    params:
      key: state
      value: patrolling
  - id: pause
    type: delay
    params:
      ms: 5
connections:
  - kind: flow
    from: {nodeId: start, pinId: next}
    to: {nodeId: pause, pinId: in}
`

func sampleAsset(id string) *fibergraph.GraphAsset {
	return &fibergraph.GraphAsset{
		ID: id,
		Nodes: []fibergraph.SerializedNode{
			{
				ID:     "start",
				Type:   nodes.TypeSetVariable,
				Params: map[string]any{"key": "state", "value": "ready"},
			},
		},
	}
}
