// Package nodes provides the built-in control node kinds: branching,
// delays, parallel fan-out, blackboard variables, loops, completion
// waits, subgraph runs, event-spawned runs, and host component calls.
//
// Register them on a registry before hydrating assets that use them:
//
//	reg := fibergraph.NewRegistry()
//	nodes.MustRegister(reg)
package nodes
