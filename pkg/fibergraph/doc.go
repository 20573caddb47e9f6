// Package fibergraph is a runtime engine for visual data-flow graphs.
//
// Authored graph assets describe nodes connected by typed pins: flow pins
// carry sequencing, data pins carry values. The engine hydrates an asset
// against a registry of node kinds, then executes the hydrated graph on
// cooperative fibers: one logical execution lane per graph root, each
// with a FIFO work queue. Sequential transitions stay on the spawning
// fiber; parallel transitions fork new fibers which the spawner may await
// or detach.
//
// A run owns a pin-level scope (last value produced per output pin), a
// string-keyed blackboard shared by all nodes, an execution signal with
// two one-shot latches (cancelled, fast-forward), per-node completion
// counts, and waiters that let a node block its fiber until other nodes
// reach a completion count.
//
// Basic usage:
//
//	reg := fibergraph.NewRegistry()
//	nodes.MustRegister(reg)
//
//	graph, err := fibergraph.Hydrate(asset, reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runner := fibergraph.NewRunner(graph,
//	    fibergraph.WithEntity("player-1"),
//	    fibergraph.WithAdapter(world))
//	handle := runner.Run(context.Background())
//
//	state, err := handle.AwaitCompletion(context.Background())
//
// The engine never inspects host entities or components; it delegates all
// host interaction to the configured Adapter. Graph assets referenced by
// id (subgraphs, event-spawned graphs) resolve through a Library.
package fibergraph
