package fibergraph

import "context"

// Adapter is the engine's only window into the host world. Nodes that
// touch entities or components go through it; the engine itself never
// interprets what an entity or component is.
type Adapter interface {
	// GetEntity resolves an entity handle by id.
	GetEntity(ctx context.Context, entityID string) (any, error)

	// GetComponent resolves a component of an entity by component type.
	GetComponent(ctx context.Context, entityID, componentType string) (any, error)

	// InvokeAction calls a named action on an entity's component and
	// returns its result.
	InvokeAction(ctx context.Context, entityID, componentType, actionID string, args []any) (any, error)
}

// Library resolves graph assets referenced by id, for subgraph and
// event-spawned runs.
type Library interface {
	// GetAsset returns the stored asset for id, or an error wrapping
	// ErrGraphNotFound.
	GetAsset(ctx context.Context, id string) (*GraphAsset, error)

	// Instantiate hydrates the stored asset for id against the
	// library's registry.
	Instantiate(ctx context.Context, id string) (*Graph, error)
}

// Services is an open-ended bag of host services handed to nodes, keyed
// by well-known names.
type Services map[string]any

// ServiceEvents is the conventional key under which the host exposes
// its event gateway.
const ServiceEvents = "events"
