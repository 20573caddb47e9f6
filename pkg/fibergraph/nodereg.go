package fibergraph

import (
	"fmt"
	"sort"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph/registry"
)

// Registry holds the node kinds available to hydration.
type Registry struct {
	defs *registry.Registry[string, *Definition]
}

// NewRegistry creates an empty node-kind registry.
func NewRegistry() *Registry {
	return &Registry{defs: registry.New[string, *Definition]()}
}

// Register adds a node-kind definition. The definition must carry a
// non-empty Type and a constructor, and the type must not already be
// registered.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return fmt.Errorf("register node kind: nil definition")
	}
	if def.Type == "" {
		return fmt.Errorf("register node kind: empty type")
	}
	if def.New == nil {
		return fmt.Errorf("register node kind %q: nil constructor", def.Type)
	}
	if !r.defs.SetIfAbsent(def.Type, def) {
		return fmt.Errorf("register node kind %q: already registered", def.Type)
	}
	return nil
}

// MustRegister is Register that panics on error. Intended for
// package-level registration of built-in kinds.
func (r *Registry) MustRegister(def *Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get returns the definition for a node type.
func (r *Registry) Get(nodeType string) (*Definition, bool) {
	return r.defs.Get(nodeType)
}

// Has reports whether a node type is registered.
func (r *Registry) Has(nodeType string) bool {
	return r.defs.Has(nodeType)
}

// Types returns all registered node types, sorted.
func (r *Registry) Types() []string {
	types := r.defs.Keys()
	sort.Strings(types)
	return types
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	return r.defs.Len()
}
