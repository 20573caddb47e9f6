// Package library provides graph asset storage: the stores behind the
// engine's Library interface plus the asset codec and schema
// validation.
//
// Three stores are included: Memory for tests and programmatic
// assembly, Dir for directories of JSON/YAML asset files, and SQLite
// for single-process persistent catalogs. All of them hydrate against
// a registry handed in at construction.
package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
)

// ErrLibraryClosed indicates the store has been closed.
var ErrLibraryClosed = errors.New("graph library closed")

var errEmptyAsset = errors.New("asset must have an id")

// notFound wraps the engine's sentinel with the missing id.
func notFound(id string) error {
	return fmt.Errorf("%w: %q", fibergraph.ErrGraphNotFound, id)
}

// instantiate hydrates an asset fetched by a store.
func instantiate(ctx context.Context, store fibergraph.Library, reg *fibergraph.Registry, id string) (*fibergraph.Graph, error) {
	asset, err := store.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return fibergraph.Hydrate(asset, reg)
}
