package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
)

// assetGlob matches every asset file a directory store indexes.
const assetGlob = "**/*.{json,yaml,yml}"

// Dir serves assets from a directory tree of JSON and YAML files.
// Files are indexed by the asset id they declare, not by filename, so
// layout under the root is free-form. Reload re-scans the tree.
type Dir struct {
	fsys fs.FS
	reg  *fibergraph.Registry

	mu     sync.RWMutex
	assets map[string]*fibergraph.GraphAsset
	paths  map[string]string
}

var _ fibergraph.Library = (*Dir)(nil)

// NewDir indexes the asset files under root and returns the store.
func NewDir(root string, reg *fibergraph.Registry) (*Dir, error) {
	return NewDirFS(os.DirFS(root), reg)
}

// NewDirFS is NewDir over an arbitrary fs.FS, for embedded or test
// trees.
func NewDirFS(fsys fs.FS, reg *fibergraph.Registry) (*Dir, error) {
	d := &Dir{fsys: fsys, reg: reg}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-scans the tree and swaps the index. A decode failure in
// any file fails the whole reload and leaves the previous index
// serving.
func (d *Dir) Reload() error {
	matches, err := doublestar.Glob(d.fsys, assetGlob)
	if err != nil {
		return fmt.Errorf("scan asset dir: %w", err)
	}
	sort.Strings(matches)

	assets := make(map[string]*fibergraph.GraphAsset, len(matches))
	paths := make(map[string]string, len(matches))
	for _, path := range matches {
		asset, err := d.load(path)
		if err != nil {
			return err
		}
		if prev, ok := paths[asset.ID]; ok {
			return fmt.Errorf("asset id %q declared by both %s and %s", asset.ID, prev, path)
		}
		assets[asset.ID] = asset
		paths[asset.ID] = path
	}

	d.mu.Lock()
	d.assets = assets
	d.paths = paths
	d.mu.Unlock()
	return nil
}

func (d *Dir) load(path string) (*fibergraph.GraphAsset, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data, err := fs.ReadFile(d.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", path, err)
	}
	asset, err := DecodeAsset(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return asset, nil
}

// GetAsset returns the indexed asset for id.
func (d *Dir) GetAsset(_ context.Context, id string) (*fibergraph.GraphAsset, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	asset, ok := d.assets[id]
	if !ok {
		return nil, notFound(id)
	}
	return asset, nil
}

// Instantiate hydrates the indexed asset for id.
func (d *Dir) Instantiate(ctx context.Context, id string) (*fibergraph.Graph, error) {
	return instantiate(ctx, d, d.reg, id)
}

// IDs lists the indexed asset ids in sorted order.
func (d *Dir) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.assets))
	for id := range d.assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Path reports the file an asset id was loaded from.
func (d *Dir) Path(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	path, ok := d.paths[id]
	return path, ok
}
