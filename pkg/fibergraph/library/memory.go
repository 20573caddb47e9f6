package library

import (
	"context"
	"sort"
	"sync"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
)

// Memory is an in-process asset store. Assets are registered
// programmatically; lookups never touch disk.
type Memory struct {
	reg *fibergraph.Registry

	mu     sync.RWMutex
	assets map[string]*fibergraph.GraphAsset
}

var _ fibergraph.Library = (*Memory)(nil)

// NewMemory returns an empty in-memory store hydrating against reg.
func NewMemory(reg *fibergraph.Registry) *Memory {
	return &Memory{
		reg:    reg,
		assets: make(map[string]*fibergraph.GraphAsset),
	}
}

// Put registers or replaces an asset under its own id.
func (m *Memory) Put(asset *fibergraph.GraphAsset) error {
	if asset == nil || asset.ID == "" {
		return errEmptyAsset
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = asset
	return nil
}

// GetAsset returns the stored asset for id.
func (m *Memory) GetAsset(_ context.Context, id string) (*fibergraph.GraphAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	asset, ok := m.assets[id]
	if !ok {
		return nil, notFound(id)
	}
	return asset, nil
}

// Instantiate hydrates the stored asset for id.
func (m *Memory) Instantiate(ctx context.Context, id string) (*fibergraph.Graph, error) {
	return instantiate(ctx, m, m.reg, id)
}

// IDs lists the stored asset ids in sorted order.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.assets))
	for id := range m.assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
