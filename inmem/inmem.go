// Package inmem provides in-memory entity store and graph
// implementations.
package inmem

import (
	"sync"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/google/uuid"
)

// Compile-time checks for ensuring Backend implements the scoped
// openers.
var (
	_ entity.StoreOpener = (*Backend)(nil)
	_ graph.Opener       = (*Backend)(nil)
)

// Backend implements an in-memory backend that hands out scoped store
// and graph handles and can be concurrently accessed by multiple
// clients.
type Backend struct {
	mu sync.Mutex

	stores map[uuid.UUID]*Store
	graphs map[uuid.UUID]*Graph
}

// NewBackend creates a new in-memory backend.
func NewBackend() *Backend {
	return &Backend{
		stores: make(map[uuid.UUID]*Store),
		graphs: make(map[uuid.UUID]*Graph),
	}
}

// OpenStore returns the entity store for the given scope, creating it
// on first use.
func (b *Backend) OpenStore(scope entity.Scope) entity.Store {
	b.mu.Lock()
	defer b.mu.Unlock()

	store := b.stores[scope.Application.UUID]
	if store == nil {
		store = NewStore()
		b.stores[scope.Application.UUID] = store
	}
	return store
}

// OpenGraph returns the graph for the given scope, creating it on first
// use.
func (b *Backend) OpenGraph(scope entity.Scope) graph.Graph {
	b.mu.Lock()
	defer b.mu.Unlock()

	g := b.graphs[scope.Application.UUID]
	if g == nil {
		g = NewGraph()
		b.graphs[scope.Application.UUID] = g
	}
	return g
}
