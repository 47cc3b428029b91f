// Package graph defines the scoped property-graph contract consumed by
// the consistency propagator and implemented by the storage backends.
package graph

import (
	"errors"

	"github.com/caravel-labs/indexmirror/entity"
)

// ErrUnknownEdgeNodes is returned when upserting an edge with an
// unspecified source or target node.
var ErrUnknownEdgeNodes = errors.New("unknown source and/or target for edge")

// Graph is implemented by objects that can mutate or query a property
// graph confined to a single application scope.
type Graph interface {
	// UpsertEdge creates a new edge or refreshes the commit timestamp
	// of an existing one.
	UpsertEdge(edge *Edge) error

	// DeleteEdge removes the edge from the graph. The removal is
	// authoritative: once DeleteEdge returns nil the edge no longer
	// exists at the graph layer. Deleting an edge that is already
	// absent is a no-op so that delete events can be re-delivered.
	DeleteEdge(edge Edge) error

	// Edges returns an iterator over the edges incident to the given
	// node, in both directions.
	Edges(node entity.ID) (EdgeIterator, error)

	// CompactNode removes every edge incident to the given node and
	// returns an iterator over the removed edges. The returned
	// iterator is one-shot: the removal happens as part of this call
	// and is not repeated if the result is left partially drained.
	CompactNode(node entity.ID) (EdgeIterator, error)
}

// Opener is implemented by backends that can open a graph handle
// confined to a single application scope.
type Opener interface {
	// OpenGraph returns a graph handle for the given scope.
	OpenGraph(scope entity.Scope) Graph
}
