package graph

import (
	"time"

	"github.com/caravel-labs/indexmirror/entity"
)

// Edge describes a directed, typed connection that originates from
// Source and terminates at Target. Edges are stamped with the
// graph-commit time, not with an entity version.
type Edge struct {
	// The relationship label.
	Type string

	// The node the edge originates from.
	Source entity.ID

	// The node the edge points at.
	Target entity.ID

	// The timestamp when the edge was committed to the graph.
	CreatedAt time.Time
}

// EdgeIterator is implemented by objects that can iterate graph edges.
type EdgeIterator interface {
	entity.Iterator

	// Edge returns the currently fetched edge.
	Edge() *Edge
}
