package index

import (
	"errors"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/google/uuid"
)

var (
	// ErrMissingDocumentID is returned when applying an instruction
	// that does not carry a document ID.
	ErrMissingDocumentID = errors.New("document ID not specified")

	// ErrEntityNotOnEdge is returned when asked to index an edge for
	// an entity that is neither of the edge's endpoints.
	ErrEntityNotOnEdge = errors.New("entity is not an endpoint of edge")
)

// Sink is implemented by objects that can compute the index mutations
// required for individual entity versions and edges. Sinks only compute
// batches; committing them is the caller's responsibility.
type Sink interface {
	// IndexEdge computes the mutations that index the relationship
	// carried by newEdge for the given entity snapshot.
	IndexEdge(scope entity.Scope, ent *entity.Entity, newEdge graph.Edge) (*Batch, error)

	// DeIndexEdge computes the mutations that remove the index entry
	// produced by edge for one version of the far-end entity.
	DeIndexEdge(scope entity.Scope, edge graph.Edge, farEnd entity.ID, version uuid.UUID) (*Batch, error)

	// IndexEntity computes the mutations that index the entity
	// snapshot itself.
	IndexEntity(scope entity.Scope, ent *entity.Entity) (*Batch, error)

	// DeIndexVersions computes the mutations that remove the index
	// entries for the given versions of one entity.
	DeIndexVersions(scope entity.Scope, id entity.ID, versions []uuid.UUID) (*Batch, error)
}

// Writer is implemented by objects that can apply a computed batch of
// index mutations to a search backend.
type Writer interface {
	// Write applies every instruction in the batch. Implementations
	// are expected to tolerate re-application of the same batch.
	Write(batch *Batch) error
}
