package index

import (
	"strings"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/google/uuid"
)

// Compile-time check to ensure Service implements Sink.
var _ Sink = (*Service)(nil)

// Service is the default Sink implementation. Document IDs are derived
// deterministically from the scope, the identities involved and the
// version so that the entries produced when indexing can be
// reconstructed later when an edge or a stale version must be
// de-indexed, without consulting the search backend.
type Service struct{}

// NewService creates the default mutation sink.
func NewService() *Service {
	return &Service{}
}

// IndexEdge computes the mutations that index the relationship carried
// by newEdge for the given entity snapshot.
func (s *Service) IndexEdge(scope entity.Scope, ent *entity.Entity, newEdge graph.Edge) (*Batch, error) {
	if ent.ID != newEdge.Source && ent.ID != newEdge.Target {
		return nil, ErrEntityNotOnEdge
	}

	fields := make(map[string]interface{}, len(ent.Fields)+4)
	for k, v := range ent.Fields {
		fields[k] = v
	}
	fields["entityId"] = ent.ID.String()
	fields["entityVersion"] = ent.Version.String()
	fields["edgeType"] = newEdge.Type
	fields["edgeSource"] = newEdge.Source.String()
	fields["edgeTarget"] = newEdge.Target.String()

	batch := Empty()
	batch.Add(EdgeDocumentID(scope, newEdge, ent.ID, ent.Version), fields)
	return batch, nil
}

// DeIndexEdge computes the mutations that remove the index entry
// produced by edge for one version of the far-end entity.
func (s *Service) DeIndexEdge(scope entity.Scope, edge graph.Edge, farEnd entity.ID, version uuid.UUID) (*Batch, error) {
	batch := Empty()
	batch.Remove(EdgeDocumentID(scope, edge, farEnd, version))
	return batch, nil
}

// IndexEntity computes the mutations that index the entity snapshot
// itself.
func (s *Service) IndexEntity(scope entity.Scope, ent *entity.Entity) (*Batch, error) {
	fields := make(map[string]interface{}, len(ent.Fields)+2)
	for k, v := range ent.Fields {
		fields[k] = v
	}
	fields["entityId"] = ent.ID.String()
	fields["entityVersion"] = ent.Version.String()

	batch := Empty()
	batch.Add(EntityDocumentID(scope, ent.ID, ent.Version), fields)
	return batch, nil
}

// DeIndexVersions computes the mutations that remove the index entries
// for the given versions of one entity.
func (s *Service) DeIndexVersions(scope entity.Scope, id entity.ID, versions []uuid.UUID) (*Batch, error) {
	batch := Empty()
	for _, version := range versions {
		batch.Remove(EntityDocumentID(scope, id, version))
	}
	return batch, nil
}

// EntityDocumentID returns the document ID for one version of an
// entity.
func EntityDocumentID(scope entity.Scope, id entity.ID, version uuid.UUID) string {
	return strings.Join([]string{
		scope.Application.UUID.String(),
		"entity",
		id.Type,
		id.UUID.String(),
		version.String(),
	}, "|")
}

// EdgeDocumentID returns the document ID for the entry an edge
// contributes for one version of the far-end entity.
func EdgeDocumentID(scope entity.Scope, edge graph.Edge, farEnd entity.ID, version uuid.UUID) string {
	return strings.Join([]string{
		scope.Application.UUID.String(),
		"edge",
		edge.Type,
		edge.Source.String(),
		edge.Target.String(),
		farEnd.String(),
		version.String(),
	}, "|")
}
