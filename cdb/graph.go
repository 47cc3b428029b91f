package cdb

import (
	"database/sql"
	"fmt"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/google/uuid"
)

var upsertEdgeQuery = `
INSERT INTO edges (app, edge_type, src_type, src_id, dst_type, dst_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (app, edge_type, src_type, src_id, dst_type, dst_id)
DO UPDATE SET created_at=NOW()
RETURNING created_at`

var deleteEdgeQuery = `
DELETE FROM edges
WHERE app=$1 AND edge_type=$2 AND src_type=$3 AND src_id=$4 AND dst_type=$5 AND dst_id=$6`

var incidentEdgesQuery = `
SELECT edge_type, src_type, src_id, dst_type, dst_id, created_at FROM edges
WHERE app=$1 AND ((src_type=$2 AND src_id=$3) OR (dst_type=$2 AND dst_id=$3))`

var compactNodeQuery = `
DELETE FROM edges
WHERE app=$1 AND ((src_type=$2 AND src_id=$3) OR (dst_type=$2 AND dst_id=$3))
RETURNING edge_type, src_type, src_id, dst_type, dst_id, created_at`

// Graph is a graph.Graph implementation scoped to one application.
type Graph struct {
	db    *sql.DB
	scope entity.Scope
}

var _ graph.Graph = (*Graph)(nil)

// UpsertEdge implements graph.Graph. Re-inserting an existing edge
// refreshes its creation timestamp.
func (g *Graph) UpsertEdge(edge *graph.Edge) error {
	if edge.Source.UUID == uuid.Nil || edge.Target.UUID == uuid.Nil {
		return fmt.Errorf("upsert edge: %w", graph.ErrUnknownEdgeNodes)
	}

	row := g.db.QueryRow(upsertEdgeQuery,
		g.scope.Application.UUID, edge.Type,
		edge.Source.Type, edge.Source.UUID,
		edge.Target.Type, edge.Target.UUID,
	)
	if err := row.Scan(&edge.CreatedAt); err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	edge.CreatedAt = edge.CreatedAt.UTC()
	return nil
}

// DeleteEdge implements graph.Graph. Deleting an absent edge is a
// no-op.
func (g *Graph) DeleteEdge(edge graph.Edge) error {
	_, err := g.db.Exec(deleteEdgeQuery,
		g.scope.Application.UUID, edge.Type,
		edge.Source.Type, edge.Source.UUID,
		edge.Target.Type, edge.Target.UUID,
	)
	if err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	return nil
}

// Edges implements graph.Graph.
func (g *Graph) Edges(node entity.ID) (graph.EdgeIterator, error) {
	rows, err := g.db.Query(incidentEdgesQuery, g.scope.Application.UUID, node.Type, node.UUID)
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}
	return &edgeIterator{rows: rows}, nil
}

// CompactNode implements graph.Graph. The removal happens server-side
// in one statement; the returned iterator walks the deleted rows.
func (g *Graph) CompactNode(node entity.ID) (graph.EdgeIterator, error) {
	rows, err := g.db.Query(compactNodeQuery, g.scope.Application.UUID, node.Type, node.UUID)
	if err != nil {
		return nil, fmt.Errorf("compact node: %w", err)
	}
	return &edgeIterator{rows: rows}, nil
}
