package badgerstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Graph is a graph.Graph implementation scoped to one application.
// Every edge is stored once under its canonical key plus one incidence
// pointer per endpoint, so both incident-edge lookup and compaction are
// prefix scans.
type Graph struct {
	db    *badger.DB
	scope entity.Scope
}

var _ graph.Graph = (*Graph)(nil)

// UpsertEdge implements graph.Graph. Re-inserting an existing edge
// refreshes its creation timestamp.
func (g *Graph) UpsertEdge(edge *graph.Edge) error {
	if edge.Source.UUID == uuid.Nil || edge.Target.UUID == uuid.Nil {
		return fmt.Errorf("upsert edge: %w", graph.ErrUnknownEdgeNodes)
	}

	edge.CreatedAt = time.Now().UTC()
	val, err := json.Marshal(edge)
	if err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}

	key := edgeKey(g.scope, *edge)
	err = g.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, val); err != nil {
			return err
		}
		if err := txn.Set(nodeKey(g.scope, edge.Source, key), key); err != nil {
			return err
		}
		return txn.Set(nodeKey(g.scope, edge.Target, key), key)
	})
	if err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// DeleteEdge implements graph.Graph. Deleting an absent edge is a
// no-op.
func (g *Graph) DeleteEdge(edge graph.Edge) error {
	key := edgeKey(g.scope, edge)
	err := g.db.Update(func(txn *badger.Txn) error {
		return g.deleteEdgeKeys(txn, edge, key)
	})
	if err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	return nil
}

// Edges implements graph.Graph.
func (g *Graph) Edges(node entity.ID) (graph.EdgeIterator, error) {
	var edges []graph.Edge
	err := g.db.View(func(txn *badger.Txn) error {
		var err error
		edges, err = g.incidentEdges(txn, node)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}
	return &edgeIterator{edges: edges}, nil
}

// CompactNode implements graph.Graph. The collection and removal happen
// in one transaction, so a second compaction of the same node yields an
// empty iterator.
func (g *Graph) CompactNode(node entity.ID) (graph.EdgeIterator, error) {
	var edges []graph.Edge
	err := g.db.Update(func(txn *badger.Txn) error {
		var err error
		if edges, err = g.incidentEdges(txn, node); err != nil {
			return err
		}
		for i := range edges {
			if err := g.deleteEdgeKeys(txn, edges[i], edgeKey(g.scope, edges[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("compact node: %w", err)
	}
	return &edgeIterator{edges: edges}, nil
}

// incidentEdges resolves the incidence pointers of node into edge
// records.
func (g *Graph) incidentEdges(txn *badger.Txn, node entity.ID) ([]graph.Edge, error) {
	prefix := nodePrefix(g.scope, node)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var edges []graph.Edge
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var key []byte
		if err := it.Item().Value(func(val []byte) error {
			key = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return nil, err
		}

		item, err := txn.Get(key)
		if err != nil {
			return nil, err
		}
		var edge graph.Edge
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &edge)
		}); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// deleteEdgeKeys removes an edge record together with both of its
// incidence pointers.
func (g *Graph) deleteEdgeKeys(txn *badger.Txn, edge graph.Edge, key []byte) error {
	if err := txn.Delete(key); err != nil {
		return err
	}
	if err := txn.Delete(nodeKey(g.scope, edge.Source, key)); err != nil {
		return err
	}
	return txn.Delete(nodeKey(g.scope, edge.Target, key))
}
