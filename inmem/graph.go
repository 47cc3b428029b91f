package inmem

import (
	"fmt"
	"sync"
	"time"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/google/uuid"
)

// Compile-time check for ensuring Graph implements graph.Graph.
var _ graph.Graph = (*Graph)(nil)

// edgeKey identifies an edge by its endpoints and label.
type edgeKey struct {
	edgeType string
	source   entity.ID
	target   entity.ID
}

// Graph implements an in-memory property graph that can be
// concurrently accessed by multiple clients.
type Graph struct {
	mu sync.RWMutex

	edges map[edgeKey]*graph.Edge

	// Incident edge keys per node, both directions. Used for edge
	// enumeration and compaction.
	nodeEdges map[entity.ID]map[edgeKey]struct{}
}

// NewGraph creates a new in-memory property graph.
func NewGraph() *Graph {
	return &Graph{
		edges:     make(map[edgeKey]*graph.Edge),
		nodeEdges: make(map[entity.ID]map[edgeKey]struct{}),
	}
}

// UpsertEdge creates a new edge or refreshes the commit timestamp of an
// existing one.
func (g *Graph) UpsertEdge(edge *graph.Edge) error {
	if edge.Source.UUID == uuid.Nil || edge.Target.UUID == uuid.Nil {
		return fmt.Errorf("upsert edge: %w", graph.ErrUnknownEdgeNodes)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := keyFor(*edge)
	if existing := g.edges[key]; existing != nil {
		existing.CreatedAt = time.Now()
		*edge = *existing
		return nil
	}

	edge.CreatedAt = time.Now()
	eCopy := new(graph.Edge)
	*eCopy = *edge
	g.edges[key] = eCopy
	g.linkNode(edge.Source, key)
	g.linkNode(edge.Target, key)
	return nil
}

// DeleteEdge removes the edge from the graph. Deleting an absent edge
// is a no-op.
func (g *Graph) DeleteEdge(edge graph.Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeEdge(keyFor(edge))
	return nil
}

// Edges returns an iterator over the edges incident to the given node,
// in both directions.
func (g *Graph) Edges(node entity.ID) (graph.EdgeIterator, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return &edgeIterator{edges: g.incidentEdges(node)}, nil
}

// CompactNode removes every edge incident to the given node and returns
// a one-shot iterator over the removed edges.
func (g *Graph) CompactNode(node entity.ID) (graph.EdgeIterator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := g.incidentEdges(node)
	for _, edge := range removed {
		g.removeEdge(keyFor(*edge))
	}
	return &edgeIterator{edges: removed}, nil
}

// incidentEdges returns copies of the edges touching node. Callers must
// hold at least a read lock.
func (g *Graph) incidentEdges(node entity.ID) []*graph.Edge {
	var list []*graph.Edge
	for key := range g.nodeEdges[node] {
		eCopy := new(graph.Edge)
		*eCopy = *g.edges[key]
		list = append(list, eCopy)
	}
	return list
}

// removeEdge drops an edge and its incidence records. Callers must hold
// the write lock.
func (g *Graph) removeEdge(key edgeKey) {
	edge := g.edges[key]
	if edge == nil {
		return
	}
	delete(g.edges, key)
	g.unlinkNode(edge.Source, key)
	g.unlinkNode(edge.Target, key)
}

func (g *Graph) linkNode(node entity.ID, key edgeKey) {
	keys := g.nodeEdges[node]
	if keys == nil {
		keys = make(map[edgeKey]struct{})
		g.nodeEdges[node] = keys
	}
	keys[key] = struct{}{}
}

func (g *Graph) unlinkNode(node entity.ID, key edgeKey) {
	keys := g.nodeEdges[node]
	delete(keys, key)
	if len(keys) == 0 {
		delete(g.nodeEdges, node)
	}
}

func keyFor(edge graph.Edge) edgeKey {
	return edgeKey{edgeType: edge.Type, source: edge.Source, target: edge.Target}
}
