// Package graphtest defines a re-usable set of graph-related tests
// that can be executed against any type that implements graph.Graph.
package graphtest

import (
	"errors"
	"sort"
	"testing"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/google/uuid"
)

// Suite defines a re-usable set of graph-related tests that can be
// executed against any type that implements graph.Graph.
type Suite struct {
	G graph.Graph

	// Optional helper functions.
	BeforeEach func(*testing.T)
	AfterEach  func(*testing.T)
}

// TestGraph runs the full suite against s.G.
func (s *Suite) TestGraph(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*testing.T, graph.Graph)
	}{
		{"Upsert edge", TestUpsertEdge},
		{"Delete edge", TestDeleteEdge},
		{"Incident edges", TestIncidentEdges},
		{"Compact node", TestCompactNode},
		{"Compact node one-shot", TestCompactNodeOneShot},
	}

	if s.BeforeEach == nil {
		s.BeforeEach = func(t *testing.T) {}
	}

	if s.AfterEach == nil {
		s.AfterEach = func(t *testing.T) {}
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s.BeforeEach(t)
			test.fn(t, s.G)
			s.AfterEach(t)
		})
	}
}

func node(collection string) entity.ID {
	return entity.ID{Type: collection, UUID: uuid.New()}
}

func drain(t *testing.T, it graph.EdgeIterator) []graph.Edge {
	var edges []graph.Edge
	for it.Next() {
		edges = append(edges, *it.Edge())
	}
	if err := it.Error(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("failed to close iterator: %v", err)
	}
	return edges
}

// TestUpsertEdge verifies the edge upsert logic.
func TestUpsertEdge(t *testing.T, g graph.Graph) {
	server, region := node("servers"), node("regions")

	edge := &graph.Edge{Type: "in", Source: server, Target: region}
	if err := g.UpsertEdge(edge); err != nil {
		t.Fatalf("failed to upsert edge: %v", err)
	}
	if edge.CreatedAt.IsZero() {
		t.Fatalf("expected a commit timestamp to be assigned to the new edge")
	}
	firstSeen := edge.CreatedAt

	// Upserting the same edge again must refresh its timestamp rather
	// than create a second edge.
	again := &graph.Edge{Type: "in", Source: server, Target: region}
	if err := g.UpsertEdge(again); err != nil {
		t.Fatalf("failed to upsert edge: %v", err)
	}
	if again.CreatedAt.Before(firstSeen) {
		t.Errorf("edge timestamp was not refreshed")
	}

	it, err := g.Edges(server)
	if err != nil {
		t.Fatalf("failed to get edges: %v", err)
	}
	if got := len(drain(t, it)); got != 1 {
		t.Errorf("got %d edges, want 1", got)
	}

	// An edge requires both endpoints.
	missing := &graph.Edge{Type: "in", Source: server}
	if err := g.UpsertEdge(missing); !errors.Is(err, graph.ErrUnknownEdgeNodes) {
		t.Errorf("unexpected error %v, want %v", err, graph.ErrUnknownEdgeNodes)
	}
}

// TestDeleteEdge verifies that deletes remove the edge and are safe to
// re-run.
func TestDeleteEdge(t *testing.T, g graph.Graph) {
	server, region := node("servers"), node("regions")

	edge := graph.Edge{Type: "in", Source: server, Target: region}
	if err := g.UpsertEdge(&edge); err != nil {
		t.Fatalf("failed to upsert edge: %v", err)
	}

	if err := g.DeleteEdge(edge); err != nil {
		t.Fatalf("failed to delete edge: %v", err)
	}

	it, err := g.Edges(server)
	if err != nil {
		t.Fatalf("failed to get edges: %v", err)
	}
	if got := len(drain(t, it)); got != 0 {
		t.Errorf("got %d edges, want 0", got)
	}

	// Deleting again must be a no-op, not an error.
	if err := g.DeleteEdge(edge); err != nil {
		t.Errorf("re-deleting edge failed: %v", err)
	}
}

// TestIncidentEdges verifies that edge enumeration covers both
// directions.
func TestIncidentEdges(t *testing.T, g graph.Graph) {
	server, region, app := node("servers"), node("regions"), node("applications")

	out := graph.Edge{Type: "in", Source: server, Target: region}
	in := graph.Edge{Type: "servers", Source: app, Target: server}
	for _, e := range []*graph.Edge{&out, &in} {
		if err := g.UpsertEdge(e); err != nil {
			t.Fatalf("failed to upsert edge: %v", err)
		}
	}

	it, err := g.Edges(server)
	if err != nil {
		t.Fatalf("failed to get edges: %v", err)
	}
	edges := drain(t, it)
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}

	types := []string{edges[0].Type, edges[1].Type}
	sort.Strings(types)
	if types[0] != "in" || types[1] != "servers" {
		t.Errorf("unexpected edge types %v", types)
	}
}

// TestCompactNode verifies that compaction removes and returns every
// incident edge while leaving unrelated edges alone.
func TestCompactNode(t *testing.T, g graph.Graph) {
	server, region, app := node("servers"), node("regions"), node("applications")

	edges := []graph.Edge{
		{Type: "in", Source: server, Target: region},
		{Type: "has", Source: region, Target: server},
		{Type: "servers", Source: app, Target: server},
		{Type: "regions", Source: app, Target: region},
	}
	for i := range edges {
		if err := g.UpsertEdge(&edges[i]); err != nil {
			t.Fatalf("failed to upsert edge: %v", err)
		}
	}

	it, err := g.CompactNode(server)
	if err != nil {
		t.Fatalf("failed to compact node: %v", err)
	}
	removed := drain(t, it)
	if len(removed) != 3 {
		t.Fatalf("got %d removed edges, want 3", len(removed))
	}

	// The unrelated app->region edge must survive.
	it, err = g.Edges(region)
	if err != nil {
		t.Fatalf("failed to get edges: %v", err)
	}
	left := drain(t, it)
	if len(left) != 1 || left[0].Type != "regions" {
		t.Errorf("unexpected surviving edges %v", left)
	}
}

// TestCompactNodeOneShot verifies that compaction is destructive at
// call time: a second compaction finds nothing.
func TestCompactNodeOneShot(t *testing.T, g graph.Graph) {
	server, region := node("servers"), node("regions")

	edge := graph.Edge{Type: "in", Source: server, Target: region}
	if err := g.UpsertEdge(&edge); err != nil {
		t.Fatalf("failed to upsert edge: %v", err)
	}

	// Compact without draining the result.
	it, err := g.CompactNode(server)
	if err != nil {
		t.Fatalf("failed to compact node: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("failed to close iterator: %v", err)
	}

	// The removal already happened; a fresh compaction yields nothing.
	it, err = g.CompactNode(server)
	if err != nil {
		t.Fatalf("failed to compact node: %v", err)
	}
	if got := len(drain(t, it)); got != 0 {
		t.Errorf("got %d edges from second compaction, want 0", got)
	}
}
