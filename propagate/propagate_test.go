package propagate_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/entity/entitytest"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/caravel-labs/indexmirror/index"
	"github.com/caravel-labs/indexmirror/inmem"
	"github.com/caravel-labs/indexmirror/propagate"
	"github.com/caravel-labs/indexmirror/propagate/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) {
	// Run all gocheck test-suites
	gc.TestingT(t)
}

// PropagatorSuite exercises the propagator against the in-memory
// backend and the default mutation sink.
type PropagatorSuite struct {
	backend *inmem.Backend
	scope   entity.Scope
	store   entity.Store
	graph   graph.Graph
	prop    *propagate.Propagator
}

var _ = gc.Suite(&PropagatorSuite{})

func (s *PropagatorSuite) SetUpTest(c *gc.C) {
	s.backend = inmem.NewBackend()
	s.scope = entity.Scope{Application: entity.ID{Type: "application", UUID: uuid.New()}}
	s.store = s.backend.OpenStore(s.scope)
	s.graph = s.backend.OpenGraph(s.scope)

	prop, err := propagate.NewPropagator(propagate.Config{
		Entities:       s.backend,
		Graphs:         s.backend,
		Sink:           index.NewService(),
		PurgeBatchSize: 3,
	})
	c.Assert(err, gc.IsNil)
	s.prop = prop
}

// appendVersions appends count versions for id with ascending
// timestamps starting at base and returns them oldest-first. The state
// of each appended version is states[i%len(states)].
func (s *PropagatorSuite) appendVersions(c *gc.C, id entity.ID, base int64, count int, states ...entity.State) []entity.LogEntry {
	if len(states) == 0 {
		states = []entity.State{entity.StateComplete}
	}
	out := make([]entity.LogEntry, count)
	for i := 0; i < count; i++ {
		le := entity.LogEntry{
			EntityID: id,
			Version:  entitytest.VersionAt(base + int64(i)),
			State:    states[i%len(states)],
		}
		c.Assert(s.store.AppendVersion(&le), gc.IsNil)
		out[i] = le
	}
	return out
}

func (s *PropagatorSuite) remainingVersions(c *gc.C, id entity.ID) []entity.LogEntry {
	it, err := s.store.Versions(id, entitytest.VersionAt(1<<40))
	c.Assert(err, gc.IsNil)
	var entries []entity.LogEntry
	for it.Next() {
		entries = append(entries, *it.Entry())
	}
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
	return entries
}

func (s *PropagatorSuite) incidentEdges(c *gc.C, node entity.ID) []graph.Edge {
	it, err := s.graph.Edges(node)
	c.Assert(err, gc.IsNil)
	var edges []graph.Edge
	for it.Next() {
		edges = append(edges, *it.Edge())
	}
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
	return edges
}

func documentIDs(batch *index.Batch) []string {
	ids := make([]string, 0, batch.Len())
	for _, op := range batch.Ops() {
		ids = append(ids, op.DocumentID)
	}
	sort.Strings(ids)
	return ids
}

func (s *PropagatorSuite) TestNewEdge(c *gc.C) {
	server := &entity.Entity{
		ID:      entity.ID{Type: "servers", UUID: uuid.New()},
		Version: entitytest.VersionAt(100),
		Fields:  map[string]interface{}{"name": "server1"},
	}
	edge := graph.Edge{
		Type:   "in",
		Source: server.ID,
		Target: entity.ID{Type: "regions", UUID: uuid.New()},
	}

	batch, err := s.prop.NewEdge(s.scope, server, edge)
	c.Assert(err, gc.IsNil)
	c.Assert(batch.Len(), gc.Equals, 1)

	op := batch.Ops()[0]
	c.Assert(op.Kind, gc.Equals, index.OpAdd)
	c.Assert(op.DocumentID, gc.Equals, index.EdgeDocumentID(s.scope, edge, server.ID, server.Version))
}

func (s *PropagatorSuite) TestDeleteEdgeCoversAllTargetVersions(c *gc.C) {
	region := entity.ID{Type: "regions", UUID: uuid.New()}
	server := entity.ID{Type: "servers", UUID: uuid.New()}
	history := s.appendVersions(c, region, 100, 3)

	edge := graph.Edge{Type: "in", Source: server, Target: region}
	c.Assert(s.graph.UpsertEdge(&edge), gc.IsNil)

	batch, err := s.prop.DeleteEdge(s.scope, edge)
	c.Assert(err, gc.IsNil)

	// One de-index instruction per historical version of the target.
	c.Assert(batch.Len(), gc.Equals, 3)
	var want []string
	for _, le := range history {
		want = append(want, index.EdgeDocumentID(s.scope, edge, region, le.Version))
	}
	sort.Strings(want)
	c.Assert(documentIDs(batch), gc.DeepEquals, want)
	for _, op := range batch.Ops() {
		c.Assert(op.Kind, gc.Equals, index.OpRemove)
	}

	// The delete is authoritative at the graph layer.
	c.Assert(s.incidentEdges(c, server), gc.HasLen, 0)
}

func (s *PropagatorSuite) TestEntityDeleteMarkedIdempotent(c *gc.C) {
	server := entity.ID{Type: "servers", UUID: uuid.New()}
	s.appendVersions(c, server, 100, 3) // no DELETED marker

	edge := graph.Edge{Type: "servers", Source: s.scope.Application, Target: server}
	c.Assert(s.graph.UpsertEdge(&edge), gc.IsNil)

	batch, err := s.prop.EntityDelete(s.scope, server)
	c.Assert(err, gc.IsNil)
	c.Assert(batch.Len(), gc.Equals, 0)

	// Nothing was purged and the graph was not compacted.
	c.Assert(s.remainingVersions(c, server), gc.HasLen, 3)
	c.Assert(s.incidentEdges(c, server), gc.HasLen, 1)
}

func (s *PropagatorSuite) TestEntityDeleteMarkedOnly(c *gc.C) {
	server := entity.ID{Type: "servers", UUID: uuid.New()}
	older := s.appendVersions(c, server, 100, 1)[0]
	marker := entity.LogEntry{EntityID: server, Version: entitytest.VersionAt(200), State: entity.StateDeleted}
	c.Assert(s.store.AppendVersion(&marker), gc.IsNil)
	newest := entity.LogEntry{EntityID: server, Version: entitytest.VersionAt(300), State: entity.StateComplete}
	c.Assert(s.store.AppendVersion(&newest), gc.IsNil)

	edge := graph.Edge{Type: "servers", Source: s.scope.Application, Target: server}
	c.Assert(s.graph.UpsertEdge(&edge), gc.IsNil)

	batch, err := s.prop.EntityDelete(s.scope, server)
	c.Assert(err, gc.IsNil)

	// Only the marker qualifies: the older version is not DELETED and
	// the newest one is above the marker.
	c.Assert(documentIDs(batch), gc.DeepEquals, []string{
		index.EdgeDocumentID(s.scope, edge, server, marker.Version),
	})

	remaining := s.remainingVersions(c, server)
	c.Assert(remaining, gc.HasLen, 2)
	c.Assert(remaining[0].Version, gc.Equals, newest.Version)
	c.Assert(remaining[1].Version, gc.Equals, older.Version)

	// Re-running after the marker is gone is a no-op, not an error.
	batch, err = s.prop.EntityDelete(s.scope, server)
	c.Assert(err, gc.IsNil)
	c.Assert(batch.Len(), gc.Equals, 0)
}

func (s *PropagatorSuite) TestEntityDeleteCascade(c *gc.C) {
	server := entity.ID{Type: "servers", UUID: uuid.New()}
	region := entity.ID{Type: "regions", UUID: uuid.New()}

	serverHistory := s.appendVersions(c, server, 100, 3)
	regionHistory := s.appendVersions(c, region, 100, 2)

	// server1 -- in --> region1 and the collection edge
	// application -- servers --> server1.
	conn := graph.Edge{Type: "in", Source: server, Target: region}
	coll := graph.Edge{Type: "servers", Source: s.scope.Application, Target: server}
	c.Assert(s.graph.UpsertEdge(&conn), gc.IsNil)
	c.Assert(s.graph.UpsertEdge(&coll), gc.IsNil)

	batch, err := s.prop.EntityDeleteAllVersions(s.scope, server)
	c.Assert(err, gc.IsNil)

	// The connection must be de-indexed against every version of the
	// far-end region; the collection edge against every collected
	// version of the server itself.
	var want []string
	for _, le := range regionHistory {
		want = append(want, index.EdgeDocumentID(s.scope, conn, region, le.Version))
	}
	for _, le := range serverHistory {
		want = append(want, index.EdgeDocumentID(s.scope, coll, server, le.Version))
	}
	sort.Strings(want)
	c.Assert(documentIDs(batch), gc.DeepEquals, want)

	// The server's history is purged, the region's is untouched.
	c.Assert(s.remainingVersions(c, server), gc.HasLen, 0)
	c.Assert(s.remainingVersions(c, region), gc.HasLen, 2)

	// Both edges are gone from the graph.
	c.Assert(s.incidentEdges(c, server), gc.HasLen, 0)
	c.Assert(s.incidentEdges(c, region), gc.HasLen, 0)
}

func (s *PropagatorSuite) TestEntityDeleteAllVersionsEmptyHistory(c *gc.C) {
	server := entity.ID{Type: "servers", UUID: uuid.New()}

	coll := graph.Edge{Type: "servers", Source: s.scope.Application, Target: server}
	c.Assert(s.graph.UpsertEdge(&coll), gc.IsNil)

	batch, err := s.prop.EntityDeleteAllVersions(s.scope, server)
	c.Assert(err, gc.IsNil)

	// No versions means nothing to de-index, but the node is still
	// compacted out of the graph.
	c.Assert(batch.Len(), gc.Equals, 0)
	c.Assert(s.incidentEdges(c, server), gc.HasLen, 0)
}

func (s *PropagatorSuite) TestStaleCleanupScanCap(c *gc.C) {
	server := entity.ID{Type: "servers", UUID: uuid.New()}
	history := s.appendVersions(c, server, 1, 150) // oldest-first positions 0..149

	// Mark the version at oldest-first position 119; 120 versions
	// qualify but only 100 may be scanned.
	marked := history[119].Version

	batch, err := s.prop.DeIndexOldVersions(s.scope, server, marked)
	c.Assert(err, gc.IsNil)
	c.Assert(batch.Len(), gc.Equals, 100)

	// The scan walks newest-first from the marked version, so the
	// versions at positions 20..119 are retired and the 20 oldest are
	// deliberately left for the out-of-band tool.
	var want []string
	for _, le := range history[20:120] {
		want = append(want, index.EntityDocumentID(s.scope, server, le.Version))
	}
	sort.Strings(want)
	c.Assert(documentIDs(batch), gc.DeepEquals, want)
}

func (s *PropagatorSuite) TestStaleCleanupExcludesNewerVersions(c *gc.C) {
	server := entity.ID{Type: "servers", UUID: uuid.New()}
	history := s.appendVersions(c, server, 1, 5)

	batch, err := s.prop.DeIndexOldVersions(s.scope, server, history[2].Version)
	c.Assert(err, gc.IsNil)

	var want []string
	for _, le := range history[:3] {
		want = append(want, index.EntityDocumentID(s.scope, server, le.Version))
	}
	sort.Strings(want)
	c.Assert(documentIDs(batch), gc.DeepEquals, want)
}

func (s *PropagatorSuite) TestEntityIndexFilter(c *gc.C) {
	id := entity.ID{Type: "servers", UUID: uuid.New()}

	specs := []struct {
		descr    string
		modified interface{}
		include  bool
	}{
		{descr: "no modification timestamp", modified: nil, include: true},
		{descr: "modified before watermark", modified: int64(99), include: false},
		{descr: "modified exactly at watermark", modified: int64(100), include: true},
		{descr: "modified after watermark", modified: int64(101), include: true},
	}
	for specIndex, spec := range specs {
		c.Logf("[spec %d] %s", specIndex, spec.descr)

		fields := map[string]interface{}{"name": "server1"}
		if spec.modified != nil {
			fields[entity.FieldModified] = spec.modified
		}
		ent := &entity.Entity{ID: id, Version: entitytest.VersionAt(int64(1000 + specIndex)), Fields: fields}
		c.Assert(s.store.UpsertEntity(ent), gc.IsNil)

		batch, err := s.prop.EntityIndex(propagate.Request{Scope: s.scope, ID: id, UpdatedSince: 100})
		c.Assert(err, gc.IsNil)
		if !spec.include {
			c.Assert(batch, gc.IsNil)
			continue
		}
		c.Assert(batch, gc.NotNil)
		c.Assert(batch.Len(), gc.Equals, 1)
		c.Assert(batch.Ops()[0].DocumentID, gc.Equals, index.EntityDocumentID(s.scope, id, ent.Version))
	}
}

func (s *PropagatorSuite) TestEntityIndexMissingEntity(c *gc.C) {
	batch, err := s.prop.EntityIndex(propagate.Request{
		Scope: s.scope,
		ID:    entity.ID{Type: "servers", UUID: uuid.New()},
	})
	c.Assert(err, gc.IsNil)
	c.Assert(batch, gc.IsNil)
}

// PropagatorMockSuite exercises failure propagation and purge batching
// with mocked collaborators.
type PropagatorMockSuite struct {
	scope entity.Scope
}

var _ = gc.Suite(&PropagatorMockSuite{})

func (s *PropagatorMockSuite) SetUpTest(c *gc.C) {
	s.scope = entity.Scope{Application: entity.ID{Type: "application", UUID: uuid.New()}}
}

func newMockedPropagator(c *gc.C, ctrl *gomock.Controller, scope entity.Scope, sink index.Sink) (*propagate.Propagator, *mocks.MockStore, *mocks.MockGraph) {
	store := mocks.NewMockStore(ctrl)
	storeOpener := mocks.NewMockStoreOpener(ctrl)
	storeOpener.EXPECT().OpenStore(scope).Return(store).AnyTimes()

	g := mocks.NewMockGraph(ctrl)
	graphOpener := mocks.NewMockOpener(ctrl)
	graphOpener.EXPECT().OpenGraph(scope).Return(g).AnyTimes()

	if sink == nil {
		sink = index.NewService()
	}
	prop, err := propagate.NewPropagator(propagate.Config{
		Entities:       storeOpener,
		Graphs:         graphOpener,
		Sink:           sink,
		PurgeBatchSize: 3,
	})
	c.Assert(err, gc.IsNil)
	return prop, store, g
}

func (s *PropagatorMockSuite) TestDeleteEdgeGraphFailure(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	prop, _, g := newMockedPropagator(c, ctrl, s.scope, nil)

	edge := graph.Edge{
		Type:   "in",
		Source: entity.ID{Type: "servers", UUID: uuid.New()},
		Target: entity.ID{Type: "regions", UUID: uuid.New()},
	}
	g.EXPECT().DeleteEdge(edge).Return(errors.New("graph unavailable"))

	batch, err := prop.DeleteEdge(s.scope, edge)
	c.Assert(err, gc.ErrorMatches, "delete edge: graph unavailable")
	c.Assert(batch, gc.IsNil)
}

func (s *PropagatorMockSuite) TestDeleteEdgeVersionIteratorFailure(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	prop, store, g := newMockedPropagator(c, ctrl, s.scope, nil)

	edge := graph.Edge{
		Type:   "in",
		Source: entity.ID{Type: "servers", UUID: uuid.New()},
		Target: entity.ID{Type: "regions", UUID: uuid.New()},
	}
	g.EXPECT().DeleteEdge(edge).Return(nil)
	store.EXPECT().Versions(edge.Target, gomock.Any()).
		Return(&stubLogIterator{err: errors.New("store unavailable")}, nil)

	batch, err := prop.DeleteEdge(s.scope, edge)
	c.Assert(err, gc.ErrorMatches, "delete edge: store unavailable")
	c.Assert(batch, gc.IsNil)
}

func (s *PropagatorMockSuite) TestDeleteEdgeSinkFailureDiscardsPartialBatch(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	sink := mocks.NewMockSink(ctrl)
	prop, store, g := newMockedPropagator(c, ctrl, s.scope, sink)

	region := entity.ID{Type: "regions", UUID: uuid.New()}
	edge := graph.Edge{
		Type:   "in",
		Source: entity.ID{Type: "servers", UUID: uuid.New()},
		Target: region,
	}
	v1, v2 := entitytest.VersionAt(100), entitytest.VersionAt(200)

	g.EXPECT().DeleteEdge(edge).Return(nil)
	store.EXPECT().Versions(region, gomock.Any()).DoAndReturn(
		func(entity.ID, uuid.UUID) (entity.LogIterator, error) {
			return &stubLogIterator{entries: []entity.LogEntry{
				{EntityID: region, Version: v2},
				{EntityID: region, Version: v1},
			}}, nil
		})

	ok := index.Empty()
	ok.Remove("doc-1")
	sink.EXPECT().DeIndexEdge(s.scope, edge, region, v2).Return(ok, nil)
	sink.EXPECT().DeIndexEdge(s.scope, edge, region, v1).Return(nil, errors.New("sink rejected request"))

	// A partially merged batch would understate the cleanup, so the
	// whole result is discarded.
	batch, err := prop.DeleteEdge(s.scope, edge)
	c.Assert(err, gc.ErrorMatches, "delete edge: sink rejected request")
	c.Assert(batch, gc.IsNil)
}

func (s *PropagatorMockSuite) TestEntityDeletePurgeBatching(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	prop, store, g := newMockedPropagator(c, ctrl, s.scope, nil)

	server := entity.ID{Type: "servers", UUID: uuid.New()}
	entries := make([]entity.LogEntry, 7)
	for i := range entries {
		// Newest first, as the store would yield them.
		entries[i] = entity.LogEntry{
			EntityID: server,
			Version:  entitytest.VersionAt(int64(700 - 100*i)),
			State:    entity.StateComplete,
		}
	}

	store.EXPECT().Versions(server, gomock.Any()).DoAndReturn(
		func(entity.ID, uuid.UUID) (entity.LogIterator, error) {
			return &stubLogIterator{entries: entries}, nil
		}).Times(2)

	var purgeSizes []int
	store.EXPECT().PurgeVersions(gomock.Any()).DoAndReturn(
		func(batch []entity.LogEntry) error {
			purgeSizes = append(purgeSizes, len(batch))
			return nil
		}).Times(3)

	g.EXPECT().CompactNode(server).Return(&stubEdgeIterator{}, nil)

	batch, err := prop.EntityDeleteAllVersions(s.scope, server)
	c.Assert(err, gc.IsNil)
	c.Assert(batch.Len(), gc.Equals, 0)
	c.Assert(purgeSizes, gc.DeepEquals, []int{3, 3, 1})
}

func (s *PropagatorMockSuite) TestConfigValidation(c *gc.C) {
	_, err := propagate.NewPropagator(propagate.Config{})
	c.Assert(err, gc.ErrorMatches, "(?s)propagator: config validation failed.*")
}

// stubLogIterator is a slice-backed entity.LogIterator with optional
// error injection.
type stubLogIterator struct {
	entries []entity.LogEntry
	curr    int
	err     error
}

func (it *stubLogIterator) Next() bool {
	if it.err != nil || it.curr >= len(it.entries) {
		return false
	}
	it.curr++
	return true
}

func (it *stubLogIterator) Error() error { return it.err }
func (it *stubLogIterator) Close() error { return nil }
func (it *stubLogIterator) Entry() *entity.LogEntry {
	return &it.entries[it.curr-1]
}

// stubEdgeIterator is a slice-backed graph.EdgeIterator.
type stubEdgeIterator struct {
	edges []graph.Edge
	curr  int
	err   error
}

func (it *stubEdgeIterator) Next() bool {
	if it.err != nil || it.curr >= len(it.edges) {
		return false
	}
	it.curr++
	return true
}

func (it *stubEdgeIterator) Error() error { return it.err }
func (it *stubEdgeIterator) Close() error { return nil }
func (it *stubEdgeIterator) Edge() *graph.Edge {
	return &it.edges[it.curr-1]
}
