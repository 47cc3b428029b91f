package badgerstore

import (
	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
)

// logIterator is an entity.LogIterator over a snapshot of log entries.
type logIterator struct {
	entries []entity.LogEntry
	curr    int
}

// Next implements entity.LogIterator.
func (i *logIterator) Next() bool {
	if i.curr >= len(i.entries) {
		return false
	}
	i.curr++
	return true
}

// Error implements entity.LogIterator.
func (i *logIterator) Error() error { return nil }

// Close implements entity.LogIterator.
func (i *logIterator) Close() error { return nil }

// Entry implements entity.LogIterator.
func (i *logIterator) Entry() *entity.LogEntry {
	return &i.entries[i.curr-1]
}

// edgeIterator is a graph.EdgeIterator over a snapshot of edges.
type edgeIterator struct {
	edges []graph.Edge
	curr  int
}

// Next implements graph.EdgeIterator.
func (i *edgeIterator) Next() bool {
	if i.curr >= len(i.edges) {
		return false
	}
	i.curr++
	return true
}

// Error implements graph.EdgeIterator.
func (i *edgeIterator) Error() error { return nil }

// Close implements graph.EdgeIterator.
func (i *edgeIterator) Close() error { return nil }

// Edge implements graph.EdgeIterator.
func (i *edgeIterator) Edge() *graph.Edge {
	return &i.edges[i.curr-1]
}
