package cdb

import (
	"database/sql"
	"fmt"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
)

// logIterator is an entity.LogIterator implementation for the cdb
// store.
type logIterator struct {
	rows         *sql.Rows
	entityID     entity.ID
	lastErr      error
	latchedEntry *entity.LogEntry
}

// Next implements entity.LogIterator.
func (i *logIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	le := &entity.LogEntry{EntityID: i.entityID}
	i.lastErr = i.rows.Scan(&le.Version, &le.State)
	if i.lastErr != nil {
		return false
	}

	i.latchedEntry = le
	return true
}

// Error implements entity.LogIterator.
func (i *logIterator) Error() error {
	return i.lastErr
}

// Close implements entity.LogIterator.
func (i *logIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("log iterator: %w", err)
	}
	return nil
}

// Entry implements entity.LogIterator.
func (i *logIterator) Entry() *entity.LogEntry {
	return i.latchedEntry
}

// edgeIterator is a graph.EdgeIterator implementation for the cdb
// graph.
type edgeIterator struct {
	rows        *sql.Rows
	lastErr     error
	latchedEdge *graph.Edge
}

// Next implements graph.EdgeIterator.
func (i *edgeIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	e := new(graph.Edge)
	i.lastErr = i.rows.Scan(
		&e.Type,
		&e.Source.Type, &e.Source.UUID,
		&e.Target.Type, &e.Target.UUID,
		&e.CreatedAt,
	)
	if i.lastErr != nil {
		return false
	}
	e.CreatedAt = e.CreatedAt.UTC()

	i.latchedEdge = e
	return true
}

// Error implements graph.EdgeIterator.
func (i *edgeIterator) Error() error {
	return i.lastErr
}

// Close implements graph.EdgeIterator.
func (i *edgeIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("edge iterator: %w", err)
	}
	return nil
}

// Edge implements graph.EdgeIterator.
func (i *edgeIterator) Edge() *graph.Edge {
	return i.latchedEdge
}
