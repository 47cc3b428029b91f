package entity

import (
	"github.com/google/uuid"
)

// State describes the lifecycle stage recorded by a version log entry.
type State uint8

const (
	// StateComplete marks a fully written version.
	StateComplete State = iota

	// StateDeleted marks the version as a delete marker. Earlier
	// versions are not retracted by it.
	StateDeleted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateComplete:
		return "complete"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// LogEntry is one record of an entity's version history. Entries are
// appended by the store on every entity write or delete and never
// mutated; they are removed only by an explicit purge.
type LogEntry struct {
	// The identity of the entity the version belongs to.
	EntityID ID

	// The version recorded by this entry, a time-ordered UUID.
	Version uuid.UUID

	// The lifecycle state the entry records.
	State State
}

// LogIterator is implemented by objects that can iterate a version log.
type LogIterator interface {
	Iterator

	// Entry returns the currently fetched log entry.
	Entry() *LogEntry
}
