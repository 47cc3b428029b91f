package entity

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when looking up an entity that does not exist
// in the store.
var ErrNotFound = errors.New("not found")

// Iterator is implemented by store objects that can be iterated.
type Iterator interface {
	// Next advances the iterator. If no more items are available or an
	// error occurs, calls to Next() return false.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources associated with an iterator.
	Close() error
}

// Store is implemented by objects that provide access to the snapshots
// and version history of entities within a single application scope.
type Store interface {
	// UpsertEntity writes an entity snapshot. The stored snapshot for
	// an ID is replaced when the incoming version is newer.
	UpsertEntity(ent *Entity) error

	// AppendVersion appends an entry to an entity's version log.
	AppendVersion(entry *LogEntry) error

	// FindEntity returns the most recent snapshot of the entity with
	// the given ID.
	FindEntity(id ID) (*Entity, error)

	// Versions returns an iterator over the entity's version log,
	// newest first, restricted to entries whose version timestamp is
	// less than or equal to the timestamp of from. Every call returns
	// a fresh iterator positioned at the newest qualifying entry.
	Versions(id ID, from uuid.UUID) (LogIterator, error)

	// PurgeVersions physically removes the given log entries from the
	// store.
	PurgeVersions(entries []LogEntry) error
}

// StoreOpener is implemented by backends that can open a store handle
// confined to a single application scope.
type StoreOpener interface {
	// OpenStore returns a store handle for the given scope.
	OpenStore(scope Scope) Store
}
