// Package entity defines the versioned entity model shared by all
// indexmirror components together with the version-store contract that
// storage backends implement.
package entity

import (
	"github.com/google/uuid"
)

// ID is the stable identity of an entity: the collection (type) it
// belongs to plus a UUID. IDs are immutable once created.
type ID struct {
	// The collection name the entity belongs to.
	Type string

	// A unique identifier for the entity within its collection.
	UUID uuid.UUID
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Type + "/" + id.UUID.String()
}

// Scope identifies the application (tenant) that owns a set of entities
// and edges. Every store and graph operation is confined to one scope.
type Scope struct {
	// The owning application.
	Application ID
}

// FieldModified is the well-known entity field that records the
// unix-millisecond timestamp of the entity's last modification.
const FieldModified = "modified"

// Entity is a single version snapshot of a domain object. The "current"
// entity at any moment is the snapshot with the maximum version
// timestamp.
type Entity struct {
	// The stable identity of the entity.
	ID ID

	// The version of this snapshot, a time-ordered UUID.
	Version uuid.UUID

	// The named fields of the snapshot.
	Fields map[string]interface{}
}

// ModifiedAt returns the value of the entity's modification-timestamp
// field. The second return value reports whether the field is present
// and holds a numeric value.
func (e *Entity) ModifiedAt() (int64, bool) {
	v, ok := e.Fields[FieldModified]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	}
	return 0, false
}

// NewVersion returns a time-ordered version UUID for the current
// moment.
func NewVersion() uuid.UUID {
	return uuid.Must(uuid.NewUUID())
}

// Timestamp extracts the time component of a version UUID. Versions of
// one entity are totally ordered by this value.
func Timestamp(version uuid.UUID) int64 {
	return int64(version.Time())
}
