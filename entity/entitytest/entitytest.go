// Package entitytest defines a re-usable set of store-related tests
// that can be executed against any type that implements entity.Store.
package entitytest

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/google/uuid"
)

// Suite defines a re-usable set of entity-store tests that can be
// executed against any type that implements entity.Store.
type Suite struct {
	S entity.Store

	// Optional helper functions.
	BeforeEach func(*testing.T)
	AfterEach  func(*testing.T)
}

// TestStore runs the full suite against s.S.
func (s *Suite) TestStore(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*testing.T, entity.Store)
	}{
		{"Upsert entity", TestUpsertEntity},
		{"Find missing entity", TestFindMissingEntity},
		{"Version log ordering", TestVersionLogOrdering},
		{"Version upper bound", TestVersionUpperBound},
		{"Purge versions", TestPurgeVersions},
		{"Restartable iterators", TestRestartableIterators},
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
			test.fn(t, s.S)
			s.AfterEach(t)
		})
	}
}

// VersionAt fabricates a time-ordered version UUID whose timestamp is
// the given number of 100ns intervals since the UUID epoch. The
// non-time bytes are randomized so versions with equal timestamps
// remain distinct.
func VersionAt(ts int64) uuid.UUID {
	v := uuid.New()
	binary.BigEndian.PutUint32(v[0:4], uint32(ts))
	binary.BigEndian.PutUint16(v[4:6], uint16(ts>>32))
	binary.BigEndian.PutUint16(v[6:8], uint16((ts>>48)&0x0fff)|0x1000)
	v[8] = (v[8] & 0x3f) | 0x80
	return v
}

// ID returns a fresh entity identity in the given collection.
func ID(collection string) entity.ID {
	return entity.ID{Type: collection, UUID: uuid.New()}
}

// AppendHistory appends count COMPLETE versions for id with ascending
// timestamps starting at base and returns them newest-first, matching
// the order Versions yields them in.
func AppendHistory(t *testing.T, store entity.Store, id entity.ID, base int64, count int) []entity.LogEntry {
	newestFirst := make([]entity.LogEntry, count)
	for i := 0; i < count; i++ {
		le := entity.LogEntry{
			EntityID: id,
			Version:  VersionAt(base + int64(i)),
			State:    entity.StateComplete,
		}
		if err := store.AppendVersion(&le); err != nil {
			t.Fatalf("failed to append version: %v", err)
		}
		newestFirst[count-1-i] = le
	}
	return newestFirst
}

// Drain consumes a log iterator and returns the yielded entries.
func Drain(t *testing.T, it entity.LogIterator) []entity.LogEntry {
	var entries []entity.LogEntry
	for it.Next() {
		entries = append(entries, *it.Entry())
	}
	if err := it.Error(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("failed to close iterator: %v", err)
	}
	return entries
}

// TestUpsertEntity verifies the snapshot upsert logic.
func TestUpsertEntity(t *testing.T, store entity.Store) {
	id := ID("servers")

	older := &entity.Entity{
		ID:      id,
		Version: VersionAt(100),
		Fields:  map[string]interface{}{"name": "server1", entity.FieldModified: int64(100)},
	}
	if err := store.UpsertEntity(older); err != nil {
		t.Fatalf("failed to upsert entity: %v", err)
	}

	newer := &entity.Entity{
		ID:      id,
		Version: VersionAt(200),
		Fields:  map[string]interface{}{"name": "server1-renamed", entity.FieldModified: int64(200)},
	}
	if err := store.UpsertEntity(newer); err != nil {
		t.Fatalf("failed to upsert entity: %v", err)
	}

	// Re-applying the older snapshot must not roll the entity back.
	if err := store.UpsertEntity(older); err != nil {
		t.Fatalf("failed to upsert entity: %v", err)
	}

	stored, err := store.FindEntity(id)
	if err != nil {
		t.Fatalf("could not find entity: %v", err)
	}
	if stored.Version != newer.Version {
		t.Errorf("stored snapshot was overwritten with an older version")
	}
	if got := stored.Fields["name"]; got != "server1-renamed" {
		t.Errorf("unexpected field value %v", got)
	}
}

// TestFindMissingEntity verifies the not-found behavior.
func TestFindMissingEntity(t *testing.T, store entity.Store) {
	_, err := store.FindEntity(ID("servers"))
	if !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("unexpected error %v, want %v", err, entity.ErrNotFound)
	}
}

// TestVersionLogOrdering verifies newest-first iteration regardless of
// append order.
func TestVersionLogOrdering(t *testing.T, store entity.Store) {
	id := ID("servers")

	// Append out of order.
	for _, ts := range []int64{300, 100, 200} {
		le := entity.LogEntry{EntityID: id, Version: VersionAt(ts), State: entity.StateComplete}
		if err := store.AppendVersion(&le); err != nil {
			t.Fatalf("failed to append version: %v", err)
		}
	}

	it, err := store.Versions(id, VersionAt(1000))
	if err != nil {
		t.Fatalf("failed to get versions: %v", err)
	}

	entries := Drain(t, it)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entity.Timestamp(entries[i].Version) > entity.Timestamp(entries[i-1].Version) {
			t.Errorf("entries not in newest-first order at position %d", i)
		}
	}
}

// TestVersionUpperBound verifies that Versions only yields entries at
// or below the requested version.
func TestVersionUpperBound(t *testing.T, store entity.Store) {
	id := ID("servers")
	history := AppendHistory(t, store, id, 100, 5)

	// Bound at the middle entry; it must itself be included.
	bound := history[2].Version
	it, err := store.Versions(id, bound)
	if err != nil {
		t.Fatalf("failed to get versions: %v", err)
	}

	entries := Drain(t, it)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Version != bound {
		t.Errorf("upper bound version was not included")
	}
}

// TestPurgeVersions verifies that purged entries no longer appear in
// the log.
func TestPurgeVersions(t *testing.T, store entity.Store) {
	id := ID("servers")
	history := AppendHistory(t, store, id, 100, 4)

	if err := store.PurgeVersions(history[1:3]); err != nil {
		t.Fatalf("failed to purge versions: %v", err)
	}

	it, err := store.Versions(id, VersionAt(1000))
	if err != nil {
		t.Fatalf("failed to get versions: %v", err)
	}

	entries := Drain(t, it)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Version != history[0].Version || entries[1].Version != history[3].Version {
		t.Errorf("wrong entries survived the purge")
	}
}

// TestRestartableIterators verifies that every Versions call yields a
// fresh iterator over the same log.
func TestRestartableIterators(t *testing.T, store entity.Store) {
	id := ID("servers")
	AppendHistory(t, store, id, 100, 3)

	for i := 0; i < 2; i++ {
		it, err := store.Versions(id, VersionAt(1000))
		if err != nil {
			t.Fatalf("failed to get versions: %v", err)
		}
		if got := len(Drain(t, it)); got != 3 {
			t.Fatalf("iteration %d: got %d entries, want 3", i, got)
		}
	}
}
