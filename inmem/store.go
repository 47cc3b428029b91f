package inmem

import (
	"sync"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/google/uuid"
)

// Compile-time check for ensuring Store implements entity.Store.
var _ entity.Store = (*Store)(nil)

// Store implements an in-memory entity store that can be concurrently
// accessed by multiple clients.
type Store struct {
	// Unlike sync.Mutex, sync.RWMutex supports multiple-reader
	// semantics, good for read-heavy workloads.
	mu sync.RWMutex

	entities map[entity.ID]*entity.Entity

	// Version logs per entity, kept sorted newest-first.
	logs map[entity.ID][]entity.LogEntry
}

// NewStore creates a new in-memory entity store.
func NewStore() *Store {
	return &Store{
		entities: make(map[entity.ID]*entity.Entity),
		logs:     make(map[entity.ID][]entity.LogEntry),
	}
}

// UpsertEntity writes an entity snapshot. The stored snapshot is
// replaced only when the incoming version is at least as new.
func (s *Store) UpsertEntity(ent *entity.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.entities[ent.ID]; existing != nil {
		if entity.Timestamp(ent.Version) < entity.Timestamp(existing.Version) {
			return nil
		}
	}

	eCopy := copyEntity(ent)
	s.entities[eCopy.ID] = eCopy
	return nil
}

// AppendVersion appends an entry to an entity's version log.
func (s *Store) AppendVersion(entry *entity.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logs[entry.EntityID]

	// Insert keeping newest-first order; appends are almost always the
	// newest version so scan from the front.
	pos := 0
	ts := entity.Timestamp(entry.Version)
	for pos < len(log) && entity.Timestamp(log[pos].Version) > ts {
		pos++
	}
	log = append(log, entity.LogEntry{})
	copy(log[pos+1:], log[pos:])
	log[pos] = *entry
	s.logs[entry.EntityID] = log
	return nil
}

// FindEntity returns a copy of the most recent snapshot of the entity
// with the given ID.
func (s *Store) FindEntity(id entity.ID) (*entity.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent := s.entities[id]
	if ent == nil {
		return nil, entity.ErrNotFound
	}
	return copyEntity(ent), nil
}

// Versions returns an iterator over the entity's version log, newest
// first, restricted to entries at or below the timestamp of from. The
// iterator operates on a snapshot taken at call time.
func (s *Store) Versions(id entity.ID, from uuid.UUID) (entity.LogIterator, error) {
	fromTS := entity.Timestamp(from)

	s.mu.RLock()
	var list []entity.LogEntry
	for _, le := range s.logs[id] {
		if entity.Timestamp(le.Version) <= fromTS {
			list = append(list, le)
		}
	}
	s.mu.RUnlock()

	return &logIterator{entries: list}, nil
}

// PurgeVersions physically removes the given log entries from the
// store.
func (s *Store) PurgeVersions(entries []entity.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, purged := range entries {
		log := s.logs[purged.EntityID]
		for i, le := range log {
			if le.Version == purged.Version {
				s.logs[purged.EntityID] = append(log[:i], log[i+1:]...)
				break
			}
		}
	}
	return nil
}

func copyEntity(ent *entity.Entity) *entity.Entity {
	eCopy := &entity.Entity{
		ID:      ent.ID,
		Version: ent.Version,
	}
	if ent.Fields != nil {
		eCopy.Fields = make(map[string]interface{}, len(ent.Fields))
		for k, v := range ent.Fields {
			eCopy.Fields[k] = v
		}
	}
	return eCopy
}
