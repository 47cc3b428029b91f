package badgerstore

import (
	"encoding/json"
	"fmt"

	"github.com/caravel-labs/indexmirror/entity"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// persistedEntity is the stored form of an entity snapshot.
type persistedEntity struct {
	Version uuid.UUID              `json:"version"`
	Fields  map[string]interface{} `json:"fields"`
}

// Store is an entity.Store implementation scoped to one application.
type Store struct {
	db    *badger.DB
	scope entity.Scope
}

var _ entity.Store = (*Store)(nil)

// UpsertEntity implements entity.Store. The stored snapshot is only
// replaced when the incoming version is newer.
func (s *Store) UpsertEntity(ent *entity.Entity) error {
	key := entityKey(s.scope, ent.ID)
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			var stored persistedEntity
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return err
			}
			if entity.Timestamp(stored.Version) >= entity.Timestamp(ent.Version) {
				return nil
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		val, err := json.Marshal(persistedEntity{Version: ent.Version, Fields: ent.Fields})
		if err != nil {
			return err
		}
		return txn.Set(key, val)
	})
	if err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}
	return nil
}

// AppendVersion implements entity.Store.
func (s *Store) AppendVersion(le *entity.LogEntry) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(versionKey(s.scope, le), []byte{byte(le.State)})
	})
	if err != nil {
		return fmt.Errorf("append version: %w", err)
	}
	return nil
}

// FindEntity implements entity.Store.
func (s *Store) FindEntity(id entity.ID) (*entity.Entity, error) {
	ent := &entity.Entity{ID: id}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entityKey(s.scope, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var stored persistedEntity
			if err := json.Unmarshal(val, &stored); err != nil {
				return err
			}
			ent.Version = stored.Version
			ent.Fields = stored.Fields
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("find entity: %w", entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find entity: %w", err)
	}
	return ent, nil
}

// Versions implements entity.Store. The matching log entries are
// snapshotted under a read transaction, so the returned iterator is
// restartable and never observes concurrent writes.
func (s *Store) Versions(id entity.ID, from uuid.UUID) (entity.LogIterator, error) {
	prefix := versionLogPrefix(s.scope, id)
	fromTS := entity.Timestamp(from)

	var entries []entity.LogEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Keys carry the inverted timestamp, so the forward scan yields
		// entries newest-first and can start right at the bound.
		seek := versionKey(s.scope, &entity.LogEntry{EntityID: id, Version: from})
		for it.Seek(seek[:len(prefix)+8]); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			suffix := item.Key()[len(prefix):]
			if invertedTimestamp(suffix) > fromTS {
				continue
			}

			le := entity.LogEntry{EntityID: id}
			copy(le.Version[:], suffix[8:])
			if err := item.Value(func(val []byte) error {
				le.State = entity.State(val[0])
				return nil
			}); err != nil {
				return err
			}
			entries = append(entries, le)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("versions: %w", err)
	}
	return &logIterator{entries: entries}, nil
}

// PurgeVersions implements entity.Store.
func (s *Store) PurgeVersions(entries []entity.LogEntry) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for i := range entries {
			if err := txn.Delete(versionKey(s.scope, &entries[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("purge versions: %w", err)
	}
	return nil
}
