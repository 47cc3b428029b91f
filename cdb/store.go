package cdb

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/google/uuid"
)

var upsertEntityQuery = `
INSERT INTO entities (app, entity_type, entity_id, version, version_ts, fields)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (app, entity_type, entity_id) DO UPDATE
SET version=$4, version_ts=$5, fields=$6
WHERE entities.version_ts < $5`

var appendVersionQuery = `
INSERT INTO versions (app, entity_type, entity_id, version, version_ts, state)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (app, entity_type, entity_id, version) DO UPDATE SET state=$6`

var findEntityQuery = `
SELECT version, fields FROM entities
WHERE app=$1 AND entity_type=$2 AND entity_id=$3`

var versionsQuery = `
SELECT version, state FROM versions
WHERE app=$1 AND entity_type=$2 AND entity_id=$3 AND version_ts <= $4
ORDER BY version_ts DESC`

var purgeVersionQuery = `
DELETE FROM versions
WHERE app=$1 AND entity_type=$2 AND entity_id=$3 AND version=$4`

// Store is an entity.Store implementation scoped to one application.
type Store struct {
	db    *sql.DB
	scope entity.Scope
}

var _ entity.Store = (*Store)(nil)

// UpsertEntity implements entity.Store. The snapshot row is only
// replaced when the incoming version is newer than the stored one.
func (s *Store) UpsertEntity(ent *entity.Entity) error {
	fields, err := json.Marshal(ent.Fields)
	if err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}

	_, err = s.db.Exec(upsertEntityQuery,
		s.scope.Application.UUID, ent.ID.Type, ent.ID.UUID,
		ent.Version, entity.Timestamp(ent.Version), fields,
	)
	if err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}
	return nil
}

// AppendVersion implements entity.Store.
func (s *Store) AppendVersion(le *entity.LogEntry) error {
	_, err := s.db.Exec(appendVersionQuery,
		s.scope.Application.UUID, le.EntityID.Type, le.EntityID.UUID,
		le.Version, entity.Timestamp(le.Version), le.State,
	)
	if err != nil {
		return fmt.Errorf("append version: %w", err)
	}
	return nil
}

// FindEntity implements entity.Store.
func (s *Store) FindEntity(id entity.ID) (*entity.Entity, error) {
	row := s.db.QueryRow(findEntityQuery, s.scope.Application.UUID, id.Type, id.UUID)

	ent := &entity.Entity{ID: id}
	var fields []byte
	if err := row.Scan(&ent.Version, &fields); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find entity: %w", entity.ErrNotFound)
		}
		return nil, fmt.Errorf("find entity: %w", err)
	}
	if err := json.Unmarshal(fields, &ent.Fields); err != nil {
		return nil, fmt.Errorf("find entity: %w", err)
	}
	return ent, nil
}

// Versions implements entity.Store.
func (s *Store) Versions(id entity.ID, from uuid.UUID) (entity.LogIterator, error) {
	rows, err := s.db.Query(versionsQuery,
		s.scope.Application.UUID, id.Type, id.UUID, entity.Timestamp(from),
	)
	if err != nil {
		return nil, fmt.Errorf("versions: %w", err)
	}
	return &logIterator{rows: rows, entityID: id}, nil
}

// PurgeVersions implements entity.Store.
func (s *Store) PurgeVersions(entries []entity.LogEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("purge versions: %w", err)
	}
	for i := range entries {
		le := &entries[i]
		if _, err := tx.Exec(purgeVersionQuery,
			s.scope.Application.UUID, le.EntityID.Type, le.EntityID.UUID, le.Version,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("purge versions: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("purge versions: %w", err)
	}
	return nil
}
