// Package cdb provides entity-store and graph implementations backed by
// a CockroachDB (or PostgreSQL) cluster.
package cdb

import (
	"database/sql"
	"fmt"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"

	// Register the postgres driver.
	_ "github.com/lib/pq"
)

// Backend opens scoped store and graph handles that share a single
// database connection pool. Scoping is enforced by an application
// column on every table, so handles are cheap to create.
type Backend struct {
	db *sql.DB
}

var _ entity.StoreOpener = (*Backend)(nil)
var _ graph.Opener = (*Backend)(nil)

// NewBackend connects to the database identified by dsn.
func NewBackend(dsn string) (*Backend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("cdb: open database: %w", err)
	}
	return &Backend{db: db}, nil
}

// OpenStore implements entity.StoreOpener.
func (b *Backend) OpenStore(scope entity.Scope) entity.Store {
	return &Store{db: b.db, scope: scope}
}

// OpenGraph implements graph.Opener.
func (b *Backend) OpenGraph(scope entity.Scope) graph.Graph {
	return &Graph{db: b.db, scope: scope}
}

// Close terminates the underlying connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}
