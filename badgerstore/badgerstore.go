// Package badgerstore provides entity-store and graph implementations
// backed by an embedded BadgerDB instance. It targets single-node
// deployments where an external cluster is not warranted.
package badgerstore

import (
	"fmt"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// Config encapsulates the settings for opening a Backend.
type Config struct {
	// Path is the directory for the database files. Ignored when
	// InMemory is set.
	Path string

	// InMemory keeps all data in memory. Useful for tests.
	InMemory bool

	// SyncWrites forces every write to be fsynced before it is
	// acknowledged.
	SyncWrites bool

	// The logger to use for badger's internal messages. If not defined
	// badger's logging is disabled.
	Logger *logrus.Entry
}

// Backend opens scoped store and graph handles over one shared badger
// instance. Scoping is enforced by a key prefix derived from the
// application UUID.
type Backend struct {
	db *badger.DB
}

var _ entity.StoreOpener = (*Backend)(nil)
var _ graph.Opener = (*Backend)(nil)

// NewBackend opens the database described by cfg.
func NewBackend(cfg Config) (*Backend, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("badgerstore: path is required for a persistent database")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open database: %w", err)
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

// Close terminates the underlying badger instance.
func (b *Backend) Close() error {
	return b.db.Close()
}

// badgerLogger adapts a logrus entry to badger's Logger interface.
type badgerLogger struct {
	logger *logrus.Entry
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}
