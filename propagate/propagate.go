// Package propagate implements the consistency engine that converts
// entity and edge mutations into the search-index mutation batches
// required to keep a secondary index aligned with the version store and
// the property graph.
package propagate

import (
	"errors"
	"fmt"
	"io"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/caravel-labs/indexmirror/index"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// maxCleanupVersions bounds how many log entries a stale-version
// cleanup scans. Entities with longer histories are handled by an
// out-of-band maintenance tool rather than this in-line path.
const maxCleanupVersions = 100

// defaultPurgeBatchSize is the number of log entries buffered before a
// purge is issued when no explicit size is configured.
const defaultPurgeBatchSize = 25

// Config encapsulates the settings for creating a new Propagator.
type Config struct {
	// Entities opens scoped version-store handles.
	Entities entity.StoreOpener

	// Graphs opens scoped graph handles.
	Graphs graph.Opener

	// Sink computes the index mutations for individual versions and
	// edges.
	Sink index.Sink

	// PurgeBatchSize is the number of log entries buffered before they
	// are purged from the version store while an entity's history is
	// being collected.
	PurgeBatchSize int

	// The logger to use. If not defined an output-discarding logger
	// will be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Entities == nil {
		err = multierror.Append(err, fmt.Errorf("entity store opener has not been provided"))
	}
	if cfg.Graphs == nil {
		err = multierror.Append(err, fmt.Errorf("graph opener has not been provided"))
	}
	if cfg.Sink == nil {
		err = multierror.Append(err, fmt.Errorf("mutation sink has not been provided"))
	}
	if cfg.PurgeBatchSize < 0 {
		err = multierror.Append(err, fmt.Errorf("purge batch size must be positive"))
	}
	if cfg.PurgeBatchSize == 0 {
		cfg.PurgeBatchSize = defaultPurgeBatchSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Propagator computes, for each mutation event, the exact set of index
// mutations that keeps the search index consistent with the stores. It
// holds no mutable state of its own; all state lives in the stores, so
// independent events may be processed concurrently.
type Propagator struct {
	entities entity.StoreOpener
	graphs   graph.Opener
	sink     index.Sink

	purgeBatchSize int
	logger         *logrus.Entry
}

// NewPropagator creates a new propagator instance with the specified
// config.
func NewPropagator(cfg Config) (*Propagator, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("propagator: config validation failed: %w", err)
	}
	return &Propagator{
		entities:       cfg.Entities,
		graphs:         cfg.Graphs,
		sink:           cfg.Sink,
		purgeBatchSize: cfg.PurgeBatchSize,
		logger:         cfg.Logger,
	}, nil
}

// NewEdge computes the batch that indexes a newly created edge for one
// version of an entity. The edge is new, so no cascade is required.
func (p *Propagator) NewEdge(scope entity.Scope, ent *entity.Entity, newEdge graph.Edge) (*index.Batch, error) {
	p.logger.WithFields(logrus.Fields{
		"scope":  scope.Application,
		"entity": ent.ID,
		"edge":   newEdge.Type,
	}).Debug("indexing new edge")

	batch, err := p.sink.IndexEdge(scope, ent, newEdge)
	if err != nil {
		return nil, fmt.Errorf("new edge: %w", err)
	}
	return batch, nil
}

// DeleteEdge removes the edge from the graph and computes the batch
// that de-indexes every entry the edge could have produced. Index
// entries may be keyed by any historical version of the edge's target
// node, so the full version history is enumerated.
func (p *Propagator) DeleteEdge(scope entity.Scope, edge graph.Edge) (*index.Batch, error) {
	p.logger.WithFields(logrus.Fields{
		"scope": scope.Application,
		"edge":  edge.Type,
	}).Debug("de-indexing deleted edge")

	g := p.graphs.OpenGraph(scope)
	if err := g.DeleteEdge(edge); err != nil {
		return nil, fmt.Errorf("delete edge: %w", err)
	}

	store := p.entities.OpenStore(scope)
	combined := index.Empty()
	if err := p.deIndexEdgeAllVersions(scope, store, edge, combined); err != nil {
		return nil, fmt.Errorf("delete edge: %w", err)
	}
	return combined, nil
}

// EntityDelete purges the versions of an entity that have been marked
// deleted and computes the batch that de-indexes them together with the
// graph connections invalidated by the delete. If no version is marked
// there is nothing to do and an empty batch is returned.
func (p *Propagator) EntityDelete(scope entity.Scope, id entity.ID) (*index.Batch, error) {
	return p.entityDelete(scope, id, true)
}

// EntityDeleteAllVersions purges and de-indexes the entire version
// history of an entity regardless of state. Used when a whole
// collection is being torn down.
func (p *Propagator) EntityDeleteAllVersions(scope entity.Scope, id entity.ID) (*index.Batch, error) {
	return p.entityDelete(scope, id, false)
}

func (p *Propagator) entityDelete(scope entity.Scope, id entity.ID, markedOnly bool) (*index.Batch, error) {
	p.logger.WithFields(logrus.Fields{
		"scope":       scope.Application,
		"entity":      id,
		"marked_only": markedOnly,
	}).Debug("de-indexing deleted entity")

	store := p.entities.OpenStore(scope)
	g := p.graphs.OpenGraph(scope)

	// TODO: collapse the reference lookup and the collection pass below
	// into a single scan of the version log. The purge must still
	// complete before CompactNode runs, so this is not a free reorder.
	ref, err := p.referenceVersion(store, id, markedOnly)
	if err != nil {
		return nil, fmt.Errorf("entity delete: %w", err)
	}
	if markedOnly && ref == nil {
		// Nothing is marked deleted; a prior run may already have
		// purged the marker. Not an error.
		return index.Empty(), nil
	}

	var collected []entity.LogEntry
	if ref != nil {
		if collected, err = p.collectAndPurge(store, id, ref, markedOnly); err != nil {
			return nil, fmt.Errorf("entity delete: %w", err)
		}
	}

	combined := index.Empty()

	// Compaction hands back every edge the graph layer considers dead
	// now that the node is gone, in both directions.
	edges, err := g.CompactNode(id)
	if err != nil {
		return nil, fmt.Errorf("entity delete: %w", err)
	}
	defer func() { _ = edges.Close() }()

	for edges.Next() {
		edge := *edges.Edge()
		if edge.Target.Type != id.Type {
			// The deleted entity is the source of a connection to an
			// entity in another collection; any version of that far
			// end may still carry an index entry for the connection.
			if err := p.deIndexEdgeAllVersions(scope, store, edge, combined); err != nil {
				return nil, fmt.Errorf("entity delete: %w", err)
			}
			continue
		}

		// The deleted entity is the target of the edge (collection
		// membership or a same-type connection); its versions were
		// already collected above, so reuse them.
		for i := range collected {
			sub, err := p.sink.DeIndexEdge(scope, edge, collected[i].EntityID, collected[i].Version)
			if err != nil {
				return nil, fmt.Errorf("entity delete: %w", err)
			}
			combined.Ingest(sub)
		}
	}
	if err := edges.Error(); err != nil {
		return nil, fmt.Errorf("entity delete: %w", err)
	}

	return combined, nil
}

// Request describes a single (re)index request for one entity.
type Request struct {
	// The scope owning the entity.
	Scope entity.Scope

	// The entity to load and index.
	ID entity.ID

	// UpdatedSince is the watermark of the reindex window. Snapshots
	// whose modification timestamp predates it are skipped. Zero for
	// event-driven indexing.
	UpdatedSince int64
}

// EntityIndex loads the current snapshot of the requested entity and
// computes the batch that indexes it. A nil batch is returned when the
// entity no longer exists or when its modification timestamp predates
// the request watermark.
func (p *Propagator) EntityIndex(req Request) (*index.Batch, error) {
	store := p.entities.OpenStore(req.Scope)
	ent, err := store.FindEntity(req.ID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("entity index: %w", err)
	}

	// A snapshot without a modification timestamp cannot be checked
	// for staleness; include it rather than risk dropping it.
	if modified, ok := ent.ModifiedAt(); ok && modified < req.UpdatedSince {
		return nil, nil
	}

	batch, err := p.sink.IndexEntity(req.Scope, ent)
	if err != nil {
		return nil, fmt.Errorf("entity index: %w", err)
	}
	return batch, nil
}

// DeIndexOldVersions computes the batch that retires versions
// superseded by the marked version after a successful write or reindex.
// This is the lightweight counterpart to EntityDelete: nothing is
// purged and no graph cascade runs.
func (p *Propagator) DeIndexOldVersions(scope entity.Scope, id entity.ID, marked uuid.UUID) (*index.Batch, error) {
	p.logger.WithFields(logrus.Fields{
		"scope":  scope.Application,
		"entity": id,
	}).Debug("de-indexing old entity versions")

	store := p.entities.OpenStore(scope)
	versions, err := p.versionsNotNewerThan(store, id, marked)
	if err != nil {
		return nil, fmt.Errorf("de-index old versions: %w", err)
	}

	batch, err := p.sink.DeIndexVersions(scope, id, versions)
	if err != nil {
		return nil, fmt.Errorf("de-index old versions: %w", err)
	}
	return batch, nil
}

// deIndexEdgeAllVersions merges into batch one de-index instruction per
// historical version of the edge's target node.
func (p *Propagator) deIndexEdgeAllVersions(scope entity.Scope, store entity.Store, edge graph.Edge, batch *index.Batch) error {
	it, err := store.Versions(edge.Target, entity.NewVersion())
	if err != nil {
		return err
	}
	defer func() { _ = it.Close() }()

	for it.Next() {
		le := it.Entry()
		sub, err := p.sink.DeIndexEdge(scope, edge, le.EntityID, le.Version)
		if err != nil {
			return err
		}
		batch.Ingest(sub)
	}
	return it.Error()
}

// referenceVersion locates the most recent version a delete applies to:
// the newest DELETED entry when markedOnly is set, the newest entry
// otherwise. A nil result means no such version exists.
func (p *Propagator) referenceVersion(store entity.Store, id entity.ID, markedOnly bool) (*entity.LogEntry, error) {
	it, err := store.Versions(id, entity.NewVersion())
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	for it.Next() {
		le := it.Entry()
		if markedOnly && le.State != entity.StateDeleted {
			continue
		}
		ref := *le
		return &ref, nil
	}
	return nil, it.Error()
}

// collectAndPurge gathers every log entry at or below the reference
// version, purging them from the store in fixed-size batches as they
// are found. The full list is returned because the compaction pass
// needs to walk it again.
func (p *Propagator) collectAndPurge(store entity.Store, id entity.ID, ref *entity.LogEntry, markedOnly bool) ([]entity.LogEntry, error) {
	it, err := store.Versions(id, entity.NewVersion())
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var (
		collected []entity.LogEntry
		buf       = make([]entity.LogEntry, 0, p.purgeBatchSize)
		refTS     = entity.Timestamp(ref.Version)
	)
	for it.Next() {
		le := *it.Entry()
		if markedOnly && le.State != entity.StateDeleted {
			continue
		}
		if entity.Timestamp(le.Version) > refTS {
			continue
		}
		buf = append(buf, le)
		if len(buf) >= p.purgeBatchSize {
			if err := store.PurgeVersions(buf); err != nil {
				return nil, err
			}
			collected = append(collected, buf...)
			buf = buf[:0]
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	if len(buf) != 0 {
		if err := store.PurgeVersions(buf); err != nil {
			return nil, err
		}
		collected = append(collected, buf...)
	}
	return collected, nil
}

// versionsNotNewerThan returns the versions at or below marked,
// scanning at most maxCleanupVersions log entries. The cap applies to
// the scan itself: qualifying versions beyond it are left for the
// maintenance tool.
func (p *Propagator) versionsNotNewerThan(store entity.Store, id entity.ID, marked uuid.UUID) ([]uuid.UUID, error) {
	it, err := store.Versions(id, marked)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var (
		versions []uuid.UUID
		scanned  int
		markedTS = entity.Timestamp(marked)
	)
	for scanned < maxCleanupVersions && it.Next() {
		scanned++
		le := it.Entry()
		if entity.Timestamp(le.Version) <= markedTS {
			versions = append(versions, le.Version)
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return versions, nil
}
