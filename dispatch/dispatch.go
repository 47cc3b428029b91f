// Package dispatch provides the asynchronous event service that feeds
// mutation events to the propagator and applies the resulting batches
// to an index writer.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/caravel-labs/indexmirror/index"
	"github.com/caravel-labs/indexmirror/propagate"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
)

// EventKind discriminates the mutation events the service accepts.
type EventKind uint8

const (
	// EventNewEdge indexes a new edge for one entity version.
	EventNewEdge EventKind = iota

	// EventDeleteEdge removes an edge and de-indexes its entries.
	EventDeleteEdge

	// EventEntityDelete purges and de-indexes the marked versions of an
	// entity.
	EventEntityDelete

	// EventEntityDeleteAllVersions purges and de-indexes the entire
	// history of an entity.
	EventEntityDeleteAllVersions

	// EventEntityIndex (re)indexes the current snapshot of an entity.
	EventEntityIndex

	// EventCleanupVersions de-indexes the versions superseded by a
	// marked version.
	EventCleanupVersions
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventNewEdge:
		return "new-edge"
	case EventDeleteEdge:
		return "delete-edge"
	case EventEntityDelete:
		return "entity-delete"
	case EventEntityDeleteAllVersions:
		return "entity-delete-all-versions"
	case EventEntityIndex:
		return "entity-index"
	case EventCleanupVersions:
		return "cleanup-versions"
	default:
		return "unknown"
	}
}

// Event describes one mutation to propagate. Only the fields relevant
// to its kind need to be populated.
type Event struct {
	// The kind of mutation.
	Kind EventKind

	// The scope owning the affected entities.
	Scope entity.Scope

	// Entity is the version snapshot a new edge is indexed for.
	Entity *entity.Entity

	// EntityID identifies the entity for delete, index and cleanup
	// events.
	EntityID entity.ID

	// Edge is the affected edge for edge events.
	Edge graph.Edge

	// UpdatedSince is the reindex watermark for index events.
	UpdatedSince int64

	// Marked is the reference version for cleanup events.
	Marked uuid.UUID
}

// Config encapsulates the settings for creating a dispatch service.
type Config struct {
	// Propagator computes the batch for each event.
	Propagator *propagate.Propagator

	// Writer applies the computed batches to the search index.
	Writer index.Writer

	// Workers is the number of events processed in parallel. Defaults
	// to the number of CPUs.
	Workers int

	// QueueSize is the capacity of the event queue. Enqueueing blocks
	// once the queue is full. Defaults to 128.
	QueueSize int

	// MaxAttempts is how many times an event is tried before it is
	// dropped. Defaults to 3.
	MaxAttempts int

	// RetryInterval is the delay between attempts. Defaults to 5s.
	RetryInterval time.Duration

	// The clock to use for retry delays. Defaults to the wall clock.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger
	// will be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Propagator == nil {
		err = multierror.Append(err, fmt.Errorf("propagator has not been provided"))
	}
	if cfg.Writer == nil {
		err = multierror.Append(err, fmt.Errorf("index writer has not been provided"))
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Service consumes mutation events from a bounded queue and propagates
// them with at-least-once semantics: failed events are retried with a
// clock-driven delay before they are dropped.
type Service struct {
	cfg   Config
	queue chan Event

	mu      sync.Mutex
	dropped error
}

// NewService creates a new dispatch service instance with the
// specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("dispatch service: config validation failed: %w", err)
	}
	return &Service{
		cfg:   cfg,
		queue: make(chan Event, cfg.QueueSize),
	}, nil
}

// Name implements service.Service.
func (svc *Service) Name() string { return "dispatch" }

// Enqueue submits an event for processing. It blocks while the queue
// is full and fails once ctx is cancelled.
func (svc *Service) Enqueue(ctx context.Context, ev Event) error {
	select {
	case svc.queue <- ev:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue: %w", ctx.Err())
	}
}

// Run implements service.Service. It blocks until ctx is cancelled and
// reports the events that were dropped after exhausting their retry
// budget.
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("workers", svc.cfg.Workers).Info("starting event dispatch")

	var wg sync.WaitGroup
	wg.Add(svc.cfg.Workers)
	for i := 0; i < svc.cfg.Workers; i++ {
		go func() {
			defer wg.Done()
			svc.runWorker(ctx)
		}()
	}
	wg.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.dropped
}

func (svc *Service) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-svc.queue:
			svc.processWithRetry(ctx, ev)
		}
	}
}

func (svc *Service) processWithRetry(ctx context.Context, ev Event) {
	var lastErr error
attempts:
	for attempt := 1; attempt <= svc.cfg.MaxAttempts; attempt++ {
		if lastErr = svc.process(ev); lastErr == nil {
			return
		}

		svc.cfg.Logger.WithFields(logrus.Fields{
			"event":   ev.Kind,
			"attempt": attempt,
			"err":     lastErr,
		}).Warn("event processing failed")

		if attempt == svc.cfg.MaxAttempts {
			break
		}
		select {
		case <-svc.cfg.Clock.After(svc.cfg.RetryInterval):
		case <-ctx.Done():
			// Shutting down; the event stays unprocessed.
			lastErr = fmt.Errorf("%w (interrupted by shutdown)", lastErr)
			break attempts
		}
	}

	svc.mu.Lock()
	svc.dropped = multierror.Append(svc.dropped, fmt.Errorf("%s event dropped: %w", ev.Kind, lastErr))
	svc.mu.Unlock()
}

func (svc *Service) process(ev Event) error {
	var (
		batch *index.Batch
		err   error
	)
	switch ev.Kind {
	case EventNewEdge:
		batch, err = svc.cfg.Propagator.NewEdge(ev.Scope, ev.Entity, ev.Edge)
	case EventDeleteEdge:
		batch, err = svc.cfg.Propagator.DeleteEdge(ev.Scope, ev.Edge)
	case EventEntityDelete:
		batch, err = svc.cfg.Propagator.EntityDelete(ev.Scope, ev.EntityID)
	case EventEntityDeleteAllVersions:
		batch, err = svc.cfg.Propagator.EntityDeleteAllVersions(ev.Scope, ev.EntityID)
	case EventEntityIndex:
		batch, err = svc.cfg.Propagator.EntityIndex(propagate.Request{
			Scope:        ev.Scope,
			ID:           ev.EntityID,
			UpdatedSince: ev.UpdatedSince,
		})
	case EventCleanupVersions:
		batch, err = svc.cfg.Propagator.DeIndexOldVersions(ev.Scope, ev.EntityID, ev.Marked)
	default:
		return fmt.Errorf("unsupported event kind %d", ev.Kind)
	}
	if err != nil {
		return err
	}
	return svc.cfg.Writer.Write(batch)
}
