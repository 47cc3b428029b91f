// Package admin exposes the management HTTP surface: health checks,
// targeted reindex requests and entity delete requests. Handlers only
// enqueue work; the dispatch service does the heavy lifting.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/caravel-labs/indexmirror/dispatch"
	"github.com/caravel-labs/indexmirror/entity"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Enqueuer is implemented by the dispatch service.
type Enqueuer interface {
	Enqueue(ctx context.Context, ev dispatch.Event) error
}

// Config encapsulates the settings for creating an admin service.
type Config struct {
	// ListenAddr is the address to listen on for incoming requests.
	ListenAddr string

	// Dispatch accepts the events produced by the handlers.
	Dispatch Enqueuer

	// The logger to use. If not defined an output-discarding logger
	// will be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, fmt.Errorf("listen address has not been provided"))
	}
	if cfg.Dispatch == nil {
		err = multierror.Append(err, fmt.Errorf("event dispatcher has not been provided"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Service implements the admin HTTP endpoint.
type Service struct {
	cfg    Config
	router *mux.Router
}

// NewService creates a new admin service instance with the specified
// config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("admin service: config validation failed: %w", err)
	}

	svc := &Service{cfg: cfg, router: mux.NewRouter()}
	svc.router.HandleFunc("/healthz", svc.healthHandler).Methods(http.MethodGet)
	svc.router.HandleFunc("/applications/{app}/entities/{collection}/{entity}/reindex", svc.reindexHandler).Methods(http.MethodPost)
	svc.router.HandleFunc("/applications/{app}/entities/{collection}/{entity}", svc.deleteHandler).Methods(http.MethodDelete)
	return svc, nil
}

// Name implements service.Service.
func (svc *Service) Name() string { return "admin" }

// Run implements service.Service.
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("addr", svc.cfg.ListenAddr).Info("starting admin endpoint")

	srv := &http.Server{
		Addr:    svc.cfg.ListenAddr,
		Handler: svc.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelFn()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// ServeHTTP implements http.Handler; it is used by the tests to drive
// the handlers without a listener.
func (svc *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func (svc *Service) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (svc *Service) reindexHandler(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := svc.scopedEntity(w, r)
	if !ok {
		return
	}

	var updatedSince int64
	if raw := r.URL.Query().Get("updated_since"); raw != "" {
		var err error
		if updatedSince, err = strconv.ParseInt(raw, 10, 64); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid updated_since value"})
			return
		}
	}

	ev := dispatch.Event{
		Kind:         dispatch.EventEntityIndex,
		Scope:        scope,
		EntityID:     id,
		UpdatedSince: updatedSince,
	}
	svc.enqueue(w, r, ev)
}

func (svc *Service) deleteHandler(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := svc.scopedEntity(w, r)
	if !ok {
		return
	}

	ev := dispatch.Event{
		Kind:     dispatch.EventEntityDelete,
		Scope:    scope,
		EntityID: id,
	}
	if r.URL.Query().Get("all_versions") == "true" {
		ev.Kind = dispatch.EventEntityDeleteAllVersions
	}
	svc.enqueue(w, r, ev)
}

// scopedEntity extracts the scope and the entity ID from the request
// path. On failure it writes the error response and returns false.
func (svc *Service) scopedEntity(w http.ResponseWriter, r *http.Request) (entity.Scope, entity.ID, bool) {
	vars := mux.Vars(r)

	appUUID, err := uuid.Parse(vars["app"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid application ID"})
		return entity.Scope{}, entity.ID{}, false
	}
	entityUUID, err := uuid.Parse(vars["entity"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entity ID"})
		return entity.Scope{}, entity.ID{}, false
	}

	scope := entity.Scope{Application: entity.ID{Type: "application", UUID: appUUID}}
	id := entity.ID{Type: vars["collection"], UUID: entityUUID}
	return scope, id, true
}

func (svc *Service) enqueue(w http.ResponseWriter, r *http.Request, ev dispatch.Event) {
	if err := svc.cfg.Dispatch.Enqueue(r.Context(), ev); err != nil {
		svc.cfg.Logger.WithField("err", err).Error("could not enqueue event")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "could not enqueue event"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
