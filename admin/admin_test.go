package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caravel-labs/indexmirror/dispatch"
	"github.com/google/uuid"
)

// stubEnqueuer records enqueued events.
type stubEnqueuer struct {
	events []dispatch.Event
	err    error
}

func (e *stubEnqueuer) Enqueue(_ context.Context, ev dispatch.Event) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, ev)
	return nil
}

func newTestService(t *testing.T, enq *stubEnqueuer) *Service {
	svc, err := NewService(Config{
		ListenAddr: ":0",
		Dispatch:   enq,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestHealthz(t *testing.T) {
	svc := newTestService(t, &stubEnqueuer{})

	w := httptest.NewRecorder()
	svc.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", w.Code, http.StatusOK)
	}
}

func TestReindex(t *testing.T) {
	enq := &stubEnqueuer{}
	svc := newTestService(t, enq)

	app, ent := uuid.New(), uuid.New()
	url := "/applications/" + app.String() + "/entities/servers/" + ent.String() + "/reindex?updated_since=1234"

	w := httptest.NewRecorder()
	svc.ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

	if w.Code != http.StatusAccepted {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusAccepted)
	}
	if len(enq.events) != 1 {
		t.Fatalf("got %d events, want 1", len(enq.events))
	}

	ev := enq.events[0]
	if ev.Kind != dispatch.EventEntityIndex {
		t.Errorf("got event kind %s, want %s", ev.Kind, dispatch.EventEntityIndex)
	}
	if ev.Scope.Application.UUID != app || ev.EntityID.UUID != ent {
		t.Errorf("event does not carry the request identifiers: %+v", ev)
	}
	if ev.EntityID.Type != "servers" || ev.UpdatedSince != 1234 {
		t.Errorf("event does not carry the request parameters: %+v", ev)
	}
}

func TestDelete(t *testing.T) {
	specs := []struct {
		descr   string
		query   string
		expKind dispatch.EventKind
	}{
		{descr: "marked only", query: "", expKind: dispatch.EventEntityDelete},
		{descr: "all versions", query: "?all_versions=true", expKind: dispatch.EventEntityDeleteAllVersions},
	}
	for specIndex, spec := range specs {
		t.Logf("[spec %d] %s", specIndex, spec.descr)

		enq := &stubEnqueuer{}
		svc := newTestService(t, enq)

		url := "/applications/" + uuid.New().String() + "/entities/servers/" + uuid.New().String() + spec.query
		w := httptest.NewRecorder()
		svc.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, url, nil))

		if w.Code != http.StatusAccepted {
			t.Fatalf("[spec %d] got status %d, want %d", specIndex, w.Code, http.StatusAccepted)
		}
		if len(enq.events) != 1 || enq.events[0].Kind != spec.expKind {
			t.Errorf("[spec %d] unexpected events %+v", specIndex, enq.events)
		}
	}
}

func TestInvalidIdentifiers(t *testing.T) {
	svc := newTestService(t, &stubEnqueuer{})

	url := "/applications/not-a-uuid/entities/servers/" + uuid.New().String() + "/reindex"
	w := httptest.NewRecorder()
	svc.ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestEnqueueFailure(t *testing.T) {
	svc := newTestService(t, &stubEnqueuer{err: errors.New("queue closed")})

	url := "/applications/" + uuid.New().String() + "/entities/servers/" + uuid.New().String() + "/reindex"
	w := httptest.NewRecorder()
	svc.ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
