package inmem

import (
	"testing"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/entity/entitytest"
	"github.com/caravel-labs/indexmirror/graph/graphtest"
	"github.com/google/uuid"
)

func TestStoreAcceptance(t *testing.T) {
	suite := entitytest.Suite{}

	suite.BeforeEach = func(_ *testing.T) {
		suite.S = NewStore()
	}

	suite.TestStore(t)
}

func TestGraphAcceptance(t *testing.T) {
	suite := graphtest.Suite{}

	suite.BeforeEach = func(_ *testing.T) {
		suite.G = NewGraph()
	}

	suite.TestGraph(t)
}

func TestScopedHandles(t *testing.T) {
	backend := NewBackend()

	scopeA := entity.Scope{Application: entity.ID{Type: "application", UUID: uuid.New()}}
	scopeB := entity.Scope{Application: entity.ID{Type: "application", UUID: uuid.New()}}

	if backend.OpenStore(scopeA) != backend.OpenStore(scopeA) {
		t.Errorf("expected the same store handle for the same scope")
	}
	if backend.OpenStore(scopeA) == backend.OpenStore(scopeB) {
		t.Errorf("expected different store handles for different scopes")
	}
	if backend.OpenGraph(scopeA) != backend.OpenGraph(scopeA) {
		t.Errorf("expected the same graph handle for the same scope")
	}
	if backend.OpenGraph(scopeA) == backend.OpenGraph(scopeB) {
		t.Errorf("expected different graph handles for different scopes")
	}
}
