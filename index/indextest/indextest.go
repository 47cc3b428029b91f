// Package indextest defines a re-usable set of writer-related tests
// that can be executed against any type that implements index.Writer.
// The contract is write-only, so the suite checks the behavioral
// guarantees every backend must give: empty batches are no-ops,
// instructions without a document ID are rejected and removes are
// idempotent.
package indextest

import (
	"errors"
	"testing"

	"github.com/caravel-labs/indexmirror/index"
)

// Suite defines a re-usable set of writer-related tests that can be
// executed against any type that implements index.Writer.
type Suite struct {
	W index.Writer

	// Optional helper functions.
	BeforeEach func(t *testing.T)
	AfterEach  func(t *testing.T)
}

// TestWriter runs the full suite against s.W.
func (s *Suite) TestWriter(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*testing.T, index.Writer)
	}{
		{"Write empty batch", TestWriteEmptyBatch},
		{"Write missing document ID", TestWriteMissingDocumentID},
		{"Add then remove", TestAddThenRemove},
		{"Remove absent document", TestRemoveAbsentDocument},
	}

	if s.BeforeEach == nil {
		s.BeforeEach = func(t *testing.T) {}
	}

	if s.AfterEach == nil {
		s.AfterEach = func(t *testing.T) {}
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s.BeforeEach(t)
			test.fn(t, s.W)
			s.AfterEach(t)
		})
	}
}

// TestWriteEmptyBatch verifies that nil and empty batches are no-ops.
func TestWriteEmptyBatch(t *testing.T, w index.Writer) {
	if err := w.Write(nil); err != nil {
		t.Errorf("writing a nil batch: %v", err)
	}
	if err := w.Write(index.Empty()); err != nil {
		t.Errorf("writing an empty batch: %v", err)
	}
}

// TestWriteMissingDocumentID verifies that instructions without a
// document ID are rejected.
func TestWriteMissingDocumentID(t *testing.T, w index.Writer) {
	batch := index.Empty()
	batch.Add("", map[string]interface{}{"name": "server1"})
	if err := w.Write(batch); !errors.Is(err, index.ErrMissingDocumentID) {
		t.Errorf("unexpected error %v, want %v", err, index.ErrMissingDocumentID)
	}
}

// TestAddThenRemove verifies a full round trip of one document.
func TestAddThenRemove(t *testing.T, w index.Writer) {
	batch := index.Empty()
	batch.Add("suite-doc-1", map[string]interface{}{
		"entityId": "servers/00000000-0000-0000-0000-000000000001",
		"name":     "server1",
	})
	if err := w.Write(batch); err != nil {
		t.Fatalf("could not write add batch: %v", err)
	}

	batch = index.Empty()
	batch.Remove("suite-doc-1")
	if err := w.Write(batch); err != nil {
		t.Fatalf("could not write remove batch: %v", err)
	}
}

// TestRemoveAbsentDocument verifies that removes are idempotent.
func TestRemoveAbsentDocument(t *testing.T, w index.Writer) {
	batch := index.Empty()
	batch.Remove("suite-doc-absent")
	if err := w.Write(batch); err != nil {
		t.Errorf("removing an absent document: %v", err)
	}
}
