// Package bleve provides an index.Writer implementation backed by a
// bleve instance. It is intended for single-node deployments and for
// tests that need a real full-text index without an external cluster.
package bleve

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/caravel-labs/indexmirror/index"
)

// Compile-time check to ensure Writer implements index.Writer.
var _ index.Writer = (*Writer)(nil)

// Writer applies mutation batches to a bleve index.
type Writer struct {
	mu  sync.Mutex
	idx bleve.Index
}

// NewWriter creates a writer over an in-memory bleve instance.
func NewWriter() (*Writer, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("bleve writer: %w", err)
	}
	return &Writer{idx: idx}, nil
}

// OpenWriter creates a writer over a persistent bleve index at path,
// creating the index if it does not exist.
func OpenWriter(path string) (*Writer, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("bleve writer: %w", err)
	}
	return &Writer{idx: idx}, nil
}

// Close the writer and release any allocated resources.
func (w *Writer) Close() error {
	return w.idx.Close()
}

// Write implements index.Writer. The batch is applied atomically with
// respect to other Write calls; a nil or empty batch is a no-op.
func (w *Writer) Write(batch *index.Batch) error {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	b := w.idx.NewBatch()
	for _, op := range batch.Ops() {
		if op.DocumentID == "" {
			return fmt.Errorf("write: %w", index.ErrMissingDocumentID)
		}
		switch op.Kind {
		case index.OpAdd:
			if err := b.Index(op.DocumentID, op.Fields); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		case index.OpRemove:
			b.Delete(op.DocumentID)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.idx.Batch(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// DocCount reports the number of documents currently in the index.
func (w *Writer) DocCount() (uint64, error) {
	return w.idx.DocCount()
}
