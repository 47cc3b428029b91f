package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caravel-labs/indexmirror/index"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/hashicorp/go-multierror"
)

// Compile-time check to ensure Writer implements index.Writer.
var _ index.Writer = (*Writer)(nil)

// Writer applies mutation batches to an Elasticsearch cluster.
type Writer struct {
	es         *elasticsearch.Client
	refreshOpt string
}

// NewWriter creates a writer that connects to the given cluster nodes.
// When syncUpdates is set, every mutation is refreshed before it is
// acknowledged; this simplifies testing at the cost of throughput.
func NewWriter(nodes []string, syncUpdates bool) (*Writer, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: nodes,
	})
	if err != nil {
		return nil, err
	}

	if err = ensureIndex(es); err != nil {
		return nil, err
	}

	refreshOpt := "false"
	if syncUpdates {
		refreshOpt = "true"
	}

	return &Writer{
		es:         es,
		refreshOpt: refreshOpt,
	}, nil
}

// Write implements index.Writer. Each instruction is applied
// individually; failures do not stop the remaining instructions and
// are reported together so the caller can retry the whole batch. Both
// adds and removes are idempotent on the cluster side.
func (w *Writer) Write(batch *index.Batch) error {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	var err error
	for _, op := range batch.Ops() {
		if op.DocumentID == "" {
			err = multierror.Append(err, fmt.Errorf("write: %w", index.ErrMissingDocumentID))
			continue
		}
		switch op.Kind {
		case index.OpAdd:
			if opErr := w.upsertDocument(op); opErr != nil {
				err = multierror.Append(err, fmt.Errorf("write: %w", opErr))
			}
		case index.OpRemove:
			if opErr := w.deleteDocument(op); opErr != nil {
				err = multierror.Append(err, fmt.Errorf("write: %w", opErr))
			}
		}
	}
	return err
}

func (w *Writer) upsertDocument(op index.Op) error {
	var buf bytes.Buffer
	update := map[string]interface{}{
		"doc":           op.Fields,
		"doc_as_upsert": true,
	}
	if err := json.NewEncoder(&buf).Encode(update); err != nil {
		return err
	}

	res, err := w.es.Update(indexName, op.DocumentID, &buf, w.es.Update.WithRefresh(w.refreshOpt))
	if err != nil {
		return err
	}

	var updateRes updateResult
	return unmarshalResponse(res, &updateRes)
}

func (w *Writer) deleteDocument(op index.Op) error {
	res, err := w.es.Delete(indexName, op.DocumentID, w.es.Delete.WithRefresh(w.refreshOpt))
	if err != nil {
		return err
	}

	// Removing an already absent document is not a failure.
	if res.StatusCode == 404 {
		_ = res.Body.Close()
		return nil
	}

	var deleteRes deleteResult
	return unmarshalResponse(res, &deleteRes)
}

// ensureIndex creates the index with the predefined mappings on the
// given client.
func ensureIndex(es *elasticsearch.Client) error {
	mappingsReader := strings.NewReader(mappings)
	res, err := es.Indices.Create(indexName, es.Indices.Create.WithBody(mappingsReader))
	if err != nil {
		return fmt.Errorf("cannot create ES index: %w", err)
	} else if res.IsError() {
		err := unmarshalError(res)
		if esErr, valid := err.(esError); valid && esErr.Type == "resource_already_exists_exception" {
			return nil
		}
		return fmt.Errorf("cannot create ES index: %w", err)
	}

	return nil
}
