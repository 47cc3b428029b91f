// Package elasticsearch provides an index.Writer implementation backed
// by an Elasticsearch cluster.
package elasticsearch

import (
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// The name of the elasticsearch index to use.
const indexName = "indexmirror"

// The entity fields are free-form, so only the document metadata gets
// an explicit mapping; everything else is mapped dynamically.
var mappings = `
{
  "mappings" : {
    "properties": {
      "entityId": {"type": "keyword"},
      "entityVersion": {"type": "keyword"},
      "edgeType": {"type": "keyword"},
      "edgeSource": {"type": "keyword"},
      "edgeTarget": {"type": "keyword"}
    }
  }
}`

type updateResult struct {
	Result string `json:"result"`
}

type deleteResult struct {
	Result string `json:"result"`
}

// Not all errors can be marshaled into this struct, so unmarshalError
// may fail for exotic responses.
type errorResult struct {
	Error esError `json:"error"`
}

type esError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e esError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

func unmarshalError(res *esapi.Response) error {
	return unmarshalResponse(res, nil)
}

func unmarshalResponse(res *esapi.Response, to interface{}) error {
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errRes errorResult
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			return err
		}
		return errRes.Error
	}

	return json.NewDecoder(res.Body).Decode(to)
}
