package elasticsearch

import (
	"os"
	"strings"
	"testing"

	"github.com/caravel-labs/indexmirror/index"
	"github.com/caravel-labs/indexmirror/index/indextest"
)

func TestAcceptance(t *testing.T) {
	nodes := os.Getenv("ES_NODES")
	if nodes == "" {
		t.Skip("Missing ES_NODES env var; skipping elasticsearch-backed writer test suite")
	}

	w, err := NewWriter(strings.Split(nodes, ","), true)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	suite := indextest.Suite{W: w}
	suite.TestWriter(t)
}

func TestWriteEmptyBatch(t *testing.T) {
	w := &Writer{}
	if err := w.Write(nil); err != nil {
		t.Errorf("writing a nil batch: %v", err)
	}
	if err := w.Write(index.Empty()); err != nil {
		t.Errorf("writing an empty batch: %v", err)
	}
}
