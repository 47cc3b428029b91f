// Package index defines the mutation-batch model for pending
// search-index writes, the sink contract that computes batches and the
// writer contract that applies them to a search backend.
package index

// OpKind discriminates between add and remove index instructions.
type OpKind uint8

const (
	// OpAdd upserts a document into the index.
	OpAdd OpKind = iota

	// OpRemove deletes a document from the index.
	OpRemove
)

// String implements fmt.Stringer.
func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Op is a single pending index instruction.
type Op struct {
	// The kind of instruction.
	Kind OpKind

	// DocumentID uniquely identifies the index entry the instruction
	// applies to.
	DocumentID string

	// Fields carries the document body for add instructions.
	Fields map[string]interface{}
}

// Batch accumulates pending index instructions. Batches produced by
// independent sub-operations may be merged in any order: the set of
// committed mutations does not depend on ingestion order.
type Batch struct {
	ops []Op
}

// Empty returns the identity batch.
func Empty() *Batch {
	return &Batch{}
}

// Add appends an add instruction for the given document.
func (b *Batch) Add(documentID string, fields map[string]interface{}) {
	b.ops = append(b.ops, Op{Kind: OpAdd, DocumentID: documentID, Fields: fields})
}

// Remove appends a remove instruction for the given document.
func (b *Batch) Remove(documentID string) {
	b.ops = append(b.ops, Op{Kind: OpRemove, DocumentID: documentID})
}

// Ingest merges the instructions of other into b. Ingesting a nil
// batch is a no-op.
func (b *Batch) Ingest(other *Batch) {
	if other == nil {
		return
	}
	b.ops = append(b.ops, other.ops...)
}

// Ops returns the accumulated instructions.
func (b *Batch) Ops() []Op {
	return b.ops
}

// Len returns the number of accumulated instructions.
func (b *Batch) Len() int {
	return len(b.ops)
}
