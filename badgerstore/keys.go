package badgerstore

import (
	"encoding/binary"

	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
)

// Key layout. All keys start with a one-byte namespace tag and the
// application UUID so that scopes never collide:
//
//	e|app|type|uuid                          entity snapshot (JSON)
//	v|app|type|uuid|^ts|version              version log entry (state byte)
//	g|app|edgeType|srcType|srcID|dstType|dstID   edge record (JSON)
//	n|app|nodeType|nodeID|<edge key>         node-incidence pointer
//
// The version-log timestamp is stored bitwise-inverted so that a
// forward key scan yields entries newest-first.
const (
	tagEntity  = 'e'
	tagVersion = 'v'
	tagEdge    = 'g'
	tagNode    = 'n'
)

const keySep = 0x00

func appendPart(key []byte, part []byte) []byte {
	key = append(key, keySep)
	return append(key, part...)
}

func keyPrefix(tag byte, scope entity.Scope) []byte {
	key := []byte{tag}
	return appendPart(key, scope.Application.UUID[:])
}

func entityKey(scope entity.Scope, id entity.ID) []byte {
	key := keyPrefix(tagEntity, scope)
	key = appendPart(key, []byte(id.Type))
	return appendPart(key, id.UUID[:])
}

// versionLogPrefix is the common prefix of every log entry for one
// entity.
func versionLogPrefix(scope entity.Scope, id entity.ID) []byte {
	key := keyPrefix(tagVersion, scope)
	key = appendPart(key, []byte(id.Type))
	key = appendPart(key, id.UUID[:])
	return append(key, keySep)
}

func versionKey(scope entity.Scope, le *entity.LogEntry) []byte {
	key := versionLogPrefix(scope, le.EntityID)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], ^uint64(entity.Timestamp(le.Version)))
	key = append(key, ts[:]...)
	return append(key, le.Version[:]...)
}

// invertedTimestamp extracts the scan-order timestamp from the suffix a
// version key carries after its log prefix.
func invertedTimestamp(suffix []byte) int64 {
	return int64(^binary.BigEndian.Uint64(suffix[:8]))
}

func edgeKey(scope entity.Scope, edge graph.Edge) []byte {
	key := keyPrefix(tagEdge, scope)
	key = appendPart(key, []byte(edge.Type))
	key = appendPart(key, []byte(edge.Source.Type))
	key = appendPart(key, edge.Source.UUID[:])
	key = appendPart(key, []byte(edge.Target.Type))
	return appendPart(key, edge.Target.UUID[:])
}

// nodePrefix is the common prefix of every incidence pointer for one
// node.
func nodePrefix(scope entity.Scope, node entity.ID) []byte {
	key := keyPrefix(tagNode, scope)
	key = appendPart(key, []byte(node.Type))
	key = appendPart(key, node.UUID[:])
	return append(key, keySep)
}

func nodeKey(scope entity.Scope, node entity.ID, edgeKey []byte) []byte {
	return append(nodePrefix(scope, node), edgeKey...)
}
