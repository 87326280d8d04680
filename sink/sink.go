// Package sink defines where compiled CSS text is materialized.
//
// A Sink is the only boundary through which the engine touches the outside
// rendering surface. Implementations MUST be synchronous: Insert and Remove
// complete their side effects before returning, because the engine's
// non-flicker ordering guarantee (new node inserted before the superseded
// node is removed) is sequenced through these calls.
//
// The engine owns node lifecycle: external code must not remove nodes it
// did not insert. Nodes carry the fixed marker class so embedding layers can
// bulk-discover engine-owned output (and nothing else) for cleanup.
package sink

// MarkerClass tags every engine-produced style node for bulk discovery.
const MarkerClass = "stylecache-marker"

// Handle identifies an inserted node for later removal. Opaque to callers;
// 0 is never a valid handle.
type Handle uint64

// Node is one materialized style entry.
type Node struct {
	ID      Handle
	Key     string // engine cache key the node belongs to
	CSSText string
	Marker  string
}

// Sink materializes CSS text.
type Sink interface {
	// Insert materializes one style node and returns its handle.
	Insert(key, cssText string) (Handle, error)

	// Remove tears down a previously inserted node. Unknown handles are
	// ignored (best-effort, mirrors repeated teardown).
	Remove(h Handle) error

	// Len reports the number of live nodes.
	Len() int
}
