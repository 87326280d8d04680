package stylecache

import (
	"time"

	"github.com/unkn0wn-root/stylecache/provider"
	"github.com/unkn0wn-root/stylecache/sink"
)

// HashPrefix is the fixed vendor prefix of hash-scoped class names. A
// salted token acquisition yields hash ids of the form
// "stylecache-hash-<6 base-36 chars>", later compounded onto every
// top-level selector of the registration.
const HashPrefix = "stylecache-hash"

// MarkerClass tags every style node the engine materializes; re-exported
// from sink for callers that only import the root package.
const MarkerClass = sink.MarkerClass

// Options tune a Registry. Everything is optional; the zero Options yields
// an enabled registry over an in-memory container sink.
type Options struct {
	Sink   sink.Sink // nil => sink.NewMemory()
	Logger Logger    // nil => NopLogger
	Hooks  Hooks     // nil => NopHooks

	// AutoClear removes a style node from the sink the moment its entry's
	// refcount reaches zero. Default (false) parks the entry for fast
	// remount reuse; the node stays in the document.
	AutoClear bool

	// Disabled turns both caches into pass-throughs: every acquisition
	// recomputes, every registration compiles and inserts its own node,
	// and teardown removes exactly that node. Dedup guarantees do not
	// hold in this mode; it exists for debugging style producers.
	Disabled bool

	// Memo optionally backs token derivation with a byte store consulted
	// beneath the token cache (best-effort, see package provider).
	Memo        provider.Provider
	MemoTTL     time.Duration // 0 => 1h
	MemoTimeout time.Duration // per-op bound for remote stores; 0 => 50ms
}

// New builds a Registry. A Registry is an isolated cache namespace: lookups
// never cross registries, which is what test isolation and per-request
// server rendering lean on.
func New(opts Options) (*Registry, error) {
	return newRegistry(opts)
}
