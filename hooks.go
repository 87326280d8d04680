package stylecache

// Hooks are lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking; the engine calls them
// synchronously on hot paths.
type Hooks interface {
	// A token-cache miss ran the full derivation chain.
	TokenDerived(key string)

	// A token-cache entry hit refcount zero and was evicted.
	TokenEvicted(key string)

	// The derivation memo answered a token-cache miss.
	MemoHit(key string)

	// The memo store failed. op is "get" or "set"; the engine recomputes
	// and continues.
	MemoError(op, key string, err error)

	// A style-cache miss compiled CSS and inserted a node. size is the
	// compiled text length in bytes.
	StyleCompiled(key string, size int)

	// A registration hit an existing style entry (no recompute).
	StyleReused(key string)

	// A style entry was evicted and its node removed from the sink.
	StyleEvicted(key string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) TokenDerived(string) {}
func (NopHooks) TokenEvicted(string) {}
func (NopHooks) MemoHit(string) {}
func (NopHooks) MemoError(string, string, error) {}
func (NopHooks) StyleCompiled(string, int) {}
func (NopHooks) StyleReused(string) {}
func (NopHooks) StyleEvicted(string) {}
