package stylecache

import (
	"github.com/unkn0wn-root/stylecache/csstext"
	"github.com/unkn0wn-root/stylecache/keygen"
	"github.com/unkn0wn-root/stylecache/sink"
	"github.com/unkn0wn-root/stylecache/token"
)

// StyleContext names the cache slot of one style registration.
type StyleContext struct {
	Theme *Theme
	Token *CachedToken

	// Path is the hierarchical cache namespace of the consumer, e.g.
	// {"button", "primary"}. It scopes the key, not the selectors.
	Path []string

	// HashID compounds a hash-scoped class onto every top-level selector.
	// Empty means "use Token.HashID"; Token acquisitions without a salt
	// produce no hash id and no class scoping happens.
	HashID string

	// Salt perturbs the sink node key together with the cache key
	// composition (test/tenant isolation of emitted markers).
	Salt string

	// Layer wraps the registration's output in "@layer <Layer>{...}".
	Layer string
}

// StyleRecord is the engine-owned value behind one style-cache key:
// compiled text plus the sink's removal handle.
type StyleRecord struct {
	CSSText string
	Handle  sink.Handle
}

// StyleHandle is the caller's lease on a registered style.
type StyleHandle struct {
	r        *Registry
	path     []string
	key      string
	released bool

	// pass-through node owned by this handle when the registry is
	// disabled; zero otherwise
	node sink.Handle
}

// Key returns the short node key of the registration.
func (h *StyleHandle) Key() string { return h.key }

// RegisterStyle ensures exactly one style node exists for the context's
// cache key, compiling and materializing only on the first registration.
// produce returns one or more style-description objects; it does not run
// on a cache hit. Pair every registration with a Release (or supersede it
// via Swap).
func (r *Registry) RegisterStyle(sc StyleContext, produce func() []token.Value) (*StyleHandle, error) {
	if produce == nil {
		return nil, ErrNilProducer
	}
	if sc.Token == nil {
		return nil, ErrNoToken
	}

	hashID := coalesce[string](sc.HashID, sc.Token.HashID)

	// key path: [...path, tokenKey, hashID, layer] - byte-identical token
	// key to the acquisition that produced sc.Token
	keyPath := make([]string, 0, len(sc.Path)+3)
	keyPath = append(keyPath, sc.Path...)
	keyPath = append(keyPath, sc.Token.Key, hashID, sc.Layer)
	nodeKey := keygen.HashStrings(keyPath, sc.Salt)

	if !r.enabled {
		rec, err := r.compileAndInsert(nodeKey, hashID, sc.Layer, produce)
		if err != nil {
			return nil, err
		}
		return &StyleHandle{r: r, key: nodeKey, node: rec.Handle}, nil
	}

	_, created, err := r.styles.Acquire(keyPath, func() (*StyleRecord, error) {
		return r.compileAndInsert(nodeKey, hashID, sc.Layer, produce)
	})
	if err != nil {
		return nil, err
	}
	if !created {
		r.hooks.StyleReused(nodeKey)
	}

	return &StyleHandle{r: r, path: keyPath, key: nodeKey}, nil
}

func (r *Registry) compileAndInsert(nodeKey, hashID, layer string, produce func() []token.Value) (*StyleRecord, error) {
	var css string
	for _, style := range produce() {
		text, err := csstext.Compile(style, csstext.Options{HashClass: hashID})
		if err != nil {
			return nil, &RegisterError{Key: nodeKey, CompileErr: err}
		}
		css += text
	}
	if layer != "" {
		css = "@layer " + layer + "{" + css + "}"
	}

	h, err := r.sink.Insert(nodeKey, css)
	if err != nil {
		return nil, &RegisterError{Key: nodeKey, SinkErr: err}
	}

	r.hooks.StyleCompiled(nodeKey, len(css))
	r.log.Debug("style compiled", Fields{"key": nodeKey, "bytes": len(css)})
	return &StyleRecord{CSSText: css, Handle: h}, nil
}

// Release returns the lease. At refcount zero the entry's fate follows the
// registry's eviction policy: by default it is parked for fast remount
// reuse (node stays in the document); under AutoClear both the entry and
// its node go away immediately. Idempotent per lease.
func (h *StyleHandle) Release() {
	if h.released || h.r == nil {
		return
	}
	h.released = true

	if h.path == nil {
		// pass-through registration owns its node outright
		_ = h.r.sink.Remove(h.node)
		return
	}

	refs, ok := h.r.styles.Release(h.path)
	if !ok || refs > 0 {
		return
	}
	if !h.r.autoClear {
		return
	}
	if rec, ok := h.r.styles.Evict(h.path); ok {
		_ = h.r.sink.Remove(rec.Handle)
		h.r.hooks.StyleEvicted(h.key)
		h.r.log.Debug("style evicted", Fields{"key": h.key})
	}
}

// Swap supersedes this registration with a new one, inserting the
// replacement BEFORE releasing the old lease. This ordering is the
// engine's non-flicker guarantee: across a dependency change the sink
// never observes a frame with neither the old nor the new style present.
// On error the old lease is kept untouched.
func (h *StyleHandle) Swap(sc StyleContext, produce func() []token.Value) (*StyleHandle, error) {
	nh, err := h.r.RegisterStyle(sc, produce)
	if err != nil {
		return nil, err
	}
	h.Release() // removal trails insertion
	return nh, nil
}
