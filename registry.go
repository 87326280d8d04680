package stylecache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/stylecache/codec"
	"github.com/unkn0wn-root/stylecache/internal/refmap"
	"github.com/unkn0wn-root/stylecache/provider"
	"github.com/unkn0wn-root/stylecache/sink"
)

const (
	defaultMemoTTL     = time.Hour
	defaultMemoTimeout = 50 * time.Millisecond
)

// Registry owns the two reference-counted caches and the sink they feed.
// All mutation goes through the refcount protocol; nothing outside the
// Registry deletes an entry directly.
type Registry struct {
	sink      sink.Sink
	log       Logger
	hooks     Hooks
	autoClear bool
	enabled   bool

	tokens *refmap.Map[*tokenEntry]
	styles *refmap.Map[*StyleRecord]

	memo        provider.Provider
	memoCodec   codec.Token
	memoTTL     time.Duration
	memoTimeout time.Duration
}

func newRegistry(opts Options) (*Registry, error) {
	r := &Registry{
		autoClear: opts.AutoClear,
		enabled:   !opts.Disabled,
		tokens:    refmap.New[*tokenEntry](),
		styles:    refmap.New[*StyleRecord](),
		memo:      opts.Memo,
	}

	// defaults
	if opts.Sink != nil {
		r.sink = opts.Sink
	} else {
		r.sink = sink.NewMemory()
	}
	r.log = coalesce[Logger](opts.Logger, NopLogger{})
	r.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	r.memoTTL = coalesce[time.Duration](opts.MemoTTL, defaultMemoTTL)
	r.memoTimeout = coalesce[time.Duration](opts.MemoTimeout, defaultMemoTimeout)

	return r, nil
}

// Enabled reports whether caching is active (Options.Disabled unset).
func (r *Registry) Enabled() bool { return r.enabled }

// Sink exposes the registry's materialization target.
func (r *Registry) Sink() sink.Sink { return r.sink }

// Stats is a point-in-time census of engine-owned resources.
type Stats struct {
	Tokens int // token-cache entries, including ones parked at refcount zero
	Styles int // style-cache entries
	Nodes  int // live style nodes in the sink
}

func (r *Registry) Stats() Stats {
	return Stats{
		Tokens: r.tokens.Len(),
		Styles: r.styles.Len(),
		Nodes:  r.sink.Len(),
	}
}

// Close releases the memo store, if any. The caches themselves hold no
// external resources beyond the sink, which the caller owns.
func (r *Registry) Close(ctx context.Context) error {
	if r.memo != nil {
		return r.memo.Close(ctx)
	}
	return nil
}

// memoCtx bounds one memo operation. Remote stores must not stall style
// registration beyond the configured budget.
func (r *Registry) memoCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.memoTimeout)
}
