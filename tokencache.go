package stylecache

import (
	"strconv"
	"strings"

	"github.com/unkn0wn-root/stylecache/keygen"
	"github.com/unkn0wn-root/stylecache/token"
)

// TokenOptions shape one token acquisition.
type TokenOptions struct {
	// Salt isolates otherwise-identical tokens (multi-tenant containers,
	// test isolation) and switches on hash-scoped class generation.
	Salt string

	// Override is shallow-merged onto the derived (and formatted) token
	// last; its fields win unconditionally.
	Override token.Value

	// Format post-processes the derived token before Override applies.
	Format *Formatter
}

// optionsValue is the canonical token form of the options, serialized into
// the composite key. The formatter contributes identity, not content.
func (o TokenOptions) optionsValue() token.Value {
	var formatID float64
	if o.Format != nil {
		formatID = float64(o.Format.ID())
	}
	return token.Object(
		token.F("salt", token.String(o.Salt)),
		token.F("override", o.Override),
		token.F("format", token.Number(formatID)),
	)
}

// tokenEntry is the engine-owned value behind one token-cache key.
type tokenEntry struct {
	token  token.Value
	key    string // short composite token key, reused in style keys
	hashID string // "" when unsalted
}

// CachedToken is the caller's lease on a token-cache entry. Token and Key
// are stable for the lease's lifetime; equal inputs return the identical
// cached derivative (referential stability), so downstream style
// registration sees an unchanged key and skips recompilation.
type CachedToken struct {
	Token  token.Value
	Key    string
	HashID string

	r        *Registry
	path     []string
	released bool
}

// AcquireToken returns the derivative token for (theme, deps, opts),
// deriving it on first use and bumping the entry's refcount on every call.
// deps merge shallowly, later entries overriding earlier ones. Pair every
// acquisition with a Release.
func (r *Registry) AcquireToken(theme *Theme, deps []token.Value, opts TokenOptions) (*CachedToken, error) {
	if theme == nil {
		return nil, ErrNilTheme
	}

	merged := token.Object()
	for _, d := range deps {
		merged = merged.Merge(d)
	}

	path := []string{
		strconv.FormatUint(theme.ID(), 10),
		keygen.Serialize(merged, ""),
		keygen.Serialize(opts.optionsValue(), ""),
	}

	if !r.enabled {
		e := r.computeToken(theme, merged, opts, path)
		return &CachedToken{Token: e.token, Key: e.key, HashID: e.hashID, released: true}, nil
	}

	entry, created, err := r.tokens.Acquire(path, func() (*tokenEntry, error) {
		return r.computeToken(theme, merged, opts, path), nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		r.hooks.TokenDerived(entry.key)
		r.log.Debug("token derived", Fields{"key": entry.key, "theme": theme.ID()})
	}

	return &CachedToken{
		Token:  entry.token,
		Key:    entry.key,
		HashID: entry.hashID,
		r:      r,
		path:   path,
	}, nil
}

// computeToken runs the derivation chain, consulting the memo first.
// Order on a genuine miss: derive, format, override - override is applied
// last and wins per key.
func (r *Registry) computeToken(theme *Theme, merged token.Value, opts TokenOptions, path []string) *tokenEntry {
	key := keygen.HashStrings(path, "")

	derived, fromMemo := r.memoLookup(path, key)
	if !fromMemo {
		derived = theme.Derive(merged)
		if opts.Format != nil {
			derived = opts.Format.Apply(derived)
		}
		derived = derived.Merge(opts.Override)
		r.memoStore(path, key, derived)
	}

	hashID := ""
	if opts.Salt != "" {
		hashID = HashPrefix + "-" + keygen.HashStrings(path, opts.Salt)
	}
	return &tokenEntry{token: derived, key: key, hashID: hashID}
}

// Release returns the lease. At refcount zero the entry is evicted
// immediately - tokens carry no external side effects that would need the
// style cache's deferred teardown. Idempotent per lease.
func (ct *CachedToken) Release() {
	if ct.released || ct.r == nil {
		return
	}
	ct.released = true

	refs, ok := ct.r.tokens.Release(ct.path)
	if !ok || refs > 0 {
		return
	}
	if _, ok := ct.r.tokens.Evict(ct.path); ok {
		ct.r.hooks.TokenEvicted(ct.Key)
		ct.r.log.Debug("token evicted", Fields{"key": ct.Key})
	}
}

// memoKey maps a token-cache path into the memo keyspace. Path segments are
// decimal ids and base-36 hashes, so ':' never collides.
func memoKey(path []string) string {
	return "memo:" + strings.Join(path, ":")
}

func (r *Registry) memoLookup(path []string, key string) (token.Value, bool) {
	if r.memo == nil {
		return token.Value{}, false
	}
	ctx, cancel := r.memoCtx()
	defer cancel()

	mk := memoKey(path)
	raw, ok, err := r.memo.Get(ctx, mk)
	if err != nil {
		r.hooks.MemoError("get", key, err)
		r.log.Warn("memo get failed", Fields{"key": key, "err": err})
		return token.Value{}, false
	}
	if !ok {
		return token.Value{}, false
	}
	v, err := r.memoCodec.Decode(raw)
	if err != nil {
		// corrupt payload: drop and recompute
		_ = r.memo.Del(ctx, mk)
		r.hooks.MemoError("get", key, err)
		return token.Value{}, false
	}
	r.hooks.MemoHit(key)
	return v, true
}

func (r *Registry) memoStore(path []string, key string, v token.Value) {
	if r.memo == nil {
		return
	}
	raw, err := r.memoCodec.Encode(v)
	if err != nil {
		r.hooks.MemoError("set", key, err)
		return
	}
	ctx, cancel := r.memoCtx()
	defer cancel()

	ok, err := r.memo.Set(ctx, memoKey(path), raw, int64(len(raw)), r.memoTTL)
	if err != nil {
		r.hooks.MemoError("set", key, err)
		r.log.Warn("memo set failed", Fields{"key": key, "err": err})
		return
	}
	if !ok {
		r.log.Debug("memo set rejected (pressure)", Fields{"key": key})
	}
}
