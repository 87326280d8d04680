package stylecache

import (
	"sync/atomic"

	"github.com/unkn0wn-root/stylecache/token"
)

// identitySeq issues stable handles for themes and formatters. Function
// values are not comparable in Go, and live object identity makes a poor
// map key, so every identity-bearing wrapper gets a monotonic id at
// construction and the id is what enters cache key composition.
var identitySeq atomic.Uint64

// DeriveFunc maps a base design token to a richer derivative token.
// It must be pure: same input, same output, no side effects.
type DeriveFunc func(token.Value) token.Value

// Theme owns a derivation function. Identity matters: two themes built
// around byte-identical functions are distinct cache namespaces.
type Theme struct {
	id     uint64
	derive DeriveFunc
}

// NewTheme wraps fn as a theme. A nil fn derives the identity.
func NewTheme(fn DeriveFunc) *Theme {
	if fn == nil {
		fn = func(v token.Value) token.Value { return v }
	}
	return &Theme{id: identitySeq.Add(1), derive: fn}
}

// ID returns the theme's cache-namespace handle.
func (t *Theme) ID() uint64 { return t.id }

// Derive applies the derivation function. No caching happens here; the
// token cache memoizes results per (theme, deps, options).
func (t *Theme) Derive(base token.Value) token.Value { return t.derive(base) }

// Formatter is an identity-bearing wrapper for the optional post-derivation
// transform of AcquireToken. Like Theme, its id - not the function - enters
// the options key.
type Formatter struct {
	id uint64
	fn func(token.Value) token.Value
}

func NewFormatter(fn func(token.Value) token.Value) *Formatter {
	if fn == nil {
		fn = func(v token.Value) token.Value { return v }
	}
	return &Formatter{id: identitySeq.Add(1), fn: fn}
}

func (f *Formatter) ID() uint64 { return f.id }

func (f *Formatter) Apply(v token.Value) token.Value { return f.fn(v) }
