// Package stylecache implements a runtime CSS-generation and
// style-deduplication engine: given a design token and a style-producing
// function, it compiles the style description to CSS text, materializes it
// exactly once per unique (path, token, hash, layer) key, and reclaims it
// through explicit reference counting.
//
// Components:
//   - token.Value: open-ended nested design tokens (ordered mappings).
//   - keygen: deterministic short keys (xxhash over a canonical form).
//   - Theme / Formatter: identity-bearing derivation of richer tokens.
//   - Registry: the two refcounted caches (tokens, styles) plus policy.
//   - csstext: nested style objects -> flat CSS rule text.
//   - sink.Sink: where CSS lands (live container or collection buffer).
//   - provider.Provider: optional best-effort derivation memo byte store.
//
// Lifecycle pattern:
//
//	reg, _ := stylecache.New(stylecache.Options{})
//	theme := stylecache.NewTheme(derive)
//
//	tok, _ := reg.AcquireToken(theme, deps, stylecache.TokenOptions{Salt: "app"})
//	h, _ := reg.RegisterStyle(stylecache.StyleContext{
//		Theme: theme, Token: tok, Path: []string{"button"},
//	}, produceButtonStyles)
//	...
//	h2, _ := h.Swap(newCtx, produce) // dependency changed: insert, then release
//	...
//	h2.Release()
//	tok.Release()
//
// Ordering guarantee: Swap inserts the replacement node before releasing
// the superseded one, so a consumer never observes a frame with neither
// style present. Token-cache eviction is immediate at refcount zero;
// style-cache eviction is lazy by default and immediate under AutoClear.
package stylecache
