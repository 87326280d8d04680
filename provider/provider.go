// Package provider defines the byte-store abstraction behind the optional
// derivation memo.
//
// The memo sits underneath the token cache: on a token-cache miss the
// engine may find the final derived token here (keyed by the same composite
// key) instead of re-running the theme's derivation chain. It is strictly
// best-effort - a miss, a rejected write or even a store outage only costs
// a recomputation, never correctness - which is why eviction-happy stores
// (Ristretto, BigCache) fit, and why a networked store (Redis) is
// acceptable despite the engine itself being synchronous and in-process.
//
// Implementations MUST be byte-for-byte transparent: Get must return
// exactly the same []byte previously passed to Set for a key. The "memo:"
// keyspace is owned by the engine; foreign writes under it may decode into
// garbage tokens and are the writer's problem.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// IO/remote errors return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. May ignore cost if
	// unsupported. Returns ok=false when the store rejected the write
	// under pressure; the engine treats that as a skipped memo.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
