// Package codec provides pluggable (de)serialization for values the engine
// parks in byte stores: derived tokens in a derivation memo, and Buffer
// sink manifests. Implementations must be deterministic enough for their
// use - memo payloads must round-trip tokens byte-for-byte stable (see
// Token), manifest payloads only need to round-trip.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
