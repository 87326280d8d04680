package sink

import (
	"strings"
	"sync"

	"github.com/unkn0wn-root/stylecache/codec"
)

// Manifest is the portable form of a Buffer's contents: one entry per
// unique cache key, in insertion order. It exists so a warm process can
// hand collected styles to a cold one (or to disk) through any
// codec.Codec[Manifest] - JSON, CBOR, Msgpack at the caller's choice.
type Manifest struct {
	Entries []ManifestEntry `json:"entries" msgpack:"entries" cbor:"entries"`
}

type ManifestEntry struct {
	Key     string `json:"key" msgpack:"key" cbor:"key"`
	CSSText string `json:"css" msgpack:"css" cbor:"css"`
}

// Buffer collects compiled CSS instead of materializing live nodes.
// Use one Buffer per isolated Registry when styles must be gathered for
// emission elsewhere and must not leak across registries.
type Buffer struct {
	mu     sync.Mutex
	nextID Handle
	nodes  []Node
}

var _ Sink = (*Buffer)(nil)

func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Insert(key, cssText string) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.nodes = append(b.nodes, Node{ID: b.nextID, Key: key, CSSText: cssText, Marker: MarkerClass})
	return b.nextID, nil
}

func (b *Buffer) Remove(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.nodes {
		if n.ID == h {
			b.nodes = append(b.nodes[:i], b.nodes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes)
}

// CSS concatenates the collected text in insertion order.
func (b *Buffer) CSS() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, n := range b.nodes {
		sb.WriteString(n.CSSText)
	}
	return sb.String()
}

// Manifest snapshots the buffer.
func (b *Buffer) Manifest() Manifest {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := Manifest{Entries: make([]ManifestEntry, 0, len(b.nodes))}
	for _, n := range b.nodes {
		m.Entries = append(m.Entries, ManifestEntry{Key: n.Key, CSSText: n.CSSText})
	}
	return m
}

// Export encodes the snapshot with c.
func (b *Buffer) Export(c codec.Codec[Manifest]) ([]byte, error) {
	return c.Encode(b.Manifest())
}

// Import appends previously exported entries to the buffer, in manifest
// order. Keys are trusted as-is; dedup against live entries is the
// engine's job, not the buffer's.
func (b *Buffer) Import(c codec.Codec[Manifest], raw []byte) error {
	m, err := c.Decode(raw)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range m.Entries {
		b.nextID++
		b.nodes = append(b.nodes, Node{ID: b.nextID, Key: e.Key, CSSText: e.CSSText, Marker: MarkerClass})
	}
	return nil
}
