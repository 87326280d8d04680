package sink

import "sync"

// Memory is the live-document stand-in: an ordered, in-process list of
// style nodes. Insertion order is preserved so emitted CSS keeps source
// order semantics (later rules win ties).
type Memory struct {
	mu     sync.Mutex
	nextID Handle
	nodes  []Node
	marker string
}

var _ Sink = (*Memory)(nil)

// NewMemory returns an empty container whose nodes are tagged with
// MarkerClass.
func NewMemory() *Memory { return &Memory{marker: MarkerClass} }

// NewMemoryMarked returns a container using a custom marker class
// (isolated test containers).
func NewMemoryMarked(marker string) *Memory { return &Memory{marker: marker} }

func (m *Memory) Insert(key, cssText string) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.nodes = append(m.nodes, Node{
		ID:      m.nextID,
		Key:     key,
		CSSText: cssText,
		Marker:  m.marker,
	})
	return m.nextID, nil
}

func (m *Memory) Remove(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.nodes {
		if n.ID == h {
			m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}

// Nodes returns a snapshot of live nodes in insertion order.
func (m *Memory) Nodes() []Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Node, len(m.nodes))
	copy(out, m.nodes)
	return out
}

// ClearMarked removes every node tagged with marker and reports how many
// were dropped. This is the bulk-cleanup path for embedding layers; nodes
// with a different marker are untouched.
func (m *Memory) ClearMarked(marker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.nodes[:0]
	removed := 0
	for _, n := range m.nodes {
		if n.Marker == marker {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	m.nodes = kept
	return removed
}
