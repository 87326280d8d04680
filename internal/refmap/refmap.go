// Package refmap implements the reference-counted, path-keyed entry store
// shared by the token cache and the style cache. Entries are created lazily
// on first acquire, revived from refcount zero by a later acquire, and only
// ever removed through Evict - eviction policy (immediate, lazy, deferred)
// belongs to the caller.
package refmap

import (
	"strings"
	"sync"
)

// sep joins path segments into the flat map key. Segments produced by the
// engine are short base-36 hashes; user-supplied segments may contain
// anything printable, so a control byte keeps the join unambiguous.
const sep = "\x00"

// Join flattens a key path into the internal map key.
func Join(path []string) string { return strings.Join(path, sep) }

type entry[V any] struct {
	value V
	refs  int
}

// Map is a refcounted store of V keyed by string paths.
// The zero Map is not ready; use New.
type Map[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
}

func New[V any]() *Map[V] {
	return &Map[V]{entries: make(map[string]*entry[V])}
}

// Acquire returns the entry at path, creating it via create on first use.
// The refcount is incremented on every call, including revival of an entry
// parked at zero. created reports whether create ran. A create error leaves
// the map untouched.
func (m *Map[V]) Acquire(path []string, create func() (V, error)) (v V, created bool, err error) {
	k := Join(path)

	m.mu.Lock()
	if e, ok := m.entries[k]; ok {
		e.refs++
		m.mu.Unlock()
		return e.value, false, nil
	}
	m.mu.Unlock()

	// create outside the lock: producers may re-enter the engine
	v, err = create()
	if err != nil {
		var zero V
		return zero, false, err
	}

	m.mu.Lock()
	if e, ok := m.entries[k]; ok {
		// re-entrant create raced us in; keep the first entry
		e.refs++
		v = e.value
		m.mu.Unlock()
		return v, false, nil
	}
	m.entries[k] = &entry[V]{value: v, refs: 1}
	m.mu.Unlock()
	return v, true, nil
}

// Peek returns the value at path without touching the refcount.
func (m *Map[V]) Peek(path []string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[Join(path)]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Release decrements the refcount and reports the remaining count.
// The entry stays in the map even at zero; callers decide whether to Evict.
func (m *Map[V]) Release(path []string) (refs int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[Join(path)]
	if !ok {
		return 0, false
	}
	if e.refs > 0 {
		e.refs--
	}
	return e.refs, true
}

// Refs reports the current refcount at path.
func (m *Map[V]) Refs(path []string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[Join(path)]; ok {
		return e.refs, true
	}
	return 0, false
}

// Evict removes the entry and returns its value so the caller can run
// teardown side effects synchronously.
func (m *Map[V]) Evict(path []string) (V, bool) {
	k := Join(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[k]; ok {
		delete(m.entries, k)
		return e.value, true
	}
	var zero V
	return zero, false
}

// Len returns the number of live entries (including entries parked at
// refcount zero).
func (m *Map[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Walk visits every entry in unspecified order.
func (m *Map[V]) Walk(fn func(key string, v V, refs int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		fn(k, e.value, e.refs)
	}
}
