// Package identity keeps one in-memory instance per persisted primary key.
package identity

import (
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Map caches materialized entities by primary key.
//
// A zero size keeps every entry until it is deleted. A positive size bounds
// the map with least-recently-used eviction; an evicted entity is rebuilt
// from storage the next time it is read.
type Map[T any] struct {
	mu       sync.Mutex
	entries  map[int64]T
	bounded  *lru.Cache[int64, T]
	onLookup func(hit bool)
}

// Option customizes a Map.
type Option[T any] func(*Map[T])

// WithLookupHook registers a callback invoked on every Get.
func WithLookupHook[T any](hook func(hit bool)) Option[T] {
	return func(m *Map[T]) {
		m.onLookup = hook
	}
}

// New builds an identity map. size <= 0 means unbounded.
func New[T any](size int, opts ...Option[T]) *Map[T] {
	m := &Map[T]{}
	if size > 0 {
		// lru.New only fails for non-positive sizes.
		cache, _ := lru.New[int64, T](size)
		m.bounded = cache
	} else {
		m.entries = make(map[int64]T)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the instance registered for id.
func (m *Map[T]) Get(id int64) (T, bool) {
	m.mu.Lock()
	var (
		value T
		ok    bool
	)
	if m.bounded != nil {
		value, ok = m.bounded.Get(id)
	} else {
		value, ok = m.entries[id]
	}
	m.mu.Unlock()

	if m.onLookup != nil {
		m.onLookup(ok)
	}
	return value, ok
}

// Put registers value under id, replacing any previous entry.
func (m *Map[T]) Put(id int64, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bounded != nil {
		m.bounded.Add(id, value)
		return
	}
	m.entries[id] = value
}

// Delete drops the entry for id if present.
func (m *Map[T]) Delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bounded != nil {
		m.bounded.Remove(id)
		return
	}
	delete(m.entries, id)
}

// Contains reports whether id is registered without counting as a lookup.
func (m *Map[T]) Contains(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bounded != nil {
		return m.bounded.Contains(id)
	}
	_, ok := m.entries[id]
	return ok
}

// Len returns the number of registered entries.
func (m *Map[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bounded != nil {
		return m.bounded.Len()
	}
	return len(m.entries)
}

// Keys returns the registered ids in ascending order.
func (m *Map[T]) Keys() []int64 {
	m.mu.Lock()
	var keys []int64
	if m.bounded != nil {
		keys = m.bounded.Keys()
	} else {
		keys = make([]int64, 0, len(m.entries))
		for id := range m.entries {
			keys = append(keys, id)
		}
	}
	m.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clear drops every entry.
func (m *Map[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bounded != nil {
		m.bounded.Purge()
		return
	}
	m.entries = make(map[int64]T)
}
