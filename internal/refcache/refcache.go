// Package refcache provides a sharded, reference-counted cache.
//
// Unlike an LRU cache, entries are never evicted for capacity. An entry lives
// exactly as long as it has references: Acquire creates it (or adds a
// reference to an existing one), Retain adds a reference, and Release drops
// one. When the count reaches zero the entry is removed and handed to the
// cache's release function.
//
//	docs := refcache.New[string, Handle](refcache.StringHasher, func(path string, h Handle) {
//	    engine.ReleaseDocument(h)
//	})
//	h, err := docs.Acquire(path, load)
//	...
//	docs.Release(path)
//
// Cache is safe for concurrent use and must not be copied after creation.
package refcache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// ShardCount is the number of shards. Must be a power of 2.
	ShardCount = 16

	shardMask = ShardCount - 1
)

// Hasher computes a hash used for shard selection.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// UintHasher returns an unsigned key as its own hash.
func UintHasher[T ~uint | ~uint32 | ~uint64 | ~uintptr](v T) uint64 {
	return uint64(v)
}

// ReleaseFunc is called once for every entry whose count reaches zero.
// It runs without any shard lock held.
type ReleaseFunc[K comparable, V any] func(key K, value V)

// Stats reports cache activity.
type Stats struct {
	// Entries is the number of live entries.
	Entries int
	// Hits counts Acquire calls served by an existing entry.
	Hits uint64
	// Misses counts Acquire calls that had to load.
	Misses uint64
	// Evictions counts entries removed because their count reached zero.
	Evictions uint64
}

// Cache maps keys to reference-counted values.
type Cache[K comparable, V any] struct {
	shards  [ShardCount]*shard[K, V]
	hasher  Hasher[K]
	release ReleaseFunc[K, V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[V]
}

type entry[V any] struct {
	value V
	refs  int
}

// New creates a cache. release may be nil.
func New[K comparable, V any](hasher Hasher[K], release ReleaseFunc[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		hasher:  hasher,
		release: release,
	}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{entries: make(map[K]*entry[V])}
	}
	return c
}

func (c *Cache[K, V]) shard(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Acquire returns the value for key and adds a reference to it.
//
// If key is absent, load is called with the shard locked, so concurrent
// Acquire calls for the same key share a single load. A load error leaves
// the cache unchanged and is returned as is.
func (c *Cache[K, V]) Acquire(key K, load func() (V, error)) (V, error) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.refs++
		c.hits.Add(1)
		return e.value, nil
	}

	c.misses.Add(1)
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	s.entries[key] = &entry[V]{value: v, refs: 1}
	return v, nil
}

// Retain adds a reference to an existing entry.
// It reports false if key is not cached.
func (c *Cache[K, V]) Retain(key K) bool {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	e.refs++
	return true
}

// Release drops a reference to key. When the last reference goes, the entry
// is removed and passed to the release function. Release reports whether the
// entry was evicted. Releasing an absent key is a no-op.
func (c *Cache[K, V]) Release(key K) bool {
	s := c.shard(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	e.refs--
	if e.refs > 0 {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, key)
	s.mu.Unlock()

	c.evictions.Add(1)
	if c.release != nil {
		c.release(key, e.value)
	}
	return true
}

// Peek returns the value for key without adding a reference.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Refs returns the reference count of key, 0 if absent.
func (c *Cache[K, V]) Refs(key K) int {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Entries:   c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
