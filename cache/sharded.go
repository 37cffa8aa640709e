// Package cache provides a concurrent LRU cache bounded by the summed cost
// of its entries. The exporters use it to keep encoded textures across
// frames.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// Default configuration constants.
const (
	// ShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	ShardCount = 16

	// DefaultBudget is the default total cost across all shards.
	DefaultBudget = 64 << 20

	shardMask = ShardCount - 1
)

// Hasher is a function that computes a hash for a key.
// Used by Cache for shard selection.
type Hasher[K any] func(K) uint64

// StringHasher computes FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Uint64Hasher returns the key itself as the hash (identity hash).
// Keys should already be well mixed, such as content fingerprints.
func Uint64Hasher(u uint64) uint64 {
	return u
}

// CostFunc reports what an entry is charged against the budget, typically
// its size in bytes. Costs below 1 are charged as 1.
type CostFunc[V any] func(V) int

// Cache is a thread-safe, sharded LRU cache.
//
// Each shard holds up to budget/ShardCount of cost. Inserting beyond that
// evicts least recently used entries of the same shard. An entry costing
// more than a whole shard is not stored.
type Cache[K comparable, V any] struct {
	shards      [ShardCount]*shard[K, V]
	hasher      Hasher[K]
	cost        CostFunc[V]
	shardBudget int

	// Statistics (atomic for lock-free reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	lru     lruList[K]
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache with the given total budget.
// If budget <= 0, DefaultBudget is used. A nil cost charges 1 per entry,
// making the budget an entry count.
func New[K comparable, V any](budget int, hasher Hasher[K], cost CostFunc[V]) *Cache[K, V] {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if cost == nil {
		cost = func(V) int { return 1 }
	}

	c := &Cache[K, V]{
		hasher:      hasher,
		cost:        cost,
		shardBudget: max(budget/ShardCount, 1),
	}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{entries: make(map[K]*entry[K, V])}
	}
	return c
}

func (c *Cache[K, V]) shardFor(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Get retrieves a cached value by key.
// On a hit, the entry becomes the most recently used of its shard.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	value := e.value
	s.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// Set stores a value in the cache, replacing any previous value for key.
// It reports whether the value was stored.
func (c *Cache[K, V]) Set(key K, value V) bool {
	s := c.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	return c.insert(s, key, value)
}

// GetOrCreate returns a cached value or creates it using the provided
// function. Errors from create are returned as is and nothing is cached.
//
// create runs without the shard lock held, so concurrent misses for the
// same key may each call it; the last one to finish wins.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := create()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// insert must be called with s.mu held.
func (c *Cache[K, V]) insert(s *shard[K, V], key K, value V) bool {
	cost := max(c.cost(value), 1)

	if old, ok := s.entries[key]; ok {
		s.lru.Remove(old.node)
		delete(s.entries, key)
	}
	if cost > c.shardBudget {
		return false
	}

	for s.lru.Cost()+cost > c.shardBudget {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}

	s.entries[key] = &entry[K, V]{value: value, node: s.lru.PushFront(key, cost)}
	return true
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	s := c.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[K]*entry[K, V])
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (c *Cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.lru.Len()
		s.mu.Unlock()
	}
	return total
}

// Cost returns the summed cost of all entries.
func (c *Cache[K, V]) Cost() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.lru.Cost()
		s.mu.Unlock()
	}
	return total
}

// Budget returns the total budget across all shards.
func (c *Cache[K, V]) Budget() int {
	return c.shardBudget * ShardCount
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Cost is the summed cost of all entries.
	Cost int
	// Budget is the total cost budget.
	Budget int
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of evicted entries.
	Evictions uint64
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Cost:      c.Cost(),
		Budget:    c.Budget(),
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *Cache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
