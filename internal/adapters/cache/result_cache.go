package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"tour-solver-service/internal/domain"
)

// ResultCache maps request fingerprints to solve results with a fixed
// capacity. Eviction is strictly by insertion age: lookups use Peek and
// inserts use ContainsOrAdd, so the underlying recency list is never
// reordered after an entry is added.
//
// ResultCache is safe for concurrent use.
type ResultCache struct {
	entries  *lru.Cache[string, *domain.SolveResult]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Point-in-time cache counters.
type CacheStats struct {
	Entries   int    `json:"entries"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

func NewResultCache(capacity int) (*ResultCache, error) {
	c := &ResultCache{capacity: capacity}

	entries, err := lru.NewWithEvict(capacity, func(string, *domain.SolveResult) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("new result cache: capacity %d: %w", capacity, err)
	}
	c.entries = entries

	return c, nil
}

// Get returns the result stored under fingerprint without affecting
// eviction order.
func (c *ResultCache) Get(fingerprint string) (*domain.SolveResult, bool) {
	r, ok := c.entries.Peek(fingerprint)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return r, ok
}

// Put stores result under fingerprint, evicting the oldest entry when the
// cache is full. An existing entry is kept as is.
func (c *ResultCache) Put(fingerprint string, result *domain.SolveResult) {
	if result == nil {
		return
	}
	c.entries.ContainsOrAdd(fingerprint, result)
}

// Contains reports presence without touching counters or order.
func (c *ResultCache) Contains(fingerprint string) bool {
	return c.entries.Contains(fingerprint)
}

func (c *ResultCache) Len() int {
	return c.entries.Len()
}

func (c *ResultCache) Stats() CacheStats {
	return CacheStats{
		Entries:   c.entries.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
