package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-solver-service/internal/domain"
)

func result(d float64) *domain.SolveResult {
	return &domain.SolveResult{OptimizedDistance: d}
}

func TestResultCacheEvictsOldestInsertion(t *testing.T) {
	const capacity = 3
	c, err := NewResultCache(capacity)
	require.NoError(t, err)

	for i := 0; i <= capacity; i++ {
		c.Put(fmt.Sprintf("fp%d", i), result(float64(i)))
	}

	assert.False(t, c.Contains("fp0"), "first insertion must be evicted")
	for i := 1; i <= capacity; i++ {
		assert.Truef(t, c.Contains(fmt.Sprintf("fp%d", i)), "fp%d must remain", i)
	}
	assert.Equal(t, capacity, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestResultCacheReadsDoNotRefreshAge(t *testing.T) {
	c, err := NewResultCache(2)
	require.NoError(t, err)

	c.Put("a", result(1))
	c.Put("b", result(2))

	// An LRU would now keep "a"; insertion order evicts it anyway.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", result(3))

	_, ok = c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestResultCachePutKeepsExistingEntry(t *testing.T) {
	c, err := NewResultCache(2)
	require.NoError(t, err)

	first := result(1)
	c.Put("a", first)
	c.Put("a", result(99))
	c.Put("b", result(2))

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 2, c.Len())
}

func TestResultCacheStats(t *testing.T) {
	c, err := NewResultCache(4)
	require.NoError(t, err)

	c.Put("a", result(1))
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	c.Put("nil", nil)

	st := c.Stats()
	assert.Equal(t, CacheStats{Entries: 1, Capacity: 4, Hits: 2, Misses: 1}, st)
}

func TestResultCacheRejectsZeroCapacity(t *testing.T) {
	_, err := NewResultCache(0)
	require.Error(t, err)
}

func TestResultCacheConcurrentAccess(t *testing.T) {
	c, err := NewResultCache(50)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				fp := fmt.Sprintf("w%d-%d", w, i)
				c.Put(fp, result(float64(i)))
				c.Get(fp)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}
