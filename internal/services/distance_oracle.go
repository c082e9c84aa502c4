package services

import (
	"math"
	"sync"

	"tour-solver-service/internal/domain"
)

// Unordered pair of city names; the smaller name is always stored first.
type pairKey struct {
	a, b string
}

func newPairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// DistanceOracle memoizes Euclidean distances by unordered name pair.
// Entries are never evicted; scope an oracle to one solve unless city
// names are known to denote the same coordinates across requests.
//
// The oracle is safe for concurrent use.
type DistanceOracle struct {
	mu           sync.Mutex
	memo         map[pairKey]float64
	computations int
}

func NewDistanceOracle() *DistanceOracle {
	return &DistanceOracle{memo: make(map[pairKey]float64)}
}

// Distance returns the straight-line distance between a and b, computing it
// at most once per unordered pair of names.
func (o *DistanceOracle) Distance(a, b domain.City) float64 {
	key := newPairKey(a.Name, b.Name)

	o.mu.Lock()
	defer o.mu.Unlock()

	if d, ok := o.memo[key]; ok {
		return d
	}

	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	o.memo[key] = d
	o.computations++

	return d
}

// Computations reports how many distances were actually computed.
func (o *DistanceOracle) Computations() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.computations
}

func (o *DistanceOracle) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.memo)
}
