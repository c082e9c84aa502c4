package services

import (
	"errors"
	"fmt"
	"math"
)

// Build an initial closed tour using a greedy nearest-neighbor walk.
//
// The walk starts at index 0 and repeatedly moves to the closest unvisited
// city. Ties go to the lowest index, so callers control tie-breaking through
// the order of dist (Morton order in the solver). The result has n+1 entries
// and ends where it started.
func NearestNeighborTour(dist [][]float64) ([]int, error) {
	n := len(dist)
	if n == 0 {
		return nil, errors.New("construct tour: distance matrix must not be empty")
	}
	for i, row := range dist {
		if len(row) != n {
			return nil, fmt.Errorf("construct tour: row %d has %d entries, want %d", i, len(row), n)
		}
	}

	visited := make([]bool, n)
	tour := make([]int, 0, n+1)

	current := 0
	visited[current] = true
	tour = append(tour, current)

	for len(tour) < n {
		best := -1
		bestDist := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		// Strict comparison keeps the first city reaching the minimum.
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if best == -1 || dist[current][j] < bestDist {
				best = j
				bestDist = dist[current][j]
			}
		}

		if best == -1 {
			return nil, errors.New("construct tour: failed to select next city")
		}

		visited[best] = true
		tour = append(tour, best)
		current = best
	}

	// Close the cycle.
	tour = append(tour, tour[0])

	return tour, nil
}

// TourLength sums the edges of a closed tour.
func TourLength(tour []int, dist [][]float64) float64 {
	total := 0.0
	for k := 0; k+1 < len(tour); k++ {
		total += dist[tour[k]][tour[k+1]]
	}
	return total
}
