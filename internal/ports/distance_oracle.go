package ports

import "tour-solver-service/internal/domain"

// Contract for retrieving the travel distance between two cities.
type DistanceOracle interface {
	// Return the distance between a and b. Implementations must be symmetric.
	Distance(a, b domain.City) float64
}
