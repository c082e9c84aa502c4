package ports

import (
	"context"

	"tour-solver-service/internal/domain"
)

// Port: computes a closed tour over a set of cities.
type TourSolver interface {
	Solve(ctx context.Context, cities []domain.City) (*domain.SolveResult, error)
}
