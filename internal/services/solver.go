package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"tour-solver-service/internal/domain"
	"tour-solver-service/internal/platform/obs"
	"tour-solver-service/internal/ports"
)

type SolverOptions struct {
	Strategy Strategy
	// Minimum 2-opt gain; DefaultEps when zero.
	Eps float64
	// Oracle shared across solves. When nil every solve gets its own
	// DistanceOracle, which keeps memory bounded by the request size.
	Oracle ports.DistanceOracle
}

// Solver computes approximately-shortest closed tours.
//
// Pipeline: Morton pre-sort, nearest-neighbor construction, 2-opt
// refinement. Output is deterministic for a given input.
type Solver struct {
	opts SolverOptions
}

func NewSolver(opts SolverOptions) (*Solver, error) {
	switch opts.Strategy {
	case "":
		opts.Strategy = StrategyIncremental
	case StrategyIncremental, StrategyFullRecompute:
	default:
		return nil, fmt.Errorf("new solver: unknown strategy %q", opts.Strategy)
	}
	if opts.Eps == 0 {
		opts.Eps = DefaultEps
	}
	if opts.Eps < 0 {
		return nil, fmt.Errorf("new solver: eps must not be negative, got %g", opts.Eps)
	}

	return &Solver{opts: opts}, nil
}

// Solve validates cities and returns the initial and optimized tours.
// It fails with domain.ErrInvalidInput on unusable input and with
// domain.ErrTimeout when ctx expires during optimization.
func (s *Solver) Solve(ctx context.Context, cities []domain.City) (_ *domain.SolveResult, err error) {
	defer obs.Time(ctx, "solver.Solve")(&err)

	if err := domain.ValidateCities(cities); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	oracle := s.opts.Oracle
	if oracle == nil {
		oracle = NewDistanceOracle()
	}

	start := time.Now()

	sorted := SortByMorton(cities)
	dist := distanceMatrix(sorted, oracle)

	constructStart := time.Now()
	initial, err := NearestNeighborTour(dist)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	initialDistance := TourLength(initial, dist)
	initialTime := time.Since(constructStart)

	optimized := make([]int, len(initial))
	copy(optimized, initial)

	moves, err := TwoOpt(ctx, optimized, dist, TwoOptOptions{Strategy: s.opts.Strategy, Eps: s.opts.Eps})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("solve: %w after %d moves: %v", domain.ErrTimeout, moves, err)
		}
		return nil, fmt.Errorf("solve: %w", err)
	}
	optimizedDistance := TourLength(optimized, dist)
	total := time.Since(start)

	return &domain.SolveResult{
		Initial:            toTour(initial, sorted),
		InitialDistance:    initialDistance,
		InitialTimeMs:      roundMillis(initialTime),
		Optimized:          toTour(optimized, sorted),
		OptimizedDistance:  optimizedDistance,
		OptimizationTimeMs: roundMillis(total),
		AcceptedMoves:      moves,
	}, nil
}

// distanceMatrix asks the oracle for every unordered pair once and mirrors
// the value, so dist[i][j] == dist[j][i] exactly.
func distanceMatrix(cities []domain.City, oracle ports.DistanceOracle) [][]float64 {
	n := len(cities)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := oracle.Distance(cities[i], cities[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	return dist
}

func toTour(idx []int, cities []domain.City) domain.Tour {
	out := make(domain.Tour, len(idx))
	for k, i := range idx {
		out[k] = cities[i]
	}
	return out
}

// Milliseconds rounded to two decimals.
func roundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
