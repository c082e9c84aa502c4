package services

import (
	"context"
	"fmt"
	"math"
)

// Strategy selects how the 2-opt optimizer evaluates a candidate move.
type Strategy string

const (
	// Four-edge delta per candidate, O(1).
	StrategyIncremental Strategy = "incremental"
	// Whole-tour length per candidate, O(n). Kept for compatibility testing.
	StrategyFullRecompute Strategy = "full"
)

// DefaultEps is the minimum gain for a move to count as an improvement.
const DefaultEps = 1e-9

// Context is polled once per this many candidate evaluations.
const ctxCheckInterval = 2048

type TwoOptOptions struct {
	Strategy Strategy
	Eps      float64
}

// TwoOpt refines a closed tour in place with first-improvement 2-opt.
//
// Candidates are scanned in (i, j) order with 1 <= i < j <= n-1, where n is
// the number of cities; the start city stays fixed at both ends. The first
// candidate whose reversal shortens the tour by more than Eps (Eps times the
// tour length when recomputing whole tours) is applied and the scan restarts
// from the beginning. It returns the number of accepted moves once a full
// scan finds no improvement. The tour is never made longer.
func TwoOpt(ctx context.Context, tour []int, dist [][]float64, opts TwoOptOptions) (int, error) {
	if len(tour) < 2 || tour[0] != tour[len(tour)-1] {
		return 0, fmt.Errorf("two-opt: tour must be closed, got %d entries", len(tour))
	}

	eps := opts.Eps
	if eps < 0 {
		eps = 0
	}

	switch opts.Strategy {
	case "", StrategyIncremental:
		return twoOptIncremental(ctx, tour, dist, eps)
	case StrategyFullRecompute:
		return twoOptFullRecompute(ctx, tour, dist, eps)
	default:
		return 0, fmt.Errorf("two-opt: unknown strategy %q", opts.Strategy)
	}
}

func twoOptIncremental(ctx context.Context, tour []int, dist [][]float64, eps float64) (int, error) {
	n := len(tour) - 1
	accepted := 0
	step := 0

	for {
		improved := false

	scan:
		for i := 1; i <= n-2; i++ {
			for j := i + 1; j <= n-1; j++ {
				step++
				if step%ctxCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return accepted, err
					}
				}

				a, b := tour[i-1], tour[i]
				c, d := tour[j], tour[j+1]

				removed := dist[a][b] + dist[c][d]
				added := dist[a][c] + dist[b][d]
				if added < removed-eps {
					reverseSegment(tour, i, j)
					accepted++
					improved = true
					break scan
				}
			}
		}

		if !improved {
			return accepted, nil
		}
	}
}

func twoOptFullRecompute(ctx context.Context, tour []int, dist [][]float64, eps float64) (int, error) {
	n := len(tour) - 1
	accepted := 0
	step := 0
	best := TourLength(tour, dist)

	for {
		improved := false

	scan:
		for i := 1; i <= n-2; i++ {
			for j := i + 1; j <= n-1; j++ {
				step++
				if step%ctxCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return accepted, err
					}
				}

				reverseSegment(tour, i, j)
				candidate := TourLength(tour, dist)
				// Summing n edges in a new order drifts by a few ulps of
				// the total, so the threshold scales with the tour length.
				if best-candidate > eps*math.Max(1, best) {
					best = candidate
					accepted++
					improved = true
					break scan
				}
				// Not an improvement: undo.
				reverseSegment(tour, i, j)
			}
		}

		if !improved {
			return accepted, nil
		}
	}
}

func reverseSegment(tour []int, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}
