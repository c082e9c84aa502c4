package domain

// Represents the outcome of one solve.
// A SolveResult is produced once per unique workload and then shared by
// reference from the result cache; it must never be mutated after Solve
// returns.
type SolveResult struct {
	Initial            Tour
	InitialDistance    float64
	InitialTimeMs      float64
	Optimized          Tour
	OptimizedDistance  float64
	OptimizationTimeMs float64
	AcceptedMoves      int
}
