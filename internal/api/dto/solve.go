package dto

import (
	"encoding/json"

	"tour-solver-service/internal/domain"
)

// Verifying request variant. Clients may also send a bare city array.
type SolveRequest struct {
	Data json.RawMessage `json:"data"`
	Hash *string         `json:"hash"`
}

type CityResponse struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SolveResponse is the reply to a successful solve. The initial_* fields
// are only set for the verbose schema.
type SolveResponse struct {
	OptimizedPath     []string       `json:"optimized_path"`
	OptimizedDistance float64        `json:"optimized_distance"`
	OptimizationTime  float64        `json:"optimization_time"`
	OptimizedArray    []CityResponse `json:"optimized_array"`
	InitialPath       []string       `json:"initial_path,omitempty"`
	InitialDistance   *float64       `json:"initial_distance,omitempty"`
	InitialTime       *float64       `json:"initial_time,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewSolveResponse(res *domain.SolveResult, verbose bool) SolveResponse {
	arr := make([]CityResponse, len(res.Optimized))
	for i, c := range res.Optimized {
		arr[i] = CityResponse{Name: c.Name, X: c.X, Y: c.Y}
	}

	out := SolveResponse{
		OptimizedPath:     res.Optimized.Names(),
		OptimizedDistance: res.OptimizedDistance,
		OptimizationTime:  res.OptimizationTimeMs,
		OptimizedArray:    arr,
	}
	if verbose {
		initialDistance := res.InitialDistance
		initialTime := res.InitialTimeMs
		out.InitialPath = res.Initial.Names()
		out.InitialDistance = &initialDistance
		out.InitialTime = &initialTime
	}

	return out
}
