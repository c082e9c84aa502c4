package domain

import (
	"fmt"
	"math"
	"strings"
)

// Largest absolute coordinate accepted. Coordinates are scaled by 10000
// for Morton ordering and must still fit in an int64.
const MaxAbsCoordinate = 1e14

// Immutable 2-D point submitted by a client.
// Names identify a city within one request and must be unique there.
type City struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ValidateCities checks the preconditions every solver phase relies on:
// a non-empty set, non-empty unique names and finite, in-range coordinates.
func ValidateCities(cities []City) error {
	if len(cities) == 0 {
		return fmt.Errorf("%w: city list must not be empty", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(cities))
	for i, c := range cities {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: city at index %d has an empty name", ErrInvalidInput, i)
		}

		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("%w: duplicate city name %q", ErrInvalidInput, c.Name)
		}
		seen[c.Name] = struct{}{}

		if !finiteInRange(c.X) || !finiteInRange(c.Y) {
			return fmt.Errorf("%w: city %q has coordinates out of range", ErrInvalidInput, c.Name)
		}
	}

	return nil
}

func finiteInRange(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= MaxAbsCoordinate
}
