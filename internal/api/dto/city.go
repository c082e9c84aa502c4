package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"tour-solver-service/internal/domain"
)

// Wire form of a city. Pointers distinguish missing keys from zero values.
type CityRequest struct {
	Name *string  `json:"name"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
}

// DecodeCities parses a JSON array of cities. Every element must carry
// name, x and y; failures wrap domain.ErrDecode.
func DecodeCities(raw json.RawMessage) ([]domain.City, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode cities: %w: missing data", domain.ErrDecode)
	}

	var in []CityRequest
	if err := json.Unmarshal(raw, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "city"
			}
			return nil, fmt.Errorf("decode cities: %w: %s must not be a JSON %s", domain.ErrDecode, field, typeErr.Value)
		}
		return nil, fmt.Errorf("decode cities: %w: %v", domain.ErrDecode, err)
	}
	if in == nil {
		return nil, fmt.Errorf("decode cities: %w: data must be an array", domain.ErrDecode)
	}

	out := make([]domain.City, len(in))
	for i, c := range in {
		switch {
		case c.Name == nil:
			return nil, fmt.Errorf("decode cities: %w: city %d: missing name", domain.ErrDecode, i)
		case c.X == nil:
			return nil, fmt.Errorf("decode cities: %w: city %d: missing x", domain.ErrDecode, i)
		case c.Y == nil:
			return nil, fmt.Errorf("decode cities: %w: city %d: missing y", domain.ErrDecode, i)
		}
		out[i] = domain.City{Name: *c.Name, X: *c.X, Y: *c.Y}
	}

	return out, nil
}
