package domain

import (
	"errors"
	"math"
	"testing"
)

func TestValidateCities(t *testing.T) {
	tests := []struct {
		name    string
		cities  []City
		wantErr bool
	}{
		{name: "empty", cities: nil, wantErr: true},
		{name: "single", cities: []City{{Name: "A"}}},
		{name: "duplicate names", cities: []City{{Name: "A"}, {Name: "B", X: 1}, {Name: "A", Y: 2}}, wantErr: true},
		{name: "blank name", cities: []City{{Name: "A"}, {Name: "  "}}, wantErr: true},
		{name: "nan coordinate", cities: []City{{Name: "A", X: math.NaN()}}, wantErr: true},
		{name: "inf coordinate", cities: []City{{Name: "A", Y: math.Inf(-1)}}, wantErr: true},
		{name: "too large", cities: []City{{Name: "A", X: 2e14}}, wantErr: true},
		{name: "negative ok", cities: []City{{Name: "A", X: -5.5, Y: -1e6}, {Name: "B"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCities(tc.cities)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTourNamesAndClosure(t *testing.T) {
	tour := Tour{{Name: "A"}, {Name: "B", X: 1}, {Name: "A"}}

	names := tour.Names()
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "A" {
		t.Fatalf("names = %v", names)
	}
	if !tour.IsClosed() {
		t.Fatalf("expected closed tour")
	}
	if (Tour{{Name: "A"}}).IsClosed() {
		t.Fatalf("single element tour reported closed")
	}
}
