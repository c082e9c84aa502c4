package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tour-solver-service/internal/domain"
)

func TestMortonKeyMatchesReferenceValues(t *testing.T) {
	tests := []struct {
		x, y float64
		want uint64
	}{
		{0, 0, 0},
		{0, 10, 18759616},
		{10, 10, 27213792},
		{10, 0, 9379808},
		{1.5, 2.25, 12582904},
		{-3.7, 4.1, 2147483640},
		{0.00005, 0, 0},
	}

	for _, tc := range tests {
		got := MortonKey(domain.City{Name: "p", X: tc.x, Y: tc.y})
		assert.Equalf(t, tc.want, got, "MortonKey(%v, %v)", tc.x, tc.y)
	}
}

func TestSortByMortonIsStableAndCopies(t *testing.T) {
	in := []domain.City{
		{Name: "C", X: 10, Y: 10},
		{Name: "A", X: 0, Y: 0},
		{Name: "B", X: 0, Y: 10},
		{Name: "D", X: 10, Y: 0},
		{Name: "A2", X: 0, Y: 0},
	}

	out := SortByMorton(in)

	assert.Equal(t, []string{"A", "A2", "D", "B", "C"}, domain.Tour(out).Names())
	assert.Equal(t, "C", in[0].Name, "input must not be reordered")
}
