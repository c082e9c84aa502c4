package services

import (
	"slices"

	"tour-solver-service/internal/domain"
)

// Coordinates are scaled before bit interleaving so that fractional parts
// contribute to the key.
const mortonScale = 10000

// spreadBits is the bit-spreading step of the Z-order key. The formula must
// stay bit-exact with the clients' implementation: it decides which city
// seeds nearest-neighbor construction and therefore the whole tour.
func spreadBits(v int64) int64 {
	return (v|v<<8)&0x00FF00FF |
		(v|v<<4)&0x0F0F0F0F |
		(v|v<<2)&0x33333333 |
		(v|v<<1)&0x55555555
}

// MortonKey returns the Z-order key of c: x bits on even positions, y bits on
// odd positions.
func MortonKey(c domain.City) uint64 {
	x := int64(c.X * mortonScale)
	y := int64(c.Y * mortonScale)
	return uint64(spreadBits(x) | spreadBits(y)<<1)
}

// SortByMorton returns a copy of cities in ascending Morton order.
// The sort is stable, so cities with equal keys keep their input order.
func SortByMorton(cities []domain.City) []domain.City {
	type keyed struct {
		key  uint64
		city domain.City
	}

	ks := make([]keyed, len(cities))
	for i, c := range cities {
		ks[i] = keyed{key: MortonKey(c), city: c}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	out := make([]domain.City, len(ks))
	for i, k := range ks {
		out[i] = k.city
	}
	return out
}
