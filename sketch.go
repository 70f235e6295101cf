package sift

import (
	"math"
	"math/rand/v2"
)

// Count-min bounds: for additive error tolerance eps at confidence 1-delta,
// width = ceil(e/eps) and depth = ceil(ln(1/delta)).
const (
	sketchEpsilon = 0.1
	sketchDelta   = 0.05
)

// countMinSketch keeps approximate per-key counts. Each row indexes the
// hashed key through its own seeded mix. Cells never go negative: aging
// only subtracts amounts bounded by the row minimum.
type countMinSketch struct {
	rows  [][]int64
	seeds []uint64
	width uint64
}

func newCountMinSketch() *countMinSketch {
	width := uint64(math.Ceil(math.E / sketchEpsilon))
	depth := int(math.Ceil(math.Log(1 / sketchDelta)))
	s := &countMinSketch{
		rows:  make([][]int64, depth),
		seeds: make([]uint64, depth),
		width: width,
	}
	for i := range s.rows {
		s.rows[i] = make([]int64, width)
		s.seeds[i] = rand.Uint64()
	}
	return s
}

// count returns the minimum cell value for key across all rows.
func (s *countMinSketch) count(key uint64) int64 {
	min := int64(math.MaxInt64)
	for i, row := range s.rows {
		if c := row[s.cell(i, key)]; c < min {
			min = c
		}
	}
	return min
}

// add applies delta to key's cell in every row.
func (s *countMinSketch) add(key uint64, delta int64) {
	for i, row := range s.rows {
		row[s.cell(i, key)] += delta
	}
}

func (s *countMinSketch) clear() {
	for _, row := range s.rows {
		for i := range row {
			row[i] = 0
		}
	}
}

func (s *countMinSketch) cell(row int, key uint64) uint64 {
	return mix64(s.seeds[row]^key) % s.width
}

// mix64 is the 64-bit finalizer from MurmurHash3.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
