package sketch

import "github.com/disketch/disketch/internal/hashutil"

// countMin is a standard count-min sketch: depth independent rows of
// width counters, each row hashed with its own seed derived from the
// sketch's master seed. Every counter only ever increases, so the
// per-update relative-error contribution is simply delta/width summed
// across the rows touched, averaged over rows.
type countMin[K hashutil.Keyer] struct {
	width     int
	depth     int
	seed      uint64
	rows      [][]uint64
	rho       float64
	updates   int
	memBytes  int
}

func newCountMin[K hashutil.Keyer](memoryBytes, depth int, seed uint64) *countMin[K] {
	width, d := Dimensions(memoryBytes, depth)
	rows := make([][]uint64, d)
	for i := range rows {
		rows[i] = make([]uint64, width)
	}
	return &countMin[K]{width: width, depth: d, seed: seed, rows: rows, memBytes: memoryBytes}
}

func (s *countMin[K]) Update(key K) {
	for row := 0; row < s.depth; row++ {
		rowSeed := hashutil.DeriveSeed(s.seed, row)
		col := hashutil.Hash(key, rowSeed, uint64(s.width))
		s.rows[row][col]++
	}
	// Every row collides uniformly at random with 1/width probability
	// per other flow sharing that bucket: the expected over-count this
	// update contributes to the minimum estimate is bounded by 1/width.
	s.rho += 1.0 / float64(s.width)
	s.updates++
}

func (s *countMin[K]) Query(key K) uint64 {
	var min uint64
	for row := 0; row < s.depth; row++ {
		rowSeed := hashutil.DeriveSeed(s.seed, row)
		col := hashutil.Hash(key, rowSeed, uint64(s.width))
		v := s.rows[row][col]
		if row == 0 || v < min {
			min = v
		}
	}
	return min
}

func (s *countMin[K]) Clear() {
	for i := range s.rows {
		for j := range s.rows[i] {
			s.rows[i][j] = 0
		}
	}
	s.rho = 0
	s.updates = 0
}

func (s *countMin[K]) Clone() Sketch[K] {
	rows := make([][]uint64, len(s.rows))
	for i, r := range s.rows {
		rows[i] = append([]uint64(nil), r...)
	}
	return &countMin[K]{width: s.width, depth: s.depth, seed: s.seed, rows: rows, rho: s.rho, updates: s.updates, memBytes: s.memBytes}
}

func (s *countMin[K]) Rho() float64      { return s.rho }
func (s *countMin[K]) MemoryBytes() int  { return s.memBytes }
