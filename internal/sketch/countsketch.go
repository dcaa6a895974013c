package sketch

import (
	"math"

	"github.com/disketch/disketch/internal/hashutil"
)

// countSketch uses depth independent (bucket, sign) hash pairs per row
// and estimates a flow's count as the median across rows. Counters are
// signed because the sign hash can subtract as well as add, so the
// incremental error contribution tracks rho-squared over row 0: each
// update shifts that row's counter from c_old to c_new, contributing
// (c_new^2-c_old^2)/width to the running sum, whose square root
// approximates the sketch's current relative error.
type countSketch[K hashutil.Keyer] struct {
	width    int
	depth    int
	seed     uint64
	rows     [][]int64
	rho2Sum  float64
	memBytes int
}

func newCountSketch[K hashutil.Keyer](memoryBytes, depth int, seed uint64) *countSketch[K] {
	width, d := Dimensions(memoryBytes, depth)
	rows := make([][]int64, d)
	for i := range rows {
		rows[i] = make([]int64, width)
	}
	return &countSketch[K]{width: width, depth: d, seed: seed, rows: rows, memBytes: memoryBytes}
}

func (s *countSketch[K]) bucketAndSign(key K, row int) (int, int64) {
	bucketSeed := hashutil.DeriveSeed(s.seed, row*2)
	signSeed := hashutil.DeriveSeed(s.seed, row*2+1)
	bucket := int(hashutil.Hash(key, bucketSeed, uint64(s.width)))
	if hashutil.Hash(key, signSeed, 2) == 0 {
		return bucket, 1
	}
	return bucket, -1
}

func (s *countSketch[K]) Update(key K) {
	for row := 0; row < s.depth; row++ {
		bucket, sign := s.bucketAndSign(key, row)
		cOld := s.rows[row][bucket]
		cNew := cOld + sign
		s.rows[row][bucket] = cNew
		if row == 0 {
			s.rho2Sum += float64(cNew*cNew-cOld*cOld) / float64(s.width)
		}
	}
}

func (s *countSketch[K]) Query(key K) uint64 {
	estimates := make([]int64, s.depth)
	for row := 0; row < s.depth; row++ {
		bucket, sign := s.bucketAndSign(key, row)
		estimates[row] = sign * s.rows[row][bucket]
	}
	median := medianInt64(estimates)
	if median < 0 {
		return 0
	}
	return uint64(median)
}

// medianInt64 follows the original tool's integer-division convention:
// for an even count the two middle values are summed and divided with
// truncation, not rounded.
func medianInt64(vals []int64) int64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	sorted := append([]int64(nil), vals...)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func (s *countSketch[K]) Clear() {
	for i := range s.rows {
		for j := range s.rows[i] {
			s.rows[i][j] = 0
		}
	}
	s.rho2Sum = 0
}

func (s *countSketch[K]) Clone() Sketch[K] {
	rows := make([][]int64, len(s.rows))
	for i, r := range s.rows {
		rows[i] = append([]int64(nil), r...)
	}
	return &countSketch[K]{width: s.width, depth: s.depth, seed: s.seed, rows: rows, rho2Sum: s.rho2Sum, memBytes: s.memBytes}
}

func (s *countSketch[K]) Rho() float64 {
	if s.rho2Sum <= 0 {
		return 0
	}
	return math.Sqrt(s.rho2Sum)
}

func (s *countSketch[K]) MemoryBytes() int { return s.memBytes }
