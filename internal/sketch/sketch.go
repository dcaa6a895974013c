// Package sketch implements the three approximate counting structures
// DiSketch can assign to a fragment: CountMin, CountSketch and UnivMon.
// Each tracks its own incremental rho (relative error) contribution as
// it is updated, so a fragment never needs to re-scan raw counters to
// estimate accuracy at epoch close.
package sketch

import (
	"fmt"

	"github.com/disketch/disketch/internal/hashutil"
)

// Kind names one of the three supported sketch families.
type Kind int

const (
	CountMin Kind = iota
	CountSketch
	UnivMon
)

func (k Kind) String() string {
	switch k {
	case CountMin:
		return "CountMin"
	case CountSketch:
		return "CountSketch"
	case UnivMon:
		return "UnivMon"
	default:
		return "unknown"
	}
}

// ParseKind parses a sketch kind name as used in config files.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "CountMin":
		return CountMin, true
	case "CountSketch":
		return CountSketch, true
	case "UnivMon":
		return UnivMon, true
	default:
		return 0, false
	}
}

// Sketch is the common interface across all three families. K is the
// flow key type; in this simulator that is always flowkey.IPv4Pair, but
// nothing below depends on that.
type Sketch[K hashutil.Keyer] interface {
	// Update applies a single observation of key, incrementing its
	// estimated count by one and folding the update into the running
	// incremental rho estimate.
	Update(key K)

	// Query returns the current estimated count for key.
	Query(key K) uint64

	// Clear resets all counters and the running rho estimate, keeping
	// the sketch's dimensions and seed.
	Clear()

	// Clone returns an independent copy of the sketch's current state,
	// used to snapshot a sub-epoch without disturbing the live sketch.
	Clone() Sketch[K]

	// Rho returns the incremental relative-error estimate accumulated
	// since the last Clear.
	Rho() float64

	// MemoryBytes reports the sketch's configured memory footprint.
	MemoryBytes() int
}

// Dimensions computes the column width for a sketch given a memory
// budget and row depth, following the original tool's sizing rule: each
// counter occupies 8 bytes, width floor-divided from the byte budget and
// floored at a minimum of 1 to keep a degenerate (too small) sketch from
// dividing by zero elsewhere. depth <= 0 is treated as 1.
func Dimensions(memoryBytes int, depth int) (width int, effectiveDepth int) {
	if depth <= 0 {
		depth = 1
	}
	if memoryBytes <= 0 {
		return 1, depth
	}
	const counterSize = 8
	w := memoryBytes / (depth * counterSize)
	if w < 1 {
		w = 1
	}
	return w, depth
}

// Validate reports whether a sketch built from memoryBytes and depth
// would have a usable (non-degenerate) width. Unlike Dimensions, which
// floors width at 1 so a live sketch never divides by zero, Validate
// performs the unfloored division so a memory budget too small to fit
// even one counter per row is rejected rather than silently rounded up.
func Validate(memoryBytes, depth int) error {
	if memoryBytes < 1 {
		return fmt.Errorf("sketch: memory_bytes must be >= 1, got %d", memoryBytes)
	}
	if depth <= 0 {
		depth = 1
	}
	const counterSize = 8
	if memoryBytes/(depth*counterSize) < 1 {
		return fmt.Errorf("sketch: memory budget %d too small for depth %d (width would be 0)", memoryBytes, depth)
	}
	return nil
}
