package sketch

import (
	"fmt"

	"github.com/disketch/disketch/internal/hashutil"
)

// New builds a sketch of the given kind sized to memoryBytes with the
// given row depth, seeded for reproducible hashing. It returns an error
// rather than panicking when the requested memory budget cannot fit a
// single counter per row, since that is a reachable, user-triggerable
// configuration mistake, not a programming error.
func New[K hashutil.Keyer](kind Kind, memoryBytes, depth int, seed uint64) (Sketch[K], error) {
	if err := Validate(memoryBytes, depth); err != nil {
		return nil, err
	}
	if depth <= 0 {
		depth = 1
	}
	switch kind {
	case CountMin:
		return newCountMin[K](memoryBytes, depth, seed), nil
	case CountSketch:
		return newCountSketch[K](memoryBytes, depth, seed), nil
	case UnivMon:
		return newUnivMon[K](memoryBytes, depth, seed), nil
	default:
		return nil, fmt.Errorf("sketch: unknown kind %v", kind)
	}
}
