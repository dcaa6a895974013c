package fragment

import "github.com/disketch/disketch/internal/sketch"

// Setting is a fragment's static configuration, resolved from the
// simulation config before the coordinator builds any fragments.
type Setting struct {
	Name            string
	Kind            sketch.Kind
	Depth           int
	RhoTarget       float64
	MemoryBytes     int
	MaxSubepoch     int
	InitialSubepoch int
	BoostSingleHop  bool
}

const minSubepoch = 1

func (s Setting) clampedInitialSubepoch() int {
	if s.InitialSubepoch < minSubepoch {
		return minSubepoch
	}
	return s.InitialSubepoch
}
