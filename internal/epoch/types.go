// Package epoch defines the shared records produced and consumed across
// an epoch boundary: a fragment's per-sub-epoch snapshots, its
// per-epoch report, and the coordinator's per-epoch summary.
package epoch

import (
	"github.com/disketch/disketch/internal/hashutil"
	"github.com/disketch/disketch/internal/sketch"
)

// SubepochRecord is an immutable snapshot of one sub-epoch's sketch
// together with the bookkeeping needed to reconstruct which flows were
// sampled into it.
type SubepochRecord[K hashutil.Keyer] struct {
	SubepochID     int
	TotalSubepochs int
	PacketCount    uint64
	Snapshot       sketch.Sketch[K]
}

// FragmentEpochReport is everything one fragment emits at the close of
// an epoch.
type FragmentEpochReport[K hashutil.Keyer] struct {
	FragmentIndex int
	EpochID       uint64
	HashSeed      uint64
	Records       []SubepochRecord[K]
	RhoAverage    float64
}

// FlowMetric compares one real-heavy flow's ideal count against the two
// estimators under evaluation.
type FlowMetric struct {
	Flow           string
	Ideal          uint64
	FullSketch     uint64
	DiSketch       uint64
}

// Summary is the coordinator's output for a single epoch.
type Summary struct {
	EpochID                uint64
	RhoAverage             float64
	TotalPackets           uint64
	TotalFlows             int
	FragmentSubepochCounts []int
	Threshold              float64
	FlowMetrics            []FlowMetric
}
