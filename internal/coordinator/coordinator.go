// Package coordinator runs the full DiSketch simulation: it drives
// every fragment's epoch lifecycle, maintains the ground-truth and
// full-sketch baselines, and reconstructs per-epoch heavy-hitter
// metrics by combining fragment reports along each flow's path.
package coordinator

import (
	"context"
	"fmt"
	"sort"

	"github.com/disketch/disketch/internal/epoch"
	"github.com/disketch/disketch/internal/flowkey"
	"github.com/disketch/disketch/internal/fragment"
	"github.com/disketch/disketch/internal/hhdetector"
	"github.com/disketch/disketch/internal/ideal"
	"github.com/disketch/disketch/internal/packet"
	"github.com/disketch/disketch/internal/sketch"
	"github.com/disketch/disketch/internal/topology"
)

// Config configures one coordinator run. It mirrors the simulation
// section of the config file, resolved into concrete values.
type Config struct {
	MaxEpochs         uint64
	FullSketchDepth   int
	FullSketchMemory  int
	HeavyHitterRatio  float64
	EpochDurationNs   uint64
	SketchKind        sketch.Kind
}

// Report is the complete output of a run: one summary per epoch plus
// the cumulative confusion matrices for both estimators.
type Report struct {
	Epochs          []epoch.Summary
	FullSketchStats hhdetector.Detector
	DiSketchStats   hhdetector.Detector
}

// Run executes the full simulation over packets, a chronologically
// sorted slice of observations, against topo. It checks ctx between
// epochs only: the per-epoch work itself is not preemptible, matching
// the simulator's single-threaded, deterministic execution model.
func Run(ctx context.Context, cfg Config, topo *topology.Topology[flowkey.IPv4Pair], packets []packet.Record) (*Report, error) {
	if len(packets) == 0 {
		return &Report{}, nil
	}

	epochDuration := cfg.EpochDurationNs
	if epochDuration == 0 {
		epochDuration = 1
	}

	firstTS := packets[0].TimestampNs
	lastTS := packets[len(packets)-1].TimestampNs
	totalEpochs := (lastTS-firstTS)/epochDuration + 1
	if cfg.MaxEpochs > 0 && totalEpochs > cfg.MaxEpochs {
		totalEpochs = cfg.MaxEpochs
	}

	var fullSketch sketch.Sketch[flowkey.IPv4Pair]
	if cfg.FullSketchMemory > 0 {
		fs, err := sketch.New[flowkey.IPv4Pair](cfg.SketchKind, cfg.FullSketchMemory, cfg.FullSketchDepth, fullSketchSeed)
		if err != nil {
			return nil, fmt.Errorf("coordinator: building full sketch: %w", err)
		}
		fullSketch = fs
	}

	groundTruth := ideal.New[flowkey.IPv4Pair]()

	report := &Report{}
	cursor := 0

	for epochID := uint64(0); epochID < totalEpochs; epochID++ {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("coordinator: cancelled before epoch %d: %w", epochID, ctx.Err())
		default:
		}

		epochStart := firstTS + epochID*epochDuration
		epochEnd := epochStart + epochDuration

		for _, f := range topo.Fragments() {
			if err := f.BeginEpoch(epochID, epochStart, epochDuration); err != nil {
				return nil, fmt.Errorf("coordinator: begin_epoch fragment %d: %w", f.Index(), err)
			}
		}
		if fullSketch != nil {
			fullSketch.Clear()
		}
		groundTruth.Clear()

		var epochPackets uint64
		for cursor < len(packets) {
			p := packets[cursor]
			if p.TimestampNs < epochStart {
				cursor++
				continue
			}
			if p.TimestampNs >= epochEnd {
				break
			}

			groundTruth.Update(p.Flow)
			if fullSketch != nil {
				fullSketch.Update(p.Flow)
			}

			path := topo.PickPath(p.Flow)
			singleHop := path.SingleHop()
			for _, nodeIdx := range path.NodeIndices {
				topo.Fragment(nodeIdx).ProcessPacket(p.Flow, p.TimestampNs, singleHop)
			}

			epochPackets++
			cursor++
		}

		fragmentReports := make([]epoch.FragmentEpochReport[flowkey.IPv4Pair], len(topo.Fragments()))
		subepochCounts := make([]int, len(topo.Fragments()))
		for i, f := range topo.Fragments() {
			// SubepochCount must be read before CloseEpoch: CloseEpoch's
			// adjustSubepoch mutates it in place for the next epoch, so
			// reading it after would report next epoch's count instead of
			// the one just closed.
			subepochCounts[i] = f.SubepochCount()
			fragmentReports[i] = f.CloseEpoch()
		}

		summary := buildSummary(epochID, epochPackets, topo, fragmentReports, subepochCounts, groundTruth, fullSketch, cfg.HeavyHitterRatio, &report.FullSketchStats, &report.DiSketchStats)
		report.Epochs = append(report.Epochs, summary)
	}

	return report, nil
}

// fullSketchSeed is fixed because the full sketch has no fragment index
// or per-epoch identity of its own: it is one monolithic structure that
// simply resets every epoch.
const fullSketchSeed uint64 = 0x4655_4c4c_5341_4d50

func buildSummary(
	epochID uint64,
	epochPackets uint64,
	topo *topology.Topology[flowkey.IPv4Pair],
	fragmentReports []epoch.FragmentEpochReport[flowkey.IPv4Pair],
	subepochCounts []int,
	groundTruth *ideal.Counter[flowkey.IPv4Pair],
	fullSketch sketch.Sketch[flowkey.IPv4Pair],
	heavyHitterRatio float64,
	fullStats, diStats *hhdetector.Detector,
) epoch.Summary {
	var rhoSum float64
	var rhoCount int
	for _, r := range fragmentReports {
		if len(r.Records) > 0 {
			rhoSum += r.RhoAverage
			rhoCount++
		}
	}
	var rhoAverage float64
	if rhoCount > 0 {
		rhoAverage = rhoSum / float64(rhoCount)
	}

	threshold := float64(epochPackets) * heavyHitterRatio

	idealData := groundTruth.RawData()

	fullEstimate := func(flow flowkey.IPv4Pair) uint64 {
		if fullSketch == nil {
			return 0
		}
		return fullSketch.Query(flow)
	}
	diEstimate := func(flow flowkey.IPv4Pair) uint64 {
		path := topo.PickPath(flow)
		return spatialAggregation(flow, path, fragmentReports, topo)
	}

	hhdetector.Detect(fullStats, idealData, fullEstimate, threshold)
	hhdetector.Detect(diStats, idealData, diEstimate, threshold)

	flows := make([]flowkey.IPv4Pair, 0, len(idealData))
	for flow := range idealData {
		flows = append(flows, flow)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].String() < flows[j].String() })

	var metrics []epoch.FlowMetric
	for _, flow := range flows {
		idealCount := idealData[flow]
		if threshold > 0 && float64(idealCount) < threshold {
			continue
		}
		metrics = append(metrics, epoch.FlowMetric{
			Flow:       flow.String(),
			Ideal:      idealCount,
			FullSketch: fullEstimate(flow),
			DiSketch:   diEstimate(flow),
		})
	}

	return epoch.Summary{
		EpochID:                epochID,
		RhoAverage:             rhoAverage,
		TotalPackets:           epochPackets,
		TotalFlows:             groundTruth.FlowCount(),
		FragmentSubepochCounts: subepochCounts,
		Threshold:              threshold,
		FlowMetrics:            metrics,
	}
}

// spatialAggregation reconstructs a flow's DiSketch-wide estimate by
// temporally aggregating it out of each fragment on its path and
// combining the results the way the flow's sketch kind naturally
// combines independent estimates of the same quantity: the minimum for
// CountMin (every row only over-counts), the median for CountSketch
// (whose errors can go either way), and the mean for UnivMon.
func spatialAggregation(
	flow flowkey.IPv4Pair,
	path topology.Path,
	fragmentReports []epoch.FragmentEpochReport[flowkey.IPv4Pair],
	topo *topology.Topology[flowkey.IPv4Pair],
) uint64 {
	singleHop := path.SingleHop()
	var estimates []uint64
	for _, nodeIdx := range path.NodeIndices {
		if nodeIdx < 0 || nodeIdx >= len(fragmentReports) {
			continue
		}
		report := fragmentReports[nodeIdx]
		if report.FragmentIndex != nodeIdx {
			// Defensive: fragmentReports is built in topology index
			// order, so this should never trigger; it guards against a
			// future refactor reordering that slice silently.
			continue
		}
		est := fragment.TemporalAggregation(flow, report, singleHop, boostSingleHopOf(topo, nodeIdx))
		if est > 0 {
			estimates = append(estimates, est)
		}
	}
	if len(estimates) == 0 {
		return 0
	}
	kind := sketchKindOf(topo, path)
	return combine(kind, estimates)
}

func boostSingleHopOf(topo *topology.Topology[flowkey.IPv4Pair], nodeIdx int) bool {
	// BoostSingleHop is a per-fragment setting baked into the hashing
	// contract at BeginEpoch time; ShouldTrack/TemporalAggregation both
	// need it to reproduce the exact sampling decision made while the
	// fragment was live, so it is read from the fragment's own setting.
	return topo.Fragment(nodeIdx).BoostSingleHop()
}

// sketchKindOf derives the combiner kind from the fragments actually on
// path, not an arbitrary global fragment: fragments may override kind
// per [fragment:*] section of the simulation config (see diconfig), and
// the combiner must match the kind the
// path's own fragments are using.
func sketchKindOf(topo *topology.Topology[flowkey.IPv4Pair], path topology.Path) sketch.Kind {
	if len(path.NodeIndices) == 0 {
		return sketch.CountMin
	}
	return topo.Fragment(path.NodeIndices[0]).Kind()
}

func combine(kind sketch.Kind, estimates []uint64) uint64 {
	switch kind {
	case sketch.CountMin:
		min := estimates[0]
		for _, e := range estimates[1:] {
			if e < min {
				min = e
			}
		}
		return min
	case sketch.CountSketch:
		sorted := append([]uint64(nil), estimates...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		n := len(sorted)
		if n%2 == 1 {
			return sorted[n/2]
		}
		return (sorted[n/2-1] + sorted[n/2]) / 2
	default: // UnivMon
		var sum uint64
		for _, e := range estimates {
			sum += e
		}
		return sum / uint64(len(estimates))
	}
}
