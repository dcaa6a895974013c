// Package fragment implements a single measurement fragment: the
// sub-epoch sampling state machine that decides which packets it keeps,
// accumulates them into a sketch, and periodically snapshots that
// sketch into an immutable sub-epoch record.
package fragment

import (
	"github.com/disketch/disketch/internal/epoch"
	"github.com/disketch/disketch/internal/hashutil"
	"github.com/disketch/disketch/internal/sketch"
)

// Fragment owns one node's slice of the measurement: it samples a
// rotating subset of flows into sub-epochs, snapshotting each before
// the next begins, and adapts how many sub-epochs it runs per epoch
// based on how much estimation error it is accumulating.
type Fragment[K hashutil.Keyer] struct {
	index   int
	setting Setting

	epochDurationNs  uint64
	hashSeed         uint64
	epochID          uint64
	epochStartNs     uint64
	subepochCount    int
	currentSubepoch  int
	packetCounter    uint64
	subepochDuration uint64
	currentRho       float64
	emittedRecords   int
	lastRhoAverage   float64

	live    sketch.Sketch[K]
	records []epoch.SubepochRecord[K]
}

// New builds a fragment at the given topology index with the given
// static setting. The fragment has no live epoch state until BeginEpoch
// is called.
func New[K hashutil.Keyer](index int, setting Setting) *Fragment[K] {
	return &Fragment[K]{
		index:         index,
		setting:       setting,
		subepochCount: setting.clampedInitialSubepoch(),
	}
}

// Index returns the fragment's fixed position in the topology.
func (f *Fragment[K]) Index() int { return f.index }

// SubepochCount returns the fragment's current adaptive sub-epoch
// count, as of the last close (or the configured initial value before
// the first epoch).
func (f *Fragment[K]) SubepochCount() int { return f.subepochCount }

// BoostSingleHop reports whether this fragment samples single-hop
// flows into a second sub-epoch slot.
func (f *Fragment[K]) BoostSingleHop() bool { return f.setting.BoostSingleHop }

// Kind returns the sketch family this fragment was configured with.
func (f *Fragment[K]) Kind() sketch.Kind { return f.setting.Kind }

// LastRhoAverage returns the average rho reported at the last CloseEpoch
// call, or 0 before any epoch has closed.
func (f *Fragment[K]) LastRhoAverage() float64 { return f.lastRhoAverage }

// BeginEpoch resets all per-epoch state and allocates a fresh sketch
// seeded from this fragment's index and the epoch id, so every epoch's
// hashing is independent of every other.
func (f *Fragment[K]) BeginEpoch(epochID uint64, epochStartNs, epochDurationNs uint64) error {
	f.epochID = epochID
	f.epochStartNs = epochStartNs
	f.epochDurationNs = epochDurationNs
	f.hashSeed = hashutil.FragmentSeed(f.index, epochID)
	f.currentSubepoch = 0
	f.packetCounter = 0
	f.currentRho = 0
	f.emittedRecords = 0
	f.records = f.records[:0]

	duration := epochDurationNs / uint64(f.subepochCount)
	if duration == 0 {
		duration = 1
	}
	f.subepochDuration = duration

	live, err := sketch.New[K](f.setting.Kind, f.setting.MemoryBytes, f.setting.Depth, f.hashSeed)
	if err != nil {
		return err
	}
	f.live = live
	return nil
}

// ProcessPacket offers one packet to the fragment. Packets that arrived
// before the current epoch started are dropped; packets belonging to a
// later sub-epoch trigger a flush of every sub-epoch in between. The
// packet is only counted if ShouldTrack samples it for the sub-epoch it
// falls into.
func (f *Fragment[K]) ProcessPacket(flow K, packetTimeNs uint64, singleHop bool) {
	if packetTimeNs < f.epochStartNs {
		return
	}
	elapsed := packetTimeNs - f.epochStartNs
	subepochIndex := int(elapsed / f.subepochDuration)
	if subepochIndex > f.subepochCount-1 {
		subepochIndex = f.subepochCount - 1
	}
	if subepochIndex > f.currentSubepoch {
		f.flushUntil(subepochIndex)
	}
	if ShouldTrack(flow, f.currentSubepoch, f.subepochCount, f.hashSeed, singleHop, f.setting.BoostSingleHop) {
		f.live.Update(flow)
		f.packetCounter++
	}
}

// CloseEpoch flushes any remaining sub-epochs, computes the average rho
// across every sub-epoch that actually emitted a record, adapts the
// sub-epoch count for the next epoch, and returns the report for this
// epoch.
func (f *Fragment[K]) CloseEpoch() epoch.FragmentEpochReport[K] {
	f.flushUntil(f.subepochCount)
	f.flushCurrent()

	var rhoAverage float64
	if f.emittedRecords > 0 {
		rhoAverage = f.currentRho / float64(f.emittedRecords)
	}

	report := epoch.FragmentEpochReport[K]{
		FragmentIndex: f.index,
		EpochID:       f.epochID,
		HashSeed:      f.hashSeed,
		Records:       append([]epoch.SubepochRecord[K](nil), f.records...),
		RhoAverage:    rhoAverage,
	}

	f.lastRhoAverage = rhoAverage
	f.adjustSubepoch(rhoAverage)
	return report
}

func (f *Fragment[K]) flushUntil(target int) {
	for f.currentSubepoch < target {
		f.flushCurrent()
		f.currentSubepoch++
	}
}

func (f *Fragment[K]) flushCurrent() {
	if f.packetCounter == 0 {
		return
	}
	f.records = append(f.records, epoch.SubepochRecord[K]{
		SubepochID:     f.currentSubepoch,
		TotalSubepochs: f.subepochCount,
		PacketCount:    f.packetCounter,
		Snapshot:       f.live.Clone(),
	})
	f.currentRho += f.live.Rho()
	f.emittedRecords++
	f.live.Clear()
	f.packetCounter = 0
}

// adjustSubepoch implements the adaptive sub-epoch count: UnivMon
// always resets to its configured initial value (it does not benefit
// from sub-epoch sampling the way the row-based sketches do); the other
// kinds double on excessive error and halve on comfortable headroom,
// clamped to [1, MaxSubepoch].
func (f *Fragment[K]) adjustSubepoch(avgRho float64) {
	if f.setting.Kind == sketch.UnivMon {
		f.subepochCount = f.setting.clampedInitialSubepoch()
		return
	}
	switch {
	case avgRho > 2*f.setting.RhoTarget:
		f.subepochCount *= 2
		if f.setting.MaxSubepoch > 0 && f.subepochCount > f.setting.MaxSubepoch {
			f.subepochCount = f.setting.MaxSubepoch
		}
	case avgRho < 0.5*f.setting.RhoTarget:
		f.subepochCount /= 2
		if f.subepochCount < minSubepoch {
			f.subepochCount = minSubepoch
		}
	}
}

// ShouldTrack decides whether a packet falling into sub-epoch
// subepochID is sampled by this fragment. Every flow is assigned
// exactly one sub-epoch per fragment per epoch by hashing; when
// boostSingleHop is set and the packet is travelling a single-hop path,
// a second slot half the sub-epoch count away is also sampled, giving
// single-hop flows double coverage.
func ShouldTrack[K hashutil.Keyer](flow K, subepochID, totalSubepochs int, hashSeed uint64, singleHop, boostSingleHop bool) bool {
	assigned := hashutil.Hash(flow, hashSeed, uint64(totalSubepochs))
	if uint64(subepochID) == assigned {
		return true
	}
	if boostSingleHop && singleHop && totalSubepochs >= 2 {
		modulus := totalSubepochs
		if modulus < 1 {
			modulus = 1
		}
		secondSlot := (assigned + uint64(totalSubepochs/2)) % uint64(modulus)
		if uint64(subepochID) == secondSlot {
			return true
		}
	}
	return false
}

// TemporalAggregation reconstructs one flow's estimated count within a
// single fragment's epoch report by finding the sub-epoch that would
// have sampled it and scaling its sketch estimate up by the total
// number of sub-epochs (the uniform-sampling unbiasing factor). It
// returns 0 if no sub-epoch record matches, meaning the flow fell into
// a sub-epoch that emitted no packets at all.
func TemporalAggregation[K hashutil.Keyer](flow K, report epoch.FragmentEpochReport[K], singleHop, boostSingleHop bool) uint64 {
	for _, rec := range report.Records {
		if ShouldTrack(flow, rec.SubepochID, rec.TotalSubepochs, report.HashSeed, singleHop, boostSingleHop) {
			return rec.Snapshot.Query(flow) * uint64(rec.TotalSubepochs)
		}
	}
	return 0
}
