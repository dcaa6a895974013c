package coordinator

import (
	"context"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/disketch/disketch/internal/flowkey"
	"github.com/disketch/disketch/internal/packet"
	"github.com/disketch/disketch/internal/sketch"
)

// TestRunIsDeterministic runs the same packet trace through two freshly
// built topologies and checks the resulting reports are byte-for-byte
// identical: every hash seed the simulator derives comes from the
// fragment index and epoch id, never from wall-clock time or map
// iteration order, so two runs over the same input must agree exactly.
func TestRunIsDeterministic(t *testing.T) {
	var packets []packet.Record
	addrs := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5"}
	for i := 0; i < 500; i++ {
		src := netip.MustParseAddr(addrs[i%len(addrs)])
		dst := netip.MustParseAddr(addrs[(i+1)%len(addrs)])
		packets = append(packets, packet.Record{
			Flow:        flowkey.IPv4Pair{Src: src, Dst: dst},
			TimestampNs: uint64(i) * 10_000_000,
		})
	}

	cfg := Config{
		EpochDurationNs:  1_000_000_000,
		SketchKind:       sketch.CountMin,
		HeavyHitterRatio: 0.1,
		FullSketchDepth:  4,
		FullSketchMemory: 1 << 14,
	}

	first, err := Run(context.Background(), cfg, buildTestTopology(t), packets)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := Run(context.Background(), cfg, buildTestTopology(t), packets)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two runs over identical input diverged (-first +second):\n%s", diff)
	}
}
