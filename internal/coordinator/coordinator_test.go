package coordinator

import (
	"context"
	"net/netip"
	"testing"

	"github.com/disketch/disketch/internal/flowkey"
	"github.com/disketch/disketch/internal/fragment"
	"github.com/disketch/disketch/internal/packet"
	"github.com/disketch/disketch/internal/sketch"
	"github.com/disketch/disketch/internal/topology"
)

func flow(a, b string) flowkey.IPv4Pair {
	return flowkey.IPv4Pair{Src: netip.MustParseAddr(a), Dst: netip.MustParseAddr(b)}
}

func buildTestTopology(t *testing.T) *topology.Topology[flowkey.IPv4Pair] {
	t.Helper()
	settings := []fragment.Setting{
		{Kind: sketch.CountMin, Depth: 4, MemoryBytes: 1 << 16, MaxSubepoch: 8, InitialSubepoch: 1, RhoTarget: 1},
	}
	frags := make([]*fragment.Fragment[flowkey.IPv4Pair], len(settings))
	for i, s := range settings {
		frags[i] = fragment.New[flowkey.IPv4Pair](i, s)
	}
	topo, err := topology.New(frags, []topology.Path{{Name: "p0", NodeIndices: []int{0}}})
	if err != nil {
		t.Fatalf("topology.New: %v", err)
	}
	return topo
}

func TestRunEmptyInputReturnsEmptyReport(t *testing.T) {
	topo := buildTestTopology(t)
	report, err := Run(context.Background(), Config{EpochDurationNs: 1_000_000_000, SketchKind: sketch.CountMin}, topo, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Epochs) != 0 {
		t.Errorf("expected no epochs for empty input, got %d", len(report.Epochs))
	}
}

func TestRunProducesOneEpochPerDuration(t *testing.T) {
	topo := buildTestTopology(t)
	heavy := flow("10.0.0.1", "10.0.0.2")
	light := flow("10.0.0.3", "10.0.0.4")

	var packets []packet.Record
	for i := 0; i < 100; i++ {
		packets = append(packets, packet.Record{Flow: heavy, TimestampNs: uint64(i * 1_000_000)})
	}
	packets = append(packets, packet.Record{Flow: light, TimestampNs: 50_000_000})

	cfg := Config{
		EpochDurationNs:  1_000_000_000,
		SketchKind:       sketch.CountMin,
		HeavyHitterRatio: 0.5,
	}
	report, err := Run(context.Background(), cfg, topo, packets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Epochs) != 1 {
		t.Fatalf("len(Epochs) = %d, want 1", len(report.Epochs))
	}
	if report.Epochs[0].TotalFlows != 2 {
		t.Errorf("TotalFlows = %d, want 2", report.Epochs[0].TotalFlows)
	}
	if report.Epochs[0].TotalPackets != 101 {
		t.Errorf("TotalPackets = %d, want 101", report.Epochs[0].TotalPackets)
	}
}

func TestRunRespectsMaxEpochs(t *testing.T) {
	topo := buildTestTopology(t)
	f := flow("1.1.1.1", "2.2.2.2")
	packets := []packet.Record{
		{Flow: f, TimestampNs: 0},
		{Flow: f, TimestampNs: 5_000_000_000},
	}
	cfg := Config{EpochDurationNs: 1_000_000_000, SketchKind: sketch.CountMin, MaxEpochs: 1}
	report, err := Run(context.Background(), cfg, topo, packets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Epochs) != 1 {
		t.Errorf("len(Epochs) = %d, want 1 (capped by MaxEpochs)", len(report.Epochs))
	}
}

func TestRunCancelledContextStopsBetweenEpochs(t *testing.T) {
	topo := buildTestTopology(t)
	f := flow("1.1.1.1", "2.2.2.2")
	var packets []packet.Record
	for i := 0; i < 5; i++ {
		packets = append(packets, packet.Record{Flow: f, TimestampNs: uint64(i) * 1_000_000_000})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{EpochDurationNs: 1_000_000_000, SketchKind: sketch.CountMin}
	_, err := Run(ctx, cfg, topo, packets)
	if err == nil {
		t.Error("expected error from a pre-cancelled context")
	}
}
