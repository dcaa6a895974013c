package topology

import (
	"net/netip"
	"testing"

	"github.com/disketch/disketch/internal/flowkey"
	"github.com/disketch/disketch/internal/fragment"
	"github.com/disketch/disketch/internal/sketch"
)

func flow(a, b string) flowkey.IPv4Pair {
	return flowkey.IPv4Pair{Src: netip.MustParseAddr(a), Dst: netip.MustParseAddr(b)}
}

func testFragments(n int) []*fragment.Fragment[flowkey.IPv4Pair] {
	out := make([]*fragment.Fragment[flowkey.IPv4Pair], n)
	for i := range out {
		out[i] = fragment.New[flowkey.IPv4Pair](i, fragment.Setting{
			Kind: sketch.CountMin, Depth: 2, MemoryBytes: 1 << 12, MaxSubepoch: 4, InitialSubepoch: 1, RhoTarget: 1,
		})
	}
	return out
}

func TestNewRejectsEmptyPaths(t *testing.T) {
	if _, err := New(testFragments(2), nil); err == nil {
		t.Error("expected error for empty path list")
	}
}

func TestNewRejectsOutOfRangeFragment(t *testing.T) {
	paths := []Path{{Name: "p0", NodeIndices: []int{5}}}
	if _, err := New(testFragments(2), paths); err == nil {
		t.Error("expected error for out-of-range fragment index")
	}
}

func TestPickPathIsDeterministic(t *testing.T) {
	paths := []Path{
		{Name: "p0", NodeIndices: []int{0}},
		{Name: "p1", NodeIndices: []int{1}},
	}
	topo, err := New(testFragments(2), paths)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := flow("8.8.8.8", "1.1.1.1")
	first := topo.PickPath(f)
	second := topo.PickPath(f)
	if first.Name != second.Name {
		t.Error("PickPath must be deterministic for the same flow")
	}
}

func TestSingleHop(t *testing.T) {
	p := Path{NodeIndices: []int{0}}
	if !p.SingleHop() {
		t.Error("path with one node should be single hop")
	}
	p2 := Path{NodeIndices: []int{0, 1}}
	if p2.SingleHop() {
		t.Error("path with two nodes should not be single hop")
	}
}
