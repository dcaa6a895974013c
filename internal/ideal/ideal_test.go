package ideal

import (
	"net/netip"
	"testing"

	"github.com/disketch/disketch/internal/flowkey"
)

func flow(a, b string) flowkey.IPv4Pair {
	return flowkey.IPv4Pair{Src: netip.MustParseAddr(a), Dst: netip.MustParseAddr(b)}
}

func TestCounterTracksExactCounts(t *testing.T) {
	c := New[flowkey.IPv4Pair]()
	f1 := flow("10.0.0.1", "10.0.0.2")
	f2 := flow("10.0.0.3", "10.0.0.4")
	for i := 0; i < 3; i++ {
		c.Update(f1)
	}
	c.Update(f2)

	if got := c.Query(f1); got != 3 {
		t.Errorf("Query(f1) = %d, want 3", got)
	}
	if got := c.Query(f2); got != 1 {
		t.Errorf("Query(f2) = %d, want 1", got)
	}
	if got := c.FlowCount(); got != 2 {
		t.Errorf("FlowCount() = %d, want 2", got)
	}
}

func TestCounterClear(t *testing.T) {
	c := New[flowkey.IPv4Pair]()
	c.Update(flow("1.1.1.1", "2.2.2.2"))
	c.Clear()
	if got := c.FlowCount(); got != 0 {
		t.Errorf("FlowCount() after Clear = %d, want 0", got)
	}
}
