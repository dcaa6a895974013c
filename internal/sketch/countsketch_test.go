package sketch

import (
	"testing"

	"github.com/disketch/disketch/internal/flowkey"
)

func TestCountSketchTracksApproximateCount(t *testing.T) {
	sk, err := New[flowkey.IPv4Pair](CountSketch, 1<<16, 5, 99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := flow("10.1.1.1", "10.1.1.2")
	for i := 0; i < 50; i++ {
		sk.Update(f)
	}
	got := sk.Query(f)
	if got < 40 || got > 60 {
		t.Errorf("Query() = %d, want roughly 50", got)
	}
}

func TestMedianInt64(t *testing.T) {
	cases := []struct {
		vals []int64
		want int64
	}{
		{[]int64{1}, 1},
		{[]int64{1, 3}, 2},
		{[]int64{1, 2, 3}, 2},
		{[]int64{1, 2, 3, 4}, 2},
		{[]int64{5, 1, 3}, 3},
	}
	for _, c := range cases {
		if got := medianInt64(c.vals); got != c.want {
			t.Errorf("medianInt64(%v) = %d, want %d", c.vals, got, c.want)
		}
	}
}
