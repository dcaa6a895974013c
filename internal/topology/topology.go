// Package topology resolves which fragments a flow's packets traverse.
package topology

import (
	"fmt"

	"github.com/disketch/disketch/internal/fragment"
	"github.com/disketch/disketch/internal/hashutil"
)

// Path is an ordered sequence of fragment indices a flow's packets pass
// through.
type Path struct {
	Name         string
	NodeIndices  []int
}

// SingleHop reports whether this path touches at most one fragment.
func (p Path) SingleHop() bool { return len(p.NodeIndices) <= 1 }

// Topology is the static set of fragments and candidate paths a flow
// can be assigned to.
type Topology[K hashutil.Keyer] struct {
	fragments []*fragment.Fragment[K]
	paths     []Path
}

// New builds a topology over the given fragments (already indexed by
// their position in this slice) and candidate paths. It returns an
// error if paths is empty, matching the original tool's config-time
// validation that every topology has at least one path to assign flows
// to: pick_path has no well-defined answer over an empty path set.
func New[K hashutil.Keyer](fragments []*fragment.Fragment[K], paths []Path) (*Topology[K], error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("topology: no paths configured")
	}
	for _, p := range paths {
		for _, idx := range p.NodeIndices {
			if idx < 0 || idx >= len(fragments) {
				return nil, fmt.Errorf("topology: path %q references out-of-range fragment %d", p.Name, idx)
			}
		}
	}
	return &Topology[K]{fragments: fragments, paths: paths}, nil
}

// Fragment returns the fragment at the given index.
func (t *Topology[K]) Fragment(index int) *fragment.Fragment[K] { return t.fragments[index] }

// Fragments returns every fragment in the topology, in index order.
func (t *Topology[K]) Fragments() []*fragment.Fragment[K] { return t.fragments }

// Paths returns every configured path.
func (t *Topology[K]) Paths() []Path { return t.paths }

// PathCount returns the number of configured paths.
func (t *Topology[K]) PathCount() int { return len(t.paths) }

// PickPath deterministically assigns a flow to one of the configured
// paths by hashing it modulo the path count, seeded by the path count
// itself, so the same flow always takes the same path within a run and
// path assignment never depends on anything outside the topology's own
// shape.
func (t *Topology[K]) PickPath(flow K) Path {
	n := uint64(len(t.paths))
	idx := hashutil.Hash(flow, n, n)
	return t.paths[idx]
}
