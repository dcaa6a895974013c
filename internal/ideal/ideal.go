// Package ideal implements the ground-truth exact per-flow counter the
// simulator compares every estimator against.
package ideal

import "github.com/disketch/disketch/internal/hashutil"

// Counter holds exact per-flow packet counts for the current epoch.
type Counter[K hashutil.Keyer] struct {
	counts map[K]uint64
}

// New returns an empty counter.
func New[K hashutil.Keyer]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]uint64)}
}

// Update records one observation of key.
func (c *Counter[K]) Update(key K) {
	c.counts[key]++
}

// Query returns the exact count observed for key so far.
func (c *Counter[K]) Query(key K) uint64 {
	return c.counts[key]
}

// RawData returns the full exact count map. Callers must not mutate it.
func (c *Counter[K]) RawData() map[K]uint64 {
	return c.counts
}

// FlowCount returns the number of distinct flows observed.
func (c *Counter[K]) FlowCount() int {
	return len(c.counts)
}

// Clear discards all counts, ready for the next epoch.
func (c *Counter[K]) Clear() {
	c.counts = make(map[K]uint64)
}
