// Package packet defines the minimal per-packet record the simulation
// core operates on, independent of how it was captured.
package packet

import "github.com/disketch/disketch/internal/flowkey"

// Record is one observed packet: its flow identity and arrival time in
// nanoseconds since the Unix epoch.
type Record struct {
	Flow        flowkey.IPv4Pair
	TimestampNs uint64
}
