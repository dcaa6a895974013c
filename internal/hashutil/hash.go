// Package hashutil provides the deterministic keyed hash shared by
// sub-epoch assignment, path selection and per-row sketch seeding.
package hashutil

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Keyer is anything that can be hashed deterministically: a stable byte
// encoding plus comparability so it can also key a plain Go map (used by
// the Ideal counter).
type Keyer interface {
	comparable
	Bytes() []byte
}

// Hash returns a deterministic value derived from key and seed, reduced
// into [0, modulus). modulus of 0 is treated as 1 (always returns 0).
func Hash[K Keyer](key K, seed uint64, modulus uint64) uint64 {
	if modulus == 0 {
		modulus = 1
	}
	return sum(key, seed) % modulus
}

// DeriveSeed produces a sub-seed for row index i of a sketch whose
// master seed is masterSeed. Used so that each sketch row hashes flows
// independently while staying fully determined by the fragment's seed.
func DeriveSeed(masterSeed uint64, row int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], masterSeed)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(row))
	return xxhash.Sum64(buf[:])
}

// FragmentSeed derives a fragment's per-epoch hash seed from its
// position in the topology and the current epoch id, matching the
// (fragment_index, epoch_id) pairing used throughout the simulation.
func FragmentSeed(fragmentIndex int, epochID uint64) uint64 {
	return (uint64(fragmentIndex) << 32) | (epochID & 0xFFFFFFFF)
}

func sum[K Keyer](key K, seed uint64) uint64 {
	h := xxhash.New()
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], seed)
	_, _ = h.Write(seedBuf[:])
	_, _ = h.Write(key.Bytes())
	return h.Sum64()
}
