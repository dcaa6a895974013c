// Package flowkey defines the flow identifier used across the
// simulation: an ordered (source, destination) pair of IPv4 addresses, matching the
// original tool's two-tuple flow key.
package flowkey

import "net/netip"

// IPv4Pair identifies a flow by its source and destination IPv4
// addresses. It implements hashutil.Keyer so it can seed the keyed
// hash and key plain Go maps directly.
type IPv4Pair struct {
	Src netip.Addr
	Dst netip.Addr
}

// New builds an IPv4Pair from raw big-endian IPv4 bytes.
func New(src, dst [4]byte) IPv4Pair {
	return IPv4Pair{Src: netip.AddrFrom4(src), Dst: netip.AddrFrom4(dst)}
}

// Bytes returns a stable 8-byte encoding (4 bytes src + 4 bytes dst).
func (p IPv4Pair) Bytes() []byte {
	s := p.Src.As4()
	d := p.Dst.As4()
	out := make([]byte, 0, 8)
	out = append(out, s[:]...)
	out = append(out, d[:]...)
	return out
}

func (p IPv4Pair) String() string {
	return p.Src.String() + "->" + p.Dst.String()
}
