// Package pcapsource reads a pcap capture file into the ordered packet
// records the coordinator expects, extracting only what DiSketch needs:
// the IPv4 source/destination pair and the capture timestamp.
package pcapsource

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/disketch/disketch/internal/flowkey"
	"github.com/disketch/disketch/internal/packet"
)

// InputError reports a problem with the packet source itself (missing
// file, unreadable capture, no usable packets), distinct from a
// simulation configuration error.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("pcapsource: %s", e.Reason)
}

// Load reads every IPv4 packet from the pcap file at path, returning
// them sorted ascending by capture timestamp. Captures are not always
// written in strict timestamp order (multi-interface merges in
// particular), and the coordinator's epoch windowing requires monotonic
// input, so the sort here is load-bearing, not cosmetic.
func Load(path string) ([]packet.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Reason: fmt.Sprintf("opening %s: %v", path, err)}
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		return nil, &InputError{Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	var records []packet.Record
	for {
		data, ci, err := reader.ReadPacketData()
		if err != nil {
			break // EOF or truncated trailer; best-effort per original tool
		}
		rec, ok := decode(data, ci.Timestamp.UnixNano())
		if ok {
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return nil, &InputError{Reason: fmt.Sprintf("%s contains no usable IPv4 packets", path)}
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].TimestampNs < records[j].TimestampNs })
	return records, nil
}

func decode(data []byte, timestampNs int64) (packet.Record, bool) {
	pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.NoCopy)
	ipLayer := pkt.Layer(layers.LayerTypeIPv4)
	if ipLayer == nil {
		return packet.Record{}, false
	}
	ip4, ok := ipLayer.(*layers.IPv4)
	if !ok {
		return packet.Record{}, false
	}
	src, okSrc := asV4(ip4.SrcIP)
	dst, okDst := asV4(ip4.DstIP)
	if !okSrc || !okDst {
		return packet.Record{}, false
	}
	if timestampNs < 0 {
		timestampNs = 0
	}
	return packet.Record{
		Flow:        flowkey.New(src, dst),
		TimestampNs: uint64(timestampNs),
	}, true
}

func asV4(ip []byte) ([4]byte, bool) {
	var out [4]byte
	v4 := ip
	if len(v4) == 16 {
		// net.IP sometimes carries an IPv4 address in its 16-byte form.
		v4 = v4[12:]
	}
	if len(v4) != 4 {
		return out, false
	}
	copy(out[:], v4)
	return out, true
}
