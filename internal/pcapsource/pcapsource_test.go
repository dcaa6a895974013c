package pcapsource

import (
	"errors"
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

func buildIPv4Frame(t *testing.T, src, dst net.IP) []byte {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0, 1, 2, 3, 4, 5},
		DstMAC:       net.HardwareAddr{6, 7, 8, 9, 10, 11},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    src,
		DstIP:    dst,
	}
	udp := &layers.UDP{SrcPort: 1111, DstPort: 2222}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("SetNetworkLayerForChecksum: %v", err)
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	payload := gopacket.Payload([]byte("hi"))
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, payload); err != nil {
		t.Fatalf("SerializeLayers: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeExtractsFlowAndTimestamp(t *testing.T) {
	data := buildIPv4Frame(t, net.IPv4(10, 0, 0, 1), net.IPv4(10, 0, 0, 2))
	rec, ok := decode(data, 42)
	if !ok {
		t.Fatal("decode: expected ok=true for a well-formed IPv4 frame")
	}
	if rec.TimestampNs != 42 {
		t.Errorf("TimestampNs = %d, want 42", rec.TimestampNs)
	}
	if rec.Flow.String() != "10.0.0.1->10.0.0.2" {
		t.Errorf("Flow = %q, want 10.0.0.1->10.0.0.2", rec.Flow.String())
	}
}

func TestDecodeRejectsNonIPv4(t *testing.T) {
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0, 1, 2, 3, 4, 5},
		DstMAC:       net.HardwareAddr{6, 7, 8, 9, 10, 11},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte{0, 1, 2, 3, 4, 5},
		SourceProtAddress: []byte{10, 0, 0, 1},
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte{10, 0, 0, 2},
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, arp); err != nil {
		t.Fatalf("SerializeLayers: %v", err)
	}
	if _, ok := decode(buf.Bytes(), 0); ok {
		t.Error("decode: expected ok=false for a non-IPv4 frame")
	}
}

func TestAsV4HandlesBothIPForms(t *testing.T) {
	if _, ok := asV4(net.IPv4(1, 2, 3, 4)); !ok {
		t.Error("asV4: expected ok=true for 16-byte net.IP carrying a v4 address")
	}
	if _, ok := asV4([]byte{1, 2, 3, 4}); !ok {
		t.Error("asV4: expected ok=true for a bare 4-byte slice")
	}
	if _, ok := asV4([]byte{1, 2, 3}); ok {
		t.Error("asV4: expected ok=false for a malformed address")
	}
}

func TestLoadReturnsInputErrorForMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path.pcap")
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("expected *InputError for a missing pcap file, got %T: %v", err, err)
	}
}
