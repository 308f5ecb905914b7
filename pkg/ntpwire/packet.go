// Package ntpwire decodes and encodes the fixed 48-byte NTP v3/v4 packet
// format from RFC 5905 and interprets its control fields (leap indicator,
// mode, stratum, kiss codes). It is a pure byte transform: no sockets, no
// clock reads, no time state between calls.
package ntpwire

import (
	"encoding/binary"
	"fmt"
)

const (
	// EpochOffset is the seconds between the NTP epoch (1900-01-01) and
	// the Unix epoch (1970-01-01).
	EpochOffset = 2208988800

	// Port is the well-known NTP UDP port.
	Port = 123

	// PacketSize is the fixed header length; shorter buffers are
	// malformed, longer ones carry extension fields or a MAC trailer.
	PacketSize = 48

	// Version values
	VersionNTPv3 = 3
	VersionNTPv4 = 4
)

// Packet is the decoded fixed 48-byte NTP header.
type Packet struct {
	// First byte: LI (2 bits) | VN (3 bits) | Mode (3 bits)
	Leap    LeapIndicator
	Version uint8 // 3 bits, 0-7
	Mode    Mode

	Stratum     Stratum
	Poll        int8   // Poll interval, log2 seconds, suggested range [6,10]
	Precision   int8   // Clock precision, log2 seconds
	RootDelay   uint32 // Round-trip delay to the reference clock, NTP short format (16.16)
	RootDisp    uint32 // Total dispersion to the reference clock, NTP short format
	ReferenceID uint32 // Interpretation depends on the stratum field

	RefTime  Timestamp // When the system clock was last set or corrected
	OrigTime Timestamp // Client time when the request departed
	RecvTime Timestamp // Server time when the request arrived
	XmitTime Timestamp // Server time when the response left

	// DestTime is the client time when the reply arrived. It is not part
	// of the wire format; the transport sets it on receipt and the
	// decoder leaves it zero.
	DestTime Timestamp

	// KeyID and MessageDigest belong to the optional authentication
	// trailer. The decoder always leaves them zero; there is no MAC
	// verification path yet.
	KeyID         uint32
	MessageDigest [16]byte
}

// ServerResponse is a decoded packet plus the optional extension fields
// that may follow the fixed header.
type ServerResponse struct {
	Packet *Packet

	// ExtensionFields is structural scaffolding only: the decoder never
	// populates it. At most MaxExtensionFields entries are modeled.
	ExtensionFields []ExtensionField
}

// ParsePacket decodes the fixed 48-byte header from data. Bytes beyond the
// header are ignored; fewer than 48 bytes yields ErrTruncated. Decode is
// all or nothing: on error no partial packet is returned.
func ParsePacket(data []byte) (*Packet, error) {
	if len(data) < PacketSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTruncated, len(data), PacketSize)
	}

	r := newReader(data)
	p := &Packet{}

	// First byte: LI | VN | Mode. The shifts mask each sub-field to its
	// bit width, so the enum conversions always see in-range values.
	first, err := r.uint8()
	if err != nil {
		return nil, err
	}
	p.Leap = LeapIndicatorFromBits((first >> 6) & 0x03)
	p.Version = (first >> 3) & 0x07
	p.Mode = ModeFromBits(first & 0x07)

	stratum, err := r.uint8()
	if err != nil {
		return nil, err
	}
	p.Stratum = Stratum(stratum)

	if p.Poll, err = r.int8(); err != nil {
		return nil, err
	}
	if p.Precision, err = r.int8(); err != nil {
		return nil, err
	}
	if p.RootDelay, err = r.uint32(); err != nil {
		return nil, err
	}
	if p.RootDisp, err = r.uint32(); err != nil {
		return nil, err
	}
	if p.ReferenceID, err = r.uint32(); err != nil {
		return nil, err
	}
	if p.RefTime, err = r.timestamp(); err != nil {
		return nil, err
	}
	if p.OrigTime, err = r.timestamp(); err != nil {
		return nil, err
	}
	if p.RecvTime, err = r.timestamp(); err != nil {
		return nil, err
	}
	if p.XmitTime, err = r.timestamp(); err != nil {
		return nil, err
	}

	return p, nil
}

// ParseResponse decodes a server reply. Extension fields are never
// populated; the wrapper exists so the framing has a home once a concrete
// profile (e.g. NTS) is in scope.
func ParseResponse(data []byte) (*ServerResponse, error) {
	p, err := ParsePacket(data)
	if err != nil {
		return nil, err
	}
	return &ServerResponse{Packet: p}, nil
}

// Bytes serializes the packet back to its 48-byte wire form. A decoded
// packet re-encodes byte for byte.
func (p *Packet) Bytes() []byte {
	data := make([]byte, PacketSize)

	data[0] = uint8(p.Leap)<<6 | (p.Version&0x07)<<3 | uint8(p.Mode)&0x07
	data[1] = uint8(p.Stratum)
	data[2] = byte(p.Poll)
	data[3] = byte(p.Precision)
	binary.BigEndian.PutUint32(data[4:8], p.RootDelay)
	binary.BigEndian.PutUint32(data[8:12], p.RootDisp)
	binary.BigEndian.PutUint32(data[12:16], p.ReferenceID)
	binary.BigEndian.PutUint64(data[16:24], p.RefTime.Uint64())
	binary.BigEndian.PutUint64(data[24:32], p.OrigTime.Uint64())
	binary.BigEndian.PutUint64(data[32:40], p.RecvTime.Uint64())
	binary.BigEndian.PutUint32(data[40:44], p.XmitTime.Seconds)
	binary.BigEndian.PutUint32(data[44:48], p.XmitTime.Fraction)

	return data
}

// NewClientRequest builds a minimal 48-byte outbound client query:
// LI=0, version 4, mode 3, everything else zero. The origin timestamp
// bytes are zeroed explicitly to signal "no prior association".
func NewClientRequest() []byte {
	buf := make([]byte, PacketSize)
	buf[0] = uint8(LeapNoWarning)<<6 | VersionNTPv4<<3 | uint8(ModeClient)
	binary.BigEndian.PutUint32(buf[12:16], 0)
	return buf
}

// KissCode interprets the reference ID as a kiss code. Only meaningful
// when the stratum class marks the server as unspecified or
// unsynchronized; for any other class it returns KissUnknown.
func (p *Packet) KissCode() KissCode {
	switch p.Stratum.Class() {
	case StratumUnspecified, StratumUnsynchronized:
		return KissCodeFromRefID(p.ReferenceID)
	default:
		return KissUnknown
	}
}

// IsKissOfDeath reports whether the packet carries a recognized kiss code.
func (p *Packet) IsKissOfDeath() bool {
	return p.KissCode() != KissUnknown
}

// ReferenceIDString renders the reference ID according to the stratum:
// the kiss code or raw ASCII for stratum 0-1, dotted quad for secondary
// servers, hex otherwise.
func (p *Packet) ReferenceIDString() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], p.ReferenceID)

	switch p.Stratum.Class() {
	case StratumUnspecified, StratumUnsynchronized:
		if code := p.KissCode(); code != KissUnknown {
			return string(code)
		}
		return fmt.Sprintf("%#010x", p.ReferenceID)
	case StratumPrimary:
		return string(trimNul(b[:]))
	case StratumSecondary:
		return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
	default:
		return fmt.Sprintf("%#010x", p.ReferenceID)
	}
}

func trimNul(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

// IsValidServerResponse checks that the packet looks like a v3/v4 reply a
// client may act on.
func (p *Packet) IsValidServerResponse() bool {
	if p.Version != VersionNTPv3 && p.Version != VersionNTPv4 {
		return false
	}
	return p.Mode == ModeServer || p.Mode == ModeSymmetricPassive || p.Mode == ModeBroadcast
}

// String returns a short human-readable summary.
func (p *Packet) String() string {
	return fmt.Sprintf("NTP{LI:%s VN:%d Mode:%s Stratum:%d(%s) Poll:%d Prec:%d RefID:%s}",
		p.Leap, p.Version, p.Mode, uint8(p.Stratum), p.Stratum.Class(), p.Poll, p.Precision,
		p.ReferenceIDString())
}
