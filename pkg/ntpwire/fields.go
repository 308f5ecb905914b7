package ntpwire

import (
	"encoding/binary"
	"fmt"
)

// LeapIndicator is the 2-bit leap warning field from the first packet byte.
type LeapIndicator uint8

const (
	LeapNoWarning      LeapIndicator = 0 // No leap second pending
	LeapLastMinute61   LeapIndicator = 1 // Last minute of day has 61 seconds
	LeapLastMinute59   LeapIndicator = 2 // Last minute of day has 59 seconds
	LeapUnsynchronized LeapIndicator = 3 // Alarm condition, clock not synchronized
)

// LeapIndicatorFromBits converts the masked 2-bit value to a LeapIndicator.
// Every value 0-3 has a variant; anything wider than 2 bits indicates a
// masking bug upstream and falls back to the alarm variant.
func LeapIndicatorFromBits(b uint8) LeapIndicator {
	if b > 3 {
		return LeapUnsynchronized
	}
	return LeapIndicator(b)
}

func (li LeapIndicator) String() string {
	switch li {
	case LeapNoWarning:
		return "no warning"
	case LeapLastMinute61:
		return "last minute has 61 seconds"
	case LeapLastMinute59:
		return "last minute has 59 seconds"
	case LeapUnsynchronized:
		return "unsynchronized"
	default:
		return fmt.Sprintf("invalid leap indicator (%d)", uint8(li))
	}
}

// Mode is the 3-bit association mode field from the first packet byte.
type Mode uint8

const (
	ModeReserved         Mode = 0
	ModeSymmetricActive  Mode = 1
	ModeSymmetricPassive Mode = 2
	ModeClient           Mode = 3
	ModeServer           Mode = 4
	ModeBroadcast        Mode = 5
	ModeControl          Mode = 6
	ModeReservedPrivate  Mode = 7
)

// ModeFromBits converts the masked 3-bit value to a Mode. Every value 0-7
// has a variant; anything wider falls back to ModeReserved.
func ModeFromBits(b uint8) Mode {
	if b > 7 {
		return ModeReserved
	}
	return Mode(b)
}

func (m Mode) String() string {
	switch m {
	case ModeReserved:
		return "reserved"
	case ModeSymmetricActive:
		return "symmetric active"
	case ModeSymmetricPassive:
		return "symmetric passive"
	case ModeClient:
		return "client"
	case ModeServer:
		return "server"
	case ModeBroadcast:
		return "broadcast"
	case ModeControl:
		return "control"
	case ModeReservedPrivate:
		return "reserved for private use"
	default:
		return fmt.Sprintf("invalid mode (%d)", uint8(m))
	}
}

// Stratum is the raw 8-bit stratum byte. The wire value is kept as-is so a
// decoded packet re-encodes byte for byte; Class gives the RFC 5905
// interpretation.
type Stratum uint8

// StratumClass is the interpretation of a stratum byte per RFC 5905
// figure 11.
type StratumClass uint8

const (
	StratumUnspecified    StratumClass = iota // 0: unspecified or invalid
	StratumPrimary                            // 1: primary server, e.g. GPS-equipped
	StratumSecondary                          // 2-15: secondary server, synced via NTP
	StratumUnsynchronized                     // 16: unsynchronized
	StratumReserved                           // 17-255: reserved
)

// Class maps the stratum byte to its class. Total over all 256 values.
func (s Stratum) Class() StratumClass {
	switch {
	case s == 0:
		return StratumUnspecified
	case s == 1:
		return StratumPrimary
	case s <= 15:
		return StratumSecondary
	case s == 16:
		return StratumUnsynchronized
	default:
		return StratumReserved
	}
}

func (c StratumClass) String() string {
	switch c {
	case StratumUnspecified:
		return "unspecified"
	case StratumPrimary:
		return "primary server"
	case StratumSecondary:
		return "secondary server"
	case StratumUnsynchronized:
		return "unsynchronized"
	case StratumReserved:
		return "reserved"
	default:
		return fmt.Sprintf("invalid stratum class (%d)", uint8(c))
	}
}

// KissCode is a 4-character ASCII code carried in the reference ID of a
// kiss-of-death packet.
type KissCode string

const (
	KissACST    KissCode = "ACST" // Association belongs to a unicast server
	KissAuth    KissCode = "AUTH" // Server authentication failed
	KissAuto    KissCode = "AUTO" // Autokey sequence failed
	KissBcst    KissCode = "BCST" // Association belongs to a broadcast server
	KissCryp    KissCode = "CRYP" // Cryptographic authentication or identification failed
	KissDeny    KissCode = "DENY" // Access denied by remote server
	KissDrop    KissCode = "DROP" // Lost peer in symmetric mode
	KissInit    KissCode = "INIT" // Association has not yet synchronized for the first time
	KissMcst    KissCode = "MCST" // Association belongs to a dynamically discovered server
	KissNkey    KissCode = "NKEY" // No key found
	KissRate    KissCode = "RATE" // Rate exceeded, server asks to reduce polling
	KissRmot    KissCode = "RMOT" // Alteration of association from a remote host
	KissRstr    KissCode = "RSTR" // Access denied due to local policy
	KissStep    KissCode = "STEP" // A step change in system time has occurred
	KissUnknown KissCode = ""     // Reference ID did not match a known code
)

// kissCodes is the closed set of codes from RFC 5905 section 7.4. Lookup is
// an exact byte match; everything else is KissUnknown.
var kissCodes = map[KissCode]string{
	KissACST: "the association belongs to a unicast server",
	KissAuth: "server authentication failed",
	KissAuto: "autokey sequence failed",
	KissBcst: "the association belongs to a broadcast server",
	KissCryp: "cryptographic authentication or identification failed",
	KissDeny: "access denied by remote server",
	KissDrop: "lost peer in symmetric mode",
	KissInit: "the association has not yet synchronized for the first time",
	KissMcst: "the association belongs to a dynamically discovered server",
	KissNkey: "no key found",
	KissRate: "rate exceeded, the server has temporarily denied access",
	KissRmot: "alteration of association from a remote host",
	KissRstr: "access denied due to local policy",
	KissStep: "a step change in system time has occurred",
}

// KissCodeFromRefID interprets a reference ID as a 4-byte ASCII kiss code.
// Returns KissUnknown for any byte sequence outside the known table.
func KissCodeFromRefID(refID uint32) KissCode {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], refID)
	code := KissCode(buf[:])
	if _, ok := kissCodes[code]; !ok {
		return KissUnknown
	}
	return code
}

// Description returns the human-readable meaning of the code.
func (k KissCode) Description() string {
	if desc, ok := kissCodes[k]; ok {
		return desc
	}
	return "unknown kiss code"
}
