package ntpwire

import (
	"errors"
	"time"
)

// ErrBeforeUnixEpoch is returned when an NTP timestamp falls before
// 1970-01-01 and cannot be expressed as an unsigned Unix timestamp.
var ErrBeforeUnixEpoch = errors.New("ntpwire: timestamp precedes the unix epoch")

// Timestamp is an NTP timestamp: 32-bit seconds since 1900-01-01 00:00:00
// UTC plus a 32-bit binary fraction of a second. Under the era-0 convention
// the seconds field wraps in 2036.
type Timestamp struct {
	Seconds  uint32
	Fraction uint32
}

// Uint64 packs the timestamp into the 64-bit wire representation,
// seconds in the high half.
func (t Timestamp) Uint64() uint64 {
	return uint64(t.Seconds)<<32 | uint64(t.Fraction)
}

// IsZero reports whether the timestamp is unset. A zeroed origin timestamp
// signals "no prior association" in a client request.
func (t Timestamp) IsZero() bool {
	return t.Seconds == 0 && t.Fraction == 0
}

// Unix converts the seconds field to seconds since 1970-01-01 by
// subtracting EpochOffset. Returns ErrBeforeUnixEpoch instead of wrapping
// when the timestamp is earlier than 1970.
func (t Timestamp) Unix() (uint32, error) {
	if t.Seconds < EpochOffset {
		return 0, ErrBeforeUnixEpoch
	}
	return t.Seconds - EpochOffset, nil
}

// Time converts the timestamp to a time.Time, fraction included.
func (t Timestamp) Time() time.Time {
	secs := int64(t.Seconds) - EpochOffset
	nanos := int64((float64(t.Fraction) / float64(1<<32)) * 1e9)
	return time.Unix(secs, nanos)
}

// TimestampFromTime converts a time.Time to an NTP timestamp.
func TimestampFromTime(t time.Time) Timestamp {
	secs := t.Unix() + EpochOffset
	frac := uint32((float64(t.Nanosecond()) / 1e9) * float64(1<<32))
	return Timestamp{Seconds: uint32(secs), Fraction: frac}
}
