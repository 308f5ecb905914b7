package ntpwire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnix(t *testing.T) {
	ts := Timestamp{Seconds: 3901482449}
	unix, err := ts.Unix()
	require.NoError(t, err)
	assert.Equal(t, uint32(1692493649), unix)

	// The epoch boundary itself is the first representable instant.
	ts = Timestamp{Seconds: EpochOffset}
	unix, err = ts.Unix()
	require.NoError(t, err)
	assert.Zero(t, unix)
}

func TestTimestampUnixUnderflow(t *testing.T) {
	// Anything before 1970 must fail rather than silently wrap.
	for _, secs := range []uint32{0, 1, EpochOffset - 1} {
		_, err := Timestamp{Seconds: secs}.Unix()
		assert.ErrorIs(t, err, ErrBeforeUnixEpoch, "seconds %d", secs)
	}
}

func TestTimestampUint64(t *testing.T) {
	ts := Timestamp{Seconds: 0xE88BE5BC, Fraction: 0x961A057A}
	assert.Equal(t, uint64(16756739436696962426), ts.Uint64())

	assert.Zero(t, Timestamp{}.Uint64())
	assert.True(t, Timestamp{}.IsZero())
	assert.False(t, ts.IsZero())
}

func TestTimestampTimeRoundTrip(t *testing.T) {
	want := time.Date(2023, time.August, 20, 1, 47, 29, 500000000, time.UTC)

	ts := TimestampFromTime(want)
	got := ts.Time()

	assert.Equal(t, want.Unix(), got.Unix())
	// The 32-bit fraction carries sub-nanosecond resolution, so only a
	// float conversion error remains.
	assert.InDelta(t, want.Nanosecond(), got.Nanosecond(), 5)
}

func TestTimestampFromTimeMatchesWire(t *testing.T) {
	// 1692493649 unix == 3901482449 NTP seconds (vector from a captured
	// pool server response).
	ts := TimestampFromTime(time.Unix(1692493649, 0))
	assert.Equal(t, uint32(3901482449), ts.Seconds)
	assert.Zero(t, ts.Fraction)
}
