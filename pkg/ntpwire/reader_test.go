package ntpwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderUint32(t *testing.T) {
	r := newReader([]byte{0x12, 0x34, 0x56, 0x78, 0xFF})

	v, err := r.uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)

	// Only one byte left; the cursor must refuse, not slice past the end.
	_, err = r.uint32()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReaderSequentialReads(t *testing.T) {
	r := newReader([]byte{36, 3, 0, 232, 0, 0, 5, 139})

	b, err := r.uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(36), b)

	b, err = r.uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), b)

	i, err := r.int8()
	require.NoError(t, err)
	assert.Equal(t, int8(0), i)

	// 232 reinterpreted as two's complement.
	i, err = r.int8()
	require.NoError(t, err)
	assert.Equal(t, int8(-24), i)

	v, err := r.uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(1419), v)

	_, err = r.uint8()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReaderTimestamp(t *testing.T) {
	r := newReader([]byte{232, 139, 229, 188, 150, 26, 5, 122})

	ts, err := r.timestamp()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xE88BE5BC), ts.Seconds)
	assert.Equal(t, uint32(0x961A057A), ts.Fraction)
}

func TestReaderTimestampTruncated(t *testing.T) {
	// Fails on the fractional half.
	r := newReader([]byte{1, 2, 3, 4, 5, 6})
	_, err := r.timestamp()
	assert.ErrorIs(t, err, ErrTruncated)

	// Fails on the seconds half.
	r = newReader([]byte{1, 2})
	_, err = r.timestamp()
	assert.ErrorIs(t, err, ErrTruncated)
}
