package ntpwire

import "errors"

// ErrTruncated is returned when a buffer runs out before a field is fully
// read. Network input is attacker-controlled, so exhaustion is a decode
// error, never a panic.
var ErrTruncated = errors.New("ntpwire: truncated packet")

// reader is a cursor over a packet buffer. Every read reports truncation
// instead of slicing past the end, so a decode either consumes exactly the
// bytes it needs or fails with ErrTruncated.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) uint8() (uint8, error) {
	if r.off+1 > len(r.buf) {
		return 0, ErrTruncated
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) int8() (int8, error) {
	b, err := r.uint8()
	return int8(b), err
}

// uint32 consumes four bytes and reconstructs them big-endian:
// b0<<24 | b1<<16 | b2<<8 | b3.
func (r *reader) uint32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, ErrTruncated
	}
	b := r.buf[r.off:]
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	r.off += 4
	return v, nil
}

// timestamp consumes eight bytes as two big-endian 32-bit halves.
func (r *reader) timestamp() (Timestamp, error) {
	secs, err := r.uint32()
	if err != nil {
		return Timestamp{}, err
	}
	frac, err := r.uint32()
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{Seconds: secs, Fraction: frac}, nil
}
