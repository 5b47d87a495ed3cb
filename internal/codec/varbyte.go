// Package codec implements the varbyte integer encoding used by the
// postings file: base-128 little-endian groups with a continuation bit,
// plus delta helpers for strictly ascending sequences.
package codec

import (
	"github.com/irsearch/platform/pkg/errors"
)

// MaxVarbyteLen is the longest valid encoding of a 32-bit value.
const MaxVarbyteLen = 5

// AppendUvarint appends the varbyte encoding of n to dst and returns the
// extended slice. Values below 128 encode as a single byte.
func AppendUvarint(dst []byte, n uint32) []byte {
	for n >= 128 {
		dst = append(dst, byte(n&0x7F)|0x80)
		n >>= 7
	}
	return append(dst, byte(n&0x7F))
}

// Uvarint decodes a single varbyte value from the front of buf. It returns
// the value and the number of bytes consumed. A run longer than
// MaxVarbyteLen or a buffer ending mid-varbyte yields ErrMalformedPostings.
func Uvarint(buf []byte) (uint32, int, error) {
	var value uint32
	var shift uint
	for i := 0; i < len(buf); i++ {
		if i >= MaxVarbyteLen {
			return 0, 0, errors.ErrMalformedPostings
		}
		b := buf[i]
		value |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.ErrMalformedPostings
}

// AppendDeltas appends the gap encoding of a strictly ascending sequence of
// non-negative values, with a virtual predecessor of 0 for the first entry.
func AppendDeltas(dst []byte, values []int) []byte {
	prev := 0
	for _, v := range values {
		dst = AppendUvarint(dst, uint32(v-prev))
		prev = v
	}
	return dst
}

// Decoder walks a postings byte buffer, tracking the read offset.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a Decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Uvarint decodes the next varbyte value and advances the offset.
func (d *Decoder) Uvarint() (uint32, error) {
	v, n, err := Uvarint(d.buf[d.off:])
	if err != nil {
		return 0, err
	}
	d.off += n
	return v, nil
}

// Skip discards count varbyte values.
func (d *Decoder) Skip(count int) error {
	for i := 0; i < count; i++ {
		if _, err := d.Uvarint(); err != nil {
			return err
		}
	}
	return nil
}

// Offset reports how many bytes have been consumed.
func (d *Decoder) Offset() int {
	return d.off
}
