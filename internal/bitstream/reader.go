// Package bitstream reads MSB-first bit fields from the packed animation
// streams used by the Return to Arms family of engines.
package bitstream

import "fmt"

// Reader is a bit cursor over a private, pair-swapped copy of a byte window.
//
// The source data stores 16-bit little-endian words while the packer wrote
// its fields as one big-endian bit sequence, so every adjacent byte pair of
// the window is swapped once at construction. A trailing odd byte is left in
// place. The caller's buffer is never modified.
type Reader struct {
	data   []byte
	bitPos int
}

// NewReader copies data[offset:offset+length] and pair-swaps the copy.
// The window is clamped to the bounds of data.
func NewReader(data []byte, offset, length int) *Reader {
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	if length < 0 || offset+length > len(data) {
		length = len(data) - offset
	}

	buf := make([]byte, length)
	copy(buf, data[offset:offset+length])
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
	return &Reader{data: buf}
}

// BitPos returns the number of bits consumed so far.
func (r *Reader) BitPos() int {
	return r.bitPos
}

// Len returns the window size in bits.
func (r *Reader) Len() int {
	return len(r.data) * 8
}

// HasData reports whether bits more bits fit inside the window.
func (r *Reader) HasData(bits int) bool {
	return r.bitPos+bits <= len(r.data)*8
}

// ReadUnsigned extracts the next bits (1..16) bits, most significant first.
// Bytes past the end of the window read as zero. It panics if bits is out
// of range.
func (r *Reader) ReadUnsigned(bits int) uint16 {
	if bits <= 0 || bits > 16 {
		panic(fmt.Sprintf("bitstream: invalid field width %d", bits))
	}

	// 24-bit lookahead starting at the byte holding the current bit.
	bytePos := r.bitPos / 8
	var v uint32
	for i := 0; i < 3; i++ {
		v <<= 8
		if bytePos+i < len(r.data) {
			v |= uint32(r.data[bytePos+i])
		}
	}

	// Bit 15 now holds the first wanted bit.
	v >>= 8 - uint(r.bitPos&7)
	v >>= 16 - uint(bits)
	v &= 0xFFFF >> (16 - uint(bits))

	r.bitPos += bits
	return uint16(v)
}

// ReadSigned reads a bits-wide field in the format's magnitude-biased signed
// encoding. Raw values at or above 2^(bits-1) map to
// -(2^(bits-1) - (v - 2^(bits-1)) - 1), so for 8 bits 0x80 is -127 and 0xFF
// is 0. This is not two's complement.
func (r *Reader) ReadSigned(bits int) int32 {
	v := int32(r.ReadUnsigned(bits))
	half := int32(1) << (bits - 1)
	if v >= half {
		return -(half - (v - half) - 1)
	}
	return v
}
