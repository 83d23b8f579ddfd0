package anm

import "encoding/binary"

// testBone describes one bone of a synthesized animation.
type testBone struct {
	bind   [3]int16
	parent byte
	pos    [3]int16 // frame-0 position, raw (/64)
	rot    [4]int16 // frame-0 rotation w,x,y,z, raw (/4096)
}

// layout places the header, binding pose table and skeleton table, and
// returns the buffer with the frame-0 offset word still to be filled.
func layout(bones []testBone, hint int32, flags14, flags18 uint32) ([]byte, int) {
	n := len(bones)
	bindOff := headerSize
	skelOff := bindOff + n*bindStride
	frameOff := skelOff + n
	if frameOff%2 != 0 {
		frameOff++
	}

	buf := make([]byte, frameOff)
	le := binary.LittleEndian
	le.PutUint32(buf[0x00:], uint32(n))
	le.PutUint32(buf[0x04:], uint32(hint))
	le.PutUint32(buf[0x08:], uint32(frameOff))
	le.PutUint32(buf[0x0C:], uint32(bindOff))
	le.PutUint32(buf[0x10:], uint32(skelOff))
	le.PutUint32(buf[0x14:], flags14)
	le.PutUint32(buf[0x18:], flags18)
	for i, b := range bones {
		for k := 0; k < 3; k++ {
			le.PutUint16(buf[bindOff+i*bindStride+k*2:], uint16(b.bind[k]))
		}
		buf[skelOff+i] = b.parent
	}
	return buf, frameOff
}

// compactAnim builds a CompactByteDelta buffer from bones and raw event bytes.
func compactAnim(bones []testBone, events ...[]byte) []byte {
	buf, _ := layout(bones, 0x1234, 0x10, 0x01)
	for _, b := range bones {
		for _, v := range b.pos {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
		}
		for _, v := range b.rot {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
		}
	}
	for _, ev := range events {
		buf = append(buf, ev...)
	}
	return buf
}

func compactPos16(count byte, bone byte, x, y, z int16) []byte {
	ev := []byte{count, bone & 0x3F}
	for _, v := range []int16{x, y, z} {
		ev = binary.LittleEndian.AppendUint16(ev, uint16(v))
	}
	return ev
}

func compactPos8(count byte, bone byte, x, y, z int8) []byte {
	return []byte{count, bone&0x3F | 0x40, byte(x), byte(y), byte(z)}
}

func compactRot16(count byte, bone byte, w, x, y, z int16) []byte {
	ev := []byte{count, bone&0x3F | 0x80}
	for _, v := range []int16{w, x, y, z} {
		ev = binary.LittleEndian.AppendUint16(ev, uint16(v))
	}
	return ev
}

func compactRot8(count byte, bone byte, w, x, y, z int8) []byte {
	return []byte{count, bone&0x3F | 0xC0, byte(w), byte(x), byte(y), byte(z)}
}

var compactEnd = []byte{0x00, 0x3F}

// bitWriter packs MSB-first fields the way the packed dialect stores them.
type bitWriter struct {
	buf  []byte
	nbit int
}

func (w *bitWriter) put(v uint32, bits int) {
	for i := bits - 1; i >= 0; i-- {
		if w.nbit%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if v>>uint(i)&1 == 1 {
			w.buf[len(w.buf)-1] |= 0x80 >> uint(w.nbit%8)
		}
		w.nbit++
	}
}

// putSigned writes x in the magnitude-biased encoding read by ReadSigned.
func (w *bitWriter) putSigned(x int32, bits int) {
	if x < 0 {
		x += int32(1)<<bits - 1
	}
	w.put(uint32(x), bits)
}

func (w *bitWriter) position(bits int, x, y, z int32) {
	w.put(uint32(bits-1), 4)
	for _, v := range []int32{x, y, z} {
		w.putSigned(v, bits)
	}
}

func (w *bitWriter) rotation(bits int, qw, qx, qy, qz int32) {
	w.put(uint32(bits-1), 4)
	for _, v := range []int32{qw, qx, qy, qz} {
		w.putSigned(v, bits)
	}
}

func (w *bitWriter) event(count byte, isPosition bool, bone byte) {
	w.put(uint32(count), 8)
	flag := uint32(0)
	if isPosition {
		flag = 1
	}
	w.put(flag, 1)
	w.put(uint32(bone), 6)
}

// stored pads to whole 16-bit words and swaps each byte pair.
func (w *bitWriter) stored() []byte {
	out := append([]byte(nil), w.buf...)
	if len(out)%2 != 0 {
		out = append(out, 0)
	}
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

// packedAnim builds a PackedBitDelta buffer. The frame-0 records come from
// bones; more writes events after them.
func packedAnim(bones []testBone, maxFrame int32, more func(w *bitWriter)) []byte {
	buf, _ := layout(bones, maxFrame, 0x100, 0x002)
	w := &bitWriter{}
	for _, b := range bones {
		w.position(16, int32(b.pos[0]), int32(b.pos[1]), int32(b.pos[2]))
		w.rotation(16, int32(b.rot[0]), int32(b.rot[1]), int32(b.rot[2]), int32(b.rot[3]))
	}
	if more != nil {
		more(w)
	}
	return append(buf, w.stored()...)
}

// identityBone is a root-level bone at the origin with no rotation.
func identityBone() testBone {
	return testBone{rot: [4]int16{4096, 0, 0, 0}}
}
