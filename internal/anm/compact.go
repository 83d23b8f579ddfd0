package anm

import (
	"fmt"

	"jetblack-anim/internal/mathutil"
)

const (
	compactFrameZeroStride = 0x0E
	compactTerminator      = 0x3F

	compactFlagRotation = 0x80
	compactFlagBytes    = 0x40
)

// decodeCompact decodes the byte-oriented dialect.
//
// Frame 0 is a fixed 14-byte record per bone: int16 x,y,z (/64) followed by
// int16 w,x,y,z (/4096). Each following event is a frame delta byte, then a
// byte holding the bone index in its low 6 bits, bit 7 set for a rotation
// (4 components) or clear for a position (3 components), and bit 6 set for
// int8 components or clear for int16. The decoded components become the
// bone's new velocity unscaled. 0x3F as the bone index ends the stream.
func decodeCompact(data []byte) (*Animation, error) {
	r := reader{data: data}
	h, err := parseHeader(r)
	if err != nil {
		return nil, err
	}
	bind, err := readBindingPose(r, h)
	if err != nil {
		return nil, err
	}
	skel, err := readSkeleton(r, h)
	if err != nil {
		return nil, err
	}

	initial := make([]Pose, h.NumBones)
	for bone := range initial {
		off := h.FrameZeroOffset + bone*compactFrameZeroStride
		var v [7]int16
		for k := range v {
			if v[k], err = r.i16(off + k*2); err != nil {
				return nil, &DecodeError{Variant: CompactByteDelta, Bone: bone, Frame: 0, Offset: off, Err: err}
			}
		}
		initial[bone] = Pose{
			Bone:  bone,
			Frame: 0,
			Position: mathutil.Vec3{
				float64(v[0]) / posScale,
				float64(v[1]) / posScale,
				float64(v[2]) / posScale,
			},
			Rotation: mathutil.Quat{
				float64(v[4]) / rotScale,
				float64(v[5]) / rotScale,
				float64(v[6]) / rotScale,
				float64(v[3]) / rotScale,
			},
		}
	}

	tl := newTimeline(initial, CompactByteDelta.VelocityDivisor())
	frame := 0
	off := h.FrameZeroOffset + h.NumBones*compactFrameZeroStride
	for off+2 <= len(data) {
		count := int(data[off])
		ctl := data[off+1]
		bone := int(ctl & 0x3F)
		if bone == compactTerminator {
			break
		}
		if bone >= h.NumBones {
			return nil, &DecodeError{Variant: CompactByteDelta, Bone: bone, Frame: frame + count, Offset: off,
				Err: fmt.Errorf("bone index beyond bone count %d: %w", h.NumBones, ErrCorrupt)}
		}
		eventOff := off
		off += 2
		frame += count

		n := 3
		if ctl&compactFlagRotation != 0 {
			n = 4
		}
		width := 2
		if ctl&compactFlagBytes != 0 {
			width = 1
		}
		if err := r.need(off, n*width); err != nil {
			return nil, &DecodeError{Variant: CompactByteDelta, Bone: bone, Frame: frame, Offset: eventOff, Err: err}
		}
		var c [4]float64
		for k := 0; k < n; k++ {
			if width == 1 {
				c[k] = float64(int8(data[off]))
			} else {
				v, _ := r.i16(off)
				c[k] = float64(v)
			}
			off += width
		}

		tl.touch(frame, bone)
		if n == 4 {
			tl.rotation(mathutil.Quat{c[1], c[2], c[3], c[0]})
		} else {
			tl.position(mathutil.Vec3{c[0], c[1], c[2]})
		}
	}

	return newAnimation(CompactByteDelta, h, frame+1, bind, skel, tl.finish())
}
