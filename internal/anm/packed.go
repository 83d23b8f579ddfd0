package anm

import (
	"fmt"

	"jetblack-anim/internal/bitstream"
	"jetblack-anim/internal/mathutil"
)

const (
	packedTerminator = 0xFF
	// Smallest possible event: frame delta, type flag, bone index, width.
	packedMinEventBits = 22
)

// decodePacked decodes the bit-packed dialect.
//
// Everything from the frame-0 offset to the end of the buffer is read through
// a bitstream.Reader. Each frame-0 record is a 4-bit width-1, three signed
// position fields (/64), a 4-bit width-1 and four signed rotation fields
// w,x,y,z (/4096). Events are an 8-bit frame delta (0xFF ends the stream),
// a type bit (1 position, 0 rotation), a 6-bit bone index (>= bone count
// ends the stream) and a width-prefixed group of raw signed components.
func decodePacked(data []byte) (*Animation, error) {
	r := reader{data: data}
	h, err := parseHeader(r)
	if err != nil {
		return nil, err
	}
	maxFrame := h.FormatHint
	if maxFrame < 0 || maxFrame > maxFrameHint {
		return nil, fmt.Errorf("anm: max frame %d: %w", maxFrame, ErrCorrupt)
	}
	bind, err := readBindingPose(r, h)
	if err != nil {
		return nil, err
	}
	skel, err := readSkeleton(r, h)
	if err != nil {
		return nil, err
	}
	if err := r.need(h.FrameZeroOffset, 0); err != nil {
		return nil, fmt.Errorf("anm: frame-0 region: %w", err)
	}

	br := bitstream.NewReader(data, h.FrameZeroOffset, len(data)-h.FrameZeroOffset)
	initial := make([]Pose, h.NumBones)
	for bone := range initial {
		p, err := readPackedPosition(br)
		if err != nil {
			return nil, &DecodeError{Variant: PackedBitDelta, Bone: bone, Frame: 0, Offset: -1, Err: err}
		}
		q, err := readPackedRotation(br)
		if err != nil {
			return nil, &DecodeError{Variant: PackedBitDelta, Bone: bone, Frame: 0, Offset: -1, Err: err}
		}
		initial[bone] = Pose{
			Bone:     bone,
			Frame:    0,
			Position: p.Scale(1 / posScale),
			Rotation: q.Scale(1 / rotScale),
		}
	}

	tl := newTimeline(initial, PackedBitDelta.VelocityDivisor())
	frame := 0
	for br.HasData(packedMinEventBits) && frame < maxFrame {
		count := int(br.ReadUnsigned(8))
		if count == packedTerminator {
			break
		}
		isPosition := br.ReadUnsigned(1) == 1
		bone := int(br.ReadUnsigned(6))
		if bone >= h.NumBones {
			break
		}
		frame += count

		// A group cut short by the end of the stream keeps its zero-filled
		// fields; only frame-0 records are strict.
		tl.touch(frame, bone)
		if isPosition {
			vel, _ := readPackedPosition(br)
			tl.position(vel)
		} else {
			angVel, _ := readPackedRotation(br)
			tl.rotation(angVel)
		}
	}

	return newAnimation(PackedBitDelta, h, maxFrame+1, bind, skel, tl.finish())
}

// readPackedPosition reads a width-prefixed x,y,z group as raw integers.
// Fields past the end of the stream read as zero and are reported as
// ErrTruncated alongside the zero-filled value.
func readPackedPosition(br *bitstream.Reader) (mathutil.Vec3, error) {
	var v mathutil.Vec3
	bits, err := readPackedWidth(br, len(v))
	for k := range v {
		v[k] = float64(br.ReadSigned(bits))
	}
	return v, err
}

// readPackedRotation reads a width-prefixed w,x,y,z group as raw integers.
func readPackedRotation(br *bitstream.Reader) (mathutil.Quat, error) {
	bits, err := readPackedWidth(br, 4)
	w := float64(br.ReadSigned(bits))
	x := float64(br.ReadSigned(bits))
	y := float64(br.ReadSigned(bits))
	z := float64(br.ReadSigned(bits))
	return mathutil.Quat{x, y, z, w}, err
}

// readPackedWidth reads the 4-bit width-minus-one prefix of an n-field group
// and checks that the whole group fits in the stream.
func readPackedWidth(br *bitstream.Reader, n int) (int, error) {
	start := br.BitPos()
	fits := br.HasData(4)
	bits := int(br.ReadUnsigned(4)) + 1
	if !fits || !br.HasData(n*bits) {
		return bits, fmt.Errorf("%d-field group at bit %d: %w", n, start, ErrTruncated)
	}
	return bits, nil
}
