package anm

import (
	"encoding/binary"
	"fmt"

	"jetblack-anim/internal/mathutil"
)

const (
	headerSize = 0x1C

	// MaxBones is the size of the 6-bit bone index space. Bones past it
	// cannot be addressed by events and hold their frame-0 pose.
	MaxBones = 64
	// MaxGridCells bounds NumFrames*NumBones, the size of the dense pose
	// grids built for every animation.
	MaxGridCells = 1 << 20
	// MaxDepth is the number of slots in the FK rolling arrays.
	MaxDepth = 64
	// maxFrameHint bounds the declared frame count of a packed stream.
	maxFrameHint = 0xFFFF

	posScale      = 64.0
	rotScale      = 4096.0
	angVelDivisor = 131072.0

	bindStride = 8
)

// Header holds the little-endian words at the start of an animation.
type Header struct {
	NumBones          int
	FormatHint        int // 0x04: max frame (packed) or opaque flag (compact)
	FrameZeroOffset   int // 0x08
	BindingPoseOffset int // 0x0C
	SkeletonOffset    int // 0x10
	Flags14           uint32
	Flags18           uint32
}

// Flags returns the OR of the two opaque flag words.
func (h Header) Flags() uint32 {
	return h.Flags14 | h.Flags18
}

// reader reads bounds-checked little-endian fields. Unlike the tolerant
// stream readers, every miss here is fatal.
type reader struct {
	data []byte
}

func (r reader) need(off, n int) error {
	if off < 0 || n < 0 || off > len(r.data) || len(r.data)-off < n {
		return fmt.Errorf("anm: %d bytes at %#x past end of %d-byte buffer: %w", n, off, len(r.data), ErrTruncated)
	}
	return nil
}

func (r reader) u32(off int) (uint32, error) {
	if err := r.need(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[off:]), nil
}

func (r reader) i32(off int) (int, error) {
	v, err := r.u32(off)
	return int(int32(v)), err
}

func (r reader) i16(off int) (int16, error) {
	if err := r.need(off, 2); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(r.data[off:])), nil
}

func (r reader) u8(off int) (byte, error) {
	if err := r.need(off, 1); err != nil {
		return 0, err
	}
	return r.data[off], nil
}

func parseHeader(r reader) (Header, error) {
	if err := r.need(0, headerSize); err != nil {
		return Header{}, fmt.Errorf("anm: header: %w", err)
	}

	var h Header
	var err error
	fields := []struct {
		off int
		dst *int
	}{
		{0x00, &h.NumBones},
		{0x04, &h.FormatHint},
		{0x08, &h.FrameZeroOffset},
		{0x0C, &h.BindingPoseOffset},
		{0x10, &h.SkeletonOffset},
	}
	for _, f := range fields {
		if *f.dst, err = r.i32(f.off); err != nil {
			return Header{}, err
		}
	}
	if h.Flags14, err = r.u32(0x14); err != nil {
		return Header{}, err
	}
	if h.Flags18, err = r.u32(0x18); err != nil {
		return Header{}, err
	}

	if h.NumBones <= 0 {
		return Header{}, fmt.Errorf("anm: bone count %d: %w", h.NumBones, ErrCorrupt)
	}
	return h, nil
}

// readBindingPose reads the rest offsets: int16 triples, negated, stride 8.
func readBindingPose(r reader, h Header) ([]mathutil.Vec3, error) {
	if err := r.need(h.BindingPoseOffset, h.NumBones*bindStride-2); err != nil {
		return nil, fmt.Errorf("anm: binding pose table: %w", err)
	}
	pose := make([]mathutil.Vec3, h.NumBones)
	for i := range pose {
		base := h.BindingPoseOffset + i*bindStride
		for k := 0; k < 3; k++ {
			v, err := r.i16(base + k*2)
			if err != nil {
				return nil, err
			}
			pose[i][k] = -float64(v) / posScale
		}
	}
	return pose, nil
}

// readSkeleton reads one parent slot byte per bone. Slot 0 is the world
// root; a bone with parent slot p writes its own world pose into slot p+1.
func readSkeleton(r reader, h Header) ([]int, error) {
	if err := r.need(h.SkeletonOffset, h.NumBones); err != nil {
		return nil, fmt.Errorf("anm: skeleton table: %w", err)
	}
	def := make([]int, h.NumBones)
	for i := range def {
		b, err := r.u8(h.SkeletonOffset + i)
		if err != nil {
			return nil, err
		}
		if int(b)+1 >= MaxDepth {
			return nil, fmt.Errorf("anm: bone %d parent slot %d exceeds depth %d: %w", i, b, MaxDepth, ErrCorrupt)
		}
		def[i] = int(b)
	}
	return def, nil
}
