package skeleton

import (
	"encoding/binary"
	"math"
	"testing"

	"jetblack-anim/internal/anm"
	"jetblack-anim/internal/mathutil"
)

type rawBone struct {
	parent byte
	pos    [3]int16 // /64
}

// chain builds a single-frame Dark Alliance animation with unrotated bones.
func chain(t *testing.T, bones []rawBone) *anm.Animation {
	t.Helper()
	le := binary.LittleEndian
	n := len(bones)
	bindOff := 0x1C
	skelOff := bindOff + n*8
	frameOff := skelOff + n
	buf := make([]byte, frameOff)
	le.PutUint32(buf[0x00:], uint32(n))
	le.PutUint32(buf[0x08:], uint32(frameOff))
	le.PutUint32(buf[0x0C:], uint32(bindOff))
	le.PutUint32(buf[0x10:], uint32(skelOff))
	for i, b := range bones {
		buf[skelOff+i] = b.parent
		for _, v := range b.pos {
			buf = le.AppendUint16(buf, uint16(v))
		}
		buf = le.AppendUint16(buf, 4096) // w
		buf = append(buf, make([]byte, 6)...)
	}
	buf = append(buf, 0x00, 0x3F)

	a, err := anm.Decode(anm.DarkAlliance, buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return a
}

func TestSegments(t *testing.T) {
	a := chain(t, []rawBone{
		{parent: 0, pos: [3]int16{0, 0, 64}},
		{parent: 1, pos: [3]int16{64, 0, 0}},
		{parent: 0, pos: [3]int16{0, 128, 0}},
		{parent: 1, pos: [3]int16{0, 0, -64}},
	})
	want := []Segment{
		{0, mathutil.Vec3{0, 0, 0}, mathutil.Vec3{0, 0, 1}},
		{1, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{1, 0, 1}},
		{2, mathutil.Vec3{0, 0, 0}, mathutil.Vec3{0, 2, 0}},
		{3, mathutil.Vec3{0, 2, 0}, mathutil.Vec3{0, 2, -1}},
	}
	got := Segments(a, 0)
	if len(got) != len(want) {
		t.Fatalf("len(Segments) = %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %v want %v", i, got[i], want[i])
		}
	}
}

func TestBuildWorldMatrices(t *testing.T) {
	a := chain(t, []rawBone{
		{parent: 0, pos: [3]int16{64, 0, 0}},
		{parent: 1, pos: [3]int16{0, 64, 0}},
	})
	worlds := BuildWorldMatrices(a, 0)
	if len(worlds) != 2 {
		t.Fatalf("len = %d want 2", len(worlds))
	}
	if got := worlds[1].MulPoint(mathutil.Vec3{}); got != (mathutil.Vec3{1, 1, 0}) {
		t.Errorf("bone 1 origin = %v want (1,1,0)", got)
	}
	if got := worlds[0].MulPoint(mathutil.Vec3{0, 0, 1}); got != (mathutil.Vec3{1, 0, 1}) {
		t.Errorf("bone 0 maps (0,0,1) to %v", got)
	}
}

func TestBounds(t *testing.T) {
	a := chain(t, []rawBone{
		{parent: 0, pos: [3]int16{64, 128, 192}},
		{parent: 1, pos: [3]int16{-256, 0, 0}},
	})
	min, max := Bounds(a)
	if min != (mathutil.Vec3{-3, 0, 0}) || max != (mathutil.Vec3{1, 2, 3}) {
		t.Errorf("Bounds = %v %v", min, max)
	}
	for k := 0; k < 3; k++ {
		if math.IsInf(min[k], 0) || math.IsInf(max[k], 0) {
			t.Errorf("axis %d not grown", k)
		}
	}
}
