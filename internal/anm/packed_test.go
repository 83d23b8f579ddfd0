package anm

import (
	"testing"

	"jetblack-anim/internal/mathutil"
)

func TestPackedFrameZero(t *testing.T) {
	bones := []testBone{
		{bind: [3]int16{-64, 0, 64}, pos: [3]int16{128, -64, 32}, rot: [4]int16{4096, 0, 0, 0}},
		{parent: 1, pos: [3]int16{0, 0, 0}, rot: [4]int16{0, 0, 4096, 0}},
	}
	a, err := Decode(ReturnToArms, packedAnim(bones, 0, func(w *bitWriter) {
		w.put(packedTerminator, 8)
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.Variant != PackedBitDelta || a.NumFrames != 1 {
		t.Fatalf("variant=%s frames=%d", a.Variant, a.NumFrames)
	}
	if got := a.BindingPose[0]; got != (mathutil.Vec3{1, 0, -1}) {
		t.Errorf("BindingPose[0] = %v", got)
	}
	if got := a.Local(0, 0).Position; got != (mathutil.Vec3{2, -1, 0.5}) {
		t.Errorf("bone 0 position = %v", got)
	}
	if got := a.Local(0, 1).Rotation; got != (mathutil.Quat{0, 1, 0, 0}) {
		t.Errorf("bone 1 rotation = %v want (0,1,0,0)", got)
	}
	if a.Header.Flags() != 0x102 {
		t.Errorf("Flags = %#x", a.Header.Flags())
	}
}

func TestPackedFrameCountFromHeader(t *testing.T) {
	bones := []testBone{identityBone(), identityBone()}
	a, err := Decode(JusticeLeagueHeroes, packedAnim(bones, 149, func(w *bitWriter) {
		w.event(10, true, 0)
		w.position(4, 3, 0, 0)
		w.put(packedTerminator, 8)
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.NumFrames != 150 {
		t.Fatalf("NumFrames = %d want 150", a.NumFrames)
	}
	// Bone 1 never moves.
	for f := 0; f < a.NumFrames; f++ {
		if p := a.Local(f, 1); p.Position != (mathutil.Vec3{}) || p.Rotation != mathutil.QuatIdentity() {
			t.Fatalf("frame %d bone 1 = %v", f, p)
		}
	}
}

func TestPackedPositionDivisor(t *testing.T) {
	bones := []testBone{{pos: [3]int16{64, 0, 0}, rot: [4]int16{4096, 0, 0, 0}}}
	a, err := Decode(ReturnToArms, packedAnim(bones, 20, func(w *bitWriter) {
		w.event(3, true, 0)
		w.position(11, 256, -512, 0)
		w.event(4, true, 0)
		w.position(1, 0, 0, 0)
		w.put(packedTerminator, 8)
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tests := []struct {
		frame int
		x, y  float64
	}{
		{0, 1, 0},
		{3, 1, 0},
		{5, 3, -4},
		{7, 5, -8},
		{20, 5, -8},
	}
	for _, tt := range tests {
		p := a.Local(tt.frame, 0).Position
		if !near(p[0], tt.x) || !near(p[1], tt.y) {
			t.Errorf("frame %d position = %v want x=%v y=%v", tt.frame, p, tt.x, tt.y)
		}
	}
}

func TestPackedRotationEvent(t *testing.T) {
	bones := []testBone{identityBone()}
	a, err := Decode(ReturnToArms, packedAnim(bones, 10, func(w *bitWriter) {
		w.event(2, false, 0)
		w.rotation(8, -100, 50, 0, 0)
		w.put(packedTerminator, 8)
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := a.Local(2, 0).AngularVelocity; got != (mathutil.Quat{50, 0, 0, -100}) {
		t.Errorf("angular velocity = %v", got)
	}
	r := a.Local(6, 0).Rotation
	if !near(r[0], 200.0/131072) || !near(r[3], 1-400.0/131072) {
		t.Errorf("frame 6 rotation = %v", r)
	}
}

func TestPackedTerminators(t *testing.T) {
	bones := []testBone{identityBone(), identityBone()}
	tests := []struct {
		name  string
		write func(w *bitWriter)
	}{
		{"frame delta 0xff", func(w *bitWriter) {
			w.put(packedTerminator, 8)
			w.put(0, 1)
			w.put(0, 6)
			w.rotation(16, 1000, 1000, 1000, 1000)
		}},
		{"bone past count", func(w *bitWriter) {
			w.event(1, true, 2)
			w.position(16, 1000, 1000, 1000)
			w.put(packedTerminator, 8)
		}},
		{"max frame reached", func(w *bitWriter) {
			w.event(5, true, 0)
			w.position(2, 0, 0, 0)
			w.event(0, true, 0)
			w.position(16, 1000, 1000, 1000)
			w.put(packedTerminator, 8)
		}},
	}
	for _, tt := range tests {
		a, err := Decode(ReturnToArms, packedAnim(bones, 5, tt.write))
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if a.NumFrames != 6 {
			t.Errorf("%s: NumFrames = %d want 6", tt.name, a.NumFrames)
		}
		for _, ev := range a.Events {
			if ev.Velocity[0] == 1000 || ev.AngularVelocity[0] == 1000 {
				t.Errorf("%s: event after terminator decoded: %v", tt.name, ev)
			}
		}
	}
}

func TestPackedEventsPastLastFrameDropped(t *testing.T) {
	bones := []testBone{identityBone()}
	a, err := Decode(ReturnToArms, packedAnim(bones, 4, func(w *bitWriter) {
		w.event(3, true, 0)
		w.position(8, 10, 0, 0)
		w.event(50, true, 0) // frame 53, past the grid
		w.position(8, 0, 0, 0)
		w.put(packedTerminator, 8)
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.NumFrames != 5 {
		t.Fatalf("NumFrames = %d want 5", a.NumFrames)
	}
	if last := a.Events[len(a.Events)-1]; last.Frame != 53 {
		t.Errorf("last sparse event frame = %d want 53", last.Frame)
	}
	if got := a.Local(4, 0).Position[0]; !near(got, 10.0/256) {
		t.Errorf("frame 4 x = %v want %v", got, 10.0/256)
	}
}

func TestPackedErrors(t *testing.T) {
	bones := []testBone{identityBone()}
	negative := packedAnim(bones, -1, nil)
	if _, err := Decode(ReturnToArms, negative); err == nil {
		t.Error("negative max frame decoded without error")
	}
	huge := packedAnim(bones, maxFrameHint+1, nil)
	if _, err := Decode(ReturnToArms, huge); err == nil {
		t.Error("oversized max frame decoded without error")
	}
	// Frame-0 region cut in half.
	full := packedAnim(bones, 3, nil)
	if _, err := Decode(ReturnToArms, full[:len(full)-6]); err == nil {
		t.Error("truncated frame-0 record decoded without error")
	}
}

func TestRotationEventKeepsStoredPosition(t *testing.T) {
	bones := []testBone{identityBone()}
	a, err := Decode(ReturnToArms, packedAnim(bones, 12, func(w *bitWriter) {
		w.event(1, true, 0)
		w.position(12, 1024, 0, 0)
		w.event(5, false, 0)
		w.rotation(4, 0, 1, 0, 0)
		w.put(packedTerminator, 8)
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ev := a.Events[len(a.Events)-1]
	if ev.Frame != 6 || ev.Position != (mathutil.Vec3{}) {
		t.Errorf("rotation event = frame %d position %v want frame 6 at origin", ev.Frame, ev.Position)
	}
	if got := a.Local(5, 0).Position[0]; !near(got, 16) {
		t.Errorf("frame 5 x = %v want 16", got)
	}
}
