// Package skeleton turns resolved animation poses into drawable geometry.
package skeleton

import (
	"math"

	"jetblack-anim/internal/anm"
	"jetblack-anim/internal/mathutil"
)

// Segment is one bone drawn from its parent's world position to its own.
type Segment struct {
	Bone  int
	Start mathutil.Vec3
	End   mathutil.Vec3
}

// BuildWorldMatrices computes the world transform of each bone at frame.
// Returns a slice of 4×4 matrices indexed by bone index.
func BuildWorldMatrices(a *anm.Animation, frame int) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, a.NumBones)
	for i, w := range a.WorldFrame(frame) {
		worlds[i] = mathutil.FromQuatTranslation(w.Rotation, w.Position)
	}
	return worlds
}

// Segments returns the bone segments of frame. Parents are found the same
// way the FK pass finds them: slot 0 is the world origin and each bone
// publishes its end point into the slot after its parent's.
func Segments(a *anm.Animation, frame int) []Segment {
	var slots [anm.MaxDepth]mathutil.Vec3
	segs := make([]Segment, 0, a.NumBones)
	for bone, w := range a.WorldFrame(frame) {
		slot := a.SkeletonDef[bone]
		segs = append(segs, Segment{Bone: bone, Start: slots[slot], End: w.Position})
		slots[slot+1] = w.Position
	}
	return segs
}

// Bounds returns the world-space box holding every segment of every frame,
// including the origin the root bones hang from.
func Bounds(a *anm.Animation) (min, max mathutil.Vec3) {
	min = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	grow := func(v mathutil.Vec3) {
		min = min.Min(v)
		max = max.Max(v)
	}
	grow(mathutil.Vec3{})
	for f := 0; f < a.NumFrames; f++ {
		for b := 0; b < a.NumBones; b++ {
			grow(a.World(f, b).Position)
		}
	}
	return min, max
}
