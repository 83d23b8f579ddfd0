package raster

import (
	"math"

	"jetblack-anim/internal/mathutil"
)

// Camera is an orthographic view. Scale is in image widths per world unit,
// so one camera serves every output size.
type Camera struct {
	View   mathutil.Mat3
	Center mathutil.Vec3 // view space
	Scale  float64
}

// FitCamera frames the world-space box [min, max] seen through view,
// leaving margin (a fraction of the image) free on every side.
func FitCamera(view mathutil.Mat3, min, max mathutil.Vec3, margin float64) Camera {
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < 8; i++ {
		corner := min
		if i&1 != 0 {
			corner[0] = max[0]
		}
		if i&2 != 0 {
			corner[1] = max[1]
		}
		if i&4 != 0 {
			corner[2] = max[2]
		}
		tv := view.MulVec3(corner)
		lo = lo.Min(tv)
		hi = hi.Max(tv)
	}

	span := hi[0] - lo[0]
	if spanY := hi[1] - lo[1]; spanY > span {
		span = spanY
	}
	if span < 0.001 {
		span = 0.001
	}
	if margin < 0 || margin >= 0.5 {
		margin = 0
	}
	return Camera{
		View:   view,
		Center: lo.Add(hi).Scale(0.5),
		Scale:  (1 - 2*margin) / span,
	}
}

// Project maps a world-space point to pixel coordinates on a size×size
// image (y down) and returns its view-space depth.
func (c Camera) Project(v mathutil.Vec3, size int) (x, y float32, depth float64) {
	tv := c.View.MulVec3(v)
	s := float64(size)
	x = float32((0.5 + (tv[0]-c.Center[0])*c.Scale) * s)
	y = float32((0.5 - (tv[1]-c.Center[1])*c.Scale) * s)
	return x, y, tv[2]
}
