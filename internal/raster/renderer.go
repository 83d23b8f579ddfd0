// Package raster draws skeleton previews.
package raster

import (
	"image"
	"image/color"
	"slices"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"jetblack-anim/internal/skeleton"
)

var (
	nearColor  = color.NRGBA{R: 96, G: 200, B: 96, A: 255}
	farColor   = color.NRGBA{R: 24, G: 90, B: 40, A: 255}
	jointColor = color.NRGBA{R: 235, G: 235, B: 220, A: 255}
)

type point struct {
	X, Y float32
}

type projected struct {
	a, b  point
	depth float64
}

// RenderFrame draws segments as shaded sticks with a square marker at each
// joint onto a transparent size×size image. Segments further from the
// camera are drawn first and darker.
func RenderFrame(segs []skeleton.Segment, cam Camera, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if len(segs) == 0 || size <= 0 {
		return img
	}

	proj := make([]projected, len(segs))
	minD, maxD := 0.0, 0.0
	for i, s := range segs {
		ax, ay, ad := cam.Project(s.Start, size)
		bx, by, bd := cam.Project(s.End, size)
		d := (ad + bd) / 2
		proj[i] = projected{a: point{ax, ay}, b: point{bx, by}, depth: d}
		if i == 0 || d < minD {
			minD = d
		}
		if i == 0 || d > maxD {
			maxD = d
		}
	}
	// Larger view-space z faces the viewer.
	slices.SortStableFunc(proj, func(p, q projected) int {
		switch {
		case p.depth < q.depth:
			return -1
		case p.depth > q.depth:
			return 1
		}
		return 0
	})

	half := math32.Max(1, float32(size)/256)
	var z vector.Rasterizer
	for _, p := range proj {
		t := 1.0
		if maxD > minD {
			t = (p.depth - minD) / (maxD - minD)
		}
		fill(&z, img, stick(p.a, p.b, half), lerp(farColor, nearColor, t))
	}
	for _, p := range proj {
		fill(&z, img, square(p.b, half*1.75), jointColor)
	}
	return img
}

// stick returns the quad of half-width w around a→b. A degenerate segment
// collapses to a square.
func stick(a, b point, w float32) []point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math32.Sqrt(dx*dx + dy*dy)
	if l < 1e-3 {
		return square(a, w)
	}
	nx, ny := -dy/l*w, dx/l*w
	return []point{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	}
}

func square(c point, w float32) []point {
	return []point{
		{c.X - w, c.Y - w},
		{c.X + w, c.Y - w},
		{c.X + w, c.Y + w},
		{c.X - w, c.Y + w},
	}
}

// fill rasterizes a closed polygon over its own bounding box only.
func fill(z *vector.Rasterizer, img *image.NRGBA, pts []point, col color.NRGBA) {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math32.Min(minX, p.X), math32.Max(maxX, p.X)
		minY, maxY = math32.Min(minY, p.Y), math32.Max(maxY, p.Y)
	}
	r := image.Rect(
		int(math32.Floor(minX)), int(math32.Floor(minY)),
		int(math32.Ceil(maxX)), int(math32.Ceil(maxY)),
	).Intersect(img.Bounds())
	if r.Empty() {
		return
	}

	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	z.Reset(r.Dx(), r.Dy())
	z.MoveTo(pts[0].X-ox, pts[0].Y-oy)
	for _, p := range pts[1:] {
		z.LineTo(p.X-ox, p.Y-oy)
	}
	z.ClosePath()
	z.Draw(img, r, image.NewUniform(col), image.Point{})
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
