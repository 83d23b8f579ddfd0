// Package postprocess finishes rendered preview frames.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks a supersampled frame by an integer factor with
// CatmullRom filtering. The scaler works on premultiplied colour, so
// anti-aliased edges over transparency keep their colour instead of
// picking up a dark halo.
func Downsample(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx()/factor, b.Dy()/factor
	if w == 0 || h == 0 {
		return img
	}

	premul := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(premul, premul.Bounds(), img, b, draw.Src, nil)

	out := image.NewNRGBA(premul.Bounds())
	draw.Copy(out, image.Point{}, premul, premul.Bounds(), draw.Src, nil)
	return out
}
