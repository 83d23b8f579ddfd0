package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// ContactSheet tiles frames left to right, top to bottom, columns per row.
// Every tile takes the size of the first frame; the sheet is transparent
// where no frame lands.
func ContactSheet(frames []*image.NRGBA, columns int) *image.NRGBA {
	if len(frames) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	if columns <= 0 || columns > len(frames) {
		columns = len(frames)
	}
	rows := (len(frames) + columns - 1) / columns

	tile := frames[0].Bounds().Size()
	sheet := image.NewNRGBA(image.Rect(0, 0, tile.X*columns, tile.Y*rows))
	for i, f := range frames {
		at := image.Pt((i%columns)*tile.X, (i/columns)*tile.Y)
		draw.Copy(sheet, at, f, image.Rectangle{Min: f.Bounds().Min, Max: f.Bounds().Min.Add(tile)}, draw.Src, nil)
	}
	return sheet
}
