package postprocess

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// OverBackground scales bg to the size of img and composites img over it.
// A nil bg returns img unchanged.
func OverBackground(img *image.NRGBA, bg image.Image) *image.NRGBA {
	if bg == nil {
		return img
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	xdraw.CatmullRom.Scale(out, b, bg, bg.Bounds(), draw.Src, nil)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
