package postprocess

import (
	"image"

	"github.com/chewxy/math32"
)

// NormalizeDepth turns a raw w×h depth buffer into an 8-bit grayscale image.
// NaN entries count as 0. Values are mapped linearly so the minimum becomes
// white and the maximum black; a zero range is treated as 1.
func NormalizeDepth(depth []float32, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	n := w * h
	if n == 0 || len(depth) < n {
		return img
	}

	lo, hi := math32.Inf(1), math32.Inf(-1)
	for _, d := range depth[:n] {
		if math32.IsNaN(d) {
			d = 0
		}
		lo = math32.Min(lo, d)
		hi = math32.Max(hi, d)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := depth[y*w+x]
			if math32.IsNaN(d) {
				d = 0
			}
			norm := (d - lo) / span
			img.Pix[y*img.Stride+x] = uint8(255 * (1 - norm))
		}
	}
	return img
}
