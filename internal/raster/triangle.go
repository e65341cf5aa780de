package raster

import (
	"image/color"
	"math"

	"mesh-scene-composer/internal/mathutil"
)

// RasterizeTriangle fills one flat-shaded triangle given screen-space
// coordinates (px, py) and camera-space depth pz, with z-buffering.
// Indices outside the vertex arrays are ignored.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	vi [3]int,
	base color.NRGBA,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	// Face normal in screen space; x/y share one scale so the direction is
	// the camera-space one up to the y flip.
	e1 := mathutil.Vec3{x1 - x0, -(y1 - y0), z1 - z0}
	e2 := mathutil.Vec3{x2 - x0, -(y2 - y0), z2 - z0}
	n := e1.Cross(e2)
	if n.Len() < 1e-12 {
		return
	}
	shade := lc.ComputeShade(n.Normalize())
	r := clamp255(float64(base.R) * shade)
	g := clamp255(float64(base.G) * shade)
	b := clamp255(float64(base.B) * shade)

	// Bounding box
	w, h := fb.Width, fb.Height
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	if minX < 0 {
		minX = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			idx := rowOff + sx
			if z <= fb.ZBuf[idx] {
				continue
			}
			fb.ZBuf[idx] = z

			pi := idx * 4
			fb.Color[pi] = r
			fb.Color[pi+1] = g
			fb.Color[pi+2] = b
			fb.Color[pi+3] = base.A
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
