// Package raster is a small software renderer for composed scenes: a fixed
// isometric orthographic camera, one flat-shaded mesh color and a z-buffer.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/chewxy/math32"

	"mesh-scene-composer/internal/mathutil"
	"mesh-scene-composer/internal/mesh"
	"mesh-scene-composer/internal/spatial"
)

// Mode selects what a render produces.
type Mode int

const (
	ModeRGB Mode = iota
	ModeDepth
)

// ParseMode accepts "rgb" or "depth" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "rgb", "color":
		return ModeRGB, nil
	case "depth":
		return ModeDepth, nil
	}
	return ModeRGB, fmt.Errorf("raster: unknown mode %q", s)
}

func (m Mode) String() string {
	if m == ModeDepth {
		return "depth"
	}
	return "rgb"
}

// DefaultMeshColor is the green every mesh is drawn with.
var DefaultMeshColor = color.NRGBA{0x00, 0xff, 0x60, 0xff}

// Options configure one render.
type Options struct {
	Size       int         // output is Size×Size pixels
	Margin     int         // empty border in pixels
	Color      color.NRGBA // mesh color, DefaultMeshColor if zero
	Background color.NRGBA // zero means transparent
}

// Frame is a rendered scene.
type Frame struct {
	Color *image.NRGBA
	// Depth holds camera-space depth per pixel, row-major, negative in front
	// of the camera. Pixels no triangle covers are NaN.
	Depth []float32
}

// IsoView returns the camera rotation for a view from (1,1,1) toward the
// origin with +Z up. Rows are camera right, up and back (toward the eye).
func IsoView() mathutil.Mat3 {
	back := mathutil.Vec3{1, 1, 1}.Normalize()
	forward := back.Scale(-1)
	right := forward.Cross(mathutil.Vec3{0, 0, 1}).Normalize()
	up := right.Cross(forward)
	return mathutil.Mat3Rows(right, up, back)
}

// Render rasterizes meshes, already placed in world space, to a frame.
func Render(meshes []*mesh.Mesh, opts Options) *Frame {
	size := opts.Size
	if size <= 0 {
		size = 512
	}
	base := opts.Color
	if base == (color.NRGBA{}) {
		base = DefaultMeshColor
	}

	fb := NewFrameBuffer(size, size, opts.Background)
	frame := &Frame{Color: image.NewNRGBA(image.Rect(0, 0, size, size))}

	var bounds spatial.Box
	drawable := 0
	for _, m := range meshes {
		if m == nil || m.Empty() {
			continue
		}
		if drawable == 0 {
			bounds = m.Bounds()
		} else {
			bounds = bounds.Union(m.Bounds())
		}
		drawable++
	}
	if drawable == 0 {
		copy(frame.Color.Pix, fb.Color)
		frame.Depth = depthFromZ(fb, 0)
		return frame
	}

	R := IsoView()
	center := bounds.Center()
	radius := bounds.Size().Len() / 2
	if radius < 1e-6 {
		radius = 1e-6
	}
	// Eye sits outside the bounding sphere along the view axis.
	eyeDist := 2 * radius

	// Fit the projected extent of all vertices into the canvas.
	spanX, spanY := 0.0, 0.0
	for _, m := range meshes {
		if m == nil || m.Empty() {
			continue
		}
		for _, p := range m.Points {
			c := R.MulVec3(p.Sub(center))
			spanX = math.Max(spanX, math.Abs(c[0]))
			spanY = math.Max(spanY, math.Abs(c[1]))
		}
	}
	span := 2 * math.Max(spanX, spanY)
	if span < 1e-6 {
		span = 1e-6
	}
	margin := opts.Margin
	if 2*margin >= size {
		margin = 0
	}
	scale := float64(size-2*margin) / span
	half := float64(size) / 2

	lc := DefaultLightConfig()
	for _, m := range meshes {
		if m == nil || m.Empty() {
			continue
		}
		px, py, pz := project(m.Points, R, center, scale, half)
		for _, t := range m.Tris {
			RasterizeTriangle(fb, px, py, pz, [3]int(t), base, &lc)
		}
	}

	copy(frame.Color.Pix, fb.Color)
	frame.Depth = depthFromZ(fb, eyeDist)
	return frame
}

// project maps world points to screen x/y (pixels, y down) and camera z.
func project(points []mathutil.Vec3, R mathutil.Mat3, center mathutil.Vec3, scale, half float64) ([]float64, []float64, []float64) {
	n := len(points)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i, p := range points {
		c := R.MulVec3(p.Sub(center))
		px[i] = c[0]*scale + half
		py[i] = -c[1]*scale + half
		pz[i] = c[2]
	}
	return px, py, pz
}

// depthFromZ converts the z-buffer to eye-relative depth.
func depthFromZ(fb *FrameBuffer, eyeDist float64) []float32 {
	out := make([]float32, len(fb.ZBuf))
	for i := range out {
		if !fb.Covered(i) {
			out[i] = math32.NaN()
			continue
		}
		out[i] = float32(fb.ZBuf[i] - eyeDist)
	}
	return out
}
