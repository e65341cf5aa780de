package raster

import (
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-scene-composer/internal/mathutil"
	"mesh-scene-composer/internal/mesh"
)

func cube(offset mathutil.Vec3, side float64) *mesh.Mesh {
	s := side
	m := &mesh.Mesh{}
	m.Append([]mathutil.Vec3{
		{0, 0, 0}, {s, 0, 0}, {s, s, 0}, {0, s, 0},
		{0, 0, s}, {s, 0, s}, {s, s, s}, {0, s, s},
	}, []mesh.Triangle{
		{0, 2, 1}, {0, 3, 2}, {4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4}, {1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6}, {3, 0, 4}, {3, 4, 7},
	})
	m.Translate(offset)
	return m
}

func TestRenderCube(t *testing.T) {
	f := Render([]*mesh.Mesh{cube(mathutil.Vec3{5, 5, 5}, 10)}, Options{Size: 64, Margin: 4})
	require.Equal(t, 64, f.Color.Bounds().Dx())
	require.Len(t, f.Depth, 64*64)

	center := f.Color.NRGBAAt(32, 32)
	assert.Equal(t, uint8(255), center.A)
	assert.Greater(t, center.G, center.R)
	assert.False(t, math32.IsNaN(f.Depth[32*64+32]))
	assert.Less(t, f.Depth[32*64+32], float32(0))

	corner := f.Color.NRGBAAt(0, 0)
	assert.Equal(t, uint8(0), corner.A)
	assert.True(t, math32.IsNaN(f.Depth[0]))
}

func TestRenderNearerWins(t *testing.T) {
	// The eye looks from +X+Y+Z, so the cube further along (1,1,1) is nearer.
	near := cube(mathutil.Vec3{20, 20, 20}, 10)
	far := cube(mathutil.Vec3{0, 0, 0}, 10)
	f := Render([]*mesh.Mesh{near, far}, Options{Size: 96, Color: color.NRGBA{200, 10, 10, 255}})

	// Both project onto the canvas center; the visible surface is near's.
	dNear := f.Depth[48*96+48]
	f2 := Render([]*mesh.Mesh{far, near}, Options{Size: 96})
	assert.Equal(t, dNear, f2.Depth[48*96+48])
	assert.Greater(t, f.Color.NRGBAAt(48, 48).R, f.Color.NRGBAAt(48, 48).G)
}

func TestRenderEmpty(t *testing.T) {
	bg := color.NRGBA{0, 0, 0, 255}
	f := Render(nil, Options{Size: 8, Background: bg})
	assert.Equal(t, bg, f.Color.NRGBAAt(3, 3))
	for _, d := range f.Depth {
		assert.True(t, math32.IsNaN(d))
	}
}

func TestIsoViewIsOrthonormal(t *testing.T) {
	R := IsoView()
	rows := [3]mathutil.Vec3{{R[0], R[1], R[2]}, {R[3], R[4], R[5]}, {R[6], R[7], R[8]}}
	for i := range rows {
		assert.InDelta(t, 1, rows[i].Len(), 1e-12)
		for j := i + 1; j < 3; j++ {
			assert.InDelta(t, 0, rows[i].Dot(rows[j]), 1e-12)
		}
	}
	// +Z projects upward on screen.
	assert.Greater(t, R.MulVec3(mathutil.Vec3{0, 0, 1})[1], 0.0)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeRGB, "RGB": ModeRGB, "depth": ModeDepth} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("normals")
	assert.Error(t, err)
	assert.Equal(t, "depth", ModeDepth.String())
}
