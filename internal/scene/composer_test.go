package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-scene-composer/internal/mathutil"
	"mesh-scene-composer/internal/mesh"
	"mesh-scene-composer/internal/spatial"
)

// cubeMesh returns a closed cube with its min corner at the origin.
func cubeMesh(side float64) *mesh.Mesh {
	s := side
	m := &mesh.Mesh{Source: "cube"}
	m.Append([]mathutil.Vec3{
		{0, 0, 0}, {s, 0, 0}, {s, s, 0}, {0, s, 0},
		{0, 0, s}, {s, 0, s}, {s, s, s}, {0, s, s},
	}, []mesh.Triangle{
		{0, 2, 1}, {0, 3, 2}, {4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4}, {1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6}, {3, 0, 4}, {3, 4, 7},
	})
	return m
}

// scripted replays fixed translations and rotations, repeating the last one.
type scripted struct {
	translations []mathutil.Vec3
	rotations    [][3]float64
	nt, nr       int
}

func (s *scripted) Translation(min, max float64) mathutil.Vec3 {
	t := s.translations[min2(s.nt, len(s.translations)-1)]
	s.nt++
	return t
}

func (s *scripted) Rotation() [3]float64 {
	if len(s.rotations) == 0 {
		return [3]float64{}
	}
	r := s.rotations[min2(s.nr, len(s.rotations)-1)]
	s.nr++
	return r
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestFirstObjectAcceptedImmediately(t *testing.T) {
	c := NewComposer(DefaultParams(), 1)
	placed, err := c.PlaceAll([]*mesh.Mesh{cubeMesh(10)})
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, 1, placed[0].Trials)
	assert.False(t, placed[0].Fallback)
}

func TestFixedPlacementFallsBack(t *testing.T) {
	// Two 10-unit cubes, minSeparation 5, translate range (0,0): they always
	// land on top of each other, so the second one falls back.
	for _, trials := range []int{1, 25} {
		p := Params{TranslateMin: 0, TranslateMax: 0, MinSeparation: 5, MaxTrials: trials}
		placed, err := NewComposer(p, 7).PlaceAll([]*mesh.Mesh{cubeMesh(10), cubeMesh(10)})
		require.NoError(t, err)
		require.Len(t, placed, 2)

		assert.False(t, placed[0].Fallback)
		assert.True(t, placed[1].Fallback, "trials=%d", trials)
		assert.Equal(t, trials, placed[1].Trials)
		assert.Len(t, placed[1].Rotations, trials)
		assert.True(t, spatial.Overlap(placed[0].Box, placed[1].Box, 0))
	}
}

func TestRetryFindsSeparatedSlot(t *testing.T) {
	s := &scripted{translations: []mathutil.Vec3{
		{0, 0, 0},  // first cube
		{12, 0, 0}, // 2 apart: rejected with minSeparation 5
		{14, 3, 0}, // 4 apart: rejected
		{15, 0, 0}, // exactly 5 apart: accepted
	}}
	c := &Composer{Params: Params{MinSeparation: 5, MaxTrials: 10}, Sampler: s}
	placed, err := c.PlaceAll([]*mesh.Mesh{cubeMesh(10), cubeMesh(10)})
	require.NoError(t, err)

	assert.Equal(t, 3, placed[1].Trials)
	assert.False(t, placed[1].Fallback)
	assert.Equal(t, mathutil.Vec3{15, 0, 0}, placed[1].Translation)
	assert.Equal(t, [6]float64{15, 25, 0, 10, 0, 10}, placed[1].Box.Bounds())
}

func TestNeverDropsObjects(t *testing.T) {
	meshes := make([]*mesh.Mesh, 12)
	for i := range meshes {
		meshes[i] = cubeMesh(50)
	}
	p := Params{TranslateMin: 0, TranslateMax: 60, MinSeparation: 10, MaxTrials: 20}
	placed, err := NewComposer(p, 3).PlaceAll(meshes)
	require.NoError(t, err)
	assert.Len(t, placed, len(meshes))
}

func TestAcceptedPlacementsRespectConstraints(t *testing.T) {
	meshes := make([]*mesh.Mesh, 8)
	for i := range meshes {
		meshes[i] = cubeMesh(5)
	}
	p := Params{TranslateMin: -100, TranslateMax: 100, MinSeparation: 2, MaxSeparation: 80, MaxTrials: 500}
	placed, err := NewComposer(p, 42).PlaceAll(meshes)
	require.NoError(t, err)
	require.Len(t, placed, len(meshes))

	for i, pi := range placed {
		if pi.Fallback {
			continue
		}
		for _, pj := range placed[:i] {
			assert.False(t, spatial.Overlap(pi.Box, pj.Box, p.MinSeparation))
			assert.LessOrEqual(t, spatial.Distance(pi.Box, pj.Box), p.MaxSeparation)
		}
	}
}

func TestNoSeparationCapNeverRejectsOnDistance(t *testing.T) {
	s := &scripted{translations: []mathutil.Vec3{{0, 0, 0}, {1e6, 1e6, 1e6}}}
	c := &Composer{Params: Params{MaxTrials: 5}, Sampler: s}
	placed, err := c.PlaceAll([]*mesh.Mesh{cubeMesh(1), cubeMesh(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, placed[1].Trials)
	assert.False(t, placed[1].Fallback)
}

func TestSeparationCapRejects(t *testing.T) {
	s := &scripted{translations: []mathutil.Vec3{{0, 0, 0}, {100, 0, 0}}}
	c := &Composer{Params: Params{MaxSeparation: 10, MaxTrials: 4}, Sampler: s}
	placed, err := c.PlaceAll([]*mesh.Mesh{cubeMesh(1), cubeMesh(1)})
	require.NoError(t, err)

	// Every trial is too far; the last candidate is kept anyway.
	assert.True(t, placed[1].Fallback)
	assert.Equal(t, 4, placed[1].Trials)
	assert.Equal(t, mathutil.Vec3{100, 0, 0}, placed[1].Translation)
	assert.InDelta(t, 100, placed[1].Mesh.Bounds().Min[0], 1e-9)
}

func TestRotationAccumulatesAcrossTrials(t *testing.T) {
	rots := [][3]float64{{0, 0, 0}, {90, 0, 0}, {0, 90, 0}, {0, 0, 90}}
	s := &scripted{
		translations: []mathutil.Vec3{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {30, 0, 0}},
		rotations:    rots,
	}
	c := &Composer{Params: Params{MaxTrials: 10}, Sampler: s}
	in := cubeMesh(10)
	placed, err := c.PlaceAll([]*mesh.Mesh{in, in})
	require.NoError(t, err)

	got := placed[1]
	require.Equal(t, 3, got.Trials)
	assert.Equal(t, rots[1:], got.Rotations)

	// All three rotations are applied to the copy, translation only once.
	r := got.Rotation()
	for i, p := range in.Points {
		want := r.MulVec3(p).Add(got.Translation)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, want[k], got.Mesh.Points[i][k], 1e-9)
		}
	}
	// The constraint box ignores rotation.
	assert.Equal(t, in.Bounds().Translate(got.Translation), got.Box)
}

func TestPlaceAllDoesNotMutateInput(t *testing.T) {
	in := cubeMesh(3)
	before, err := in.Clone()
	require.NoError(t, err)

	_, err = NewComposer(DefaultParams(), 9).PlaceAll([]*mesh.Mesh{in, in, in})
	require.NoError(t, err)
	assert.Equal(t, before, in)
}

func TestSameSeedSamePlacements(t *testing.T) {
	meshes := []*mesh.Mesh{cubeMesh(10), cubeMesh(20), cubeMesh(5)}
	p := Params{TranslateMax: 100, MinSeparation: 1, MaxTrials: 100}

	a, err := NewComposer(p, 11).PlaceAll(meshes)
	require.NoError(t, err)
	b, err := NewComposer(p, 11).PlaceAll(meshes)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRandSamplerRanges(t *testing.T) {
	s := NewRandSampler(5)
	for i := 0; i < 1000; i++ {
		tr := s.Translation(-3, 8)
		for _, v := range tr {
			assert.GreaterOrEqual(t, v, -3.0)
			assert.LessOrEqual(t, v, 8.0)
		}
		for _, a := range s.Rotation() {
			assert.GreaterOrEqual(t, a, 0.0)
			assert.Less(t, a, 360.0)
			assert.Equal(t, float64(int(a)), a)
		}
	}
	assert.Equal(t, mathutil.Vec3{2, 2, 2}, s.Translation(2, 2))
}
