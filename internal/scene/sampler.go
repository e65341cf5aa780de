package scene

import (
	"math/rand/v2"

	"mesh-scene-composer/internal/mathutil"
)

// Sampler draws candidate transforms.
type Sampler interface {
	// Translation returns an offset with each component in [min, max].
	Translation(min, max float64) mathutil.Vec3
	// Rotation returns X, Y, Z angles in whole degrees in [0, 360).
	Rotation() [3]float64
}

// RandSampler samples uniformly from a seeded PCG source.
type RandSampler struct {
	rng *rand.Rand
}

// NewRandSampler returns a sampler whose sequence is fixed by seed.
func NewRandSampler(seed uint64) *RandSampler {
	return &RandSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandSampler) Translation(min, max float64) mathutil.Vec3 {
	var t mathutil.Vec3
	for k := range t {
		t[k] = min + s.rng.Float64()*(max-min)
	}
	return t
}

func (s *RandSampler) Rotation() [3]float64 {
	return [3]float64{
		float64(s.rng.IntN(360)),
		float64(s.rng.IntN(360)),
		float64(s.rng.IntN(360)),
	}
}

// Perm returns a random permutation of [0, n).
func (s *RandSampler) Perm(n int) []int {
	return s.rng.Perm(n)
}
