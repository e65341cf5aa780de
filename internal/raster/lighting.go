package raster

import (
	"math"

	"mesh-scene-composer/internal/mathutil"
)

// LightConfig is the fixed flat-shading setup: an ambient term plus one
// double-sided directional light given in camera space.
type LightConfig struct {
	LightDir mathutil.Vec3
	Ambient  float64
	Direct   float64
}

// DefaultLightConfig returns a light slightly above and right of the camera.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir: mathutil.Vec3{0.3, 0.5, 1}.Normalize(),
		Ambient:  0.35,
		Direct:   0.65,
	}
}

// ComputeShade returns the lighting scalar for a unit face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	return lc.Ambient + math.Abs(normal.Dot(lc.LightDir))*lc.Direct
}
