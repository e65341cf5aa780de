// Package spatial holds the axis-aligned bounding box and the geometric
// predicates used to keep placed objects apart.
package spatial

import (
	"fmt"
	"math"

	"mesh-scene-composer/internal/mathutil"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min mathutil.Vec3 `json:"min"`
	Max mathutil.Vec3 `json:"max"`
}

// BoxOf returns the bounds of points. An empty slice yields the zero Box.
func BoxOf(points []mathutil.Vec3) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{
		Min: mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, p := range points {
		for k := 0; k < 3; k++ {
			if p[k] < b.Min[k] {
				b.Min[k] = p[k]
			}
			if p[k] > b.Max[k] {
				b.Max[k] = p[k]
			}
		}
	}
	return b
}

// Translate returns b shifted by t.
func (b Box) Translate(t mathutil.Vec3) Box {
	return Box{Min: b.Min.Add(t), Max: b.Max.Add(t)}
}

// Size returns the extent along each axis.
func (b Box) Size() mathutil.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box) Center() mathutil.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	u := b
	for k := 0; k < 3; k++ {
		u.Min[k] = math.Min(u.Min[k], o.Min[k])
		u.Max[k] = math.Max(u.Max[k], o.Max[k])
	}
	return u
}

// Bounds returns the box as (xmin, xmax, ymin, ymax, zmin, zmax).
func (b Box) Bounds() [6]float64 {
	return [6]float64{b.Min[0], b.Max[0], b.Min[1], b.Max[1], b.Min[2], b.Max[2]}
}

func (b Box) String() string {
	return fmt.Sprintf("[%.3g,%.3g]x[%.3g,%.3g]x[%.3g,%.3g]",
		b.Min[0], b.Max[0], b.Min[1], b.Max[1], b.Min[2], b.Max[2])
}
