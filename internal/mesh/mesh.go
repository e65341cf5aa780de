// Package mesh holds the unified triangle mesh produced by the loader and
// transformed by the scene composer.
package mesh

import (
	"fmt"

	"github.com/jinzhu/copier"

	"mesh-scene-composer/internal/mathutil"
	"mesh-scene-composer/internal/spatial"
)

// Triangle holds three indices into a mesh's point buffer.
type Triangle [3]int

// Mesh is the disjoint union of all sub-meshes of one container file.
type Mesh struct {
	Source string          // container path the mesh was loaded from
	Points []mathutil.Vec3 // vertex positions, mutated in place by Rotate/Translate
	Tris   []Triangle
}

// Append adds one sub-mesh, offsetting its triangle indices by the current
// point count. Indices in tris are local to points.
func (m *Mesh) Append(points []mathutil.Vec3, tris []Triangle) {
	base := len(m.Points)
	m.Points = append(m.Points, points...)
	for _, t := range tris {
		m.Tris = append(m.Tris, Triangle{t[0] + base, t[1] + base, t[2] + base})
	}
}

// Empty reports whether the mesh has no drawable geometry.
func (m *Mesh) Empty() bool {
	return len(m.Points) == 0 || len(m.Tris) == 0
}

// Bounds returns the AABB of the current point positions.
func (m *Mesh) Bounds() spatial.Box {
	return spatial.BoxOf(m.Points)
}

// Validate checks that every triangle index refers to an existing point.
func (m *Mesh) Validate() error {
	n := len(m.Points)
	for i, t := range m.Tris {
		for _, v := range t {
			if v < 0 || v >= n {
				return fmt.Errorf("mesh: triangle %d index %d out of range [0,%d)", i, v, n)
			}
		}
	}
	return nil
}

// Clone returns a deep copy that shares no storage with m.
func (m *Mesh) Clone() (*Mesh, error) {
	var c Mesh
	if err := copier.CopyWithOption(&c, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("mesh: clone %s: %w", m.Source, err)
	}
	return &c, nil
}

// Rotate rotates every point about the origin by x, then y, then z degrees.
func (m *Mesh) Rotate(x, y, z float64) {
	r := mathutil.RotXYZDeg(x, y, z)
	for i, p := range m.Points {
		m.Points[i] = r.MulVec3(p)
	}
}

// Translate moves every point by t.
func (m *Mesh) Translate(t mathutil.Vec3) {
	for i, p := range m.Points {
		m.Points[i] = p.Add(t)
	}
}
