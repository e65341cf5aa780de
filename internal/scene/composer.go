// Package scene places meshes into a shared scene by rejection sampling.
package scene

import (
	"fmt"
	"log/slog"

	"mesh-scene-composer/internal/mathutil"
	"mesh-scene-composer/internal/mesh"
	"mesh-scene-composer/internal/spatial"
)

// Placed is one mesh after placement.
type Placed struct {
	Mesh *mesh.Mesh // transformed copy; the input mesh is never modified

	// Rotations holds every X/Y/Z triple (degrees) applied to Mesh, in order.
	// Rotation accumulates over rejected trials.
	Rotations   [][3]float64
	Translation mathutil.Vec3

	// Box is the pre-rotation bounds shifted by Translation. It is the box
	// the overlap and separation tests were run against.
	Box spatial.Box

	Trials   int  // trials used, 1..MaxTrials
	Fallback bool // true if accepted after exhausting MaxTrials
}

// Rotation returns the combined rotation applied to the mesh.
func (p *Placed) Rotation() mathutil.Mat3 {
	r := mathutil.Mat3Identity()
	for _, a := range p.Rotations {
		r = mathutil.Mat3Mul(mathutil.RotXYZDeg(a[0], a[1], a[2]), r)
	}
	return r
}

// Composer assigns random rigid transforms to meshes. It is not safe for
// concurrent use; one Composer composes one scene at a time.
type Composer struct {
	Params  Params
	Sampler Sampler
}

// NewComposer returns a Composer drawing from a PCG source seeded with seed.
func NewComposer(p Params, seed uint64) *Composer {
	return &Composer{Params: p, Sampler: NewRandSampler(seed)}
}

// PlaceAll places meshes in order. Each mesh is tested against the boxes of
// the meshes placed before it. Every input mesh appears in the result.
func (c *Composer) PlaceAll(meshes []*mesh.Mesh) ([]Placed, error) {
	out := make([]Placed, 0, len(meshes))
	boxes := make([]spatial.Box, 0, len(meshes))
	for i, m := range meshes {
		p, err := c.place(m, boxes)
		if err != nil {
			return nil, fmt.Errorf("scene: place object %d: %w", i, err)
		}
		boxes = append(boxes, p.Box)
		out = append(out, p)
	}
	return out, nil
}

func (c *Composer) place(m *mesh.Mesh, placed []spatial.Box) (Placed, error) {
	work, err := m.Clone()
	if err != nil {
		return Placed{}, err
	}
	orig := m.Bounds()
	p := Placed{Mesh: work}

	trials := c.Params.trials()
	for trial := 1; trial <= trials; trial++ {
		t := c.Sampler.Translation(c.Params.TranslateMin, c.Params.TranslateMax)
		rot := c.Sampler.Rotation()
		work.Rotate(rot[0], rot[1], rot[2])

		p.Rotations = append(p.Rotations, rot)
		p.Translation = t
		p.Box = orig.Translate(t)
		p.Trials = trial

		if c.tooFar(p.Box, placed) {
			continue
		}
		if !overlapsAny(p.Box, placed, c.Params.MinSeparation) {
			work.Translate(t)
			slog.Debug("placed object", "source", m.Source, "trials", trial, "box", p.Box)
			return p, nil
		}
	}

	// Budget exhausted: keep the last candidate as is.
	work.Translate(p.Translation)
	p.Fallback = true
	slog.Warn("placement budget exhausted, accepting last candidate",
		"source", m.Source, "trials", trials, "box", p.Box)
	return p, nil
}

// tooFar reports whether box is more than MaxSeparation away from any
// placed box. It never rejects when the cap is disabled or nothing is placed.
func (c *Composer) tooFar(box spatial.Box, placed []spatial.Box) bool {
	if c.Params.MaxSeparation <= 0 {
		return false
	}
	for _, b := range placed {
		if spatial.Distance(box, b) > c.Params.MaxSeparation {
			return true
		}
	}
	return false
}

func overlapsAny(box spatial.Box, placed []spatial.Box, minSep float64) bool {
	for _, b := range placed {
		if spatial.Overlap(box, b, minSep) {
			return true
		}
	}
	return false
}
