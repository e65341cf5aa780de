package meshio

import (
	"log/slog"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"mesh-scene-composer/internal/mathutil"
	"mesh-scene-composer/internal/mesh"
)

// Hierarchy names inside a container.
const (
	PartsGroup    = "parts"
	MeshGroup     = "mesh"
	PointsArray   = "points"
	TriangleArray = "triangle"
)

var (
	// ErrMissingHierarchy means the top-level parts group is absent.
	ErrMissingHierarchy = errors.New("meshio: missing parts hierarchy")
	// ErrNoGeometry means no sub-mesh in the file contributed geometry.
	ErrNoGeometry = errors.New("meshio: no geometry")
	// ErrMalformedGeometry means an array has the wrong shape or a triangle
	// index is out of range.
	ErrMalformedGeometry = errors.New("meshio: malformed geometry")
)

// Load reads the container at path and merges every sub-mesh of every part
// into one mesh.
func Load(path string) (*mesh.Mesh, error) {
	c, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	m, err := Merge(c.Root())
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	m.Source = path
	return m, nil
}

// Merge merges the sub-meshes found under root. Parts are visited in stored
// order, sub-meshes in ascending numeric order of their names.
func Merge(root Group) (*mesh.Mesh, error) {
	parts, ok, err := root.Group(PartsGroup)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMissingHierarchy
	}

	partNames, err := parts.Names()
	if err != nil {
		return nil, err
	}

	m := &mesh.Mesh{}
	for _, partName := range partNames {
		part, ok, err := parts.Group(partName)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		meshGroup, ok, err := part.Group(MeshGroup)
		if err != nil {
			return nil, errors.Wrapf(err, "part %s", partName)
		}
		if !ok {
			slog.Debug("part has no mesh group", "part", partName)
			continue
		}
		if err := mergeSubMeshes(m, meshGroup, partName); err != nil {
			return nil, errors.Wrapf(err, "part %s", partName)
		}
	}

	if m.Empty() {
		return nil, ErrNoGeometry
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(ErrMalformedGeometry, err.Error())
	}
	return m, nil
}

type subMeshName struct {
	name string
	id   int
}

// sortedSubMeshes returns the numerically named children of g ordered by
// value, so "2" sorts before "10".
func sortedSubMeshes(g Group, partName string) ([]subMeshName, error) {
	names, err := g.Names()
	if err != nil {
		return nil, err
	}
	out := make([]subMeshName, 0, len(names))
	for _, n := range names {
		id, err := strconv.Atoi(n)
		if err != nil {
			slog.Debug("skipping non-numeric sub-mesh", "part", partName, "name", n)
			continue
		}
		out = append(out, subMeshName{name: n, id: id})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out, nil
}

func mergeSubMeshes(m *mesh.Mesh, g Group, partName string) error {
	subs, err := sortedSubMeshes(g, partName)
	if err != nil {
		return err
	}
	for _, s := range subs {
		sub, ok, err := g.Group(s.name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		points, tris, ok, err := readSubMesh(sub)
		if err != nil {
			return errors.Wrapf(err, "sub-mesh %s", s.name)
		}
		if !ok {
			slog.Debug("skipping empty sub-mesh", "part", partName, "sub", s.name)
			continue
		}
		m.Append(points, tris)
	}
	return nil
}

// readSubMesh returns ok == false when either array is missing or empty.
func readSubMesh(g Group) ([]mathutil.Vec3, []mesh.Triangle, bool, error) {
	pts, ok, err := g.Float64Array(PointsArray)
	if err != nil || !ok || pts.Empty() {
		return nil, nil, false, err
	}
	idx, ok, err := g.Int64Array(TriangleArray)
	if err != nil || !ok || idx.Empty() {
		return nil, nil, false, err
	}

	if pts.Cols() != 3 {
		return nil, nil, false, errors.Wrapf(ErrMalformedGeometry, "points shape %v", pts.Shape)
	}
	if idx.Cols() != 3 {
		return nil, nil, false, errors.Wrapf(ErrMalformedGeometry, "triangle shape %v", idx.Shape)
	}

	points := make([]mathutil.Vec3, pts.Rows())
	for i := range points {
		copy(points[i][:], pts.Data[i*3:i*3+3])
	}

	n := int64(len(points))
	tris := make([]mesh.Triangle, idx.Rows())
	for i := range tris {
		for k := 0; k < 3; k++ {
			v := idx.Data[i*3+k]
			if v < 0 || v >= n {
				return nil, nil, false, errors.Wrapf(ErrMalformedGeometry, "triangle %d index %d out of range [0,%d)", i, v, n)
			}
			tris[i][k] = int(v)
		}
	}
	return points, tris, true, nil
}
