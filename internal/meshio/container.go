// Package meshio reads hierarchical mesh containers and merges their
// sub-meshes into one mesh.Mesh.
//
// A container holds a top-level "parts" group. Each part may hold a "mesh"
// group whose children are numerically named sub-mesh groups with a
// "points" (N×3 float) and a "triangle" (M×3 int) array.
package meshio

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Array is a dense row-major array read from a container.
type Array[T float64 | int64] struct {
	Shape []int
	Data  []T
}

// Rows returns the size of the first dimension, or 0 for a scalar/empty array.
func (a Array[T]) Rows() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// Cols returns the size of the second dimension, or 0 for a rank-1 array.
func (a Array[T]) Cols() int {
	if len(a.Shape) < 2 {
		return 0
	}
	return a.Shape[1]
}

// Empty reports whether the array holds no elements.
func (a Array[T]) Empty() bool {
	return len(a.Data) == 0
}

// Group is one node of a container hierarchy. Lookups report absence with
// ok == false rather than an error.
type Group interface {
	// Names returns child names in stored order.
	Names() ([]string, error)
	Group(name string) (g Group, ok bool, err error)
	Float64Array(name string) (a Array[float64], ok bool, err error)
	Int64Array(name string) (a Array[int64], ok bool, err error)
}

// Container is an open container file.
type Container interface {
	Root() Group
	Close() error
}

// Open opens a container, choosing the backend from the file extension.
func Open(path string) (Container, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h5", ".hdf5":
		return openHDF5(path)
	case ".yaml", ".yml":
		return openYAML(path)
	default:
		return nil, errors.Errorf("meshio: unsupported container %s", path)
	}
}

// Supported reports whether Open has a backend for path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h5", ".hdf5", ".yaml", ".yml":
		return true
	}
	return false
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
