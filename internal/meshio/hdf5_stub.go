//go:build nohdf5

package meshio

import "github.com/pkg/errors"

func openHDF5(path string) (Container, error) {
	return nil, errors.Errorf("meshio: %s: built without HDF5 support (nohdf5 tag)", path)
}
