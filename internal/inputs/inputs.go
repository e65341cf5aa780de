// Package inputs finds mesh containers in an input directory.
package inputs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"mesh-scene-composer/internal/meshio"
)

// ErrInvalidInputDirectory means the configured input path is not a directory.
var ErrInvalidInputDirectory = errors.New("inputs: not a directory")

// List returns the container files directly inside dir, sorted by name.
// Files with extensions meshio cannot open are ignored.
func List(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInputDirectory, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInputDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("inputs: read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !meshio.Supported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
