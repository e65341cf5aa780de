package inputs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.hdf5", "a.h5", "c.yaml", "notes.txt", "config.json"} {
		touch(t, filepath.Join(dir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.h5"), 0755))

	paths, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.h5"),
		filepath.Join(dir, "b.hdf5"),
		filepath.Join(dir, "c.yaml"),
	}, paths)
}

func TestListRejectsNonDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "mesh.h5")
	touch(t, file)

	for _, p := range []string{file, filepath.Join(t.TempDir(), "missing")} {
		_, err := List(p)
		assert.True(t, errors.Is(err, ErrInvalidInputDirectory), "%s: %v", p, err)
	}
}

func TestListEmpty(t *testing.T) {
	paths, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, paths)
}
