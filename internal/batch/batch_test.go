package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-scene-composer/internal/imageio"
	"mesh-scene-composer/internal/mathutil"
	"mesh-scene-composer/internal/mesh"
	"mesh-scene-composer/internal/raster"
	"mesh-scene-composer/internal/scene"
)

const cubeYAML = `
parts:
  body:
    mesh:
      "0":
        points: [[0,0,0],[10,0,0],[0,10,0],[0,0,10]]
        triangle: [[0,1,2],[0,1,3],[0,2,3],[1,2,3]]
`

func tetra(name string) *mesh.Mesh {
	m := &mesh.Mesh{Source: name}
	m.Append(
		[]mathutil.Vec3{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}, {0, 0, 10}},
		[]mesh.Triangle{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},
	)
	return m
}

func testConfig(dir string) Config {
	return Config{
		OutputDir:   dir,
		Scenes:      3,
		Seed:        7,
		Placement:   scene.DefaultParams(),
		Mode:        raster.ModeRGB,
		Format:      imageio.FormatPNG,
		RenderSize:  32,
		Supersample: 2,
		MeshColor:   raster.DefaultMeshColor,
		Workers:     2,
	}
}

func TestLoadMeshesSkipsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.yaml")
	bad := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(good, []byte(cubeYAML), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("other: {}\n"), 0644))

	meshes, failures, err := LoadMeshes(context.Background(), []string{good, bad, good}, 2)
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, good, meshes[0].Source)
	assert.Len(t, meshes[0].Points, 4)
	require.Len(t, failures, 1)
	assert.Equal(t, bad, failures[0].Path)
}

func TestLoadMeshesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := LoadMeshes(ctx, []string{"x.yaml"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeSceneIsDeterministic(t *testing.T) {
	cfg := testConfig(t.TempDir())
	meshes := []*mesh.Mesh{tetra("a"), tetra("b"), tetra("c")}

	p1, err := ComposeScene(cfg, meshes, 1)
	require.NoError(t, err)
	p2, err := ComposeScene(cfg, meshes, 1)
	require.NoError(t, err)
	require.Len(t, p1, 3)
	for i := range p1 {
		assert.Equal(t, p1[i].Translation, p2[i].Translation)
		assert.Equal(t, p1[i].Rotations, p2[i].Rotations)
	}
}

func TestComposeSceneSelectsObjects(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.ObjectsPerScene = 2
	meshes := []*mesh.Mesh{tetra("a"), tetra("b"), tetra("c"), tetra("d")}

	placed, err := ComposeScene(cfg, meshes, 0)
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.NotEqual(t, placed[0].Mesh.Source, placed[1].Mesh.Source)
}

func TestRunWritesScenesAndManifest(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	meshes := []*mesh.Mesh{tetra("a"), tetra("b")}

	results := Run(cfg, meshes)
	require.Len(t, results, 3)
	for i, r := range results {
		require.True(t, r.Success, r.Error)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, SceneSeed(7, i), r.Seed)
		assert.Len(t, r.Placed, 2)
		assert.FileExists(t, filepath.Join(dir, ImageName(i, imageio.FormatPNG)))
	}

	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, WriteManifest(path, cfg.Mode.String(), results))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "rgb", entries[0].Mode)
	assert.Equal(t, "scene_0000.png", entries[0].Image)
	require.Len(t, entries[0].Objects, 2)
	obj := entries[0].Objects[0]
	assert.Equal(t, "a", obj.Source)
	assert.NotEmpty(t, obj.Rotations)
	assert.LessOrEqual(t, obj.Box[0], obj.Box[1])
}

func TestRenderSceneDepth(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Mode = raster.ModeDepth
	placed, err := ComposeScene(cfg, []*mesh.Mesh{tetra("a")}, 0)
	require.NoError(t, err)

	img := RenderScene(cfg, placed)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestManifestSkipsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{{Index: 0, Error: "boom"}}
	require.NoError(t, WriteManifest(path, "rgb", results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestManifestCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "manifest.json")
	require.NoError(t, WriteManifest(path, "depth", nil))
	assert.FileExists(t, path)
}

func TestManifestDirectoryError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := WriteManifest(filepath.Join(blocker, "manifest.json"), "rgb", nil)
	assert.ErrorContains(t, err, "manifest dir")
}
