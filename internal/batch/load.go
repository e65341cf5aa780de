package batch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"mesh-scene-composer/internal/mesh"
	"mesh-scene-composer/internal/meshio"
)

// LoadFailure records a container that could not be loaded.
type LoadFailure struct {
	Path string
	Err  error
}

// LoadMeshes loads every path with at most workers loads in flight. A file
// that fails to load is reported and left out; the others still load.
// Loaded meshes keep the order of paths.
func LoadMeshes(ctx context.Context, paths []string, workers int) ([]*mesh.Mesh, []LoadFailure, error) {
	loaded := make([]*mesh.Mesh, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := meshio.Load(p)
			if err != nil {
				errs[i] = err
				return nil
			}
			slog.Debug("loaded mesh", "path", p, "points", len(m.Points), "triangles", len(m.Tris))
			loaded[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var meshes []*mesh.Mesh
	var failures []LoadFailure
	for i, p := range paths {
		if errs[i] != nil {
			slog.Warn("skipping mesh", "path", p, "err", errs[i])
			failures = append(failures, LoadFailure{Path: p, Err: errs[i]})
			continue
		}
		meshes = append(meshes, loaded[i])
	}
	return meshes, failures, nil
}
