package batch

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mesh-scene-composer/internal/imageio"
	"mesh-scene-composer/internal/mesh"
	"mesh-scene-composer/internal/postprocess"
	"mesh-scene-composer/internal/raster"
	"mesh-scene-composer/internal/scene"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir       string
	Scenes          int
	ObjectsPerScene int // 0 = every mesh in every scene
	Seed            uint64
	Placement       scene.Params

	Mode            raster.Mode
	Format          imageio.Format
	RenderSize      int
	Supersample     int
	MeshColor       color.NRGBA
	Background      color.NRGBA
	BackgroundImage image.Image

	Workers int
}

// Result holds the outcome of composing and rendering one scene.
type Result struct {
	Index     int
	ID        uuid.UUID
	Seed      uint64
	Image     string // path relative to OutputDir
	Placed    []scene.Placed
	Fallbacks int
	Success   bool
	Error     string
}

// Run composes and renders cfg.Scenes scenes using a worker pool. Each scene
// is composed on a single goroutine; meshes are shared read-only.
func Run(cfg Config, meshes []*mesh.Mesh) []Result {
	total := cfg.Scenes
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					slog.Info("progress", "done", p, "total", total, "scenes_per_sec", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(cfg, meshes, idx)
				processed.Add(1)
			}
		}()
	}

	for i := 0; i < total; i++ {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

// SceneSeed returns the random seed of scene index.
func SceneSeed(base uint64, index int) uint64 {
	return base + uint64(index)
}

// ComposeScene picks the meshes of scene index and places them.
func ComposeScene(cfg Config, meshes []*mesh.Mesh, index int) ([]scene.Placed, error) {
	sampler := scene.NewRandSampler(SceneSeed(cfg.Seed, index))
	chosen := meshes
	if k := cfg.ObjectsPerScene; k > 0 && k < len(meshes) {
		chosen = make([]*mesh.Mesh, 0, k)
		for _, i := range sampler.Perm(len(meshes))[:k] {
			chosen = append(chosen, meshes[i])
		}
	}
	c := &scene.Composer{Params: cfg.Placement, Sampler: sampler}
	return c.PlaceAll(chosen)
}

// RenderScene rasterizes placed objects into the configured output image.
func RenderScene(cfg Config, placed []scene.Placed) image.Image {
	meshes := make([]*mesh.Mesh, len(placed))
	for i := range placed {
		meshes[i] = placed[i].Mesh
	}

	if cfg.Mode == raster.ModeDepth {
		// depth is normalized per pixel, no supersampling
		frame := raster.Render(meshes, raster.Options{Size: cfg.RenderSize, Margin: 16})
		return postprocess.NormalizeDepth(frame.Depth, cfg.RenderSize, cfg.RenderSize)
	}

	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	frame := raster.Render(meshes, raster.Options{
		Size:       cfg.RenderSize * ss,
		Margin:     16 * ss,
		Color:      cfg.MeshColor,
		Background: cfg.Background,
	})
	img := frame.Color
	if ss > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	return postprocess.OverBackground(img, cfg.BackgroundImage)
}

// ImageName returns the output file name of scene index.
func ImageName(index int, f imageio.Format) string {
	return fmt.Sprintf("scene_%04d%s", index, f.Ext())
}

func processScene(cfg Config, meshes []*mesh.Mesh, index int) Result {
	res := Result{
		Index: index,
		ID:    uuid.New(),
		Seed:  SceneSeed(cfg.Seed, index),
		Image: ImageName(index, cfg.Format),
	}

	placed, err := ComposeScene(cfg, meshes, index)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Placed = placed
	for _, p := range placed {
		if p.Fallback {
			res.Fallbacks++
		}
	}

	img := RenderScene(cfg, placed)
	if err := imageio.Save(filepath.Join(cfg.OutputDir, res.Image), img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	slog.Debug("scene done", "index", index, "objects", len(placed), "fallbacks", res.Fallbacks)
	res.Success = true
	return res
}
