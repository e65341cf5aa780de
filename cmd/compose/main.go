package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"mesh-scene-composer/internal/batch"
	"mesh-scene-composer/internal/config"
	"mesh-scene-composer/internal/imageio"
	"mesh-scene-composer/internal/inputs"
	"mesh-scene-composer/internal/logx"
	"mesh-scene-composer/internal/raster"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml config file")
	inputDir := flag.String("input", "", "Directory of mesh containers (.h5, .hdf5, .yaml)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/renders)")
	scenes := flag.Int("scenes", 0, "Number of scenes to compose (default: 1)")
	objects := flag.Int("objects", 0, "Meshes per scene (default: all)")
	seed := flag.Uint64("seed", 0, "Base random seed; scene i uses seed+i")
	trials := flag.Int("trials", 0, "Placement trials per mesh (default: 1000)")
	mode := flag.String("mode", "", "Render mode: rgb or depth")
	format := flag.String("format", "", "Image format: png or webp")
	size := flag.Int("size", 0, "Output image size in pixels (default: 512)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Log progress")
	debug := flag.Bool("vv", false, "Log debug detail")
	quiet := flag.Bool("q", false, "Log errors only")

	flag.Parse()
	logx.Setup(os.Stderr, logx.LevelFromFlags(*debug, *verbose, *quiet))

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	flags := config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Scenes:    *scenes,
		Objects:   *objects,
		MaxTrials: *trials,
		Mode:      *mode,
		Format:    *format,
		Size:      *size,
		Workers:   *workers,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			flags.Seed = seed
		}
	})
	cfg.Resolve(flags)

	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no input directory. Use -input flag or input_dir in the config.")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	batchCfg, err := buildBatchConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths, err := inputs.List(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	meshes, failures, err := batch.LoadMeshes(context.Background(), paths, cfg.Workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading meshes: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Meshes: %d loaded, %d skipped\n", len(meshes), len(failures))
	if len(meshes) == 0 {
		fmt.Println("No meshes to compose.")
		os.Exit(0)
	}

	fmt.Printf("Scenes: %d, Workers: %d, Mode: %s\n", cfg.Scenes, cfg.Workers, batchCfg.Mode)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batchCfg, meshes)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, fallbacks := 0, 0
	var failed []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			fallbacks += r.Fallbacks
		} else {
			failed = append(failed, r)
		}
	}

	fmt.Printf("Rendered: %d/%d (%d fallback placements)\n", success, len(results), fallbacks)

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(20, len(failed))
		for _, r := range failed[:limit] {
			fmt.Printf("  scene %d: %s\n", r.Index, r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, batchCfg.Mode.String(), results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}

func buildBatchConfig(cfg config.Config) (batch.Config, error) {
	mode, err := raster.ParseMode(cfg.Mode)
	if err != nil {
		return batch.Config{}, err
	}
	format, err := imageio.ParseFormat(cfg.Format)
	if err != nil {
		return batch.Config{}, err
	}
	meshColor, err := config.ParseHexColor(cfg.MeshColor)
	if err != nil {
		return batch.Config{}, err
	}

	bc := batch.Config{
		OutputDir:       cfg.OutputDir,
		Scenes:          cfg.Scenes,
		ObjectsPerScene: cfg.ObjectsPerScene,
		Seed:            cfg.Seed,
		Placement:       cfg.Placement,
		Mode:            mode,
		Format:          format,
		RenderSize:      cfg.RenderSize,
		Supersample:     cfg.Supersample,
		MeshColor:       meshColor,
		Workers:         cfg.Workers,
	}
	if cfg.Background != "" {
		if bc.Background, err = config.ParseHexColor(cfg.Background); err != nil {
			return batch.Config{}, err
		}
	}
	if cfg.BackgroundImage != "" {
		var bg image.Image
		if bg, err = imageio.LoadImage(cfg.BackgroundImage); err != nil {
			return batch.Config{}, err
		}
		bc.BackgroundImage = bg
	}
	return bc, nil
}
