package main

import (
	"flag"
	"fmt"
	"os"

	"mesh-scene-composer/internal/batch"
	"mesh-scene-composer/internal/config"
	"mesh-scene-composer/internal/imageio"
	"mesh-scene-composer/internal/logx"
	"mesh-scene-composer/internal/meshio"
	"mesh-scene-composer/internal/raster"
	"mesh-scene-composer/internal/scene"
)

// render draws one mesh container, untransformed, for a quick look.
func main() {
	output := flag.String("o", "output.png", "Output image path")
	mode := flag.String("mode", "rgb", "Render mode: rgb or depth")
	size := flag.Int("size", 512, "Output image size in pixels")
	ss := flag.Int("ss", 2, "Supersample factor")
	colorHex := flag.String("color", "00ff60", "Mesh color as hex RGB")
	verbose := flag.Bool("v", false, "Log progress")
	flag.Parse()
	logx.Setup(os.Stderr, logx.LevelFromFlags(false, *verbose, false))

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: render [flags] <container.h5|container.yaml>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	m, err := meshio.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d points, %d triangles, bounds %s\n", path, len(m.Points), len(m.Tris), m.Bounds())

	rm, err := raster.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	meshColor, err := config.ParseHexColor(*colorHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	format, err := imageio.FormatFromPath(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := batch.Config{
		Mode:        rm,
		RenderSize:  *size,
		Supersample: *ss,
		MeshColor:   meshColor,
	}
	img := batch.RenderScene(cfg, []scene.Placed{{Mesh: m}})
	if err := imageio.Save(*output, img, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", *output)
}
