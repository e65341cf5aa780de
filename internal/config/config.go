package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mesh-scene-composer/internal/scene"
)

// Config holds all configurable paths, placement and render settings.
type Config struct {
	// Paths
	InputDir        string `json:"input_dir" toml:"input_dir" yaml:"input_dir"`
	OutputDir       string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	BackgroundImage string `json:"background_image" toml:"background_image" yaml:"background_image"`

	// Scene generation
	Scenes          int          `json:"scenes" toml:"scenes" yaml:"scenes"`
	ObjectsPerScene int          `json:"objects_per_scene" toml:"objects_per_scene" yaml:"objects_per_scene"` // 0 = every input file
	Seed            uint64       `json:"seed" toml:"seed" yaml:"seed"`
	Placement       scene.Params `json:"placement" toml:"placement" yaml:"placement"`

	// Render settings
	Mode        string `json:"mode" toml:"mode" yaml:"mode"`       // "rgb" or "depth"
	Format      string `json:"format" toml:"format" yaml:"format"` // "png" or "webp"
	RenderSize  int    `json:"render_size" toml:"render_size" yaml:"render_size"`
	Supersample int    `json:"supersample" toml:"supersample" yaml:"supersample"`
	MeshColor   string `json:"mesh_color" toml:"mesh_color" yaml:"mesh_color"`
	Background  string `json:"background" toml:"background" yaml:"background"` // hex color, empty = transparent
	Workers     int    `json:"workers" toml:"workers" yaml:"workers"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		Scenes:      1,
		Placement:   scene.DefaultParams(),
		Mode:        "rgb",
		Format:      "png",
		RenderSize:  512,
		Supersample: 2,
		MeshColor:   "00ff60",
	}
}

// Load reads a JSON, TOML or YAML config file, chosen by extension.
// Fields not set in the file keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: unsupported file type %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values and nil pointers leave the config untouched.
type Flags struct {
	InputDir  string
	OutputDir string
	Scenes    int
	Objects   int
	Seed      *uint64
	MaxTrials int
	Mode      string
	Format    string
	Size      int
	Workers   int
}

// Resolve applies flag overrides, then fills in any field left empty.
// Relative output and background paths are resolved against the input dir.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Scenes > 0 {
		c.Scenes = flags.Scenes
	}
	if flags.Objects > 0 {
		c.ObjectsPerScene = flags.Objects
	}
	if flags.Seed != nil {
		c.Seed = *flags.Seed
	}
	if flags.MaxTrials > 0 {
		c.Placement.MaxTrials = flags.MaxTrials
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
		if c.InputDir != "" {
			c.OutputDir = filepath.Join(c.InputDir, "renders")
		}
	}
	if c.BackgroundImage != "" && !filepath.IsAbs(c.BackgroundImage) && c.InputDir != "" {
		c.BackgroundImage = filepath.Join(c.InputDir, c.BackgroundImage)
	}

	// Defaults for settings that cannot be zero
	if c.Scenes <= 0 {
		c.Scenes = 1
	}
	if c.ObjectsPerScene < 0 {
		c.ObjectsPerScene = 0
	}
	if c.Placement.MaxTrials <= 0 {
		c.Placement.MaxTrials = scene.DefaultMaxTrials
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.MeshColor == "" {
		c.MeshColor = "00ff60"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports settings that cannot produce a scene.
func (c *Config) Validate() error {
	if c.Placement.TranslateMin > c.Placement.TranslateMax {
		return fmt.Errorf("config: translate_min %g > translate_max %g",
			c.Placement.TranslateMin, c.Placement.TranslateMax)
	}
	if c.Placement.MinSeparation < 0 || c.Placement.MaxSeparation < 0 {
		return fmt.Errorf("config: separations must not be negative")
	}
	if _, err := ParseHexColor(c.MeshColor); err != nil {
		return err
	}
	if c.Background != "" {
		if _, err := ParseHexColor(c.Background); err != nil {
			return err
		}
	}
	return nil
}
