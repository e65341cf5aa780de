package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mesh-scene-composer/internal/mathutil"
)

// ManifestEntry represents one rendered scene in the output manifest.
type ManifestEntry struct {
	ID      string           `json:"id"`
	Index   int              `json:"index"`
	Seed    uint64           `json:"seed"`
	Mode    string           `json:"mode"`
	Image   string           `json:"image"`
	Objects []ManifestObject `json:"objects"`
}

// ManifestObject records how one mesh was placed.
type ManifestObject struct {
	Source      string        `json:"source"`
	Rotations   [][3]float64  `json:"rotations"`
	Translation mathutil.Vec3 `json:"translation"`
	Box         [6]float64    `json:"box"` // xmin, xmax, ymin, ymax, zmin, zmax
	Trials      int           `json:"trials"`
	Fallback    bool          `json:"fallback"`
}

// WriteManifest writes manifest.json for the successful results, creating
// its directory if needed.
func WriteManifest(path string, mode string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		e := ManifestEntry{
			ID:      r.ID.String(),
			Index:   r.Index,
			Seed:    r.Seed,
			Mode:    mode,
			Image:   r.Image,
			Objects: make([]ManifestObject, len(r.Placed)),
		}
		for i, p := range r.Placed {
			e.Objects[i] = ManifestObject{
				Source:      p.Mesh.Source,
				Rotations:   p.Rotations,
				Translation: p.Translation,
				Box:         p.Box.Bounds(),
				Trials:      p.Trials,
				Fallback:    p.Fallback,
			}
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: manifest dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
