package sequence

import (
	"encoding/json"
	"os"
)

// Manifest describes a rendered sequence.
type Manifest struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	FPS    int             `json:"fps"`
	Format string          `json:"format"`
	Frames []ManifestEntry `json:"frames"`
	Failed int             `json:"failed"`
}

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index     int       `json:"index"`
	Image     string    `json:"image"`
	Time      float64   `json:"time"`
	Pointer   *Waypoint `json:"pointer"`
	TrailMax  float64   `json:"trail_max"`
	Fragments int       `json:"fragments"`
}

// WriteManifest writes manifest.json for the successful results, in frame
// order.
func WriteManifest(path string, m Manifest, results []Result) error {
	m.Frames = make([]ManifestEntry, 0, len(results))
	m.Failed = 0
	for _, r := range results {
		if !r.Success {
			m.Failed++
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Index:     r.Index,
			Image:     r.File,
			Time:      float64(r.Index) / float64(max(m.FPS, 1)),
			Pointer:   r.Pointer,
			TrailMax:  r.TrailMax,
			Fragments: r.Fragments,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
