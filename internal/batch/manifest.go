package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one animation in the output manifest.
type ManifestEntry struct {
	Name   string `json:"name"`
	Bones  int    `json:"bones,omitempty"`
	Frames int    `json:"frames,omitempty"`
	Flags  uint32 `json:"flags,omitempty"`
	Image  string `json:"image,omitempty"`
	Error  string `json:"error,omitempty"`
}

// WriteManifest writes the run results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:   r.Name,
			Bones:  r.Bones,
			Frames: r.Frames,
			Flags:  r.Flags,
			Error:  r.Error,
		}
		if r.Success {
			entries[i].Image = r.Image
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
