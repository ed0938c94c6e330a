package batch

import (
	"encoding/json"
	"os"
)

// Manifest summarizes a batch run.
type Manifest struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Rigs      []Result `json:"rigs"`
}

// NewManifest counts results.
func NewManifest(results []Result) Manifest {
	m := Manifest{Total: len(results), Rigs: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(NewManifest(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
