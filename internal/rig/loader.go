package rig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a WolvenKit .rig.json file.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rig: read %s: %w", path, err)
	}
	d, err := decode(raw, path)
	if err != nil {
		return nil, err
	}
	d.Source = path
	return d, nil
}

// Parse decodes a rig from r. name is used for the rig name and error messages.
func Parse(r io.Reader, name string) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rig: read %s: %w", name, err)
	}
	return decode(raw, name)
}

// NameFromPath strips directories and the .rig.json (or any) extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	if strings.HasSuffix(lower, ".rig.json") {
		return base[:len(base)-len(".rig.json")]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func decode(raw []byte, name string) (*Data, error) {
	chunk := raw
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("rig: parse %s: %w", name, err)
	}
	if env.Data != nil && len(bytes.TrimSpace(env.Data.RootChunk)) > 0 {
		chunk = env.Data.RootChunk
	}

	var rc rootChunk
	if err := json.Unmarshal(chunk, &rc); err != nil {
		return nil, fmt.Errorf("rig: parse %s: %w", name, err)
	}

	d := &Data{
		Name:            NameFromPath(name),
		BoneNames:       names(rc.BoneNames),
		Parents:         rc.BoneParentIndexes,
		TrackNames:      names(rc.TrackNames),
		ReferenceTracks: rc.ReferenceTracks,
		CookingPlatform: rc.CookingPlatform,
		LODStartIndices: rc.LevelOfDetailStartIndices,
	}

	n := len(d.BoneNames)
	if n == 0 {
		return nil, fmt.Errorf("rig: %s has no bones", name)
	}
	if len(d.Parents) != n || len(rc.BoneTransforms) != n {
		return nil, fmt.Errorf("rig: %s: %d bone names, %d parent indexes, %d transforms",
			name, n, len(d.Parents), len(rc.BoneTransforms))
	}

	var err error
	if d.Transforms, err = decodeTransforms("boneTransforms", rc.BoneTransforms); err != nil {
		return nil, fmt.Errorf("rig: %s: %w", name, err)
	}
	if d.APoseMS, err = decodeTransforms("aPoseMS", rc.APoseMS); err != nil {
		return nil, fmt.Errorf("rig: %s: %w", name, err)
	}
	if d.APoseLS, err = decodeTransforms("aPoseLS", rc.APoseLS); err != nil {
		return nil, fmt.Errorf("rig: %s: %w", name, err)
	}

	for _, p := range rc.Parts {
		d.Parts = append(d.Parts, p.decode())
	}

	return d, nil
}
