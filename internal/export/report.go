package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cp77-rig-tools/internal/skeleton"
)

// Report is the JSON form of a resolved skeleton.
type Report struct {
	Name          string             `json:"name"`
	MirrorAxis    skeleton.Axis      `json:"mirror_axis"`
	ReferencePose bool               `json:"reference_pose"`
	Bones         []BoneReport       `json:"bones"`
	Collections   []CollectionReport `json:"collections,omitempty"`
	Tracks        map[string]float64 `json:"tracks,omitempty"`
}

// BoneReport holds one bone in target space. Matrix is row-major.
type BoneReport struct {
	Index     int           `json:"index"`
	Name      string        `json:"name"`
	Parent    int           `json:"parent"`
	Connected bool          `json:"connected"`
	Head      [3]float64    `json:"head"`
	Tail      [3]float64    `json:"tail"`
	RollAxis  [3]float64    `json:"roll_axis"`
	Matrix    [4][4]float64 `json:"matrix"`

	DisplayScale float64 `json:"display_scale,omitempty"` // 0 when no custom shape
}

type CollectionReport struct {
	Name                          string          `json:"name"`
	Bones                         []string        `json:"bones"`
	BonesWithRotationInModelSpace []string        `json:"bones_with_rotation_in_model_space,omitempty"`
	Mask                          map[int]float64 `json:"mask,omitempty"`
	MaskRotMS                     json.RawMessage `json:"mask_rot_ms,omitempty"`
	Missing                       []string        `json:"missing,omitempty"`
}

// NewReport flattens a skeleton into its report form.
func NewReport(s *skeleton.Skeleton) Report {
	r := Report{
		Name:          s.Name,
		MirrorAxis:    s.Axis,
		ReferencePose: s.ReferencePose,
		Bones:         make([]BoneReport, len(s.Bones)),
		Tracks:        s.Tracks,
	}
	for i, b := range s.Bones {
		r.Bones[i] = BoneReport{
			Index:     b.Index,
			Name:      b.Name,
			Parent:    b.Parent,
			Connected: b.Connected,
			Head:      b.Head,
			Tail:      b.Tail,
			RollAxis:  b.RollAxis,
			Matrix:    b.Matrix.Rows(),

			DisplayScale: b.DisplayScale,
		}
	}
	for _, c := range s.Collections {
		r.Collections = append(r.Collections, CollectionReport{
			Name:                          c.Name,
			Bones:                         c.Bones,
			BonesWithRotationInModelSpace: c.BonesWithRotationInModelSpace,
			Mask:                          c.Mask,
			MaskRotMS:                     c.MaskRotMS,
			Missing:                       c.Missing,
		})
	}
	return r
}

// WriteReport encodes the skeleton report as indented JSON.
func WriteReport(w io.Writer, s *skeleton.Skeleton) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(s)); err != nil {
		return fmt.Errorf("export: report %s: %w", s.Name, err)
	}
	return nil
}

// WriteReportFile writes the report to path.
func WriteReportFile(path string, s *skeleton.Skeleton) error {
	data, err := json.MarshalIndent(NewReport(s), "", "  ")
	if err != nil {
		return fmt.Errorf("export: report %s: %w", s.Name, err)
	}
	return os.WriteFile(path, data, 0644)
}
