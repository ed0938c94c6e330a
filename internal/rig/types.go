package rig

import (
	"encoding/json"

	"cp77-rig-tools/internal/mathutil"
)

// Transform is a bone's translation/rotation/scale as stored in the rig.
// Depending on the array it came from it is parent-relative (boneTransforms,
// aPoseLS) or model-space (aPoseMS).
type Transform struct {
	Translation mathutil.Vec3
	Rotation    mathutil.Quat
	Scale       mathutil.Vec3
}

// Matrix returns Translation × Rotation × Scale.
func (t Transform) Matrix() mathutil.Mat4 {
	return mathutil.Compose(t.Translation, t.Rotation, t.Scale)
}

// Identity is the rest transform with no offset, rotation or scale.
var Identity = Transform{
	Rotation: mathutil.QuatIdentity,
	Scale:    mathutil.Vec3{1, 1, 1},
}

// Tree selects a root bone and all of its descendants, plus nested subtrees.
type Tree struct {
	Root     string
	Subtrees []Tree
}

// Part is an animation part group (upper body, face, ...).
type Part struct {
	Name                          string
	SingleBones                   []string
	TreeBones                     []Tree
	BonesWithRotationInModelSpace []string
	Mask                          map[int]float64 // bone index → weight
	MaskRotMS                     json.RawMessage // passed through untouched
}

// Data is one loaded animRig.
type Data struct {
	Name   string
	Source string // file path, empty when parsed from a reader

	BoneNames  []string
	Parents    []int // -1 for roots
	Transforms []Transform

	// Optional reference pose. At most one is normally present.
	APoseMS []Transform
	APoseLS []Transform

	Parts           []Part
	TrackNames      []string
	ReferenceTracks []float64

	CookingPlatform string
	LODStartIndices []int
}

// BoneCount returns the number of bones.
func (d *Data) BoneCount() int {
	return len(d.BoneNames)
}

// BoneIndex looks up a bone by exact name.
func (d *Data) BoneIndex(name string) (int, bool) {
	for i, n := range d.BoneNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}
