package skeleton

import (
	"fmt"
	"strings"

	"cp77-rig-tools/internal/mathutil"
	"cp77-rig-tools/internal/rig"
)

// DefaultBoneLength is the display length of a bone along its local Y axis.
const DefaultBoneLength = 0.01

// Custom shape scales for bones drawn with a display shape.
const (
	HelperShapeScale  = 0.05
	UnknownShapeScale = 0.1 // bones outside the animated bone list
)

// Options controls how a rig is turned into a Skeleton.
type Options struct {
	MirrorAxis        Axis
	BoneLength        float64 // <= 0 means DefaultBoneLength
	SkipReferencePose bool    // keep the rest pose even when an A-pose exists
	DisableConnect    bool    // never mark child bones as connected

	// AnimBones lists bones driven by animation. When set, bones outside it
	// get a display shape. Empty means every bone counts as animated.
	AnimBones []string
}

// Bone is one resolved bone in target space, ready for a host to place.
type Bone struct {
	Index     int
	Name      string
	Parent    int // -1 for roots
	Matrix    mathutil.Mat4
	Head      mathutil.Vec3
	Tail      mathutil.Vec3
	RollAxis  mathutil.Vec3 // bone-local X, used to align roll
	Connected bool

	// Display metadata. DisplayScale is 0 when the bone has no custom shape.
	CustomShape  bool
	DisplayScale float64
}

// Skeleton is the host-independent result of one skeleton-build pass.
type Skeleton struct {
	Name          string
	Axis          Axis
	ReferencePose bool // true when an A-pose replaced the rest pose
	Bones         []Bone
	Collections   []Collection
	Tracks        map[string]float64
}

// Build resolves the rig's rest pose, converts it to target space, overrides
// it with the A-pose when present, and derives per-bone placement.
func Build(d *rig.Data, opts Options) (*Skeleton, error) {
	length := opts.BoneLength
	if length <= 0 {
		length = DefaultBoneLength
	}

	res, err := NewResolver(d.Transforms, d.Parents)
	if err != nil {
		return nil, fmt.Errorf("skeleton: build %s: %w", d.Name, err)
	}
	globals, err := res.ResolveAll()
	if err != nil {
		return nil, fmt.Errorf("skeleton: build %s: %w", d.Name, err)
	}
	mats := ConvertAll(globals, opts.MirrorAxis)

	s := &Skeleton{
		Name: d.Name,
		Axis: opts.MirrorAxis,
	}

	if !opts.SkipReferencePose {
		pose, ok, err := ReferencePose(d, opts.MirrorAxis)
		if err != nil {
			return nil, fmt.Errorf("skeleton: build %s: a-pose: %w", d.Name, err)
		}
		if ok {
			mats = pose
			s.ReferencePose = true
		}
	}

	var anim map[string]bool
	if len(opts.AnimBones) > 0 {
		anim = make(map[string]bool, len(opts.AnimBones))
		for _, name := range opts.AnimBones {
			anim[name] = true
		}
	}

	s.Bones = make([]Bone, len(mats))
	for i, m := range mats {
		b := Bone{
			Index:  i,
			Name:   d.BoneNames[i],
			Parent: d.Parents[i],
			Matrix: m,
			Head:   m.Translation(),
		}
		b.Tail = m.MulPoint(mathutil.Vec3{0, length, 0})
		b.RollAxis = m.MulDir(mathutil.Vec3{1, 0, 0})
		b.Connected = b.Parent != -1 && !opts.DisableConnect && !IsHelperBone(b.Name)
		b.CustomShape, b.DisplayScale = displayShape(b.Name, opts, anim)
		s.Bones[i] = b
	}

	s.Collections = collections(d, s)
	s.Tracks = tracks(d)

	return s, nil
}

// IsHelperBone reports bones that never connect to their parent:
// group, IK and joint helpers.
func IsHelperBone(name string) bool {
	return strings.HasSuffix(name, "GRP") ||
		strings.HasSuffix(name, "IK") ||
		strings.HasSuffix(name, "JNT")
}

// displayShape decides whether a bone gets a custom display shape and at
// what scale. anim is nil when no animated bone list is known.
func displayShape(name string, opts Options, anim map[string]bool) (bool, float64) {
	unknown := anim != nil && !anim[name]
	switch {
	case opts.DisableConnect:
		return true, HelperShapeScale
	case unknown:
		return true, UnknownShapeScale
	case IsHelperBone(name):
		return true, HelperShapeScale
	}
	return false, 0
}

// Roots returns the indexes of parentless bones.
func (s *Skeleton) Roots() []int {
	var roots []int
	for _, b := range s.Bones {
		if b.Parent == -1 {
			roots = append(roots, b.Index)
		}
	}
	return roots
}

// Children returns a parent → children index table.
func (s *Skeleton) Children() [][]int {
	kids := make([][]int, len(s.Bones))
	for _, b := range s.Bones {
		if b.Parent >= 0 && b.Parent < len(kids) {
			kids[b.Parent] = append(kids[b.Parent], b.Index)
		}
	}
	return kids
}

// LocalMatrix returns bone i relative to its parent, in target space.
func (s *Skeleton) LocalMatrix(i int) (mathutil.Mat4, error) {
	b := s.Bones[i]
	if b.Parent == -1 {
		return b.Matrix, nil
	}
	inv, ok := s.Bones[b.Parent].Matrix.AffineInverse()
	if !ok {
		return mathutil.Mat4{}, fmt.Errorf("skeleton: bone %q has a singular parent matrix", b.Name)
	}
	return mathutil.Mat4Mul(inv, b.Matrix), nil
}

func tracks(d *rig.Data) map[string]float64 {
	if len(d.TrackNames) == 0 {
		return nil
	}
	out := make(map[string]float64, len(d.TrackNames))
	for i, name := range d.TrackNames {
		if name == "" || i >= len(d.ReferenceTracks) {
			continue
		}
		out[name] = d.ReferenceTracks[i]
	}
	return out
}
