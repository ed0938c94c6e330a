package rig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"cp77-rig-tools/internal/mathutil"
)

// envelope matches WolvenKit's CR2W JSON export wrapper.
type envelope struct {
	Data *struct {
		RootChunk json.RawMessage `json:"RootChunk"`
	} `json:"Data"`
}

// rootChunk matches the animRig RootChunk schema.
type rootChunk struct {
	BoneNames                 []cname         `json:"boneNames"`
	BoneParentIndexes         []int           `json:"boneParentIndexes"`
	BoneTransforms            []wireTransform `json:"boneTransforms"`
	APoseMS                   []wireTransform `json:"aPoseMS"`
	APoseLS                   []wireTransform `json:"aPoseLS"`
	Parts                     []wirePart      `json:"parts"`
	TrackNames                []cname         `json:"trackNames"`
	ReferenceTracks           []float64       `json:"referenceTracks"`
	CookingPlatform           string          `json:"cookingPlatform"`
	LevelOfDetailStartIndices []int           `json:"levelOfDetailStartIndices"`
}

// cname accepts either {"$type":"CName","$value":"Root"} or a bare string.
type cname string

func (c *cname) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = cname(s)
		return nil
	}
	var obj struct {
		Value *string `json:"$value"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Value != nil {
		*c = cname(*obj.Value)
	}
	return nil
}

func names(in []cname) []string {
	out := make([]string, len(in))
	for i, n := range in {
		out[i] = string(n)
	}
	return out
}

type wireVec struct {
	X *float64 `json:"X"`
	Y *float64 `json:"Y"`
	Z *float64 `json:"Z"`
	W *float64 `json:"W"`
}

type wireQuat struct {
	I *float64 `json:"i"`
	J *float64 `json:"j"`
	K *float64 `json:"k"`
	R *float64 `json:"r"`
}

type wireTransform struct {
	Translation *wireVec  `json:"Translation"`
	Rotation    *wireQuat `json:"Rotation"`
	Scale       *wireVec  `json:"Scale"`
}

type wireTree struct {
	RootBone         cname      `json:"rootBone"`
	SubtreesToChange []wireTree `json:"subtreesToChange"`
}

type wireMask struct {
	Index  *int     `json:"index"`
	Weight *float64 `json:"weight"`
}

type wirePart struct {
	Name                          cname           `json:"name"`
	SingleBones                   []cname         `json:"singleBones"`
	TreeBones                     []wireTree      `json:"treeBones"`
	BonesWithRotationInModelSpace []cname         `json:"bonesWithRotationInModelSpace"`
	Mask                          []wireMask      `json:"mask"`
	MaskRotMS                     json.RawMessage `json:"maskRotMS"`
}

func component(field, name string, v *float64) (float64, error) {
	if v == nil {
		return 0, malformed(field+"."+name, "missing component")
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, malformed(field+"."+name, "non-finite value %v", *v)
	}
	return *v, nil
}

func vec3(field string, w *wireVec) (mathutil.Vec3, error) {
	if w == nil {
		return mathutil.Vec3{}, malformed(field, "missing")
	}
	var v mathutil.Vec3
	var err error
	if v[0], err = component(field, "X", w.X); err != nil {
		return v, err
	}
	if v[1], err = component(field, "Y", w.Y); err != nil {
		return v, err
	}
	if v[2], err = component(field, "Z", w.Z); err != nil {
		return v, err
	}
	return v, nil
}

func quat(field string, w *wireQuat) (mathutil.Quat, error) {
	if w == nil {
		return mathutil.Quat{}, malformed(field, "missing")
	}
	var rijk [4]float64
	for i, c := range []struct {
		name string
		v    *float64
	}{{"r", w.R}, {"i", w.I}, {"j", w.J}, {"k", w.K}} {
		f, err := component(field, c.name, c.v)
		if err != nil {
			return mathutil.Quat{}, err
		}
		rijk[i] = f
	}
	q := mathutil.QuatFromRIJK(rijk[0], rijk[1], rijk[2], rijk[3])
	if q.Len() < 1e-8 {
		return mathutil.Quat{}, malformed(field, "zero-length quaternion")
	}
	return q, nil
}

func (w wireTransform) decode(field string) (Transform, error) {
	var t Transform
	var err error
	if t.Translation, err = vec3(field+".Translation", w.Translation); err != nil {
		return t, err
	}
	if t.Rotation, err = quat(field+".Rotation", w.Rotation); err != nil {
		return t, err
	}
	if t.Scale, err = vec3(field+".Scale", w.Scale); err != nil {
		return t, err
	}
	return t, nil
}

func decodeTransforms(array string, in []wireTransform) ([]Transform, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Transform, len(in))
	for i, w := range in {
		t, err := w.decode(fmt.Sprintf("%s[%d]", array, i))
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (w wireTree) decode() Tree {
	t := Tree{Root: string(w.RootBone)}
	for _, s := range w.SubtreesToChange {
		t.Subtrees = append(t.Subtrees, s.decode())
	}
	return t
}

func (w wirePart) decode() Part {
	p := Part{
		Name:                          string(w.Name),
		SingleBones:                   names(w.SingleBones),
		BonesWithRotationInModelSpace: names(w.BonesWithRotationInModelSpace),
		MaskRotMS:                     w.MaskRotMS,
	}
	for _, t := range w.TreeBones {
		p.TreeBones = append(p.TreeBones, t.decode())
	}
	if len(w.Mask) > 0 {
		p.Mask = make(map[int]float64, len(w.Mask))
		for _, m := range w.Mask {
			if m.Index == nil || m.Weight == nil {
				continue
			}
			p.Mask[*m.Index] = *m.Weight
		}
	}
	return p
}
