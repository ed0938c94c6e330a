package skeleton

import (
	"fmt"

	"cp77-rig-tools/internal/mathutil"
	"cp77-rig-tools/internal/rig"
)

// ApplyReferencePose turns an A-pose transform set into target-space global
// matrices. Model-space poses are composed per bone; local-space poses go
// through a fresh Resolver first. Either way the handedness flip is applied
// exactly once.
func ApplyReferencePose(pose []rig.Transform, parents []int, modelSpace bool, axis Axis) ([]mathutil.Mat4, error) {
	if len(pose) != len(parents) {
		return nil, fmt.Errorf("skeleton: reference pose has %d transforms, rig has %d bones", len(pose), len(parents))
	}

	if modelSpace {
		out := make([]mathutil.Mat4, len(pose))
		for i, t := range pose {
			out[i] = ConvertToTargetSpace(t.Matrix(), axis)
		}
		return out, nil
	}

	r, err := NewResolver(pose, parents)
	if err != nil {
		return nil, err
	}
	globals, err := r.ResolveAll()
	if err != nil {
		return nil, err
	}
	return ConvertAll(globals, axis), nil
}

// ReferencePose picks the rig's A-pose, preferring the model-space set.
// ok is false when the rig carries neither.
func ReferencePose(d *rig.Data, axis Axis) (mats []mathutil.Mat4, ok bool, err error) {
	switch {
	case len(d.APoseMS) > 0:
		mats, err = ApplyReferencePose(d.APoseMS, d.Parents, true, axis)
	case len(d.APoseLS) > 0:
		mats, err = ApplyReferencePose(d.APoseLS, d.Parents, false, axis)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return mats, true, nil
}
