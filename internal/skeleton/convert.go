package skeleton

import (
	"fmt"
	"strings"

	"cp77-rig-tools/internal/mathutil"
)

// Axis selects which axis the handedness flip reflects.
// The zero value is AxisX, the REDengine → Blender convention.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Axis) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "x":
		*a = AxisX
	case "y":
		*a = AxisY
	case "z":
		*a = AxisZ
	default:
		return fmt.Errorf("skeleton: unknown mirror axis %q", string(b))
	}
	return nil
}

// Mirror returns the reflection matrix for the axis.
func (a Axis) Mirror() mathutil.Mat4 {
	switch a {
	case AxisY:
		return mathutil.MirrorY4
	case AxisZ:
		return mathutil.MirrorZ4
	}
	return mathutil.MirrorX4
}

// ConvertToTargetSpace applies the handedness flip M × m × M.
// Applying it twice returns the input.
func ConvertToTargetSpace(m mathutil.Mat4, axis Axis) mathutil.Mat4 {
	mirror := axis.Mirror()
	return mathutil.Mat4Mul(mathutil.Mat4Mul(mirror, m), mirror)
}

// ConvertAll converts every matrix into a new slice. Since M × M = I, the
// conversion commutes with composition, so it works on locals and globals alike.
func ConvertAll(ms []mathutil.Mat4, axis Axis) []mathutil.Mat4 {
	out := make([]mathutil.Mat4, len(ms))
	for i, m := range ms {
		out[i] = ConvertToTargetSpace(m, axis)
	}
	return out
}
