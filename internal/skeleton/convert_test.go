package skeleton

import (
	"math/rand/v2"
	"testing"

	"cp77-rig-tools/internal/mathutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertIsSelfInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		for i := 0; i < 50; i++ {
			var m mathutil.Mat4
			for k := range m {
				m[k] = rng.Float64()*20 - 10
			}
			twice := ConvertToTargetSpace(ConvertToTargetSpace(m, axis), axis)
			assert.True(t, twice.ApproxEqual(m, 1e-12), "axis %v", axis)
		}
	}
}

func TestConvertMirrorsX(t *testing.T) {
	m := mathutil.Compose(mathutil.Vec3{1, 2, 3}, mathutil.AxisAngle(mathutil.Vec3{0, 0, 1}, 0.5), mathutil.Vec3{1, 1, 1})
	got := ConvertToTargetSpace(m, AxisX)
	assert.Equal(t, mathutil.Vec3{-1, 2, 3}, got.Translation())

	// A rotation about Z reverses direction under an X reflection.
	want := mathutil.Compose(mathutil.Vec3{-1, 2, 3}, mathutil.AxisAngle(mathutil.Vec3{0, 0, 1}, -0.5), mathutil.Vec3{1, 1, 1})
	assert.True(t, got.ApproxEqual(want, eps))
}

func TestConvertCommutesWithComposition(t *testing.T) {
	a := mathutil.Compose(mathutil.Vec3{1, 0, 2}, mathutil.AxisAngle(mathutil.Vec3{1, 2, 3}, 0.4), mathutil.Vec3{1, 2, 1})
	b := mathutil.Compose(mathutil.Vec3{0, 3, 0}, mathutil.AxisAngle(mathutil.Vec3{0, 1, 0}, 1.1), mathutil.Vec3{1, 1, 1})
	whole := ConvertToTargetSpace(mathutil.Mat4Mul(a, b), AxisX)
	parts := ConvertAll([]mathutil.Mat4{a, b}, AxisX)
	assert.True(t, whole.ApproxEqual(mathutil.Mat4Mul(parts[0], parts[1]), eps))
}

func TestAxisText(t *testing.T) {
	var a Axis
	require.NoError(t, a.UnmarshalText([]byte("Z")))
	assert.Equal(t, AxisZ, a)
	require.NoError(t, a.UnmarshalText([]byte("")))
	assert.Equal(t, AxisX, a)
	assert.Error(t, a.UnmarshalText([]byte("w")))

	b, err := AxisY.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "y", string(b))
	assert.Equal(t, mathutil.MirrorZ4, AxisZ.Mirror())
}
