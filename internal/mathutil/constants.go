package mathutil

import "math"

// Reflections used for handedness flips. Each is its own inverse.
var (
	// MirrorX4 reflects the X axis: diag(-1, 1, 1, 1). REDengine → Blender.
	MirrorX4 = Mat4Diag(-1, 1, 1, 1)
	MirrorY4 = Mat4Diag(1, -1, 1, 1)
	MirrorZ4 = Mat4Diag(1, 1, -1, 1)
)

// Preview camera matrices.
var (
	// ModelFlip converts Z-up (game, Blender) to Y-up screen space: Rx(-90°)
	ModelFlip = RotX(math.Pi / -2)

	// PreviewCam is a three-quarter view: Rx(15°) @ Ry(-30°) @ MODEL_FLIP
	PreviewCam = Mat3Mul(Mat3Mul(RotX(Deg2Rad(15)), RotY(Deg2Rad(-30))), ModelFlip)
)
