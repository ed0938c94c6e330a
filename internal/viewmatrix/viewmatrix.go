package viewmatrix

import (
	"math"

	"cp77-rig-tools/internal/mathutil"
)

// DefaultFOV is the perspective field of view in degrees.
const DefaultFOV = 50.0

// Camera orients model-space points into screen space (X right, Y up, Z depth).
type Camera struct {
	Rotation    mathutil.Mat3
	Perspective bool
	FOV         float64 // degrees, 0 means DefaultFOV
}

// DefaultCamera is the three-quarter orthographic preview view.
func DefaultCamera() Camera {
	return Camera{Rotation: mathutil.PreviewCam}
}

// FrontCamera looks straight at a Z-up skeleton.
func FrontCamera() Camera {
	return Camera{Rotation: mathutil.ModelFlip}
}

// Projection holds screen X, screen Y and depth per input point.
type Projection struct {
	X, Y, Z []float64
}

// Fit rotates points by the camera and scales them to fill a size×size canvas,
// leaving margin pixels on each side. Larger Z is closer to the viewer.
func Fit(points []mathutil.Vec3, cam Camera, size, margin int) Projection {
	n := len(points)
	p := Projection{
		X: make([]float64, n),
		Y: make([]float64, n),
		Z: make([]float64, n),
	}
	if n == 0 {
		return p
	}

	rotated := make([]mathutil.Vec3, n)
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i, v := range points {
		t := cam.Rotation.MulVec3(v)
		rotated[i] = t
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], t[k])
			hi[k] = math.Max(hi[k], t[k])
		}
	}

	center := lo.Add(hi).Scale(0.5)
	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}
	scale := float64(size-2*margin) / span
	half := float64(size) / 2

	// Perspective: camera distance such that the XY extent fits the FOV.
	var camDist float64
	if cam.Perspective {
		fov := cam.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		camDist = (span / 2) / math.Tan(mathutil.Deg2Rad(fov/2))
	}

	for i, t := range rotated {
		x, y := t[0]-center[0], t[1]-center[1]
		if cam.Perspective {
			depth := math.Max(camDist-(t[2]-center[2]), 0.1*camDist)
			f := camDist / depth
			x *= f
			y *= f
		}
		p.X[i] = x*scale + half
		p.Y[i] = -y*scale + half
		p.Z[i] = t[2]
	}
	return p
}
