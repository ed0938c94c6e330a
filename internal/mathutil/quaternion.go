package mathutil

import "math"

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the no-rotation quaternion.
var QuatIdentity = Quat{0, 0, 0, 1}

// QuatFromRIJK builds a quaternion from REDengine's component naming:
// r is the scalar part, i/j/k the imaginary x/y/z parts.
func QuatFromRIJK(r, i, j, k float64) Quat {
	return Quat{i, j, k, r}
}

func (q Quat) Len() float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

// Normalize returns the unit quaternion. A zero quaternion stays zero.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < 1e-12 {
		return Quat{}
	}
	inv := 1 / l
	return Quat{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// Mat3 converts a unit quaternion to a 3×3 rotation matrix.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}
