package mathutil

import "math"

// Mat4 is a 4×4 affine matrix stored row-major, column-vector convention
// (translation lives in m[3], m[7], m[11]). Used for bone transforms.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Diag returns diag(x, y, z, w).
func Mat4Diag(x, y, z, w float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, w,
	}
}

// Translation returns the pure translation matrix for t.
func Translation(t Vec3) Mat4 {
	m := Mat4Identity()
	m[3], m[7], m[11] = t[0], t[1], t[2]
	return m
}

// Scaling returns diag(s, 1).
func Scaling(s Vec3) Mat4 {
	return Mat4Diag(s[0], s[1], s[2], 1)
}

// Rotation returns the 4×4 form of a quaternion rotation.
func Rotation(q Quat) Mat4 {
	return FromMat3Translation(q.Mat3(), Vec3{})
}

// Compose builds Translation(t) × Rotation(q) × Scale(s). The quaternion is
// normalized first.
func Compose(t Vec3, q Quat, s Vec3) Mat4 {
	return Mat4Mul(Mat4Mul(Translation(t), Rotation(q.Normalize())), Scaling(s))
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// MulDir transforms a direction (w=0), ignoring translation.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return m.Mat3().MulVec3(v)
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// Mat3 returns the upper-left 3×3 block.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// AffineInverse inverts an affine matrix. Returns false when the linear part
// is singular (zero scale on some axis).
func (m Mat4) AffineInverse() (Mat4, bool) {
	inv, ok := m.Mat3().Inverse()
	if !ok {
		return Mat4{}, false
	}
	t := inv.MulVec3(m.Translation()).Scale(-1)
	return FromMat3Translation(inv, t), true
}

// ColumnMajor returns the matrix in column-major order (glTF, OpenGL).
func (m Mat4) ColumnMajor() [16]float64 {
	var out [16]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c*4+r] = m[r*4+c]
		}
	}
	return out
}

// Rows returns the matrix as four row slices.
func (m Mat4) Rows() [4][4]float64 {
	return [4][4]float64{
		{m[0], m[1], m[2], m[3]},
		{m[4], m[5], m[6], m[7]},
		{m[8], m[9], m[10], m[11]},
		{m[12], m[13], m[14], m[15]},
	}
}

// ApproxEqual compares element-wise within eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}
