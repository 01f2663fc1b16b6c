package mathutil

import "math"

// Mat4 is a 4×4 matrix in GL column-major layout: indices 0-3 hold the
// first column, and translation lives at 12, 13, 14.
// Value type; every constructor and operator returns a new matrix.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns the product with dest[r*4+c] = Σk a[r*4+k]·b[k*4+c].
//
// Under the column-major reading this applies a first and b second, so a
// model-view matrix is Mat4Mul(model, view).
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

// Mat4Scale returns diag(x, y, z, 1).
func Mat4Scale(v Vec3) Mat4 {
	return Mat4{
		v[0], 0, 0, 0,
		0, v[1], 0, 0,
		0, 0, v[2], 0,
		0, 0, 0, 1,
	}
}

// Mat4Translate returns the identity with v in the last row.
func Mat4Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v[0], v[1], v[2], 1,
	}
}

// Mat4LookAt builds a view matrix for an eye at eye looking at target.
//
// forward = |eye − target|, right = |up × forward|, trueUp = |forward × right|.
// The operand order fixes handedness. eye == target, or up parallel to
// forward, divides by zero and yields NaN entries.
func Mat4LookAt(eye, target, up Vec3) Mat4 {
	f := eye.Sub(target).Normalize()
	r := up.Cross(f).Normalize()
	u := f.Cross(r).Normalize()

	return Mat4{
		r[0], r[1], r[2], 0,
		u[0], u[1], u[2], 0,
		f[0], f[1], f[2], 0,
		-eye.Dot(r), -eye.Dot(u), -eye.Dot(f), 1,
	}
}

// Mat4Perspective returns a right-handed projection looking down −z.
// fov is the vertical field of view in degrees.
func Mat4Perspective(fov, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(Deg2Rad(fov)/2)
	depth := far - near

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, -far / depth, -1,
		0, 0, -(far * near) / depth, 0,
	}
}

// Det returns the determinant.
func (m Mat4) Det() float64 {
	n := m.minors()
	return n[0]*n[11] - n[1]*n[10] + n[2]*n[9] + n[3]*n[8] - n[4]*n[7] + n[5]*n[6]
}

// minors returns the twelve 2×2 minors of the top and bottom row pairs.
func (m Mat4) minors() [12]float64 {
	return [12]float64{
		m[0]*m[5] - m[1]*m[4],
		m[0]*m[6] - m[2]*m[4],
		m[0]*m[7] - m[3]*m[4],
		m[1]*m[6] - m[2]*m[5],
		m[1]*m[7] - m[3]*m[5],
		m[2]*m[7] - m[3]*m[6],
		m[8]*m[13] - m[9]*m[12],
		m[8]*m[14] - m[10]*m[12],
		m[8]*m[15] - m[11]*m[12],
		m[9]*m[14] - m[10]*m[13],
		m[9]*m[15] - m[11]*m[13],
		m[10]*m[15] - m[11]*m[14],
	}
}

// Inverse returns the inverse via the adjugate built from 2×2 minors.
// There is no determinant guard: a singular matrix yields ±Inf/NaN entries.
// Use IsFinite to detect that.
func (m Mat4) Inverse() Mat4 {
	n := m.minors()

	adj := Mat4{
		m[5]*n[11] - m[6]*n[10] + m[7]*n[9],
		-m[1]*n[11] + m[2]*n[10] - m[3]*n[9],
		m[13]*n[5] - m[14]*n[4] + m[15]*n[3],
		-m[9]*n[5] + m[10]*n[4] - m[11]*n[3],

		-m[4]*n[11] + m[6]*n[8] - m[7]*n[7],
		m[0]*n[11] - m[2]*n[8] + m[3]*n[7],
		-m[12]*n[5] + m[14]*n[2] - m[15]*n[1],
		m[8]*n[5] - m[10]*n[2] + m[11]*n[1],

		m[4]*n[10] - m[5]*n[8] + m[7]*n[6],
		-m[0]*n[10] + m[1]*n[8] - m[3]*n[6],
		m[12]*n[4] - m[13]*n[2] + m[15]*n[0],
		-m[8]*n[4] + m[9]*n[2] - m[11]*n[0],

		-m[4]*n[9] + m[5]*n[7] - m[6]*n[6],
		m[0]*n[9] - m[1]*n[7] + m[2]*n[6],
		-m[12]*n[3] + m[13]*n[1] - m[14]*n[0],
		m[8]*n[3] - m[9]*n[1] + m[10]*n[0],
	}

	det := m[0]*adj[0] + m[4]*adj[1] + m[8]*adj[2] + m[12]*adj[3]

	var inv Mat4
	for i := range adj {
		inv[i] = adj[i] / det
	}
	return inv
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// MulVec4 transforms a homogeneous column vector: M·v.
func (m Mat4) MulVec4(v [4]float64) [4]float64 {
	return [4]float64{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	p := m.MulVec4([4]float64{v[0], v[1], v[2], 1})
	return Vec3{p[0], p[1], p[2]}
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}

// ApproxEqual reports whether every entry differs from o by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		d := m[i] - o[i]
		if d > eps || d < -eps || math.IsNaN(d) {
			return false
		}
	}
	return true
}

// IsFinite reports whether all 16 entries are finite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Float32 narrows the matrix for uniform upload.
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
