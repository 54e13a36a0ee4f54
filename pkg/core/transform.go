package core

import "math"

// Mat4 is a row-major affine transform. The last row is always (0, 0, 0, 1).
type Mat4 [4][4]float64

// Identity returns the identity transform
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a transform that moves points by t
func Translation(t Vec3) Mat4 {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = t.X, t.Y, t.Z
	return m
}

// Scaling returns a non-uniform scale transform
func Scaling(s Vec3) Mat4 {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = s.X, s.Y, s.Z
	return m
}

// Rotation returns a rotation of degrees around axis (Rodrigues' formula)
func Rotation(axis Vec3, degrees float64) Mat4 {
	a := axis.Normalize()
	theta := degrees * math.Pi / 180
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c

	return Mat4{
		{t*a.X*a.X + c, t*a.X*a.Y - s*a.Z, t*a.X*a.Z + s*a.Y, 0},
		{t*a.X*a.Y + s*a.Z, t*a.Y*a.Y + c, t*a.Y*a.Z - s*a.X, 0},
		{t*a.X*a.Z - s*a.Y, t*a.Y*a.Z + s*a.X, t*a.Z*a.Z + c, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m * other (other is applied first)
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				out[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return out
}

// IsIdentity reports whether m is the identity within tolerance
func (m Mat4) IsIdentity(tolerance float64) bool {
	id := Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(m[i][j]-id[i][j]) > tolerance {
				return false
			}
		}
	}
	return true
}

// Inverse returns the inverse of an affine transform, and false when the
// linear part is singular
func (m Mat4) Inverse() (Mat4, bool) {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1.0 / det

	var out Mat4
	out[0][0] = (e*i - f*h) * inv
	out[0][1] = (c*h - b*i) * inv
	out[0][2] = (b*f - c*e) * inv
	out[1][0] = (f*g - d*i) * inv
	out[1][1] = (a*i - c*g) * inv
	out[1][2] = (c*d - a*f) * inv
	out[2][0] = (d*h - e*g) * inv
	out[2][1] = (b*g - a*h) * inv
	out[2][2] = (a*e - b*d) * inv

	// Inverse translation is -L⁻¹ t
	t := Vec3{m[0][3], m[1][3], m[2][3]}
	for r := 0; r < 3; r++ {
		out[r][3] = -(out[r][0]*t.X + out[r][1]*t.Y + out[r][2]*t.Z)
	}
	out[3] = [4]float64{0, 0, 0, 1}
	return out, true
}

// TransformPoint applies the full affine transform to a point
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// TransformVector applies only the linear part to a direction
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// TransformNormal maps a normal with the inverse transpose of the linear
// part and renormalizes it
func (m Mat4) TransformNormal(n Vec3) Vec3 {
	inv, ok := m.Inverse()
	if !ok {
		return n.Normalize()
	}
	return inv.Transpose().TransformVector(n).Normalize()
}

// TransformBox returns the world-space box bounding the transformed corners
func (m Mat4) TransformBox(box AABB) AABB {
	corners := box.Corners()
	for i := range corners {
		corners[i] = m.TransformPoint(corners[i])
	}
	return NewAABBFromPoints(corners[:]...)
}
