package csg

import "math"

// Matrix represents a 3D affine transformation.
// It uses a 3x4 matrix in row-major order:
//
//	| XX XY XZ X0 |
//	| YX YY YZ Y0 |
//	| ZX ZY ZZ Z0 |
//
// This represents the transformation:
//
//	x' = XX*x + XY*y + XZ*z + X0
//	y' = YX*x + YY*y + YZ*z + Y0
//	z' = ZX*x + ZY*y + ZZ*z + Z0
type Matrix struct {
	XX, XY, XZ, X0 float64
	YX, YY, YZ, Y0 float64
	ZX, ZY, ZZ, Z0 float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{XX: 1, YY: 1, ZZ: 1}
}

// Translation creates a translation matrix.
func Translation(x, y, z float64) Matrix {
	return Matrix{
		XX: 1, X0: x,
		YY: 1, Y0: y,
		ZZ: 1, Z0: z,
	}
}

// Scaling creates a scaling matrix.
func Scaling(x, y, z float64) Matrix {
	return Matrix{XX: x, YY: y, ZZ: z}
}

// RotationX creates a rotation about the X axis (angle in degrees).
func RotationX(deg float64) Matrix {
	sin, cos := sincosDeg(deg)
	return Matrix{
		XX: 1,
		YY: cos, YZ: -sin,
		ZY: sin, ZZ: cos,
	}
}

// RotationY creates a rotation about the Y axis (angle in degrees).
func RotationY(deg float64) Matrix {
	sin, cos := sincosDeg(deg)
	return Matrix{
		XX: cos, XZ: sin,
		YY: 1,
		ZX: -sin, ZZ: cos,
	}
}

// RotationZ creates a rotation about the Z axis (angle in degrees).
func RotationZ(deg float64) Matrix {
	sin, cos := sincosDeg(deg)
	return Matrix{
		XX: cos, XY: -sin,
		YX: sin, YY: cos,
		ZZ: 1,
	}
}

// sincosDeg returns exact values for multiples of 90 degrees so that
// quarter-turn rotations do not leave 6e-17 residue in the tree.
func sincosDeg(deg float64) (sin, cos float64) {
	if r := math.Mod(deg, 90); r == 0 {
		switch q := int(math.Mod(deg/90, 4)+4) % 4; q {
		case 0:
			return 0, 1
		case 1:
			return 1, 0
		case 2:
			return 0, -1
		default:
			return -1, 0
		}
	}
	return math.Sincos(deg * math.Pi / 180)
}

// Multiply multiplies two matrices (m * other): other is applied first.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		XX: m.XX*o.XX + m.XY*o.YX + m.XZ*o.ZX,
		XY: m.XX*o.XY + m.XY*o.YY + m.XZ*o.ZY,
		XZ: m.XX*o.XZ + m.XY*o.YZ + m.XZ*o.ZZ,
		X0: m.XX*o.X0 + m.XY*o.Y0 + m.XZ*o.Z0 + m.X0,

		YX: m.YX*o.XX + m.YY*o.YX + m.YZ*o.ZX,
		YY: m.YX*o.XY + m.YY*o.YY + m.YZ*o.ZY,
		YZ: m.YX*o.XZ + m.YY*o.YZ + m.YZ*o.ZZ,
		Y0: m.YX*o.X0 + m.YY*o.Y0 + m.YZ*o.Z0 + m.Y0,

		ZX: m.ZX*o.XX + m.ZY*o.YX + m.ZZ*o.ZX,
		ZY: m.ZX*o.XY + m.ZY*o.YY + m.ZZ*o.ZY,
		ZZ: m.ZX*o.XZ + m.ZY*o.YZ + m.ZZ*o.ZZ,
		Z0: m.ZX*o.X0 + m.ZY*o.Y0 + m.ZZ*o.Z0 + m.Z0,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m.XX*p.X + m.XY*p.Y + m.XZ*p.Z + m.X0,
		Y: m.YX*p.X + m.YY*p.Y + m.YZ*p.Z + m.Y0,
		Z: m.ZX*p.X + m.ZY*p.Y + m.ZZ*p.Z + m.Z0,
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Vec3) Vec3 {
	return Vec3{
		X: m.XX*p.X + m.XY*p.Y + m.XZ*p.Z,
		Y: m.YX*p.X + m.YY*p.Y + m.YZ*p.Z,
		Z: m.ZX*p.X + m.ZY*p.Y + m.ZZ*p.Z,
	}
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.XX*(m.YY*m.ZZ-m.YZ*m.ZY) -
		m.XY*(m.YX*m.ZZ-m.YZ*m.ZX) +
		m.XZ*(m.YX*m.ZY-m.YY*m.ZX)
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity()
	}
	inv := 1.0 / det
	r := Matrix{
		XX: (m.YY*m.ZZ - m.YZ*m.ZY) * inv,
		XY: (m.XZ*m.ZY - m.XY*m.ZZ) * inv,
		XZ: (m.XY*m.YZ - m.XZ*m.YY) * inv,

		YX: (m.YZ*m.ZX - m.YX*m.ZZ) * inv,
		YY: (m.XX*m.ZZ - m.XZ*m.ZX) * inv,
		YZ: (m.XZ*m.YX - m.XX*m.YZ) * inv,

		ZX: (m.YX*m.ZY - m.YY*m.ZX) * inv,
		ZY: (m.XY*m.ZX - m.XX*m.ZY) * inv,
		ZZ: (m.XX*m.YY - m.XY*m.YX) * inv,
	}
	t := r.TransformVector(Vec3{X: m.X0, Y: m.Y0, Z: m.Z0})
	r.X0, r.Y0, r.Z0 = -t.X, -t.Y, -t.Z
	return r
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.XX == 1 && m.XY == 0 && m.XZ == 0 &&
		m.YX == 0 && m.YY == 1 && m.YZ == 0 &&
		m.ZX == 0 && m.ZY == 0 && m.ZZ == 1
}

// Rows returns the matrix as three rows of four columns.
func (m Matrix) Rows() [3][4]float64 {
	return [3][4]float64{
		{m.XX, m.XY, m.XZ, m.X0},
		{m.YX, m.YY, m.YZ, m.Y0},
		{m.ZX, m.ZY, m.ZZ, m.Z0},
	}
}
