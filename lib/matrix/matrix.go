package matrix

// Vec3 is a 3 element vector.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Dot returns the dot product of the two vectors.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Mul multiplies the two vectors component-wise.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{X: v.X * o.X, Y: v.Y * o.Y, Z: v.Z * o.Z}
}

// Scale multiplies each component by a.
func (v Vec3) Scale(a float64) Vec3 {
	return Vec3{X: v.X * a, Y: v.Y * a, Z: v.Z * a}
}

// Reciprocal returns a vector holding 1/x of each component.
func (v Vec3) Reciprocal() Vec3 {
	return Vec3{X: 1 / v.X, Y: 1 / v.Y, Z: 1 / v.Z}
}

// MulMatrix treats v as a row vector and returns v*m.
func (v Vec3) MulMatrix(m Matrix3x3) Vec3 {
	return Vec3{
		X: v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0],
		Y: v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1],
		Z: v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2],
	}
}

// Matrix3x3 is a row-major 3x3 matrix.
type Matrix3x3 [3][3]float64

// Identity returns the identity matrix.
func Identity() Matrix3x3 {
	return Matrix3x3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// FromRows builds a matrix whose rows are the supplied vectors.
func FromRows(r1, r2, r3 Vec3) Matrix3x3 {
	return Matrix3x3{
		{r1.X, r1.Y, r1.Z},
		{r2.X, r2.Y, r2.Z},
		{r3.X, r3.Y, r3.Z},
	}
}

// Row returns the specified row as a vector.
func (m Matrix3x3) Row(r int) Vec3 {
	return Vec3{X: m[r][0], Y: m[r][1], Z: m[r][2]}
}

// Column returns the specified column as a vector.
func (m Matrix3x3) Column(c int) Vec3 {
	return Vec3{X: m[0][c], Y: m[1][c], Z: m[2][c]}
}

// Transpose swaps the rows and columns.
func (m Matrix3x3) Transpose() Matrix3x3 {
	return FromRows(m.Column(0), m.Column(1), m.Column(2))
}

// Mul returns the matrix product m*b.
func (m Matrix3x3) Mul(b Matrix3x3) Matrix3x3 {
	var c Matrix3x3
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			c[r][col] = m[r][0]*b[0][col] + m[r][1]*b[1][col] + m[r][2]*b[2][col]
		}
	}
	return c
}

// MulVec treats v as a column vector and returns m*v.
func (m Matrix3x3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: v.Dot(m.Row(0)),
		Y: v.Dot(m.Row(1)),
		Z: v.Dot(m.Row(2)),
	}
}

// Determinant calculates the determinant using cofactor expansion.
func (m Matrix3x3) Determinant() float64 {
	return (m[0][0]*m[1][1]*m[2][2] +
		m[0][1]*m[1][2]*m[2][0] +
		m[0][2]*m[1][0]*m[2][1]) -
		(m[2][0]*m[1][1]*m[0][2] +
			m[2][1]*m[1][2]*m[0][0] +
			m[2][2]*m[1][0]*m[0][1])
}

// Inverse calculates the inverse through the adjugate.
// The result is undefined if the matrix is singular; callers are expected to only
// invert matrices built from a valid (non-collinear) set of primaries.
func (m Matrix3x3) Inverse() Matrix3x3 {
	det := m.Determinant()

	var r Matrix3x3
	r[0][0] = (m[1][1]*m[2][2] - m[2][1]*m[1][2]) / det
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / det
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / det
	r[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) / det
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / det
	r[1][2] = (m[1][0]*m[0][2] - m[0][0]*m[1][2]) / det
	r[2][0] = (m[1][0]*m[2][1] - m[2][0]*m[1][1]) / det
	r[2][1] = (m[2][0]*m[0][1] - m[0][0]*m[2][1]) / det
	r[2][2] = (m[0][0]*m[1][1] - m[1][0]*m[0][1]) / det
	return r
}

// ScaleRows multiplies each row r by s[r].
func (m Matrix3x3) ScaleRows(s Vec3) Matrix3x3 {
	return FromRows(m.Row(0).Scale(s.X), m.Row(1).Scale(s.Y), m.Row(2).Scale(s.Z))
}

// ScaleColumns multiplies each column c by s[c].
func (m Matrix3x3) ScaleColumns(s Vec3) Matrix3x3 {
	return m.Transpose().ScaleRows(s).Transpose()
}
