package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// singularTolerance guards the Cramer's-rule division for rays in the triangle's plane
const singularTolerance = 1e-12

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	A, B, C core.Vec3
	normal  core.Vec3 // Cached unit normal (A-B) x (A-C)
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(a, b, c core.Vec3) Triangle {
	return Triangle{
		A:      a,
		B:      b,
		C:      c,
		normal: a.Subtract(b).Cross(a.Subtract(c)).Normalize(),
	}
}

// determinant of a 3x3 matrix given by rows
func determinant(m [3][3]float64) float64 {
	det := 0.0
	for i := 0; i < 3; i++ {
		det += m[0][i] * (m[1][(i+1)%3]*m[2][(i+2)%3] - m[1][(i+2)%3]*m[2][(i+1)%3])
	}
	return det
}

// Intersect solves A + β(B-A) + γ(C-A) = O + tD with Cramer's rule. The ε slack
// on β and γ admits hits on shared edges of adjacent faces.
func (tr Triangle) Intersect(ray core.Ray) (float64, bool) {
	a, b, c := tr.A, tr.B, tr.C
	o, d := ray.Origin, ray.Direction

	aMatrix := [3][3]float64{
		{a.X - b.X, a.X - c.X, d.X},
		{a.Y - b.Y, a.Y - c.Y, d.Y},
		{a.Z - b.Z, a.Z - c.Z, d.Z},
	}
	aDet := determinant(aMatrix)
	if math.Abs(aDet) < singularTolerance {
		return 0, false
	}

	betaMatrix := [3][3]float64{
		{a.X - o.X, a.X - c.X, d.X},
		{a.Y - o.Y, a.Y - c.Y, d.Y},
		{a.Z - o.Z, a.Z - c.Z, d.Z},
	}
	gammaMatrix := [3][3]float64{
		{a.X - b.X, a.X - o.X, d.X},
		{a.Y - b.Y, a.Y - o.Y, d.Y},
		{a.Z - b.Z, a.Z - o.Z, d.Z},
	}
	tMatrix := [3][3]float64{
		{a.X - b.X, a.X - c.X, a.X - o.X},
		{a.Y - b.Y, a.Y - c.Y, a.Y - o.Y},
		{a.Z - b.Z, a.Z - c.Z, a.Z - o.Z},
	}

	beta := determinant(betaMatrix) / aDet
	gamma := determinant(gammaMatrix) / aDet
	t := determinant(tMatrix) / aDet

	const eps = core.Epsilon
	if beta >= -eps && gamma >= -eps && beta+gamma <= 1+eps && t > eps {
		return t, true
	}
	return 0, false
}

// Normal returns the triangle's unit normal
func (tr Triangle) Normal() core.Vec3 {
	return tr.normal
}
