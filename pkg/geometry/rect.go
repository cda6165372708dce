package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// axis identifies the coordinate a Rect's supporting plane is perpendicular to
type axis int

const (
	axisNone axis = iota
	axisX
	axisY
	axisZ
)

func component(v core.Vec3, a axis) float64 {
	switch a {
	case axisX:
		return v.X
	case axisY:
		return v.Y
	default:
		return v.Z
	}
}

// Rect is an axis-aligned rectangle given by two opposite corners that share
// exactly the coordinate of the plane they lie in
type Rect struct {
	Min, Max core.Vec3
	plane    axis
}

// NewRect creates a rectangle from two opposite corners. Corners that share no
// coordinate do not describe an axis-aligned rectangle and never intersect.
func NewRect(corner1, corner2 core.Vec3) Rect {
	r := Rect{
		Min: core.NewVec3(math.Min(corner1.X, corner2.X), math.Min(corner1.Y, corner2.Y), math.Min(corner1.Z, corner2.Z)),
		Max: core.NewVec3(math.Max(corner1.X, corner2.X), math.Max(corner1.Y, corner2.Y), math.Max(corner1.Z, corner2.Z)),
	}

	// Same precedence as the plane tests: XY first, then YZ, then XZ
	switch {
	case corner1.Z == corner2.Z:
		r.plane = axisZ
	case corner1.X == corner2.X:
		r.plane = axisX
	case corner1.Y == corner2.Y:
		r.plane = axisY
	default:
		r.plane = axisNone
	}
	return r
}

// Intersect solves for t on the supporting plane and bound-checks the other two coordinates
func (r Rect) Intersect(ray core.Ray) (float64, bool) {
	if r.plane == axisNone {
		return 0, false
	}

	d := component(ray.Direction, r.plane)
	if math.Abs(d) < core.Epsilon {
		return 0, false
	}

	t := (component(r.Min, r.plane) - component(ray.Origin, r.plane)) / d
	if t <= 0 {
		return 0, false
	}

	p := ray.At(t)
	inside := func(a axis) bool {
		v := component(p, a)
		return v >= component(r.Min, a) && v <= component(r.Max, a)
	}

	switch r.plane {
	case axisZ:
		if inside(axisX) && inside(axisY) {
			return t, true
		}
	case axisX:
		if inside(axisY) && inside(axisZ) {
			return t, true
		}
	case axisY:
		if inside(axisX) && inside(axisZ) {
			return t, true
		}
	}
	return 0, false
}
