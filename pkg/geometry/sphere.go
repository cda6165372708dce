package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	surface
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		surface: surface{mat: mat},
		Center:  center,
		Radius:  radius,
	}
}

// Kind implements Object
func (s *Sphere) Kind() Kind { return KindSphere }

// Intersect solves t² + bt + c = 0 (a = 1 for a unit direction) and returns the
// smaller positive root
func (s *Sphere) Intersect(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*c
	if discriminant <= 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / 2
	t2 := (-b + sqrtD) / 2

	switch {
	case t1 > 0:
		// t1 <= t2, so t1 is the smaller positive root
		return t1, true
	case t2 > 0:
		// Origin is inside the sphere
		return t2, true
	default:
		return 0, false
	}
}

// NormalAt returns the radial normal, flipped toward the incident ray
func (s *Sphere) NormalAt(point, incident core.Vec3) core.Vec3 {
	return faceForward(point.Subtract(s.Center).Normalize(), incident)
}

// Validate checks the sphere's geometry and material
func (s *Sphere) Validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("sphere radius must be positive, got %g", s.Radius)
	}
	return s.mat.Validate()
}
