package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Shade computes the outgoing color at hit, the point at parameter t along
	// ray on obj, with budget levels of recursion remaining
	Shade(ray core.Ray, hit core.Vec3, t float64, obj geometry.Object, budget int) core.Color

	// RayColor finds the nearest object along ray and shades it, or returns black
	RayColor(ray core.Ray, budget int) core.Color
}
