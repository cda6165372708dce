package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Cube is an axis-aligned cube made up of 6 rectangles
type Cube struct {
	surface
	Corner core.Vec3 // Bottom-left-front corner (minimum x, y and z)
	Side   float64
	faces  [6]Rect
}

// NewCube creates a cube from its bottom-left-front corner and side length
func NewCube(corner core.Vec3, side float64, mat material.Material) *Cube {
	c := &Cube{
		surface: surface{mat: mat},
		Corner:  corner,
		Side:    side,
	}

	x, y, z := corner.X, corner.Y, corner.Z
	s := side
	c.faces = [6]Rect{
		NewRect(core.NewVec3(x, y, z), core.NewVec3(x+s, y+s, z)),     // bottom
		NewRect(core.NewVec3(x, y, z), core.NewVec3(x, y+s, z+s)),     // left
		NewRect(core.NewVec3(x, y, z), core.NewVec3(x+s, y, z+s)),     // back
		NewRect(core.NewVec3(x+s, y, z), core.NewVec3(x+s, y+s, z+s)), // right
		NewRect(core.NewVec3(x, y+s, z), core.NewVec3(x+s, y+s, z+s)), // front
		NewRect(core.NewVec3(x, y, z+s), core.NewVec3(x+s, y+s, z+s)), // top
	}
	return c
}

// Kind implements Object
func (c *Cube) Kind() Kind { return KindCube }

// Intersect returns the minimum positive t across all 6 faces
func (c *Cube) Intersect(ray core.Ray) (float64, bool) {
	tMin, found := 0.0, false
	for _, face := range c.faces {
		if t, ok := face.Intersect(ray); ok && (!found || t < tMin) {
			tMin, found = t, true
		}
	}
	return tMin, found
}

// NormalAt picks the face whose plane the point lies on, testing bottom, top,
// left, right, back and front in that order
func (c *Cube) NormalAt(point, incident core.Vec3) core.Vec3 {
	lo, hi := c.Corner, c.Corner.Add(core.NewVec3(c.Side, c.Side, c.Side))

	candidates := []struct {
		distance float64
		normal   core.Vec3
	}{
		{math.Abs(point.Z - lo.Z), core.NewVec3(0, 0, -1)},
		{math.Abs(point.Z - hi.Z), core.NewVec3(0, 0, 1)},
		{math.Abs(point.X - lo.X), core.NewVec3(-1, 0, 0)},
		{math.Abs(point.X - hi.X), core.NewVec3(1, 0, 0)},
		{math.Abs(point.Y - lo.Y), core.NewVec3(0, -1, 0)},
		{math.Abs(point.Y - hi.Y), core.NewVec3(0, 1, 0)},
	}

	best := 0
	for i, candidate := range candidates {
		if candidate.distance <= core.Epsilon {
			return faceForward(candidate.normal, incident)
		}
		if candidate.distance < candidates[best].distance {
			best = i
		}
	}

	// Off every face band: fall back to the nearest face
	return faceForward(candidates[best].normal, incident)
}

// Validate checks the cube's geometry and material
func (c *Cube) Validate() error {
	if c.Side <= 0 {
		return fmt.Errorf("cube side must be positive, got %g", c.Side)
	}
	return c.mat.Validate()
}
