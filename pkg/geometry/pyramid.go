package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Pyramid is a four-sided pyramid with a square, axis-aligned base
type Pyramid struct {
	surface
	BaseCenter core.Vec3 // Lowest point: center of the base
	Width      float64   // Base side length
	Height     float64
	Apex       core.Vec3
	sides      [4]Triangle
	base       Rect
}

// NewPyramid creates a pyramid standing on baseCenter. The base corners and
// faces are computed once here; the pyramid is read-only afterwards.
func NewPyramid(baseCenter core.Vec3, width, height float64, mat material.Material) *Pyramid {
	p := &Pyramid{
		surface:    surface{mat: mat},
		BaseCenter: baseCenter,
		Width:      width,
		Height:     height,
		Apex:       baseCenter.Add(core.NewVec3(0, 0, height)),
	}

	h := width / 2
	// Counter-clockwise seen from above so the side normals point outward
	corners := [4]core.Vec3{
		baseCenter.Add(core.NewVec3(h, -h, 0)),
		baseCenter.Add(core.NewVec3(h, h, 0)),
		baseCenter.Add(core.NewVec3(-h, h, 0)),
		baseCenter.Add(core.NewVec3(-h, -h, 0)),
	}
	for i := range p.sides {
		p.sides[i] = NewTriangle(corners[i], corners[(i+1)%4], p.Apex)
	}
	p.base = NewRect(corners[3], corners[1])

	return p
}

// Kind implements Object
func (p *Pyramid) Kind() Kind { return KindPyramid }

// Intersect returns the minimum positive t across the 4 sides and the base
func (p *Pyramid) Intersect(ray core.Ray) (float64, bool) {
	tMin, found := p.base.Intersect(ray)
	for _, side := range p.sides {
		if t, ok := side.Intersect(ray); ok && (!found || t < tMin) {
			tMin, found = t, true
		}
	}
	return tMin, found
}

// NormalAt checks the base plane first, then picks the side whose plane passes
// through the point
func (p *Pyramid) NormalAt(point, incident core.Vec3) core.Vec3 {
	if math.Abs(point.Z-p.BaseCenter.Z) < core.Epsilon {
		return faceForward(core.NewVec3(0, 0, -1), incident)
	}

	best := p.sides[0].Normal()
	bestDistance := math.Inf(1)
	for _, side := range p.sides {
		distance := math.Abs(side.Normal().Dot(point.Subtract(side.A)))
		if distance < bestDistance {
			best, bestDistance = side.Normal(), distance
		}
	}
	return faceForward(best, incident)
}

// Validate checks the pyramid's geometry and material
func (p *Pyramid) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("pyramid width and height must be positive, got %g x %g", p.Width, p.Height)
	}
	return p.mat.Validate()
}
