package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Kind tags the concrete shape behind an Object
type Kind int

const (
	KindBoard Kind = iota
	KindSphere
	KindCube
	KindPyramid
)

func (k Kind) String() string {
	switch k {
	case KindBoard:
		return "board"
	case KindSphere:
		return "sphere"
	case KindCube:
		return "cube"
	case KindPyramid:
		return "pyramid"
	default:
		return "unknown"
	}
}

// Object is a renderable scene object: a shape plus the material it owns
type Object interface {
	Kind() Kind
	// Intersect returns the smallest positive ray parameter at which the ray
	// meets the surface, or false if there is none.
	Intersect(ray core.Ray) (float64, bool)
	// NormalAt returns the unit normal at a surface point, facing against incident.
	NormalAt(point, incident core.Vec3) core.Vec3
	// SurfaceColorAt returns the base color at a surface point
	SurfaceColorAt(point core.Vec3) core.Color
	Material() *material.Material
	Validate() error
}

// surface carries the material shared by every object kind
type surface struct {
	mat material.Material
}

// Material returns the object's material
func (s *surface) Material() *material.Material {
	return &s.mat
}

// SurfaceColorAt defaults to the material's base color
func (s *surface) SurfaceColorAt(point core.Vec3) core.Color {
	return s.mat.Color
}

// faceForward flips normal when it points into the half-space the incident ray came from
func faceForward(normal, incident core.Vec3) core.Vec3 {
	if normal.Dot(incident) >= 0 {
		return normal.Negate()
	}
	return normal
}
