package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Scene contains the objects and lights of a render. It is read-only once
// rendering starts and may be shared by any number of workers.
type Scene struct {
	Objects []geometry.Object // Objects in the scene, board included
	Lights  []lights.Light    // Lights in the scene
	Board   *geometry.Board   // The checkered ground, if any (also listed in Objects)
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{
		Objects: make([]geometry.Object, 0),
		Lights:  make([]lights.Light, 0),
	}
}

// AddObject adds an object to the scene
func (s *Scene) AddObject(obj geometry.Object) {
	s.Objects = append(s.Objects, obj)
}

// SetBoard adds the checkered ground, replacing any previous board
func (s *Scene) SetBoard(board *geometry.Board) {
	if s.Board != nil {
		for i, obj := range s.Objects {
			if obj == geometry.Object(s.Board) {
				s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
				break
			}
		}
	}
	s.Board = board
	s.Objects = append([]geometry.Object{board}, s.Objects...)
}

// AddPointLight adds a white point light to the scene
func (s *Scene) AddPointLight(position core.Vec3, falloff float64) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, falloff))
}

// AddSpotLight adds a white spot light to the scene
func (s *Scene) AddSpotLight(position core.Vec3, falloff float64, direction core.Vec3, cutoffDegrees float64) {
	s.Lights = append(s.Lights, lights.NewSpotLight(position, falloff, direction, cutoffDegrees))
}

// EnableTextures switches the board to texture mode
func (s *Scene) EnableTextures(white, black *material.Texture) error {
	if s.Board == nil {
		return fmt.Errorf("scene has no board to texture")
	}
	s.Board.SetTextures(white, black)
	return nil
}

// NearestHit scans every object except exclude (which may be nil) and returns
// the one with the smallest positive ray parameter
func (s *Scene) NearestHit(ray core.Ray, exclude geometry.Object) (geometry.Object, float64, bool) {
	var nearest geometry.Object
	tMin := 0.0
	for _, obj := range s.Objects {
		if exclude != nil && obj == exclude {
			continue
		}
		if t, ok := obj.Intersect(ray); ok && (nearest == nil || t < tMin) {
			nearest, tMin = obj, t
		}
	}
	return nearest, tMin, nearest != nil
}

// Occluded reports whether any object intersects ray at a parameter below limit
func (s *Scene) Occluded(ray core.Ray, limit float64) bool {
	for _, obj := range s.Objects {
		if t, ok := obj.Intersect(ray); ok && t < limit {
			return true
		}
	}
	return false
}

// Validate checks every object and light
func (s *Scene) Validate() error {
	for i, obj := range s.Objects {
		if err := obj.Validate(); err != nil {
			return fmt.Errorf("object %d (%s): %w", i, obj.Kind(), err)
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return fmt.Errorf("light %d (%s): %w", i, light.Kind(), err)
		}
	}
	return nil
}

// GetObjectCount returns the number of objects, board included
func (s *Scene) GetObjectCount() int {
	return len(s.Objects)
}
