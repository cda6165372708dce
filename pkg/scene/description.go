package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// FromDescription builds a scene from a parsed description file
func FromDescription(desc *loaders.Description) (*Scene, error) {
	s := NewScene()

	s.SetBoard(geometry.NewBoard(
		desc.BoardTileWidth,
		NewBoardMaterial(desc.BoardAmbient, desc.BoardDiffuse, desc.BoardReflection),
	))

	for i, spec := range desc.Objects {
		mat := material.NewMaterial(spec.Color, spec.Ambient, spec.Diffuse, spec.Specular, spec.Reflective, spec.Shininess)

		switch spec.Type {
		case "sphere":
			s.AddObject(geometry.NewSphere(spec.Position, spec.Radius, mat))
		case "cube":
			s.AddObject(geometry.NewCube(spec.Position, spec.Side, mat))
		case "pyramid":
			s.AddObject(geometry.NewPyramid(spec.Position, spec.Width, spec.Height, mat))
		default:
			return nil, fmt.Errorf("object %d: unknown object type %q", i+1, spec.Type)
		}
	}

	for _, spec := range desc.PointLights {
		s.Lights = append(s.Lights, lights.NewPointLight(spec.Position, spec.Falloff))
	}
	for _, spec := range desc.SpotLights {
		s.Lights = append(s.Lights, lights.NewSpotLight(spec.Position, spec.Falloff, spec.Direction, spec.Cutoff))
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene description: %w", err)
	}
	return s, nil
}

// LoadDescriptionScene loads a description file and builds its scene
func LoadDescriptionScene(filename string) (*Scene, *loaders.Description, error) {
	desc, err := loaders.LoadDescription(filename)
	if err != nil {
		return nil, nil, err
	}
	s, err := FromDescription(desc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, desc, nil
}
