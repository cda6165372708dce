package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// DefaultBoardTileWidth is the tile edge of the default scene's board
const DefaultBoardTileWidth = 20.0

// NewBoardMaterial builds the board material from its three coefficients.
// Tile colors come from the board itself; the board has no highlight.
func NewBoardMaterial(ambient, diffuse, reflective float64) material.Material {
	return material.NewMaterial(core.White, ambient, diffuse, 0, reflective, 0)
}

// NewDefaultScene creates the demo scene: a reflective board with a sphere,
// a pyramid and a cube, lit by two point lights and one spot light
func NewDefaultScene() *Scene {
	s := NewScene()

	s.SetBoard(geometry.NewBoard(DefaultBoardTileWidth, NewBoardMaterial(0.4, 0.2, 0.4)))

	redShiny := material.NewMaterial(core.NewColor(1, 0, 0), 0.04, 0.03, 0.03, 0.02, 10)
	greenMatte := material.NewMaterial(core.NewColor(0, 1, 0), 0.4, 0.2, 0.0, 0.4, 1)
	yellowMirror := material.NewMaterial(core.NewColor(0.5, 0.5, 0), 0.4, 0.2, 0.2, 0.2, 5)

	s.AddObject(geometry.NewSphere(core.NewVec3(20, 20, 20), 20, redShiny))
	s.AddObject(geometry.NewPyramid(core.NewVec3(-40, 0, 5), 30, 40, greenMatte))
	s.AddObject(geometry.NewCube(core.NewVec3(-100, -100, 0), 40, yellowMirror))

	s.AddPointLight(core.NewVec3(70, 70, 70), 0.000002)
	s.AddPointLight(core.NewVec3(-70, 70, 70), 0.000002)
	s.AddSpotLight(core.NewVec3(0, 0, 100), 0.0000005, core.NewVec3(0, 0, -1), 30)

	return s
}
