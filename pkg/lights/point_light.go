package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight is an omnidirectional light with exponential distance falloff
type PointLight struct {
	position core.Vec3
	color    core.Color
	falloff  float64
}

// NewPointLight creates a white point light
func NewPointLight(position core.Vec3, falloff float64) *PointLight {
	return NewColoredPointLight(position, core.White, falloff)
}

// NewColoredPointLight creates a point light with an explicit color
func NewColoredPointLight(position core.Vec3, color core.Color, falloff float64) *PointLight {
	return &PointLight{
		position: position,
		color:    color,
		falloff:  falloff,
	}
}

// Kind implements Light
func (pl *PointLight) Kind() Kind { return KindPoint }

// Position returns the light position
func (pl *PointLight) Position() core.Vec3 { return pl.position }

// Color returns the light color
func (pl *PointLight) Color() core.Color { return pl.color }

// Falloff returns the attenuation coefficient
func (pl *PointLight) Falloff() float64 { return pl.falloff }

// Illuminates is always true for a point light
func (pl *PointLight) Illuminates(point core.Vec3) bool { return true }

// Validate checks the falloff and color
func (pl *PointLight) Validate() error {
	if pl.falloff < 0 {
		return fmt.Errorf("light falloff must be non-negative, got %g", pl.falloff)
	}
	if pl.color.R < 0 || pl.color.G < 0 || pl.color.B < 0 {
		return fmt.Errorf("light color must be non-negative, got %v", pl.color)
	}
	return nil
}
