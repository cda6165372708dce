package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material holds the Phong coefficients of a scene object
type Material struct {
	Color      core.Color // Base surface color
	Ambient    float64    // Ambient coefficient in [0,1]
	Diffuse    float64    // Lambertian coefficient in [0,1]
	Specular   float64    // Phong highlight coefficient in [0,1]
	Reflective float64    // Mirror reflection coefficient in [0,1]
	Shininess  float64    // Phong exponent
}

// NewMaterial creates a new material
func NewMaterial(color core.Color, ambient, diffuse, specular, reflective, shininess float64) Material {
	return Material{
		Color:      color,
		Ambient:    ambient,
		Diffuse:    diffuse,
		Specular:   specular,
		Reflective: reflective,
		Shininess:  shininess,
	}
}

// NewDiffuse creates a purely diffuse material
func NewDiffuse(color core.Color) Material {
	return NewMaterial(color, 0, 1, 0, 0, 0)
}

// Validate checks that all coefficients are in range
func (m Material) Validate() error {
	coefficients := []struct {
		name  string
		value float64
	}{
		{"ambient", m.Ambient},
		{"diffuse", m.Diffuse},
		{"specular", m.Specular},
		{"reflective", m.Reflective},
	}
	for _, c := range coefficients {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%s coefficient must be in [0,1], got %g", c.name, c.value)
		}
	}
	if m.Shininess < 0 {
		return fmt.Errorf("shininess must be non-negative, got %g", m.Shininess)
	}
	return nil
}
