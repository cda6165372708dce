package lights

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Kind tags the concrete light behind a Light
type Kind int

const (
	KindPoint Kind = iota
	KindSpot
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is a point-like light source used for direct illumination and shadow rays
type Light interface {
	Kind() Kind
	Position() core.Vec3
	Color() core.Color
	// Falloff is the exponential attenuation coefficient
	Falloff() float64
	// Illuminates reports whether point lies inside the light's emission cone.
	// Omnidirectional lights illuminate every point.
	Illuminates(point core.Vec3) bool
	Validate() error
}

// Attenuation returns exp(-distance²·falloff) for light l at the given distance
func Attenuation(l Light, distance float64) float64 {
	return math.Exp(-distance * distance * l.Falloff())
}
