package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SpotLight is a point light restricted to a cone around its direction
type SpotLight struct {
	PointLight
	direction core.Vec3 // Normalized
	cutoff    float64   // Cone half-angle in degrees
}

// NewSpotLight creates a white spot light.
// direction: axis of the cone, normalized here
// cutoffDegrees: half-angle of the cone in degrees
func NewSpotLight(position core.Vec3, falloff float64, direction core.Vec3, cutoffDegrees float64) *SpotLight {
	return NewColoredSpotLight(position, core.White, falloff, direction, cutoffDegrees)
}

// NewColoredSpotLight creates a spot light with an explicit color
func NewColoredSpotLight(position core.Vec3, color core.Color, falloff float64, direction core.Vec3, cutoffDegrees float64) *SpotLight {
	return &SpotLight{
		PointLight: PointLight{
			position: position,
			color:    color,
			falloff:  falloff,
		},
		direction: direction.Normalize(),
		cutoff:    cutoffDegrees,
	}
}

// Kind implements Light
func (sl *SpotLight) Kind() Kind { return KindSpot }

// Direction returns the unit cone axis
func (sl *SpotLight) Direction() core.Vec3 { return sl.direction }

// Cutoff returns the cone half-angle in degrees
func (sl *SpotLight) Cutoff() float64 { return sl.cutoff }

// Illuminates reports whether the angle between light→point and the cone axis
// is within the cutoff
func (sl *SpotLight) Illuminates(point core.Vec3) bool {
	toPoint := point.Subtract(sl.position)
	distance := toPoint.Length()
	if distance == 0 {
		return true
	}

	cosAngle := toPoint.Multiply(1 / distance).Dot(sl.direction)
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	angle := math.Acos(cosAngle) * 180 / math.Pi
	return angle <= sl.cutoff
}

// Validate checks the point-light parameters, direction and cutoff
func (sl *SpotLight) Validate() error {
	if err := sl.PointLight.Validate(); err != nil {
		return err
	}
	if sl.direction.LengthSquared() == 0 {
		return fmt.Errorf("spot light direction must be non-zero")
	}
	if sl.cutoff < 0 || sl.cutoff > 180 {
		return fmt.Errorf("spot light cutoff must be in [0,180] degrees, got %g", sl.cutoff)
	}
	return nil
}
