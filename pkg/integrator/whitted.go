package integrator

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ReflectionMode selects how often the mirror reflection is sampled per shading call
type ReflectionMode int

const (
	// ReflectionPerLight adds one reflection sample inside every light iteration,
	// so a surface with n lights receives its reflection n times
	ReflectionPerLight ReflectionMode = iota
	// ReflectionOnce adds a single reflection sample per shading call
	ReflectionOnce
)

func (m ReflectionMode) String() string {
	switch m {
	case ReflectionPerLight:
		return "per-light"
	case ReflectionOnce:
		return "once"
	default:
		return "unknown"
	}
}

// ParseReflectionMode converts a mode name ("per-light" or "once") to a ReflectionMode
func ParseReflectionMode(name string) (ReflectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "per-light", "perlight", "":
		return ReflectionPerLight, nil
	case "once":
		return ReflectionOnce, nil
	default:
		return 0, fmt.Errorf("unknown reflection mode %q (want per-light or once)", name)
	}
}

// Options configures the Whitted integrator
type Options struct {
	Reflection ReflectionMode
}

// DefaultOptions returns the default integrator options
func DefaultOptions() Options {
	return Options{Reflection: ReflectionPerLight}
}

// WhittedIntegrator implements recursive Phong shading with hard shadows and
// mirror reflection
type WhittedIntegrator struct {
	scene   *scene.Scene
	options Options
}

// NewWhittedIntegrator creates a new Whitted integrator over a read-only scene
func NewWhittedIntegrator(sc *scene.Scene, options Options) *WhittedIntegrator {
	return &WhittedIntegrator{
		scene:   sc,
		options: options,
	}
}

// Options returns the integrator's options
func (w *WhittedIntegrator) Options() Options {
	return w.options
}

// RayColor shades the nearest object along ray
func (w *WhittedIntegrator) RayColor(ray core.Ray, budget int) core.Color {
	obj, t, ok := w.scene.NearestHit(ray, nil)
	if !ok {
		return core.Black
	}
	return w.Shade(ray, ray.At(t), t, obj, budget)
}

// Shade computes ambient + diffuse + specular + reflected light at hit and
// brings the sum back into range with Color.Adjust
func (w *WhittedIntegrator) Shade(ray core.Ray, hit core.Vec3, t float64, obj geometry.Object, budget int) core.Color {
	if t <= core.Epsilon || budget <= 0 {
		return core.Black
	}

	mat := obj.Material()
	base := obj.SurfaceColorAt(hit)
	ambient := base.Multiply(mat.Ambient)

	normal := obj.NormalAt(hit, ray.Direction)
	reflectDir := ray.Direction.Reflect(normal)

	// Per-channel light sums; a white light contributes the scalar term on every channel
	var lambert, phong, reflected core.Color

	for _, light := range w.scene.Lights {
		if toLight, distance, lit := w.visible(light, hit, obj); lit {
			attenuation := lights.Attenuation(light, distance)
			diffuseTerm := math.Max(0, toLight.Dot(normal)) * attenuation
			specularTerm := math.Pow(math.Max(0, reflectDir.Dot(toLight)), mat.Shininess) * attenuation

			lambert = lambert.Add(light.Color().Multiply(diffuseTerm))
			phong = phong.Add(light.Color().Multiply(specularTerm))
		}

		if w.options.Reflection == ReflectionPerLight {
			reflected = reflected.Add(w.reflection(hit, reflectDir, obj, budget))
		}
	}

	if w.options.Reflection == ReflectionOnce {
		reflected = w.reflection(hit, reflectDir, obj, budget)
	}

	result := ambient.
		Add(base.MultiplyColor(lambert).Multiply(mat.Diffuse)).
		Add(base.MultiplyColor(phong).Multiply(mat.Specular)).
		Add(reflected)

	return result.Adjust()
}

// visible tests whether light reaches hit on obj. It returns the unit direction
// toward the light and the distance to it.
func (w *WhittedIntegrator) visible(light lights.Light, hit core.Vec3, obj geometry.Object) (core.Vec3, float64, bool) {
	toLight := light.Position().Subtract(hit)
	distance := toLight.Length()
	if distance == 0 {
		return core.Vec3{}, 0, false
	}

	if !light.Illuminates(hit) {
		return core.Vec3{}, 0, false
	}

	// Shadow ray runs from the light to the point. The object's own first hit
	// along it is the reference: anything closer to the light casts the shadow.
	shadowRay := core.NewRayTo(light.Position(), hit)
	limit, ok := obj.Intersect(shadowRay)
	if !ok {
		limit = distance
	}
	if w.scene.Occluded(shadowRay, limit) {
		return core.Vec3{}, 0, false
	}

	return toLight.Multiply(1 / distance), distance, true
}

// reflection traces the mirror ray leaving hit and returns its weighted color
func (w *WhittedIntegrator) reflection(hit, reflectDir core.Vec3, obj geometry.Object, budget int) core.Color {
	mat := obj.Material()
	if budget <= 1 || mat.Reflective == 0 {
		return core.Black
	}

	// Offset the origin so the ray does not immediately re-hit the surface
	ray := core.NewRay(hit.Add(reflectDir.Multiply(2*core.Epsilon)), reflectDir)
	next, t, ok := w.scene.NearestHit(ray, obj)
	if !ok {
		return core.Black
	}

	return w.Shade(ray, ray.At(t), t, next, budget-1).Multiply(mat.Reflective)
}
