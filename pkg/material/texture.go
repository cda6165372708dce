package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Texture is a 2D texel buffer sampled with tile-local coordinates
type Texture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x]
}

// NewTexture creates a new texture
func NewTexture(width, height int, pixels []core.Color) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample returns the texel at fractional coordinates (u, v) using nearest-neighbor
// filtering. Coordinates wrap into [0,1); u runs along the image row, v down the columns.
func (t *Texture) Sample(u, v float64) core.Color {
	u -= math.Floor(u)
	v -= math.Floor(v)

	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))

	// Clamp to image bounds
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}

	return t.Pixels[y*t.Width+x]
}
