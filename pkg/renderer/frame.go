package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Frame is a row-major buffer of shaded pixel colors
type Frame struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// Bounds returns the frame rectangle in pixel coordinates
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At returns the color of pixel (row, col)
func (f *Frame) At(row, col int) core.Color {
	return f.Pixels[row*f.Width+col]
}

// Set stores the color of pixel (row, col)
func (f *Frame) Set(row, col int, c core.Color) {
	f.Pixels[row*f.Width+col] = c
}

// toRGBA converts a shaded color to 8-bit RGBA with clamping
func toRGBA(c core.Color) color.RGBA {
	c = c.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * c.R),
		G: uint8(255 * c.G),
		B: uint8(255 * c.B),
		A: 255,
	}
}

// ToRGBA converts the frame to an image
func (f *Frame) ToRGBA() *image.RGBA {
	return f.TileImage(f.Bounds())
}

// TileImage converts the pixels inside bounds to an image whose origin is the
// top-left corner of bounds
func (f *Frame) TileImage(bounds image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		for col := bounds.Min.X; col < bounds.Max.X; col++ {
			img.SetRGBA(col-bounds.Min.X, row-bounds.Min.Y, toRGBA(f.At(row, col)))
		}
	}
	return img
}
