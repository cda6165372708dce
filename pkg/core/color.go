package core

import "math"

// Color is an RGB triple. Channels are nominally in [0,1], but the sums produced
// while shading may leave that range until Adjust is applied.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Black is the zero color
var Black = Color{}

// White is full intensity on every channel
var White = Color{1, 1, 1}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply scales every channel by scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// MultiplyColor returns the channel-wise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Luminance returns the perceptual luminance of the color
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// IsBlack reports whether every channel is exactly zero
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Adjust restores the [0,1] range by proportional desaturation instead of a hard clamp.
//
// Channels are visited in R, G, B order and each step sees the result of the
// previous one. A channel above 1 divides the other two channels by its value and
// becomes 1. A negative channel divides the other two by 1+|c| and becomes 0.
// Every step only shrinks the channels it rescales, so a single pass always lands
// inside [0,1] and applying Adjust again is a no-op.
func (c Color) Adjust() Color {
	ch := [3]float64{c.R, c.G, c.B}
	for i := range ch {
		var divisor float64
		switch {
		case ch[i] > 1:
			divisor = ch[i]
			ch[i] = 1
		case ch[i] < 0:
			divisor = 1 + math.Abs(ch[i])
			ch[i] = 0
		default:
			continue
		}
		for j := range ch {
			if j != i {
				ch[j] /= divisor
			}
		}
	}
	return Color{ch[0], ch[1], ch[2]}
}

// Clamp returns a color with channels clamped to [min, max]
func (c Color) Clamp(minVal, maxVal float64) Color {
	return Color{
		R: max(minVal, min(maxVal, c.R)),
		G: max(minVal, min(maxVal, c.G)),
		B: max(minVal, min(maxVal, c.B)),
	}
}
