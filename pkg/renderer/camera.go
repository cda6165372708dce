package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// RotationRate is the angle in radians applied by one camera rotation step
const RotationRate = 0.05

// CameraConfig is the camera basis: eye position plus unit look, right and up vectors
type CameraConfig struct {
	Eye   core.Vec3
	Look  core.Vec3
	Right core.Vec3
	Up    core.Vec3
}

// DefaultCameraConfig returns the demo viewpoint: above and behind the board,
// looking slightly downward across it
func DefaultCameraConfig() CameraConfig {
	look := core.NewVec3(0, 50, -10).Normalize()
	right := core.NewVec3(1, 0, 0)
	return CameraConfig{
		Eye:   core.NewVec3(0, -200, 100),
		Look:  look,
		Right: right,
		Up:    right.Cross(look).Normalize(),
	}
}

// NewLookAtCameraConfig builds a camera basis at eye looking at target with the given approximate up
func NewLookAtCameraConfig(eye, target, up core.Vec3) CameraConfig {
	look := target.Subtract(eye).Normalize()
	right := look.Cross(up).Normalize()
	return CameraConfig{
		Eye:   eye,
		Look:  look,
		Right: right,
		Up:    right.Cross(look).Normalize(),
	}
}

// Camera generates primary rays through the pixels of the near-plane window
type Camera struct {
	config CameraConfig
	near   float64
	width  int
	height int

	windowWidth  float64
	windowHeight float64
}

// NewCamera creates a camera for an image of config.Width x config.Height pixels
func NewCamera(cameraConfig CameraConfig, config Config) *Camera {
	fovY := config.FovY * math.Pi / 180
	fovX := fovY * config.AspectRatio

	return &Camera{
		config:       cameraConfig,
		near:         config.NearPlane,
		width:        config.Width,
		height:       config.Height,
		windowHeight: 2 * config.NearPlane * math.Tan(fovY/2),
		windowWidth:  2 * config.NearPlane * math.Tan(fovX/2),
	}
}

// Config returns the current camera basis
func (c *Camera) Config() CameraConfig {
	return c.config
}

// PrimaryRay returns the ray from the eye through the center of pixel (row, col),
// with row 0 at the top and col 0 at the left of the image
func (c *Camera) PrimaryRay(row, col int) core.Ray {
	du := c.windowWidth / float64(c.width)
	dv := c.windowHeight / float64(c.height)

	cc := c.config
	topLeft := cc.Eye.
		Add(cc.Look.Multiply(c.near)).
		Subtract(cc.Right.Multiply(c.windowWidth / 2)).
		Add(cc.Up.Multiply(c.windowHeight / 2))

	// Pixel centers sit half a pixel in from the window edge
	pixel := topLeft.
		Add(cc.Right.Multiply((float64(col) + 0.5) * du)).
		Subtract(cc.Up.Multiply((float64(row) + 0.5) * dv))

	return core.NewRayTo(cc.Eye, pixel)
}

// Move translates the eye along the look, right and up axes
func (c *Camera) Move(forward, rightward, upward float64) {
	cc := &c.config
	cc.Eye = cc.Eye.
		Add(cc.Look.Multiply(forward)).
		Add(cc.Right.Multiply(rightward)).
		Add(cc.Up.Multiply(upward))
}

// Yaw turns the view about the up axis; positive angles turn left
func (c *Camera) Yaw(angle float64) {
	cc := &c.config
	cc.Right, cc.Look = cc.Right.Rotate(cc.Look, angle), cc.Look.Rotate(cc.Right, -angle)
	c.orthonormalize()
}

// Pitch tilts the view about the right axis; positive angles look up
func (c *Camera) Pitch(angle float64) {
	cc := &c.config
	cc.Look, cc.Up = cc.Look.Rotate(cc.Up, angle), cc.Up.Rotate(cc.Look, -angle)
	c.orthonormalize()
}

// Roll rotates the view about the look axis; positive angles tilt up toward right
func (c *Camera) Roll(angle float64) {
	cc := &c.config
	cc.Up, cc.Right = cc.Up.Rotate(cc.Right, angle), cc.Right.Rotate(cc.Up, -angle)
	c.orthonormalize()
}

// orthonormalize removes the drift accumulated by repeated rotations
func (c *Camera) orthonormalize() {
	cc := &c.config
	cc.Look = cc.Look.Normalize()
	cc.Right = cc.Look.Cross(cc.Up).Normalize()
	cc.Up = cc.Right.Cross(cc.Look).Normalize()
}
