package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func assertVecNear(t *testing.T, name string, got, expected core.Vec3) {
	t.Helper()
	const tolerance = 1e-9
	if math.Abs(got.X-expected.X) > tolerance ||
		math.Abs(got.Y-expected.Y) > tolerance ||
		math.Abs(got.Z-expected.Z) > tolerance {
		t.Errorf("%s: expected %v, got %v", name, expected, got)
	}
}

func assertOrthonormal(t *testing.T, name string, cc CameraConfig) {
	t.Helper()
	const tolerance = 1e-9
	for _, v := range []core.Vec3{cc.Look, cc.Right, cc.Up} {
		if math.Abs(v.Length()-1) > tolerance {
			t.Errorf("%s: expected unit basis vector, got %v (length %f)", name, v, v.Length())
		}
	}
	if math.Abs(cc.Look.Dot(cc.Right)) > tolerance ||
		math.Abs(cc.Look.Dot(cc.Up)) > tolerance ||
		math.Abs(cc.Right.Dot(cc.Up)) > tolerance {
		t.Errorf("%s: expected orthogonal basis, got look=%v right=%v up=%v", name, cc.Look, cc.Right, cc.Up)
	}
	// Right-handed: right = look × up
	assertVecNear(t, name+" handedness", cc.Look.Cross(cc.Up), cc.Right)
}

// createTestCamera looks down -z from (0,0,10) with +y up
func createTestCamera(width, height int) *Camera {
	config := DefaultConfig()
	config.Width = width
	config.Height = height
	config.FovY = 90
	cameraConfig := NewLookAtCameraConfig(
		core.NewVec3(0, 0, 10),
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
	)
	return NewCamera(cameraConfig, config)
}

func TestDefaultCameraConfig(t *testing.T) {
	cc := DefaultCameraConfig()
	assertOrthonormal(t, "default", cc)
	assertVecNear(t, "eye", cc.Eye, core.NewVec3(0, -200, 100))
	if cc.Look.Z >= 0 || cc.Look.Y <= 0 {
		t.Errorf("Expected default view to look forward and down, got %v", cc.Look)
	}
	if cc.Up.Z <= 0 {
		t.Errorf("Expected default up to point toward +z, got %v", cc.Up)
	}
}

func TestNewLookAtCameraConfig(t *testing.T) {
	cc := NewLookAtCameraConfig(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	assertOrthonormal(t, "look-at", cc)
	assertVecNear(t, "look", cc.Look, core.NewVec3(0, 0, -1))
	assertVecNear(t, "right", cc.Right, core.NewVec3(1, 0, 0))
	assertVecNear(t, "up", cc.Up, core.NewVec3(0, 1, 0))
}

func TestCamera_PrimaryRayCenter(t *testing.T) {
	camera := createTestCamera(5, 5)
	ray := camera.PrimaryRay(2, 2)

	assertVecNear(t, "origin", ray.Origin, core.NewVec3(0, 0, 10))
	assertVecNear(t, "direction", ray.Direction, core.NewVec3(0, 0, -1))
}

func TestCamera_PrimaryRayOrientation(t *testing.T) {
	camera := createTestCamera(4, 4)

	// Row 0 is the top of the image and col 0 the left
	topLeft := camera.PrimaryRay(0, 0).Direction
	if topLeft.X >= 0 || topLeft.Y <= 0 {
		t.Errorf("Expected top-left ray to point left and up, got %v", topLeft)
	}
	bottomRight := camera.PrimaryRay(3, 3).Direction
	if bottomRight.X <= 0 || bottomRight.Y >= 0 {
		t.Errorf("Expected bottom-right ray to point right and down, got %v", bottomRight)
	}

	// 90° fov with near plane 1: window spans [-1,1], pixel centers at ±0.25 and ±0.75
	expected := core.NewVec3(-0.75, 0.75, -1).Normalize()
	assertVecNear(t, "top-left direction", topLeft, expected)
}

func TestCamera_PrimaryRayDirectionsAreUnit(t *testing.T) {
	camera := createTestCamera(7, 3)
	for row := 0; row < 3; row++ {
		for col := 0; col < 7; col++ {
			d := camera.PrimaryRay(row, col).Direction
			if math.Abs(d.Length()-1) > 1e-9 {
				t.Errorf("Expected unit direction at (%d,%d), got length %f", row, col, d.Length())
			}
		}
	}
}

func TestCamera_Move(t *testing.T) {
	tests := []struct {
		name                       string
		forward, rightward, upward float64
		expected                   core.Vec3
	}{
		{"forward", 2, 0, 0, core.NewVec3(0, 0, 8)},
		{"backward", -2, 0, 0, core.NewVec3(0, 0, 12)},
		{"right", 0, 3, 0, core.NewVec3(3, 0, 10)},
		{"up", 0, 0, 4, core.NewVec3(0, 4, 10)},
		{"combined", 1, 1, 1, core.NewVec3(1, 1, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := createTestCamera(4, 4)
			camera.Move(tt.forward, tt.rightward, tt.upward)
			assertVecNear(t, "eye", camera.Config().Eye, tt.expected)
		})
	}
}

func TestCamera_Rotations(t *testing.T) {
	tests := []struct {
		name   string
		rotate func(c *Camera)
		check  func(t *testing.T, cc CameraConfig)
	}{
		{
			name:   "yaw left",
			rotate: func(c *Camera) { c.Yaw(RotationRate) },
			check: func(t *testing.T, cc CameraConfig) {
				if cc.Look.X >= 0 {
					t.Errorf("Expected look to turn toward -x, got %v", cc.Look)
				}
				assertVecNear(t, "up", cc.Up, core.NewVec3(0, 1, 0))
			},
		},
		{
			name:   "pitch up",
			rotate: func(c *Camera) { c.Pitch(RotationRate) },
			check: func(t *testing.T, cc CameraConfig) {
				if cc.Look.Y <= 0 {
					t.Errorf("Expected look to tilt toward +y, got %v", cc.Look)
				}
				assertVecNear(t, "right", cc.Right, core.NewVec3(1, 0, 0))
			},
		},
		{
			name:   "roll",
			rotate: func(c *Camera) { c.Roll(RotationRate) },
			check: func(t *testing.T, cc CameraConfig) {
				if cc.Up.X <= 0 {
					t.Errorf("Expected up to tilt toward +x, got %v", cc.Up)
				}
				assertVecNear(t, "look", cc.Look, core.NewVec3(0, 0, -1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := createTestCamera(4, 4)
			eye := camera.Config().Eye
			tt.rotate(camera)
			cc := camera.Config()
			assertOrthonormal(t, tt.name, cc)
			assertVecNear(t, "eye unchanged", cc.Eye, eye)
			tt.check(t, cc)
		})
	}
}

func TestCamera_RotationsStayOrthonormal(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig(), DefaultConfig())
	for i := 0; i < 500; i++ {
		camera.Yaw(RotationRate)
		camera.Pitch(-RotationRate)
		camera.Roll(RotationRate)
	}
	assertOrthonormal(t, "after 1500 rotations", camera.Config())
}

func TestCamera_YawRoundTrip(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig(), DefaultConfig())
	start := camera.Config()
	camera.Yaw(RotationRate)
	camera.Yaw(-RotationRate)
	end := camera.Config()

	const tolerance = 1e-9
	if end.Look.DistanceTo(start.Look) > tolerance || end.Right.DistanceTo(start.Right) > tolerance {
		t.Errorf("Expected yaw and inverse yaw to restore the basis, got look=%v right=%v", end.Look, end.Right)
	}
}
