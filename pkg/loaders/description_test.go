package loaders

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

const sampleDescription = `# Scene: Sample
1 1000 80 1
3 768

20
0.4 0.2 0.4

3
sphere
20 20 20
20
1 0 0
0.04 0.03 0.03 0.02
10

pyramid
-40 0 5
30 40
1 0 0
0.4 0.2 0.0 0.4
1

cube
-100 -100 0
40
0.5 0.5 0
0.4 0.2 0.2 0.2
5

2
70 70 70 0.000002
-70 70 70 0.000002

1
0 0 100 0.0000005 0 0 -1 30
`

func TestParseDescription(t *testing.T) {
	desc, err := ParseDescription(strings.NewReader(sampleDescription))
	if err != nil {
		t.Fatalf("ParseDescription failed: %v", err)
	}

	if desc.NearPlane != 1 || desc.FarPlane != 1000 || desc.FovY != 80 || desc.AspectRatio != 1 {
		t.Errorf("Unexpected camera parameters: %+v", desc)
	}
	if desc.RecursionDepth != 3 || desc.ImageWidth != 768 {
		t.Errorf("Expected recursion 3 and width 768, got %d and %d", desc.RecursionDepth, desc.ImageWidth)
	}
	if desc.BoardTileWidth != 20 || desc.BoardAmbient != 0.4 || desc.BoardDiffuse != 0.2 || desc.BoardReflection != 0.4 {
		t.Errorf("Unexpected board parameters: %+v", desc)
	}

	if len(desc.Objects) != 3 {
		t.Fatalf("Expected 3 objects, got %d", len(desc.Objects))
	}

	sphere := desc.Objects[0]
	if sphere.Type != "sphere" || sphere.Position != core.NewVec3(20, 20, 20) || sphere.Radius != 20 {
		t.Errorf("Unexpected sphere: %+v", sphere)
	}
	if sphere.Color != core.NewColor(1, 0, 0) || sphere.Reflective != 0.02 || sphere.Shininess != 10 {
		t.Errorf("Unexpected sphere material: %+v", sphere)
	}

	pyramid := desc.Objects[1]
	if pyramid.Type != "pyramid" || pyramid.Width != 30 || pyramid.Height != 40 {
		t.Errorf("Unexpected pyramid: %+v", pyramid)
	}

	cube := desc.Objects[2]
	if cube.Type != "cube" || cube.Position != core.NewVec3(-100, -100, 0) || cube.Side != 40 {
		t.Errorf("Unexpected cube: %+v", cube)
	}

	if len(desc.PointLights) != 2 {
		t.Fatalf("Expected 2 point lights, got %d", len(desc.PointLights))
	}
	if desc.PointLights[1].Position != core.NewVec3(-70, 70, 70) || desc.PointLights[1].Falloff != 0.000002 {
		t.Errorf("Unexpected point light: %+v", desc.PointLights[1])
	}

	if len(desc.SpotLights) != 1 {
		t.Fatalf("Expected 1 spot light, got %d", len(desc.SpotLights))
	}
	spot := desc.SpotLights[0]
	if spot.Direction != core.NewVec3(0, 0, -1) || spot.Cutoff != 30 {
		t.Errorf("Unexpected spot light: %+v", spot)
	}
}

func TestParseDescription_OptionalSpotSection(t *testing.T) {
	input := "1 100 60 1\n1 10\n5\n0.5 0.5 0\n0\n1\n0 0 10 0\n"
	desc, err := ParseDescription(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDescription failed: %v", err)
	}
	if len(desc.PointLights) != 1 || len(desc.SpotLights) != 0 {
		t.Errorf("Expected 1 point light and no spot lights, got %d and %d", len(desc.PointLights), len(desc.SpotLights))
	}
}

func TestParseDescription_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "truncated header",
			input:    "1 1000 80",
			contains: "camera parameters",
		},
		{
			name:     "bad number",
			input:    "1 1000 eighty 1",
			contains: `line 1: invalid number "eighty"`,
		},
		{
			name:     "unknown object",
			input:    "1 100 60 1\n1 10\n5\n0.5 0.5 0\n1\ncone 0 0 0 1\n",
			contains: `unknown object type "cone"`,
		},
		{
			name:     "negative count",
			input:    "1 100 60 1\n1 10\n5\n0.5 0.5 0\n-2\n",
			contains: "object count must be non-negative",
		},
		{
			name:     "trailing tokens",
			input:    "1 100 60 1\n1 10\n5\n0.5 0.5 0\n0\n0\n0\nextra\n",
			contains: `unexpected trailing token "extra"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %q", tt.contains, err.Error())
			}
		})
	}
}

func TestParseDescription_TruncatedObjectWrapsEOF(t *testing.T) {
	input := "1 100 60 1\n1 10\n5\n0.5 0.5 0\n1\nsphere 0 0 0\n"
	_, err := ParseDescription(strings.NewReader(input))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected wrapped io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestLoadDescription(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "description.txt")
	if err := os.WriteFile(path, []byte(sampleDescription), 0644); err != nil {
		t.Fatalf("Failed to write description: %v", err)
	}

	desc, err := LoadDescription(path)
	if err != nil {
		t.Fatalf("LoadDescription failed: %v", err)
	}
	if len(desc.Objects) != 3 {
		t.Errorf("Expected 3 objects, got %d", len(desc.Objects))
	}

	if _, err := LoadDescription(filepath.Join(tmpDir, "scene.pbrt")); err == nil {
		t.Error("Expected error for non-.txt file")
	}
	if _, err := LoadDescription(filepath.Join(tmpDir, "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
