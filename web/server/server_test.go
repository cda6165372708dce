package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const testDescription = `# Scene: Two Spheres
# Group: Samples
1 1000 60 1
2 32

20
0.4 0.2 0.4

2
sphere
0 0 20
10
1 0 0
0.1 0.6 0.3 0.2
20

sphere
30 30 10
10
0 0 1
0.1 0.6 0.3 0.0
5

1
70 70 70 0.000002

0
`

// createTestServer returns a server whose scenes directory holds one description file
func createTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "two-spheres.txt"), []byte(testDescription), 0644); err != nil {
		t.Fatalf("Failed to write description: %v", err)
	}
	return NewServer(0, dir, dir)
}

func serve(s *Server, method, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := serve(createTestServer(t), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", body["status"])
	}
}

func TestStaticFiles(t *testing.T) {
	s := createTestServer(t)
	if err := os.WriteFile(filepath.Join(s.staticDir, "index.html"), []byte("<html>ui</html>"), 0644); err != nil {
		t.Fatalf("Failed to write index: %v", err)
	}

	rec := serve(s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ui") {
		t.Errorf("Expected index page, got %q", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := serve(createTestServer(t), http.MethodGet, "/api/scenes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(response.Groups))
	}
	if response.Groups[0].Name != scene.BuiltInGroup {
		t.Errorf("Expected built-in group first, got '%s'", response.Groups[0].Name)
	}
	samples := response.Groups[1]
	if samples.Name != "Samples" || len(samples.Scenes) != 1 || samples.Scenes[0].ID != "description:two-spheres" {
		t.Errorf("Unexpected description group: %+v", samples)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := createTestServer(t)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedWidth  float64
		expectedDepth  float64
	}{
		{"default scene", "", http.StatusOK, 768, 3},
		{"description scene", "?scene=description:two-spheres", http.StatusOK, 32, 2},
		{"overrides", "?scene=description:two-spheres&width=64&recursionDepth=5", http.StatusOK, 64, 5},
		{"unknown scene", "?scene=description:missing", http.StatusBadRequest, 0, 0},
		{"width too small", "?width=4", http.StatusBadRequest, 0, 0},
		{"bad reflection mode", "?reflection=twice", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodGet, "/api/scene-config"+tt.query, "")
			if rec.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response struct {
				Defaults map[string]interface{} `json:"defaults"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response.Defaults["width"] != tt.expectedWidth {
				t.Errorf("Expected width %v, got %v", tt.expectedWidth, response.Defaults["width"])
			}
			if response.Defaults["recursionDepth"] != tt.expectedDepth {
				t.Errorf("Expected recursion depth %v, got %v", tt.expectedDepth, response.Defaults["recursionDepth"])
			}
		})
	}
}

func TestHandleImage_GetPNG(t *testing.T) {
	rec := serve(createTestServer(t), http.MethodGet, "/api/image?width=32&height=24", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected Content-Type image/png, got '%s'", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("Expected 32x24 image, got %v", img.Bounds())
	}
}

func TestHandleImage_PostDescriptionBMP(t *testing.T) {
	rec := serve(createTestServer(t), http.MethodPost, "/api/image?format=bmp", testDescription)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/bmp" {
		t.Errorf("Expected Content-Type image/bmp, got '%s'", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("BM")) {
		t.Errorf("Expected BMP signature")
	}
}

func TestHandleImage_Errors(t *testing.T) {
	s := createTestServer(t)

	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		expectedStatus int
	}{
		{"unsupported format", http.MethodGet, "/api/image?format=gif", "", http.StatusBadRequest},
		{"unknown scene", http.MethodGet, "/api/image?scene=nope", "", http.StatusBadRequest},
		{"malformed description", http.MethodPost, "/api/image", "1 1000 80", http.StatusBadRequest},
		{"wrong method", http.MethodPut, "/api/image", "", http.StatusMethodNotAllowed},
		{"oversized description", http.MethodPost, "/api/image", strings.Replace(testDescription, "2 32", "2 200000", 1), http.StatusBadRequest},
		{"deep description", http.MethodPost, "/api/image", strings.Replace(testDescription, "2 32", "40 32", 1), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.method, tt.target, tt.body)
			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestApplyOverrides_Limits(t *testing.T) {
	tests := []struct {
		name    string
		config  renderer.Config
		req     RenderRequest
		wantErr bool
	}{
		{"within limits", renderer.Config{Width: 64, Height: 64, RecursionDepth: 3}, RenderRequest{RecursionDepth: -1}, false},
		{"scene too wide", renderer.Config{Width: 200000, Height: 64, RecursionDepth: 3}, RenderRequest{RecursionDepth: -1}, true},
		{"scene too tall", renderer.Config{Width: 64, Height: 200000, RecursionDepth: 3}, RenderRequest{RecursionDepth: -1}, true},
		{"scene too deep", renderer.Config{Width: 64, Height: 64, RecursionDepth: 40}, RenderRequest{RecursionDepth: -1}, true},
		{"override shrinks scene", renderer.Config{Width: 200000, Height: 200000, RecursionDepth: 40}, RenderRequest{Width: 64, Height: 64, RecursionDepth: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := renderer.DefaultConfig()
			config.Width, config.Height, config.RecursionDepth = tt.config.Width, tt.config.Height, tt.config.RecursionDepth
			loaded := &LoadedScene{Scene: scene.NewScene(), Config: config, CameraConfig: renderer.DefaultCameraConfig()}

			err := applyOverrides(&tt.req, loaded)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error, got %dx%d depth %d", loaded.Config.Width, loaded.Config.Height, loaded.Config.RecursionDepth)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s := createTestServer(t)

	// The center of the default view looks down onto the board
	rec := serve(s, http.MethodGet, "/api/inspect?width=64&height=64&x=32&y=32", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var hit InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&hit); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !hit.Hit || hit.GeometryType != "board" {
		t.Errorf("Expected board hit, got %+v", hit)
	}
	if hit.Normal != [3]float64{0, 0, 1} {
		t.Errorf("Expected board normal (0,0,1), got %v", hit.Normal)
	}

	// The top-left corner looks above the horizon
	rec = serve(s, http.MethodGet, "/api/inspect?width=64&height=64&x=0&y=0", "")
	var miss InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&miss); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if miss.Hit {
		t.Errorf("Expected miss for the sky, got %+v", miss)
	}

	for _, query := range []string{"?x=a&y=0", "?x=0", "?width=64&height=64&x=64&y=0"} {
		if rec := serve(s, http.MethodGet, "/api/inspect"+query, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("Query %s: expected status 400, got %d", query, rec.Code)
		}
	}
}

func TestInspectPixel_FarPlane(t *testing.T) {
	sc := scene.NewScene()
	sc.AddObject(geometry.NewSphere(core.NewVec3(0, 0, 0), 5, material.NewDiffuse(core.White)))
	sc.AddPointLight(core.NewVec3(0, 0, 50), 0)

	tests := []struct {
		name         string
		farPlane     float64
		expectHit    bool
		expectBeyond bool
	}{
		{"sphere inside far plane", 1000, true, false},
		{"sphere past far plane", 20, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := renderer.DefaultConfig()
			config.Width, config.Height = 33, 33
			config.FovY = 30
			config.FarPlane = tt.farPlane
			loaded := &LoadedScene{
				Scene:        sc,
				Config:       config,
				CameraConfig: renderer.NewLookAtCameraConfig(core.NewVec3(0, 0, 30), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
			}

			result := inspectPixel(loaded, 16, 16)
			if result.Hit != tt.expectHit || result.BeyondFar != tt.expectBeyond {
				t.Errorf("Expected hit=%v beyondFar=%v, got hit=%v beyondFar=%v", tt.expectHit, tt.expectBeyond, result.Hit, result.BeyondFar)
			}
			if math.Abs(result.Distance-25) > 1e-9 {
				t.Errorf("Expected distance 25, got %g", result.Distance)
			}

			// Inspection agrees with the rendered pixel
			rt := renderer.NewRaytracer(loaded.Scene, renderer.NewCamera(loaded.CameraConfig, config), config, nil)
			pixel := rt.RenderPixel(16, 16)
			if result.Hit != (pixel != core.Black) {
				t.Errorf("Expected inspect hit=%v to match rendered pixel %v", result.Hit, pixel)
			}
		})
	}
}

func TestHandleInspect_BeyondFarPlane(t *testing.T) {
	s := createTestServer(t)
	short := strings.Replace(testDescription, "1 1000 60 1", "1 50 60 1", 1)
	if err := os.WriteFile(filepath.Join(s.scenesDir, "short.txt"), []byte(short), 0644); err != nil {
		t.Fatalf("Failed to write description: %v", err)
	}

	rec := serve(s, http.MethodGet, "/api/inspect?scene=description:short&x=16&y=16", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Hit || !response.BeyondFar {
		t.Errorf("Expected a miss past the far plane, got %+v", response)
	}
	if response.Distance <= 50 {
		t.Errorf("Expected distance beyond 50, got %g", response.Distance)
	}
}

func TestHandleRender_StreamsPasses(t *testing.T) {
	rec := serve(createTestServer(t), http.MethodGet, "/api/render?scene=description:two-spheres", "")
	body := rec.Body.String()

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected Content-Type text/event-stream, got '%s'", ct)
	}
	if n := strings.Count(body, "event: passComplete"); n != 4 {
		t.Errorf("Expected 4 passComplete events, got %d", n)
	}
	if !strings.Contains(body, "event: tile") {
		t.Errorf("Expected tile events")
	}
	complete := strings.Index(body, "event: complete\ndata: Rendering completed")
	if complete < strings.LastIndex(body, "event: passComplete") {
		t.Errorf("Expected the complete event after the last pass")
	}
	if strings.Contains(body, "event: error") {
		t.Errorf("Expected no error events, got body:\n%s", body)
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	rec := serve(createTestServer(t), http.MethodGet, "/api/render?width=abc", "")
	body := rec.Body.String()
	if !strings.Contains(body, "event: error") || !strings.Contains(body, "invalid width") {
		t.Errorf("Expected error event for invalid width, got:\n%s", body)
	}
}
