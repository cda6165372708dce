package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Size and recursion limits accepted from web requests
const (
	MinImageSize      = 16
	MaxImageSize      = 2000
	MaxRecursionDepth = 16
	DefaultTileSize   = 64
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	staticDir string
}

// NewServer creates a new web server serving description scenes from scenesDir
// and the browser UI from staticDir
func NewServer(port int, scenesDir, staticDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir, staticDir: staticDir}
}

// RenderRequest represents a render request from the client. Zero sizes and a
// negative recursion depth mean "use the scene's own setting".
type RenderRequest struct {
	Scene          string `json:"scene"`          // Scene ID (e.g., "default", "description:two-spheres")
	Width          int    `json:"width"`          // Image width
	Height         int    `json:"height"`         // Image height
	RecursionDepth int    `json:"recursionDepth"` // Shading recursion budget
	Reflection     string `json:"reflection"`     // "per-light" or "once"
	Format         string `json:"format"`         // Still image format: "png" or "bmp"
}

// LoadedScene is a scene together with the render settings it was requested with
type LoadedScene struct {
	Scene        *scene.Scene
	Config       renderer.Config
	CameraConfig renderer.CameraConfig
}

// Handler returns the HTTP handler serving the static UI and the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and description-file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// parseCommonSceneParams parses the scene selection and image parameters
// shared by the render, image and inspect endpoints
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.RecursionDepth, err = parseIntParam(query, "recursionDepth", -1, 0, MaxRecursionDepth); err != nil {
		return err
	}

	req.Reflection = query.Get("reflection")
	if _, err := integrator.ParseReflectionMode(req.Reflection); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene and its render configuration with
// the request's overrides applied
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*LoadedScene, error) {
	loaded := &LoadedScene{CameraConfig: renderer.DefaultCameraConfig()}

	switch req.Scene {
	case "default":
		loaded.Scene = scene.NewDefaultScene()
		loaded.Config = renderer.DefaultConfig()
	default:
		info, err := s.findDescriptionScene(req.Scene)
		if err != nil {
			return nil, err
		}
		sc, desc, err := scene.LoadDescriptionScene(info.FilePath)
		if err != nil {
			return nil, err
		}
		loaded.Scene = sc
		loaded.Config = renderer.ConfigFromDescription(desc)
	}

	if err := applyOverrides(req, loaded); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Printf("Loaded scene %s: %d objects, %d lights\n", req.Scene, loaded.Scene.GetObjectCount(), len(loaded.Scene.Lights))
	}
	return loaded, nil
}

// applyOverrides applies the request's image and shading settings to the
// scene's render configuration and validates the result
func applyOverrides(req *RenderRequest, loaded *LoadedScene) error {
	config := &loaded.Config
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.RecursionDepth >= 0 {
		config.RecursionDepth = req.RecursionDepth
	}
	mode, err := integrator.ParseReflectionMode(req.Reflection)
	if err != nil {
		return err
	}
	config.Integrator.Reflection = mode
	config.TileSize = DefaultTileSize

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid render settings: %w", err)
	}
	if config.Width > MaxImageSize || config.Height > MaxImageSize {
		return fmt.Errorf("invalid render settings: image %dx%d exceeds %d", config.Width, config.Height, MaxImageSize)
	}
	if config.RecursionDepth > MaxRecursionDepth {
		return fmt.Errorf("invalid render settings: recursion depth %d exceeds %d", config.RecursionDepth, MaxRecursionDepth)
	}
	return nil
}

// findDescriptionScene looks up a description scene by ID
func (s *Server) findDescriptionScene(id string) (scene.SceneInfo, error) {
	scenes, err := scene.ListDescriptionScenes(s.scenesDir)
	if err != nil {
		return scene.SceneInfo{}, err
	}
	for _, info := range scenes {
		if info.ID == id {
			return info, nil
		}
	}
	return scene.SceneInfo{}, fmt.Errorf("unknown scene: %s", id)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeJSON writes a JSON response with CORS enabled
func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// handleSceneConfig returns the default render configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	loaded, err := s.createScene(req, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := loaded.Config
	response := map[string]interface{}{
		"scene": req.Scene,
		"defaults": map[string]interface{}{
			"width":          config.Width,
			"height":         config.Height,
			"recursionDepth": config.RecursionDepth,
			"reflection":     config.Integrator.Reflection.String(),
			"nearPlane":      config.NearPlane,
			"farPlane":       config.FarPlane,
			"fovY":           config.FovY,
			"aspectRatio":    config.AspectRatio,
			"objects":        loaded.Scene.GetObjectCount(),
			"lights":         len(loaded.Scene.Lights),
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": MinImageSize,
				"max": MaxImageSize,
			},
			"height": map[string]int{
				"min": MinImageSize,
				"max": MaxImageSize,
			},
			"recursionDepth": map[string]int{
				"min": 0,
				"max": MaxRecursionDepth,
			},
		},
	}

	writeJSON(w, http.StatusOK, response)
}
