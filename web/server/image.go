package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// MaxDescriptionBytes bounds the size of a posted description
const MaxDescriptionBytes = 1 << 20

// handleImage renders a complete still image. GET renders a named scene; POST
// renders the description file sent as the request body.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	req.Format = strings.ToLower(r.URL.Query().Get("format"))
	if req.Format == "" {
		req.Format = "png"
	}
	if req.Format != "png" && req.Format != "bmp" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported format: " + req.Format})
		return
	}

	var loaded *LoadedScene
	var err error
	switch r.Method {
	case http.MethodGet:
		loaded, err = s.createScene(req, nil)
	case http.MethodPost:
		loaded, err = s.sceneFromBody(w, r, req)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use GET or POST"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rt := renderer.NewRaytracer(
		loaded.Scene,
		renderer.NewCamera(loaded.CameraConfig, loaded.Config),
		loaded.Config,
		nil,
	)
	frame, stats, err := rt.RenderParallel(r.Context(), nil)
	if err != nil {
		log.Printf("Image render stopped: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, req.Format, frame.ToRGBA()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	log.Printf("Rendered %dx%d %s image in %v", frame.Width, frame.Height, req.Format, stats.Elapsed)
	w.Header().Set("Content-Type", "image/"+req.Format)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// sceneFromBody parses a posted description and applies the request overrides
func (s *Server) sceneFromBody(w http.ResponseWriter, r *http.Request, req *RenderRequest) (*LoadedScene, error) {
	desc, err := loaders.ParseDescription(http.MaxBytesReader(w, r.Body, MaxDescriptionBytes))
	if err != nil {
		return nil, fmt.Errorf("invalid description: %w", err)
	}
	sc, err := scene.FromDescription(desc)
	if err != nil {
		return nil, err
	}

	loaded := &LoadedScene{
		Scene:        sc,
		Config:       renderer.ConfigFromDescription(desc),
		CameraConfig: renderer.DefaultCameraConfig(),
	}
	if err := applyOverrides(req, loaded); err != nil {
		return nil, err
	}
	return loaded, nil
}
