package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	BeyondFar    bool                   `json:"beyondFar"` // Nearest object lies past the far plane and renders black
	Color        [3]float64             `json:"color"`     // Shaded pixel color
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	BeyondFar bool // Nearest object lies past the far plane; Object and Distance are set but Hit is false
	Object    geometry.Object
	Distance  float64
	Point     core.Vec3
	Normal    core.Vec3
}

// inspectPixel casts the primary ray through pixel (row, col) and returns the
// nearest object it hits. Objects past the far plane count as a miss, as they do
// when the pixel is rendered.
func inspectPixel(loaded *LoadedScene, row, col int) InspectResult {
	camera := renderer.NewCamera(loaded.CameraConfig, loaded.Config)
	ray := camera.PrimaryRay(row, col)

	obj, t, ok := loaded.Scene.NearestHit(ray, nil)
	if !ok {
		return InspectResult{Hit: false}
	}
	if t > loaded.Config.FarPlane {
		return InspectResult{Hit: false, BeyondFar: true, Object: obj, Distance: t}
	}

	point := ray.At(t)
	return InspectResult{
		Hit:      true,
		Object:   obj,
		Distance: t,
		Point:    point,
		Normal:   obj.NormalAt(point, ray.Direction),
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// extractMaterialInfo reports the Phong coefficients of a material
func (s *Server) extractMaterialInfo(mat *material.Material) map[string]interface{} {
	return map[string]interface{}{
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(mat.Color.R*255), int(mat.Color.G*255), int(mat.Color.B*255)),
		"ambient":    mat.Ambient,
		"diffuse":    mat.Diffuse,
		"specular":   mat.Specular,
		"reflective": mat.Reflective,
		"shininess":  mat.Shininess,
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(obj geometry.Object) map[string]interface{} {
	properties := make(map[string]interface{})

	switch geom := obj.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius

	case *geometry.Cube:
		properties["corner"] = vecArray(geom.Corner)
		properties["side"] = geom.Side

	case *geometry.Pyramid:
		properties["baseCenter"] = vecArray(geom.BaseCenter)
		properties["apex"] = vecArray(geom.Apex)
		properties["width"] = geom.Width
		properties["height"] = geom.Height

	case *geometry.Board:
		properties["tileWidth"] = geom.TileWidth
		properties["tileHeight"] = geom.TileHeight
		properties["tileCount"] = geom.TileCount
		properties["textured"] = geom.Textured
	}

	return properties
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	loaded, err := s.createScene(inspectReq, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Validate pixel coordinates
	config := loaded.Config
	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(loaded, pixelY, pixelX)
	if result.BeyondFar {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit:          false,
			BeyondFar:    true,
			GeometryType: result.Object.Kind().String(),
			Distance:     result.Distance,
		})
		return
	}
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	rt := renderer.NewRaytracer(loaded.Scene, renderer.NewCamera(loaded.CameraConfig, config), config, nil)

	response := InspectResponse{
		Hit:          true,
		GeometryType: result.Object.Kind().String(),
		Point:        vecArray(result.Point),
		Normal:       vecArray(result.Normal),
		Distance:     result.Distance,
		Color:        colorArray(rt.RenderPixel(pixelY, pixelX)),
		Properties: map[string]interface{}{
			"material":     s.extractMaterialInfo(result.Object.Material()),
			"geometry":     s.extractGeometryInfo(result.Object),
			"surfaceColor": colorArray(result.Object.SurfaceColorAt(result.Point)),
		},
	}

	writeJSON(w, http.StatusOK, response)
}
