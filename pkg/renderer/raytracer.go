package renderer

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config contains render configuration
type Config struct {
	NearPlane      float64 // Distance from the eye to the image window
	FarPlane       float64 // Hits beyond this ray parameter render black
	FovY           float64 // Vertical field of view in degrees
	AspectRatio    float64 // Horizontal fov = FovY * AspectRatio
	RecursionDepth int     // Shading recursion budget for primary hits
	Width          int     // Image width in pixels
	Height         int     // Image height in pixels
	TileSize       int     // Edge of the square tiles used by parallel rendering
	NumWorkers     int     // Number of parallel workers (0 = use CPU count)
	Integrator     integrator.Options
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NearPlane:      1,
		FarPlane:       1000,
		FovY:           80,
		AspectRatio:    1,
		RecursionDepth: 3,
		Width:          768,
		Height:         768,
		TileSize:       64,
		NumWorkers:     0, // Auto-detect CPU count
		Integrator:     integrator.DefaultOptions(),
	}
}

// ConfigFromDescription overrides the defaults with the camera and image
// settings of a description file. Description images are square.
func ConfigFromDescription(desc *loaders.Description) Config {
	config := DefaultConfig()
	config.NearPlane = desc.NearPlane
	config.FarPlane = desc.FarPlane
	config.FovY = desc.FovY
	config.AspectRatio = desc.AspectRatio
	config.RecursionDepth = desc.RecursionDepth
	config.Width = desc.ImageWidth
	config.Height = desc.ImageWidth
	return config
}

// Validate checks that the configuration describes a renderable image
func (c Config) Validate() error {
	if c.NearPlane <= 0 {
		return fmt.Errorf("near plane must be positive, got %g", c.NearPlane)
	}
	if c.FarPlane <= c.NearPlane {
		return fmt.Errorf("far plane (%g) must be beyond the near plane (%g)", c.FarPlane, c.NearPlane)
	}
	if c.FovY <= 0 || c.FovY >= 180 {
		return fmt.Errorf("vertical field of view must be in (0,180) degrees, got %g", c.FovY)
	}
	if c.AspectRatio <= 0 || c.FovY*c.AspectRatio >= 180 {
		return fmt.Errorf("aspect ratio %g gives an invalid horizontal field of view", c.AspectRatio)
	}
	if c.RecursionDepth < 0 {
		return fmt.Errorf("recursion depth must be non-negative, got %d", c.RecursionDepth)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("worker count must be non-negative, got %d", c.NumWorkers)
	}
	return nil
}

// Raytracer renders a scene through a camera
type Raytracer struct {
	scene      *scene.Scene
	camera     *Camera
	config     Config
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer using the Whitted integrator
func NewRaytracer(sc *scene.Scene, camera *Camera, config Config, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:      sc,
		camera:     camera,
		config:     config,
		integrator: integrator.NewWhittedIntegrator(sc, config.Integrator),
		logger:     logger,
	}
}

// Config returns the render configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// RenderPixel returns the color of pixel (row, col): black when the primary
// ray misses or its nearest hit lies beyond the far plane
func (rt *Raytracer) RenderPixel(row, col int) core.Color {
	color, _ := rt.renderPixel(row, col)
	return color
}

func (rt *Raytracer) renderPixel(row, col int) (core.Color, bool) {
	ray := rt.camera.PrimaryRay(row, col)
	obj, t, ok := rt.scene.NearestHit(ray, nil)
	if !ok || t > rt.config.FarPlane {
		return core.Black, false
	}
	return rt.integrator.Shade(ray, ray.At(t), t, obj, rt.config.RecursionDepth), true
}

// RenderBounds renders the pixels inside bounds into frame. Concurrent calls
// are safe as long as their bounds do not overlap.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, frame *Frame) RenderStats {
	start := time.Now()
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		for col := bounds.Min.X; col < bounds.Max.X; col++ {
			color, hit := rt.renderPixel(row, col)
			if hit {
				stats.HitPixels++
			}
			frame.Set(row, col, color)
		}
	}

	stats.Elapsed = time.Since(start)
	return stats
}

// Render scans every pixel in raster order on the calling goroutine
func (rt *Raytracer) Render() (*Frame, RenderStats) {
	frame := NewFrame(rt.config.Width, rt.config.Height)
	stats := rt.RenderBounds(frame.Bounds(), frame)
	return frame, stats
}

// RenderParallel renders the image tile by tile on a worker pool. The tile
// callback, if any, is invoked from the calling goroutine as tiles complete.
// Cancelling ctx stops the render between tiles.
func (rt *Raytracer) RenderParallel(ctx context.Context, tileCallback func(TileCompletionResult)) (*Frame, RenderStats, error) {
	start := time.Now()
	frame := NewFrame(rt.config.Width, rt.config.Height)
	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize)

	numWorkers := rt.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	rt.logger.Printf("Rendering %dx%d in %d tiles using %d workers...\n",
		rt.config.Width, rt.config.Height, len(tiles), numWorkers)

	pool := NewWorkerPool(rt, len(tiles), numWorkers)
	pool.Start()
	defer pool.Stop()

	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{
			Ctx:    ctx,
			Tile:   tile,
			TaskID: taskID,
			Frame:  frame,
		})
	}

	stats := RenderStats{}
	var firstErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return nil, stats, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.Merge(result.Stats)

		if tileCallback != nil {
			tile := tiles[result.TaskID]
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / rt.config.TileSize,
				TileY:      tile.Bounds.Min.Y / rt.config.TileSize,
				Bounds:     tile.Bounds,
				TileImage:  frame.TileImage(tile.Bounds),
				TileNumber: i + 1,
				TotalTiles: len(tiles),
			})
		}
	}

	if firstErr != nil {
		rt.logger.Printf("Rendering stopped: %v\n", firstErr)
		return nil, stats, firstErr
	}

	stats.Elapsed = time.Since(start)
	rt.logger.Printf("Rendered %d pixels (%d hits) in %v\n", stats.TotalPixels, stats.HitPixels, stats.Elapsed)
	return frame, stats, nil
}
