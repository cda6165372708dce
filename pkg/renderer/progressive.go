package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	// Scales lists the downscale factor of each pass; the last pass should be 1
	Scales []int
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		Scales: []int{8, 4, 2, 1},
	}
}

// PassLogger is a Logger that tags its messages with the pass being rendered
type PassLogger interface {
	core.Logger
	BeginPass(pass, scale int)
}

// ProgressiveRaytracer renders a sequence of passes at increasing resolution
// so a viewer can show a coarse image quickly
type ProgressiveRaytracer struct {
	scene        *scene.Scene
	cameraConfig CameraConfig
	config       Config
	progressive  ProgressiveConfig
	logger       core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(sc *scene.Scene, cameraConfig CameraConfig, config Config, progressive ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if len(progressive.Scales) == 0 {
		progressive = DefaultProgressiveConfig()
	}
	return &ProgressiveRaytracer{
		scene:        sc,
		cameraConfig: cameraConfig,
		config:       config,
		progressive:  progressive,
		logger:       logger,
	}
}

// PassCount returns the number of passes RenderProgressive will produce
func (pr *ProgressiveRaytracer) PassCount() int {
	return len(pr.progressive.Scales)
}

// passConfig shrinks the image for a pass, keeping the field of view
func (pr *ProgressiveRaytracer) passConfig(scale int) Config {
	config := pr.config
	config.Width = max(1, pr.config.Width/scale)
	config.Height = max(1, pr.config.Height/scale)
	config.TileSize = max(1, pr.config.TileSize/scale)
	return config
}

// RenderPass renders pass passNumber (1-based) and returns it upscaled to the full image size
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	if passNumber < 1 || passNumber > pr.PassCount() {
		return nil, RenderStats{}, fmt.Errorf("pass %d out of range 1..%d", passNumber, pr.PassCount())
	}

	scale := max(1, pr.progressive.Scales[passNumber-1])
	config := pr.passConfig(scale)
	raytracer := NewRaytracer(pr.scene, NewCamera(pr.cameraConfig, config), config, pr.logger)

	var passCallback func(TileCompletionResult)
	if tileCallback != nil {
		passCallback = func(result TileCompletionResult) {
			result.PassNumber = passNumber
			result.Scale = scale
			tileCallback(result)
		}
	}

	frame, stats, err := raytracer.RenderParallel(ctx, passCallback)
	if err != nil {
		return nil, stats, err
	}

	img := frame.ToRGBA()
	if scale > 1 {
		img = Upscale(img, pr.config.Width, pr.config.Height)
	}
	return img, stats, nil
}

// Upscale resizes img to width x height with nearest-neighbor sampling so
// coarse passes keep hard pixel edges
func Upscale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Scale      int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders with channel-based communication (idiomatic Go)
// Returns channels for events. The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel will be closed immediately and no tile events will be generated.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100) // Buffer for tiles
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.PassCount())

		for pass := 1; pass <= pr.PassCount(); pass++ {
			// Check if client disconnected before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			scale := pr.progressive.Scales[pass-1]
			if pl, ok := pr.logger.(PassLogger); ok {
				pl.BeginPass(pass, scale)
			}
			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full: the next pass image supersedes the tile
					}
				}
			}

			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d (1/%d scale) completed in %v, %.1f%% of pixels hit\n",
				pass, scale, time.Since(startTime), 100*stats.HitRatio())

			result := PassResult{
				PassNumber: pass,
				Scale:      scale,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.PassCount(),
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}
