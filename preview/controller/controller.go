// Package controller drives interactive previews: it applies camera actions
// and keeps a progressive render of the current view running in the background.
package controller

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// MoveStep is the distance the eye travels per movement action
const MoveStep = 10.0

// Action is a camera or output command issued by the user
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionYawLeft
	ActionYawRight
	ActionPitchUp
	ActionPitchDown
	ActionRollLeft
	ActionRollRight
	ActionSave
)

var actionNames = map[Action]string{
	ActionNone:      "none",
	ActionForward:   "forward",
	ActionBackward:  "backward",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionUp:        "up",
	ActionDown:      "down",
	ActionYawLeft:   "yaw-left",
	ActionYawRight:  "yaw-right",
	ActionPitchUp:   "pitch-up",
	ActionPitchDown: "pitch-down",
	ActionRollLeft:  "roll-left",
	ActionRollRight: "roll-right",
	ActionSave:      "save",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Snapshot is the latest preview image and how far its render has progressed
type Snapshot struct {
	Image      *image.RGBA
	PassNumber int
	PassCount  int
	Complete   bool
	Generation int // Increases every time the view changes
}

// Controller owns the preview camera and the background render of its view
type Controller struct {
	scene       *scene.Scene
	config      renderer.Config
	progressive renderer.ProgressiveConfig
	logger      core.Logger

	mu         sync.Mutex
	camera     *renderer.Camera
	snapshot   Snapshot
	generation int
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a controller looking at sc through cameraConfig
func New(sc *scene.Scene, config renderer.Config, cameraConfig renderer.CameraConfig, progressive renderer.ProgressiveConfig, logger core.Logger) *Controller {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Controller{
		scene:       sc,
		config:      config,
		progressive: progressive,
		logger:      logger,
		camera:      renderer.NewCamera(cameraConfig, config),
	}
}

// CameraConfig returns the current camera basis
func (c *Controller) CameraConfig() renderer.CameraConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera.Config()
}

// Apply moves or rotates the camera. It reports whether the view changed;
// ActionSave and ActionNone leave the camera alone.
func (c *Controller) Apply(action Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cam := c.camera
	switch action {
	case ActionForward:
		cam.Move(MoveStep, 0, 0)
	case ActionBackward:
		cam.Move(-MoveStep, 0, 0)
	case ActionLeft:
		cam.Move(0, -MoveStep, 0)
	case ActionRight:
		cam.Move(0, MoveStep, 0)
	case ActionUp:
		cam.Move(0, 0, MoveStep)
	case ActionDown:
		cam.Move(0, 0, -MoveStep)
	case ActionYawLeft:
		cam.Yaw(renderer.RotationRate)
	case ActionYawRight:
		cam.Yaw(-renderer.RotationRate)
	case ActionPitchUp:
		cam.Pitch(renderer.RotationRate)
	case ActionPitchDown:
		cam.Pitch(-renderer.RotationRate)
	case ActionRollLeft:
		cam.Roll(-renderer.RotationRate)
	case ActionRollRight:
		cam.Roll(renderer.RotationRate)
	default:
		return false
	}
	return true
}

// ApplyAll applies the actions fired in one input tick. Movements go before
// rotations, in declaration order, so the resulting view does not depend on
// the order the actions were collected in.
func (c *Controller) ApplyAll(actions []Action) bool {
	ordered := slices.Clone(actions)
	slices.Sort(ordered)

	changed := false
	for _, action := range ordered {
		if c.Apply(action) {
			changed = true
		}
	}
	return changed
}

// Refresh cancels the render in progress, if any, and starts a progressive
// render of the current view
func (c *Controller) Refresh() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.generation++
	generation := c.generation
	pr := renderer.NewProgressiveRaytracer(c.scene, c.camera.Config(), c.config, c.progressive, c.logger)
	c.mu.Unlock()

	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for pass := range passChan {
			c.mu.Lock()
			// A newer view supersedes this render
			if generation == c.generation {
				c.snapshot = Snapshot{
					Image:      pass.Image,
					PassNumber: pass.PassNumber,
					PassCount:  pr.PassCount(),
					Complete:   pass.IsLast,
					Generation: generation,
				}
			}
			c.mu.Unlock()
		}
		if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Printf("Preview render failed: %v\n", err)
		}
	}()
}

// Snapshot returns the most recent preview image
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Wait blocks until every background render has finished
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Stop cancels the render in progress and waits for it to exit
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.Wait()
}

// Save renders the current view at full resolution and writes it as a BMP
// under dir. It returns the path of the written file.
func (c *Controller) Save(ctx context.Context, dir string, now time.Time) (string, error) {
	cameraConfig := c.CameraConfig()

	rt := renderer.NewRaytracer(c.scene, renderer.NewCamera(cameraConfig, c.config), c.config, c.logger)
	frame, _, err := rt.RenderParallel(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("rendering view: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("view_%s.bmp", now.Format("20060102_150405")))
	if err := loaders.SaveImage(filename, frame.ToRGBA()); err != nil {
		return "", err
	}
	c.logger.Printf("Saved view to %s\n", filename)
	return filename, nil
}
