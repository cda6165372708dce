// Package viewer shows a progressive preview of a scene in a window and lets
// the user fly the camera around it.
package viewer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-whitted-raytracer/preview/controller"
)

// Held movement keys repeat after repeatDelay ticks, every repeatInterval ticks
const (
	repeatDelay    = 15
	repeatInterval = 3
)

// KeyBinding ties a key to a camera action
type KeyBinding struct {
	Key    ebiten.Key
	Action controller.Action
}

// KeyBindings lists the preview keys in a fixed order
var KeyBindings = []KeyBinding{
	{ebiten.KeyArrowUp, controller.ActionForward},
	{ebiten.KeyArrowDown, controller.ActionBackward},
	{ebiten.KeyArrowLeft, controller.ActionLeft},
	{ebiten.KeyArrowRight, controller.ActionRight},
	{ebiten.KeyPageUp, controller.ActionUp},
	{ebiten.KeyPageDown, controller.ActionDown},
	{ebiten.Key1, controller.ActionYawLeft},
	{ebiten.Key2, controller.ActionYawRight},
	{ebiten.Key3, controller.ActionPitchUp},
	{ebiten.Key4, controller.ActionPitchDown},
	{ebiten.Key5, controller.ActionRollLeft},
	{ebiten.Key6, controller.ActionRollRight},
	{ebiten.Key0, controller.ActionSave},
}

// Game implements ebiten.Game interface
type Game struct {
	controller *controller.Controller
	width      int
	height     int
	outputDir  string

	frame      *ebiten.Image
	generation int
	pass       int
	status     string
	saving     chan string
}

// NewGame creates a viewer for a width x height preview and starts the first render
func NewGame(c *controller.Controller, width, height int, outputDir string) *Game {
	g := &Game{
		controller: c,
		width:      width,
		height:     height,
		outputDir:  outputDir,
		saving:     make(chan string, 1),
		status:     "Rendering...",
	}
	c.Refresh()
	return g
}

// keyFired reports whether a held key should trigger its action this tick
func keyFired(key ebiten.Key, action controller.Action) bool {
	if action == controller.ActionSave {
		return inpututil.IsKeyJustPressed(key)
	}
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= repeatDelay && d%repeatInterval == 0)
}

// Update handles input; any camera change restarts the progressive render
func (g *Game) Update() error {
	var fired []controller.Action
	for _, binding := range KeyBindings {
		if !keyFired(binding.Key, binding.Action) {
			continue
		}
		if binding.Action == controller.ActionSave {
			g.save()
			continue
		}
		fired = append(fired, binding.Action)
	}
	if g.controller.ApplyAll(fired) {
		g.controller.Refresh()
	}

	select {
	case status := <-g.saving:
		g.status = status
	default:
	}
	return nil
}

// save writes the current view in the background so the window stays responsive
func (g *Game) save() {
	g.status = "Saving..."
	go func() {
		filename, err := g.controller.Save(context.Background(), g.outputDir, time.Now())
		if err != nil {
			g.saving <- fmt.Sprintf("Save failed: %v", err)
			return
		}
		g.saving <- "Saved " + filename
	}()
}

// Draw shows the newest preview pass with a status line
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.controller.Snapshot()
	if snap.Image != nil && (snap.Generation != g.generation || snap.PassNumber != g.pass) {
		g.upload(snap.Image)
		g.generation = snap.Generation
		g.pass = snap.PassNumber
	}
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}

	progress := "done"
	if !snap.Complete {
		progress = fmt.Sprintf("pass %d/%d", snap.PassNumber, snap.PassCount)
	}
	eye := g.controller.CameraConfig().Eye
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s | eye %.0f %.0f %.0f | %s\narrows/PgUp/PgDn move, 1-6 rotate, 0 save",
		progress, eye.X, eye.Y, eye.Z, g.status))
}

// upload copies a preview image into the GPU-side frame
func (g *Game) upload(img *image.RGBA) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(g.width, g.height)
	}
	g.frame.WritePixels(img.Pix)
}

// Layout keeps the logical screen at the render size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
