package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Options holds the command line settings of a render
type Options struct {
	SceneType    string
	Output       string
	Workers      int
	Reflection   string
	WhiteTexture string
	BlackTexture string
	Sequential   bool
}

func main() {
	// Parse command line flags
	opts := Options{}
	flag.StringVar(&opts.SceneType, "scene", "default", "Scene: 'default' or a path to a .txt description file")
	flag.StringVar(&opts.Output, "out", "", "Output image (.bmp or .png); default output/<scene>/render_<timestamp>.bmp")
	flag.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.StringVar(&opts.Reflection, "reflection", "per-light", "Reflection mode: 'per-light' or 'once'")
	flag.StringVar(&opts.WhiteTexture, "white-texture", "", "Image for the board's white tiles (enables texture mode)")
	flag.StringVar(&opts.BlackTexture, "black-texture", "", "Image for the board's black tiles (enables texture mode)")
	flag.BoolVar(&opts.Sequential, "sequential", false, "Render on a single goroutine in raster order")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Whitted Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default      - Checkered board with a sphere, a pyramid and a cube")
		fmt.Println("  <file>.txt   - Scene description file (see scenes/)")
		return
	}

	logger := core.NewDefaultLogger()
	core.SetDiagnosticLogger(logger)
	if err := run(opts, logger); err != nil {
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders the scene selected by opts and saves the image
func run(opts Options, logger core.Logger) error {
	logger.Printf("Starting Whitted Raytracer...\n")

	sc, config, err := createScene(opts.SceneType)
	if err != nil {
		return err
	}
	if err := applyTextures(sc, opts.WhiteTexture, opts.BlackTexture); err != nil {
		return err
	}

	mode, err := integrator.ParseReflectionMode(opts.Reflection)
	if err != nil {
		return err
	}
	config.Integrator.Reflection = mode
	config.NumWorkers = opts.Workers
	if err := config.Validate(); err != nil {
		return err
	}

	logger.Printf("Scene %s: %d objects, %d lights, %dx%d, recursion %d, reflection %s\n",
		opts.SceneType, sc.GetObjectCount(), len(sc.Lights), config.Width, config.Height,
		config.RecursionDepth, mode)

	camera := renderer.NewCamera(renderer.DefaultCameraConfig(), config)
	raytracer := renderer.NewRaytracer(sc, camera, config, logger)

	startTime := time.Now()
	var frame *renderer.Frame
	var stats renderer.RenderStats
	if opts.Sequential {
		frame, stats = raytracer.Render()
	} else {
		frame, stats, err = raytracer.RenderParallel(context.Background(), nil)
		if err != nil {
			return err
		}
	}
	logger.Printf("Render completed in %v (%.1f%% of pixels hit)\n", time.Since(startTime), 100*stats.HitRatio())

	filename := outputFilename(opts.SceneType, opts.Output, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := loaders.SaveImage(filename, frame.ToRGBA()); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene builds a built-in scene or loads a description file
func createScene(sceneType string) (*scene.Scene, renderer.Config, error) {
	switch {
	case sceneType == "default":
		return scene.NewDefaultScene(), renderer.DefaultConfig(), nil
	case strings.HasSuffix(sceneType, ".txt"):
		sc, desc, err := scene.LoadDescriptionScene(sceneType)
		if err != nil {
			return nil, renderer.Config{}, err
		}
		return sc, renderer.ConfigFromDescription(desc), nil
	default:
		return nil, renderer.Config{}, fmt.Errorf("unknown scene: %q", sceneType)
	}
}

// applyTextures switches the board to texture mode when both texture images are given
func applyTextures(sc *scene.Scene, whitePath, blackPath string) error {
	if whitePath == "" && blackPath == "" {
		return nil
	}
	if whitePath == "" || blackPath == "" {
		return fmt.Errorf("texture mode needs both -white-texture and -black-texture")
	}

	white, err := loaders.LoadTexture(whitePath)
	if err != nil {
		return err
	}
	black, err := loaders.LoadTexture(blackPath)
	if err != nil {
		return err
	}
	return sc.EnableTextures(white, black)
}

// outputFilename returns the explicit output path, or a timestamped BMP under output/<scene>/
func outputFilename(sceneType, output string, now time.Time) string {
	if output != "" {
		return output
	}
	name := strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.bmp", timestamp))
}
