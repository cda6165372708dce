package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/preview/controller"
	"github.com/df07/go-whitted-raytracer/preview/viewer"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene: 'default' or a path to a .txt description file")
	size := flag.Int("size", 0, "Preview width and height in pixels (0 = the scene's image size)")
	reflection := flag.String("reflection", "per-light", "Reflection mode: 'per-light' or 'once'")
	outputDir := flag.String("out", "output/preview", "Directory for views saved with the 0 key")
	flag.Parse()

	logger := core.NewDefaultLogger()
	core.SetDiagnosticLogger(logger)

	sc, config, err := loadScene(*sceneType)
	if err != nil {
		log.Printf("Error loading scene: %v", err)
		os.Exit(1)
	}
	if *size > 0 {
		config.Width = *size
		config.Height = *size
	}
	if config.Integrator.Reflection, err = integrator.ParseReflectionMode(*reflection); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	c := controller.New(sc, config, renderer.DefaultCameraConfig(), renderer.DefaultProgressiveConfig(), logger)
	defer c.Stop()

	ebiten.SetWindowSize(config.Width, config.Height)
	ebiten.SetWindowTitle(fmt.Sprintf("Whitted Raytracer - %s", *sceneType))

	if err := ebiten.RunGame(viewer.NewGame(c, config.Width, config.Height, *outputDir)); err != nil {
		log.Printf("Error running viewer: %v", err)
		os.Exit(1)
	}
}

// loadScene builds the built-in scene or loads a description file
func loadScene(sceneType string) (*scene.Scene, renderer.Config, error) {
	if sceneType == "default" {
		return scene.NewDefaultScene(), renderer.DefaultConfig(), nil
	}
	if !strings.HasSuffix(sceneType, ".txt") {
		return nil, renderer.Config{}, fmt.Errorf("unknown scene: %q", sceneType)
	}
	sc, desc, err := scene.LoadDescriptionScene(sceneType)
	if err != nil {
		return nil, renderer.Config{}, err
	}
	return sc, renderer.ConfigFromDescription(desc), nil
}
