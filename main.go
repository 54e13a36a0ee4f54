package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/imageio"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

const scenesDir = "scenes"

// Config holds the command line options
type Config struct {
	SceneName  string
	OutputPath string
	Integrator string
	Seed       int64
	NoBVH      bool
	List       bool
	Help       bool
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}
	if config.List {
		if err := listScenes(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(config, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneName, "scene", "disk", "Built-in scene name, scene name under scenes/, or path to a .test file")
	flag.StringVar(&config.OutputPath, "out", "", "Output image (.png, .rgb.zst or .rgb.sz); defaults to the scene's output directive")
	flag.StringVar(&config.Integrator, "integrator", "", "Override integrator: raytracer, analyticdirect or direct")
	flag.Int64Var(&config.Seed, "seed", 42, "Seed for Monte Carlo sampling")
	flag.BoolVar(&config.NoBVH, "nobvh", false, "Intersect by scanning every primitive instead of building a BVH")
	flag.BoolVar(&config.List, "list", false, "List available scenes and exit")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()
	return config
}

func showHelp() {
	fmt.Println("Scene Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, b := range scene.Builtins() {
		fmt.Printf("  %-16s %s\n", b.ID, b.Description)
	}
	fmt.Println()
	fmt.Println("Scene files in scenes/ can be selected by name, e.g. -scene=sphere")
}

func listScenes() error {
	scenes, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, info := range scenes {
		fmt.Printf("%-16s %-8s %s\n", info.ID, info.Type, info.Description)
	}
	return nil
}

// run renders the configured scene and writes the image
func run(config Config, logger core.Logger) error {
	s, err := createScene(config.SceneName)
	if err != nil {
		return err
	}
	if err := applyOverrides(s, config); err != nil {
		return err
	}

	outputPath := resolveOutputPath(config.OutputPath, s)
	if _, err := imageio.FormatForPath(outputPath); err != nil {
		return err
	}

	r, err := renderer.NewRenderer(s, logger)
	if err != nil {
		return err
	}
	if s.BVH != nil {
		bvhStats := s.BVH.Stats()
		logger.Printf("BVH: %d nodes, %d leaves, depth %d (avg %.1f), max leaf %d\n",
			bvhStats.TotalNodes, bvhStats.LeafNodes, bvhStats.MaxDepth, bvhStats.AvgDepth, bvhStats.MaxLeafSize)
	}

	raster, stats := r.RenderFrame()
	logger.Printf("Coverage %.1f%%, average luminance %.3f\n",
		100*stats.CoverageRatio(), renderer.CalculateAverageLuminance(raster))

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imageio.Save(outputPath, raster); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", outputPath)
	return nil
}

// createScene resolves a built-in scene id, a scene file path, or the name
// of a file in the scenes directory
func createScene(name string) (*scene.Scene, error) {
	s, err := loaders.ResolveScene(name, scenesDir)
	if err != nil {
		return nil, fmt.Errorf("%w (run with -list to see available scenes)", err)
	}
	return s, nil
}

// applyOverrides applies command line settings on top of the scene's own
func applyOverrides(s *scene.Scene, config Config) error {
	if config.Integrator != "" {
		kind, err := scene.ParseIntegratorKind(config.Integrator)
		if err != nil {
			return err
		}
		s.Integrator = kind
	}
	s.SamplingConfig.Seed = config.Seed
	if config.NoBVH {
		s.SamplingConfig.UseBVH = false
	}
	return nil
}

// resolveOutputPath prefers the flag, then the scene's output directive,
// then output/<scene>.png
func resolveOutputPath(flagPath string, s *scene.Scene) string {
	switch {
	case flagPath != "":
		return flagPath
	case s.OutputPath != "":
		return s.OutputPath
	}

	name := s.Name
	if name == "" {
		name = "render"
	}
	return filepath.Join("output", name+".png")
}
