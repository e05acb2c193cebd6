package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType string
	Width     int
	Height    int
	Samples   int
	MaxDepth  int
	Seed      int64
	Workers   int
	TileSize  int
	Output    string
	SaveScene string
	Help      bool
}

// parseFlags parses command line arguments into a Config
func parseFlags(args []string, usageOutput io.Writer) (Config, error) {
	var config Config

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(usageOutput)
	fs.StringVar(&config.SceneType, "scene", scene.PreviewSceneID, "Scene: 'preview', 'random', 'hollow-glass' or a path to a .json scene")
	fs.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&config.Height, "height", 0, "Image height in pixels (0 = scene default)")
	fs.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&config.MaxDepth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Int64Var(&config.Seed, "seed", 0, "Random seed for sampling and the random scene")
	fs.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&config.TileSize, "tile", renderer.DefaultParallelConfig().TileSize, "Tile size in pixels")
	fs.StringVar(&config.Output, "out", "", "Output file (.png, .jpg or .ppm); default output/<scene>/render_<timestamp>.png")
	fs.StringVar(&config.SaveScene, "save-scene", "", "Write the scene as JSON to this path and exit")
	fs.BoolVar(&config.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return config, err
	}

	if config.Width < 0 || config.Height < 0 {
		return config, fmt.Errorf("width and height must not be negative")
	}
	if config.Samples < 0 || config.MaxDepth < 0 {
		return config, fmt.Errorf("samples and depth must not be negative")
	}
	if config.TileSize <= 0 {
		return config, fmt.Errorf("tile size must be positive, got %d", config.TileSize)
	}

	return config, nil
}

// defaultSize returns the image size used when no -width/-height is given
func defaultSize(sceneType string) (int, int) {
	switch sceneType {
	case scene.RandomSceneID:
		return 600, 400 // 3:2 aspect ratio
	case scene.PreviewSceneID, scene.HollowGlassSceneID:
		return 400, 200 // 2:1 aspect ratio
	default:
		return 400, 225 // 16:9 aspect ratio
	}
}

// resolveSize fills in missing dimensions, keeping the default aspect ratio
// when only one of them is given
func resolveSize(config Config) (int, int) {
	width, height := defaultSize(config.SceneType)
	switch {
	case config.Width > 0 && config.Height > 0:
		return config.Width, config.Height
	case config.Width > 0:
		return config.Width, max(1, config.Width*height/width)
	case config.Height > 0:
		return max(1, config.Height*width/height), config.Height
	}
	return width, height
}

// createScene creates a scene by name or JSON path
func createScene(sceneType string, seed int64) (*scene.Scene, error) {
	return scene.Create(sceneType, seed)
}

// sceneDirName turns a scene name or path into an output directory name
func sceneDirName(sceneType string) string {
	base := filepath.Base(sceneType)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultOutputPath creates a timestamped filename under output/<scene>
func defaultOutputPath(sceneType string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneDirName(sceneType), fmt.Sprintf("render_%s.png", timestamp))
}

// run renders according to config and returns the path written
func run(ctx context.Context, config Config, logger core.Logger) (string, error) {
	selectedScene, err := createScene(config.SceneType, config.Seed)
	if err != nil {
		return "", err
	}

	if config.SaveScene != "" {
		desc, err := scene.Describe(selectedScene)
		if err != nil {
			return "", fmt.Errorf("describe scene: %w", err)
		}
		if err := scene.Save(config.SaveScene, desc); err != nil {
			return "", err
		}
		return config.SaveScene, nil
	}

	width, height := resolveSize(config)
	logger.Printf("Using %s scene (%d spheres) at %dx%d...\n",
		config.SceneType, selectedScene.GetPrimitiveCount(), width, height)

	parallelRenderer := renderer.NewParallelRenderer(selectedScene, width, height, renderer.ParallelConfig{
		TileSize:   config.TileSize,
		NumWorkers: config.Workers,
	}, logger)
	parallelRenderer.MergeSamplingConfig(renderer.SamplingConfig{
		SamplesPerPixel: config.Samples,
		MaxDepth:        config.MaxDepth,
		Seed:            config.Seed,
	})

	writer := renderer.NewImageWriter(width, height)
	stats, err := parallelRenderer.Render(ctx, writer, nil)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	logger.Printf("Render completed in %v\n", stats.Elapsed)
	logger.Printf("Samples per pixel: %.1f (%d total)\n", stats.AverageSamples, stats.TotalSamples)

	filename := config.Output
	if filename == "" {
		filename = defaultOutputPath(config.SceneType, time.Now())
	}
	if err := output.Write(filename, writer.Image()); err != nil {
		return "", err
	}

	return filename, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Whitted Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.BuiltInScenes() {
		fmt.Fprintf(w, "  %-13s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w, "  <file>.json   - Scene description file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to output/<scene>/render_<timestamp>.png unless -out is given")
}

func main() {
	config, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		printHelp(os.Stdout)
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	if config.Help {
		printHelp(os.Stdout)
		return
	}

	fmt.Println("Starting Whitted Raytracer...")

	// Ctrl+C stops the render between tiles
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, config, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved %s\n", filename)
}
