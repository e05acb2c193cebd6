package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ParallelConfig contains configuration for tiled parallel rendering
type ParallelConfig struct {
	TileSize   int // Size of each square tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX     int         // Tile coordinates (not pixel coordinates)
	TileY     int
	TileImage *image.RGBA // Pixels of just this tile, in image coordinates

	// Progress information
	TileNumber int // Completion order (1-based)
	TotalTiles int // Total number of tiles in the image
}

// ParallelRenderer splits the image into tiles and renders them on a worker pool
type ParallelRenderer struct {
	width, height int
	config        ParallelConfig
	raytracer     *Raytracer
	tiles         []*Tile
	logger        core.Logger
}

// NewParallelRenderer creates a new parallel renderer
func NewParallelRenderer(scene Scene, width, height int, config ParallelConfig, logger core.Logger) *ParallelRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultParallelConfig().TileSize
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &ParallelRenderer{
		width:     width,
		height:    height,
		config:    config,
		raytracer: NewRaytracer(scene, width, height),
		logger:    logger,
	}
}

// MergeSamplingConfig overlays non-zero fields onto the scene's sampling configuration
func (pr *ParallelRenderer) MergeSamplingConfig(updates SamplingConfig) {
	pr.raytracer.MergeSamplingConfig(updates)
}

// Raytracer returns the underlying sequential raytracer
func (pr *ParallelRenderer) Raytracer() *Raytracer {
	return pr.raytracer
}

// Render renders the whole image into writer. Pixels reach the writer only
// from the calling goroutine, as do tileCallback invocations. Once ctx is
// done no new tile is started; tiles already in progress still finish and
// are written, and ctx's error is returned.
func (pr *ParallelRenderer) Render(ctx context.Context, writer core.PixelWriter, tileCallback func(TileCompletionResult)) (RenderStats, error) {
	if pr.width <= 0 || pr.height <= 0 {
		return RenderStats{}, ErrInvalidSize
	}
	samplingConfig := pr.raytracer.SamplingConfig()
	if err := samplingConfig.Validate(); err != nil {
		return RenderStats{}, fmt.Errorf("invalid sampling config: %w", err)
	}

	startTime := time.Now()
	pr.tiles = NewTileGrid(pr.width, pr.height, pr.config.TileSize, samplingConfig.Seed)

	workerPool := NewWorkerPool(pr.raytracer, pr.config.NumWorkers, len(pr.tiles))
	workerPool.Start(ctx)

	pr.logger.Printf("Rendering %dx%d at %d samples per pixel: %d tiles on %d workers...\n",
		pr.width, pr.height, samplingConfig.SamplesPerPixel, len(pr.tiles), workerPool.GetNumWorkers())

	for taskID, tile := range pr.tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: taskID})
	}

	stats := RenderStats{SamplesPerPixel: samplingConfig.SamplesPerPixel}
	var renderErr error

	for i := 0; i < len(pr.tiles); i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			return RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		copyTile(writer, result.Image)
		stats.Add(result.Stats)
		stats.TilesRendered++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:  result.Image,
				TileNumber: stats.TilesRendered,
				TotalTiles: len(pr.tiles),
			})
		}
	}

	workerPool.Stop()
	stats.Finalize(time.Since(startTime))

	if renderErr != nil {
		pr.logger.Printf("Rendering cancelled after %d of %d tiles\n", stats.TilesRendered, len(pr.tiles))
		return stats, renderErr
	}

	pr.logger.Printf("Render completed in %v (%d samples)\n", stats.Elapsed, stats.TotalSamples)
	return stats, nil
}

// copyTile writes a finished tile buffer to the destination writer
func copyTile(writer core.PixelWriter, tileImage *image.RGBA) {
	bounds := tileImage.Rect
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			writer.SetPixel(x, y, tileImage.RGBAAt(x, y))
		}
	}
}
