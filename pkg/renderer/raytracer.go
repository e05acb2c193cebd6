package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ShadowEpsilon is the minimum ray parameter accepted as a hit. It keeps
// scattered rays from re-hitting the surface they leave.
const ShadowEpsilon = 1e-4

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed for the per-tile random generators
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 40,
		MaxDepth:        50,
		Seed:            0,
	}
}

// Validate reports configuration values the renderer cannot work with
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// MergeSamplingConfig overlays the non-zero fields of override onto base
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	if override.SamplesPerPixel != 0 {
		base.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		base.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		base.Seed = override.Seed
	}
	return base
}

// Sky is the vertical background gradient returned for rays that escape the scene
type Sky struct {
	Bottom core.Vec3 // Color looking straight down
	Top    core.Vec3 // Color looking straight up
}

// DefaultSky returns the white to light blue gradient
func DefaultSky() Sky {
	return Sky{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// PaleSky returns the paler white to lavender gradient
func PaleSky() Sky {
	return Sky{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.7, 0.7, 1.0),
	}
}

// Color returns the background color seen along direction
func (s Sky) Color(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return s.Bottom.Multiply(1.0 - t).Add(s.Top.Multiply(t))
}

// Scene interface to avoid circular imports
type Scene interface {
	GetWorld() geometry.Shape
	GetCameraConfig() CameraConfig
	GetSamplingConfig() SamplingConfig
	GetSky() Sky
}

// ErrInvalidSize is returned for non-positive image dimensions
var ErrInvalidSize = errors.New("image width and height must be positive")

// Raytracer traces rays through a scene and turns samples into pixels.
// Tracing does not mutate the raytracer, so one instance may serve many
// goroutines as long as each owns its sampler.
type Raytracer struct {
	world  geometry.Shape
	camera *Camera
	sky    Sky
	width  int
	height int
	config SamplingConfig
}

// NewRaytracer creates a new raytracer for a width x height image
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	cameraConfig := scene.GetCameraConfig()
	if cameraConfig.AspectRatio == 0 && height > 0 {
		cameraConfig.AspectRatio = float64(width) / float64(height)
	}

	return &Raytracer{
		world:  scene.GetWorld(),
		camera: NewCamera(cameraConfig),
		sky:    scene.GetSky(),
		width:  width,
		height: height,
		config: MergeSamplingConfig(DefaultSamplingConfig(), scene.GetSamplingConfig()),
	}
}

// MergeSamplingConfig overlays non-zero fields of updates onto the current configuration
func (rt *Raytracer) MergeSamplingConfig(updates SamplingConfig) {
	rt.config = MergeSamplingConfig(rt.config, updates)
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// SetCamera replaces the camera derived from the scene
func (rt *Raytracer) SetCamera(camera *Camera) {
	rt.camera = camera
}

// TraceColor returns the color carried back along ray. depth counts the
// bounces already taken; a hit at depth >= MaxDepth contributes black.
func (rt *Raytracer) TraceColor(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for {
		hit, isHit := rt.world.Hit(ray, ShadowEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(rt.sky.Color(ray.Direction))
		}

		if depth >= rt.config.MaxDepth {
			return core.Vec3{}
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return core.Vec3{} // Material absorbed the ray
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
		depth++
	}
}

// SamplePixel averages SamplesPerPixel traced rays for pixel (x, y), where
// y = 0 is the top row. A single sample is taken at the pixel center.
func (rt *Raytracer) SamplePixel(x, y int, sampler core.Sampler) core.Vec3 {
	samples := rt.config.SamplesPerPixel
	row := float64(rt.height - 1 - y)

	var colorAccum core.Vec3
	for i := 0; i < samples; i++ {
		jx, jy := 0.5, 0.5
		if samples > 1 {
			jx = sampler.Get1D()
			jy = sampler.Get1D()
		}
		s := (float64(x) + jx) / float64(rt.width)
		t := (row + jy) / float64(rt.height)

		ray := rt.camera.GetRay(s, t, sampler)
		colorAccum = colorAccum.Add(rt.TraceColor(ray, 0, sampler))
	}

	return colorAccum.Divide(float64(samples))
}

// PixelRay returns the lens-center ray through the middle of pixel (x, y)
func (rt *Raytracer) PixelRay(x, y int) core.Ray {
	s := (float64(x) + 0.5) / float64(rt.width)
	t := (float64(rt.height-1-y) + 0.5) / float64(rt.height)
	return rt.camera.GetCenterRay(s, t)
}

// RenderBounds renders every pixel inside bounds through writer
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, writer core.PixelWriter, sampler core.Sampler) RenderStats {
	stats := RenderStats{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			writer.SetPixel(x, y, ToRGBA(rt.SamplePixel(x, y, sampler)))
			stats.TotalPixels++
		}
	}
	stats.TotalSamples = stats.TotalPixels * rt.config.SamplesPerPixel

	return stats
}

// Render renders the full image sequentially, tile by tile. The tile grid
// and its random streams match the parallel renderer's default grid, so both
// produce the same pixels.
func (rt *Raytracer) Render(writer core.PixelWriter) (RenderStats, error) {
	return rt.RenderTiles(writer, DefaultParallelConfig().TileSize)
}

// RenderTiles renders the full image sequentially using tiles of tileSize
func (rt *Raytracer) RenderTiles(writer core.PixelWriter, tileSize int) (RenderStats, error) {
	if rt.width <= 0 || rt.height <= 0 {
		return RenderStats{}, ErrInvalidSize
	}
	if err := rt.config.Validate(); err != nil {
		return RenderStats{}, fmt.Errorf("invalid sampling config: %w", err)
	}

	startTime := time.Now()
	stats := RenderStats{SamplesPerPixel: rt.config.SamplesPerPixel}
	for _, tile := range NewTileGrid(rt.width, rt.height, tileSize, rt.config.Seed) {
		stats.Add(rt.RenderBounds(tile.Bounds, writer, tile.Sampler))
		stats.TilesRendered++
	}
	stats.Finalize(time.Since(startTime))

	return stats, nil
}

// ToRGBA converts a linear color to an 8-bit pixel: gamma 2 via square root,
// clamped to [0,1], then scaled by 255.999
func ToRGBA(c core.Vec3) color.RGBA {
	corrected := c.Sqrt().Clamp(0, 1)
	return color.RGBA{
		R: uint8(255.999 * corrected.X),
		G: uint8(255.999 * corrected.Y),
		B: uint8(255.999 * corrected.Z),
		A: 255,
	}
}
