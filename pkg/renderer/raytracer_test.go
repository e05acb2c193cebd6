package renderer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// MockMaterial scatters every ray in a fixed direction and counts calls
type MockMaterial struct {
	direction   core.Vec3
	attenuation core.Vec3
	absorb      bool
	calls       int
}

func (m *MockMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	m.calls++
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, m.direction),
		Attenuation: m.attenuation,
	}, !m.absorb
}

// MockShape hits every ray heading down -z at t=1
type MockShape struct {
	material material.Material
}

func (m MockShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if ray.Direction.Z >= 0 || 1 <= tMin || 1 >= tMax {
		return nil, false
	}
	return &material.HitRecord{
		T:        1,
		Point:    ray.At(1),
		Normal:   core.NewVec3(0, 0, 1),
		Material: m.material,
	}, true
}

func newTracer(world geometry.Shape, sampling SamplingConfig) *Raytracer {
	scene := &MockScene{world: world, camera: originCameraConfig(), sampling: sampling, sky: DefaultSky()}
	return NewRaytracer(scene, 20, 10)
}

func TestSky_Gradient(t *testing.T) {
	sky := DefaultSky()

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(1, 0, 0), core.NewVec3(0.75, 0.85, 1.0)},
		{"unnormalized up", core.NewVec3(0, 7, 0), core.NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sky.Color(tt.direction); !vecApprox(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	if got := PaleSky().Color(core.NewVec3(0, 1, 0)); !vecApprox(got, core.NewVec3(0.7, 0.7, 1.0), 1e-12) {
		t.Errorf("Expected pale sky top (0.7,0.7,1), got %v", got)
	}
}

func TestTraceColor_MissReturnsSky(t *testing.T) {
	rt := newTracer(geometry.NewHitableList(), SamplingConfig{})
	sampler := &countingSampler{inner: core.NewSeededSampler(1)}

	got := rt.TraceColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0)), 0, sampler)
	if !vecApprox(got, core.NewVec3(1, 1, 1), 1e-12) {
		t.Errorf("Expected white looking down, got %v", got)
	}
	if sampler.draws != 0 {
		t.Errorf("A miss should not draw random numbers, drew %d", sampler.draws)
	}
}

func TestTraceColor_AttenuationMultipliesScatteredColor(t *testing.T) {
	mat := &MockMaterial{direction: core.NewVec3(0, 1, 0), attenuation: core.NewVec3(0.5, 0.25, 1.0)}
	rt := newTracer(MockShape{material: mat}, SamplingConfig{})

	got := rt.TraceColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0, core.NewSeededSampler(1))
	expected := core.NewVec3(0.25, 0.175, 1.0)
	if !vecApprox(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if mat.calls != 1 {
		t.Errorf("Expected one scatter, got %d", mat.calls)
	}
}

func TestTraceColor_AbsorbedRayIsBlack(t *testing.T) {
	mat := &MockMaterial{direction: core.NewVec3(0, 1, 0), attenuation: core.NewVec3(1, 1, 1), absorb: true}
	rt := newTracer(MockShape{material: mat}, SamplingConfig{})

	got := rt.TraceColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0, core.NewSeededSampler(1))
	if !got.Equals(core.Vec3{}) {
		t.Errorf("Expected black, got %v", got)
	}
}

func TestTraceColor_MirrorEnclosureHitsDepthLimit(t *testing.T) {
	mirror := material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0)
	counting := &countingMaterial{inner: mirror}

	// A negative radius turns the normals inward, so a ray bounces through
	// the center forever
	enclosure := geometry.NewSphere(core.NewVec3(0, 0, 0), -1, counting)

	tests := []struct {
		maxDepth int
		startAt  int
		scatters int
	}{
		{maxDepth: 5, startAt: 0, scatters: 5},
		{maxDepth: 50, startAt: 0, scatters: 50},
		{maxDepth: 5, startAt: 3, scatters: 2},
		{maxDepth: 5, startAt: 5, scatters: 0},
	}

	for _, tt := range tests {
		counting.calls = 0
		rt := newTracer(enclosure, SamplingConfig{MaxDepth: tt.maxDepth})
		got := rt.TraceColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.3, 0.2, -1)), tt.startAt, core.NewSeededSampler(1))

		if !got.Equals(core.Vec3{}) {
			t.Errorf("maxDepth=%d: expected black, got %v", tt.maxDepth, got)
		}
		if counting.calls != tt.scatters {
			t.Errorf("maxDepth=%d start=%d: expected %d scatters, got %d", tt.maxDepth, tt.startAt, tt.scatters, counting.calls)
		}
	}
}

type countingMaterial struct {
	inner material.Material
	calls int
}

func (c *countingMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	c.calls++
	return c.inner.Scatter(rayIn, hit, sampler)
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected [3]uint8
	}{
		{"black", core.NewVec3(0, 0, 0), [3]uint8{0, 0, 0}},
		{"white", core.NewVec3(1, 1, 1), [3]uint8{255, 255, 255}},
		{"quarter gamma", core.NewVec3(0.25, 0.25, 0.25), [3]uint8{127, 127, 127}},
		{"over range clamps", core.NewVec3(4, 1.5, 0.0), [3]uint8{255, 255, 0}},
		{"mixed", core.NewVec3(0.25, 1, 0.04), [3]uint8{127, 255, 51}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ToRGBA(tt.input)
			if c.R != tt.expected[0] || c.G != tt.expected[1] || c.B != tt.expected[2] {
				t.Errorf("Expected %v, got (%d, %d, %d)", tt.expected, c.R, c.G, c.B)
			}
			if c.A != 255 {
				t.Errorf("Expected opaque alpha, got %d", c.A)
			}
		})
	}
}

func TestSamplePixel_SingleSampleUsesPixelCenter(t *testing.T) {
	rt := newTracer(geometry.NewHitableList(), SamplingConfig{SamplesPerPixel: 1})
	sampler := &countingSampler{inner: core.NewSeededSampler(1)}

	// Width 20, height 10: pixel (9, 4) center maps to s=0.475, t=0.55
	got := rt.SamplePixel(9, 4, sampler)
	direction := rt.camera.GetRay(9.5/20, 5.5/10, nil).Direction
	expected := DefaultSky().Color(direction)

	if !vecApprox(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if sampler.draws != 0 {
		t.Errorf("Expected no jitter draws for a single sample, got %d", sampler.draws)
	}
}

func TestSamplePixel_MultipleSamplesJitter(t *testing.T) {
	rt := newTracer(geometry.NewHitableList(), SamplingConfig{SamplesPerPixel: 8})
	sampler := &countingSampler{inner: core.NewSeededSampler(1)}

	rt.SamplePixel(0, 0, sampler)
	if sampler.draws != 16 {
		t.Errorf("Expected two jitter draws per sample (16), got %d", sampler.draws)
	}
}

func TestDefaultSamplingConfig(t *testing.T) {
	config := DefaultSamplingConfig()
	if config.SamplesPerPixel != 40 {
		t.Errorf("Expected 40 samples per pixel, got %d", config.SamplesPerPixel)
	}
	if config.MaxDepth != 50 {
		t.Errorf("Expected max depth 50, got %d", config.MaxDepth)
	}
	if config.Seed != 0 {
		t.Errorf("Expected seed 0, got %d", config.Seed)
	}
}

func TestSamplingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  SamplingConfig
		wantErr bool
	}{
		{"default", DefaultSamplingConfig(), false},
		{"single sample", SamplingConfig{SamplesPerPixel: 1, MaxDepth: 0}, false},
		{"zero samples", SamplingConfig{SamplesPerPixel: 0, MaxDepth: 50}, true},
		{"negative depth", SamplingConfig{SamplesPerPixel: 4, MaxDepth: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	merged := MergeSamplingConfig(DefaultSamplingConfig(), SamplingConfig{SamplesPerPixel: 7, Seed: 9})

	if merged.SamplesPerPixel != 7 {
		t.Errorf("Expected samples 7, got %d", merged.SamplesPerPixel)
	}
	if merged.MaxDepth != DefaultSamplingConfig().MaxDepth {
		t.Errorf("Expected zero depth to keep default %d, got %d", DefaultSamplingConfig().MaxDepth, merged.MaxDepth)
	}
	if merged.Seed != 9 {
		t.Errorf("Expected seed 9, got %d", merged.Seed)
	}
}

func TestRaytracer_RenderRejectsInvalidSize(t *testing.T) {
	scene := newFourSphereScene(SamplingConfig{SamplesPerPixel: 1})
	rt := NewRaytracer(scene, 0, 10)

	if _, err := rt.Render(NewImageWriter(1, 1)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestRaytracer_RenderIsDeterministic(t *testing.T) {
	scene := newFourSphereScene(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 50})

	render := func() *image.RGBA {
		writer := NewImageWriter(20, 15)
		stats, err := NewRaytracer(scene, 20, 15).Render(writer)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if stats.TotalPixels != 300 || stats.TotalSamples != 300 {
			t.Errorf("Expected 300 pixels and samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
		}
		return writer.Image()
	}

	first := render()
	second := render()
	if !imagesEqual(first, second) {
		t.Error("Two renders of the same scene produced different pixels")
	}
}

// TestRaytracer_GoldenImage pins pixels of the 20x15, one sample, seed 0
// render of the four-sphere scene
func TestRaytracer_GoldenImage(t *testing.T) {
	scene := newFourSphereScene(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 50, Seed: 0})
	writer := NewImageWriter(20, 15)
	if _, err := NewRaytracer(scene, 20, 15).Render(writer); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	img := writer.Image()

	tests := []struct {
		name     string
		x, y     int
		expected color.RGBA
	}{
		{"sky top center", 10, 0, color.RGBA{194, 221, 255, 255}},
		{"sky top right", 19, 0, color.RGBA{202, 225, 255, 255}},
		{"glass showing ground", 0, 3, color.RGBA{163, 192, 0, 255}},
		{"glass showing ground below", 1, 4, color.RGBA{172, 196, 0, 255}},
		{"glass showing sky", 0, 8, color.RGBA{218, 234, 255, 255}},
		{"diffuse sphere top", 8, 3, color.RGBA{65, 102, 181, 255}},
		{"diffuse sphere", 9, 5, color.RGBA{66, 102, 181, 255}},
		{"metal sphere top", 17, 3, color.RGBA{179, 173, 114, 255}},
		{"metal sphere", 16, 6, color.RGBA{179, 173, 114, 255}},
		{"ground", 3, 12, color.RGBA{181, 202, 0, 255}},
		{"ground corner", 0, 14, color.RGBA{171, 196, 0, 255}},
	}

	// One step of slack absorbs last-bit differences at the 255.999 truncation
	near := func(a, b uint8) bool {
		return int(a)-int(b) <= 1 && int(b)-int(a) <= 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := img.RGBAAt(tt.x, tt.y)
			if !near(got.R, tt.expected.R) || !near(got.G, tt.expected.G) || !near(got.B, tt.expected.B) || got.A != 255 {
				t.Errorf("Pixel (%d, %d): expected %v, got %v", tt.x, tt.y, tt.expected, got)
			}
		})
	}
}

func TestRaytracer_SeedChangesNoise(t *testing.T) {
	render := func(seed int64) *image.RGBA {
		scene := newFourSphereScene(SamplingConfig{SamplesPerPixel: 4, MaxDepth: 10, Seed: seed})
		writer := NewImageWriter(16, 8)
		if _, err := NewRaytracer(scene, 16, 8).Render(writer); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return writer.Image()
	}

	if imagesEqual(render(1), render(2)) {
		t.Error("Expected different seeds to produce different noise")
	}
}

func imagesEqual(a, b *image.RGBA) bool {
	if a.Rect != b.Rect {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

func TestRaytracer_PixelValuesInRange(t *testing.T) {
	scene := newFourSphereScene(SamplingConfig{SamplesPerPixel: 2, MaxDepth: 8})
	rt := NewRaytracer(scene, 12, 6)
	sampler := core.NewSeededSampler(5)

	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			c := rt.SamplePixel(x, y, sampler)
			for _, component := range []float64{c.X, c.Y, c.Z} {
				if math.IsNaN(component) || component < 0 {
					t.Fatalf("Pixel (%d,%d) has invalid color %v", x, y, c)
				}
			}
		}
	}
}
