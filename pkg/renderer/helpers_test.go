package renderer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// countingSampler wraps a sampler and counts draws
type countingSampler struct {
	inner core.Sampler
	draws int
}

func (c *countingSampler) Get1D() float64 {
	c.draws++
	return c.inner.Get1D()
}

// testLogger swallows log output
type testLogger struct {
	messages []string
}

func (tl *testLogger) Printf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, format)
}

// MockScene implements Scene for tests
type MockScene struct {
	world    geometry.Shape
	camera   CameraConfig
	sampling SamplingConfig
	sky      Sky
}

func (m *MockScene) GetWorld() geometry.Shape          { return m.world }
func (m *MockScene) GetCameraConfig() CameraConfig     { return m.camera }
func (m *MockScene) GetSamplingConfig() SamplingConfig { return m.sampling }
func (m *MockScene) GetSky() Sky                       { return m.sky }

func originCameraConfig() CameraConfig {
	return CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90,
	}
}

// newFourSphereScene builds the ground, diffuse, metal and glass spheres
// viewed from the origin
func newFourSphereScene(sampling SamplingConfig) *MockScene {
	world := geometry.NewHitableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
	)
	return &MockScene{
		world:    world,
		camera:   originCameraConfig(),
		sampling: sampling,
		sky:      DefaultSky(),
	}
}

func vecApprox(a, b core.Vec3, tolerance float64) bool {
	return mgl64.FloatEqualThreshold(a.X, b.X, tolerance) &&
		mgl64.FloatEqualThreshold(a.Y, b.Y, tolerance) &&
		mgl64.FloatEqualThreshold(a.Z, b.Z, tolerance)
}
