package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	CameraConfig   renderer.CameraConfig
	World          *geometry.HitableList // Objects in the scene
	SamplingConfig renderer.SamplingConfig
	Sky            renderer.Sky
}

// newScene creates an empty scene with the default sky and sampling settings
func newScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:           name,
		CameraConfig:   cameraConfig,
		World:          geometry.NewHitableList(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Sky:            renderer.DefaultSky(),
	}
}

// AddSphere adds a sphere with its own material to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// GetWorld returns the hitable list the renderer intersects
func (s *Scene) GetWorld() geometry.Shape {
	return s.World
}

// GetCameraConfig returns the camera configuration
func (s *Scene) GetCameraConfig() renderer.CameraConfig {
	return s.CameraConfig
}

// GetSamplingConfig returns the scene's sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// GetSky returns the background gradient
func (s *Scene) GetSky() renderer.Sky {
	return s.Sky
}
