package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// previewCameraConfig looks from the origin down -z. At a 2:1 aspect ratio it
// reproduces renderer.NewDefaultCamera.
func previewCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          90,
		Aperture:      0,
		FocusDistance: 1,
	}
}

// NewPreviewScene creates the four-sphere scene: a large ground sphere, a
// diffuse blue sphere in the middle, a fuzzy gold metal sphere on the right
// and a glass sphere on the left
func NewPreviewScene() *Scene {
	s := newScene("preview", previewCameraConfig())

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3))
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5))

	return s
}

// NewHollowGlassScene is the preview scene with the glass sphere turned into
// a thin shell. The inner sphere's negative radius flips its normals so the
// shell's inside surface refracts the right way.
func NewHollowGlassScene() *Scene {
	s := NewPreviewScene()
	s.Name = "hollow-glass"
	s.AddSphere(core.NewVec3(-1, 0, -1), -0.45, material.NewDielectric(1.5))
	return s
}
