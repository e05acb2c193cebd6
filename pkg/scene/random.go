package scene

import (
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

const (
	smallSphereRadius = 0.2
	heroSphereRadius  = 1.0
	gridExtent        = 11
)

// heroSphereCenters are the three large spheres small spheres must avoid
var heroSphereCenters = []core.Vec3{
	core.NewVec3(0, 1, 0),
	core.NewVec3(-4, 1, 0),
	core.NewVec3(4, 1, 0),
}

func randomCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		Aperture:      0.1,
		FocusDistance: 10,
	}
}

// NewRandomScene creates the large scene of many small random spheres around
// three hero spheres. The same generator state always yields the same scene.
func NewRandomScene(random *rand.Rand) *Scene {
	s := newScene("random", randomCameraConfig())

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	for a := -gridExtent; a < gridExtent; a++ {
		for b := -gridExtent; b < gridExtent; b++ {
			chooseMaterial := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				smallSphereRadius,
				float64(b)+0.9*random.Float64(),
			)

			if overlapsHeroSphere(center) {
				continue
			}

			s.AddSphere(center, smallSphereRadius, randomMaterial(chooseMaterial, random))
		}
	}

	s.AddSphere(heroSphereCenters[0], heroSphereRadius, material.NewDielectric(1.5))
	s.AddSphere(heroSphereCenters[1], heroSphereRadius, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(heroSphereCenters[2], heroSphereRadius, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	return s
}

func overlapsHeroSphere(center core.Vec3) bool {
	for _, hero := range heroSphereCenters {
		if center.Subtract(hero).Length() < heroSphereRadius+smallSphereRadius {
			return true
		}
	}
	return false
}

// randomMaterial picks diffuse (80%), metal (15%) or glass (5%)
func randomMaterial(choose float64, random *rand.Rand) material.Material {
	switch {
	case choose < 0.8:
		return material.NewLambertian(core.NewVec3(
			random.Float64()*random.Float64(),
			random.Float64()*random.Float64(),
			random.Float64()*random.Float64(),
		))
	case choose < 0.95:
		return material.NewMetal(
			core.NewVec3(
				0.5*(1+random.Float64()),
				0.5*(1+random.Float64()),
				0.5*(1+random.Float64()),
			),
			0.5*random.Float64(),
		)
	default:
		return material.NewDielectric(1.5)
	}
}
