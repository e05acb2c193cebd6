package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter decides whether rayIn continues after hitting the surface described
	// by hit. The sampler is the caller's random stream; it is never shared
	// between goroutines.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
// Normal is the shape's outward normal; it is not flipped toward the ray, so
// materials read the side from the sign of dot(ray.Direction, Normal).
type HitRecord struct {
	T        float64   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Unit surface normal at intersection
	Material Material  // Borrowed from the hit shape for one Scatter call
}
