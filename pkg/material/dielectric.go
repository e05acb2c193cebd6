package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass); below 1 models a denser surrounding medium
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering.
// Exactly one random number is drawn per call.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass never absorbs
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	direction := rayIn.Direction
	reflected := Reflect(direction, hit.Normal)

	projection := direction.Dot(hit.Normal) / direction.Length()

	var outwardNormal core.Vec3
	var niOverNt, cosine float64
	exiting := projection > 0
	if exiting {
		// Leaving the material: refract against the inward normal
		outwardNormal = hit.Normal.Negate()
		niOverNt = d.RefractiveIndex
	} else {
		outwardNormal = hit.Normal
		niOverNt = 1.0 / d.RefractiveIndex
		cosine = -projection
	}

	reflectProbability := 1.0 // total internal reflection unless refraction exists
	refracted, canRefract := Refract(direction, outwardNormal, niOverNt)
	if canRefract {
		if exiting {
			// Cosine on the outer side, positive whenever refraction exists
			cosine = math.Sqrt(1 - d.RefractiveIndex*d.RefractiveIndex*(1-projection*projection))
		}
		reflectProbability = Schlick(cosine, d.RefractiveIndex)
	}

	scatteredDirection := refracted
	if sampler.Get1D() < reflectProbability {
		scatteredDirection = reflected
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatteredDirection),
		Attenuation: attenuation,
	}, true
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends v through a surface with unit normal n using Snell's law.
// niOverNt is the ratio of the incident to the transmitted index. The second
// result is false on total internal reflection.
func Refract(v, n core.Vec3, niOverNt float64) (core.Vec3, bool) {
	uv := v.Normalize()
	dt := uv.Dot(n)
	discriminant := 1.0 - niOverNt*niOverNt*(1.0-dt*dt)
	if discriminant <= 0 {
		return core.Vec3{}, false
	}
	refracted := uv.Subtract(n.Multiply(dt)).Multiply(niOverNt).Subtract(n.Multiply(math.Sqrt(discriminant)))
	return refracted, true
}

// Schlick approximates the Fresnel reflectance for a ray with the given cosine
// against a surface of refractive index ri
func Schlick(cosine, ri float64) float64 {
	r0 := (1 - ri) / (1 + ri)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
