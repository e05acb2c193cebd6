package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestNewMetal_FuzzNotClamped(t *testing.T) {
	tests := []struct {
		name string
		fuzz float64
	}{
		{"mirror", 0.0},
		{"moderate", 0.5},
		{"one", 1.0},
		{"above one", 1.5},
		{"large", 10.0},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.fuzz)
			if metal.Fuzz != tt.fuzz {
				t.Errorf("Expected fuzz %f, got %f", tt.fuzz, metal.Fuzz)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	sampler := &fixedSampler{value: 0.5}

	// Ray hitting surface at 45 degrees, unnormalized on purpose
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -3, -3))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, scatter.Scattered.Direction)
	}
	if !scatter.Attenuation.Equals(albedo) {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
	if sampler.draws != 0 {
		t.Errorf("Mirror should not draw random numbers, drew %d", sampler.draws)
	}
}

func TestMetal_AbsorbsRayReflectedIntoSurface(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	sampler := &fixedSampler{value: 0.5}

	// Ray travelling along the normal (arriving from behind the surface)
	// reflects to -normal, i.e. into the surface
	rayIn := core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}

	if _, didScatter := metal.Scatter(rayIn, hit, sampler); didScatter {
		t.Error("Expected ray reflected into the surface to be absorbed")
	}
}

func TestMetal_FuzzyReflection(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	metal := NewMetal(albedo, 0.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	mirror := core.NewVec3(0, 0, 1)
	directions := make([]core.Vec3, 10)
	for i := range directions {
		scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatalf("Fuzz 0.5 at normal incidence should always scatter (iteration %d)", i)
		}
		directions[i] = scatter.Scattered.Direction

		// perturbation is fuzz * point in unit sphere
		if directions[i].Subtract(mirror).Length() >= 0.5 {
			t.Errorf("Perturbation too large: %v", directions[i])
		}
	}

	allSame := true
	for i := 1; i < len(directions); i++ {
		if !directions[i].Equals(directions[0]) {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("Fuzzy metal should produce varying directions")
	}
}

func TestMetal_LargeFuzzCanAbsorb(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 5.0)
	sampler := core.NewSeededSampler(11)

	// Grazing incidence: a big perturbation often points below the surface
	rayIn := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}

	absorbed := 0
	for i := 0; i < 200; i++ {
		if _, ok := metal.Scatter(rayIn, hit, sampler); !ok {
			absorbed++
		}
	}
	if absorbed == 0 {
		t.Error("Expected some grazing rays to be absorbed with fuzz 5")
	}
}
