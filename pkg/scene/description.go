package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Material kinds understood by scene descriptions
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Sky variants understood by scene descriptions
const (
	SkyDefault = "default"
	SkyPale    = "pale"
)

var (
	// ErrInvalidRadius is returned for spheres whose radius is not positive
	ErrInvalidRadius = errors.New("sphere radius must be positive")
	// ErrUnknownMaterial is returned for unrecognised material kinds
	ErrUnknownMaterial = errors.New("unknown material type")
)

// Description is the JSON form of a scene
type Description struct {
	Name        string              `json:"name,omitempty"`
	Description string              `json:"description,omitempty"`
	Group       string              `json:"group,omitempty"`
	Camera      CameraDescription   `json:"camera"`
	Sky         string              `json:"sky,omitempty"`
	Sampling    *SamplingDesc       `json:"sampling,omitempty"`
	Spheres     []SphereDescription `json:"spheres"`
}

// CameraDescription mirrors renderer.CameraConfig
type CameraDescription struct {
	LookFrom      [3]float64 `json:"lookFrom"`
	LookAt        [3]float64 `json:"lookAt"`
	Up            [3]float64 `json:"up"`
	VFov          float64    `json:"vfov"`
	Aperture      float64    `json:"aperture,omitempty"`
	FocusDistance float64    `json:"focusDistance,omitempty"`
}

// SamplingDesc holds optional sampling overrides
type SamplingDesc struct {
	SamplesPerPixel int `json:"samplesPerPixel,omitempty"`
	MaxDepth        int `json:"maxDepth,omitempty"`
}

// SphereDescription is one sphere and its material
type SphereDescription struct {
	Center   [3]float64          `json:"center"`
	Radius   float64             `json:"radius"`
	Material MaterialDescription `json:"material"`
}

// MaterialDescription describes any of the supported materials. Only the
// fields of the named type are used.
type MaterialDescription struct {
	Type            string     `json:"type"`
	Albedo          [3]float64 `json:"albedo"`
	Fuzz            float64    `json:"fuzz,omitempty"`
	RefractiveIndex float64    `json:"refractiveIndex,omitempty"`
}

// Validate checks the description for values Build cannot turn into a scene
func (d *Description) Validate() error {
	if d.Camera.VFov <= 0 || d.Camera.VFov >= 180 {
		return fmt.Errorf("camera vfov must be in (0, 180), got %g", d.Camera.VFov)
	}
	if toVec3(d.Camera.LookFrom) == toVec3(d.Camera.LookAt) {
		return fmt.Errorf("camera lookFrom and lookAt must differ")
	}
	if toVec3(d.Camera.Up).NearZero() {
		return fmt.Errorf("camera up vector must not be zero")
	}
	viewDirection := toVec3(d.Camera.LookFrom).Subtract(toVec3(d.Camera.LookAt))
	if toVec3(d.Camera.Up).Cross(viewDirection).NearZero() {
		return fmt.Errorf("camera up vector must not be parallel to the view direction")
	}
	switch d.Sky {
	case "", SkyDefault, SkyPale:
	default:
		return fmt.Errorf("unknown sky %q", d.Sky)
	}
	if d.Sampling != nil {
		if d.Sampling.SamplesPerPixel < 0 || d.Sampling.MaxDepth < 0 {
			return fmt.Errorf("sampling overrides must not be negative")
		}
	}

	for i, sphere := range d.Spheres {
		if sphere.Radius <= 0 {
			return fmt.Errorf("sphere %d: %w (got %g)", i, ErrInvalidRadius, sphere.Radius)
		}
		if _, err := sphere.Material.build(); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	return nil
}

// Build validates the description and turns it into a renderable scene
func (d *Description) Build() (*Scene, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s := newScene(d.Name, renderer.CameraConfig{
		LookFrom:      toVec3(d.Camera.LookFrom),
		LookAt:        toVec3(d.Camera.LookAt),
		Up:            toVec3(d.Camera.Up),
		VFov:          d.Camera.VFov,
		Aperture:      d.Camera.Aperture,
		FocusDistance: d.Camera.FocusDistance,
	})

	if d.Sky == SkyPale {
		s.Sky = renderer.PaleSky()
	}
	if d.Sampling != nil {
		s.SamplingConfig = renderer.MergeSamplingConfig(s.SamplingConfig, renderer.SamplingConfig{
			SamplesPerPixel: d.Sampling.SamplesPerPixel,
			MaxDepth:        d.Sampling.MaxDepth,
		})
	}

	for _, sphere := range d.Spheres {
		// Validated above
		mat, _ := sphere.Material.build()
		s.AddSphere(toVec3(sphere.Center), sphere.Radius, mat)
	}

	return s, nil
}

func (m MaterialDescription) build() (material.Material, error) {
	switch m.Type {
	case MaterialLambertian:
		return material.NewLambertian(toVec3(m.Albedo)), nil
	case MaterialMetal:
		return material.NewMetal(toVec3(m.Albedo), m.Fuzz), nil
	case MaterialDielectric:
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("dielectric refractive index must be positive, got %g", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMaterial, m.Type)
	}
}

// Describe converts a scene back into its JSON description. Spheres with
// negative radii (hollow shells) cannot be described and are reported as an
// error, as is any material other than the three built-in kinds.
func Describe(s *Scene) (*Description, error) {
	d := &Description{
		Name: s.Name,
		Camera: CameraDescription{
			LookFrom:      fromVec3(s.CameraConfig.LookFrom),
			LookAt:        fromVec3(s.CameraConfig.LookAt),
			Up:            fromVec3(s.CameraConfig.Up),
			VFov:          s.CameraConfig.VFov,
			Aperture:      s.CameraConfig.Aperture,
			FocusDistance: s.CameraConfig.FocusDistance,
		},
		Sky: SkyDefault,
	}
	if s.Sky == renderer.PaleSky() {
		d.Sky = SkyPale
	}
	d.Sampling = describeSampling(s.SamplingConfig)

	for i, shape := range s.World.Shapes {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			return nil, fmt.Errorf("shape %d: only spheres can be described, got %T", i, shape)
		}
		if sphere.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: %w (got %g)", i, ErrInvalidRadius, sphere.Radius)
		}

		matDesc, err := describeMaterial(sphere.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		d.Spheres = append(d.Spheres, SphereDescription{
			Center:   fromVec3(sphere.Center),
			Radius:   sphere.Radius,
			Material: matDesc,
		})
	}

	return d, nil
}

// describeSampling keeps only the fields that differ from the defaults
func describeSampling(config renderer.SamplingConfig) *SamplingDesc {
	defaults := renderer.DefaultSamplingConfig()
	var desc SamplingDesc
	if config.SamplesPerPixel != defaults.SamplesPerPixel {
		desc.SamplesPerPixel = config.SamplesPerPixel
	}
	if config.MaxDepth != defaults.MaxDepth {
		desc.MaxDepth = config.MaxDepth
	}
	if desc == (SamplingDesc{}) {
		return nil
	}
	return &desc
}

func describeMaterial(mat material.Material) (MaterialDescription, error) {
	switch m := mat.(type) {
	case *material.Lambertian:
		return MaterialDescription{Type: MaterialLambertian, Albedo: fromVec3(m.Albedo)}, nil
	case *material.Metal:
		return MaterialDescription{Type: MaterialMetal, Albedo: fromVec3(m.Albedo), Fuzz: m.Fuzz}, nil
	case *material.Dielectric:
		return MaterialDescription{Type: MaterialDielectric, RefractiveIndex: m.RefractiveIndex}, nil
	default:
		return MaterialDescription{}, fmt.Errorf("%w %T", ErrUnknownMaterial, mat)
	}
}

// Load reads and builds a JSON scene file
func Load(path string) (*Scene, error) {
	desc, err := LoadDescription(path)
	if err != nil {
		return nil, err
	}
	s, err := desc.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", path, err)
	}
	return s, nil
}

// LoadDescription reads a JSON scene file without building it
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	var desc Description
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	return &desc, nil
}

// Save writes a description as indented JSON
func Save(path string, desc *Description) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene: %w", err)
	}
	return nil
}

func toVec3(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func fromVec3(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
