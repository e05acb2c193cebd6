package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo extracts detailed material information with type assertions
func (s *Server) extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecToArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecToArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return fmt.Sprintf("%T", mat), properties
	}
}

// handleInspect reports the nearest object behind a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	query := r.URL.Query()
	sceneID := query.Get("scene")
	if sceneID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scene parameter is required"})
		return
	}

	width, err := parseIntParam(query, "width", DefaultWidth, 1, MaxImageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	height, err := parseIntParam(query, "height", DefaultHeight, 1, MaxImageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	x, err := parseIntParam(query, "x", 0, 0, width-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	y, err := parseIntParam(query, "y", 0, 0, height-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sceneObj, err := s.createScene(sceneID, 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ray := renderer.NewRaytracer(sceneObj, width, height).PixelRay(x, y)
	writeJSON(w, http.StatusOK, s.inspectRay(ray, sceneObj.World.Shapes))
}

// inspectRay finds the nearest shape along ray and describes it
func (s *Server) inspectRay(ray core.Ray, shapes []geometry.Shape) InspectResponse {
	var (
		closestHit   *material.HitRecord
		closestShape geometry.Shape
	)
	closest := math.Inf(1)
	for _, shape := range shapes {
		if hit, isHit := shape.Hit(ray, renderer.ShadowEpsilon, closest); isHit {
			closest = hit.T
			closestHit = hit
			closestShape = shape
		}
	}

	if closestHit == nil {
		return InspectResponse{Hit: false}
	}

	materialType, properties := s.extractMaterialInfo(closestHit.Material)

	geometryType := fmt.Sprintf("%T", closestShape)
	if sphere, ok := closestShape.(*geometry.Sphere); ok {
		geometryType = "sphere"
		properties["center"] = vecToArray(sphere.Center)
		properties["radius"] = sphere.Radius
	}

	return InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecToArray(closestHit.Point),
		Normal:       vecToArray(closestHit.Normal),
		Distance:     closestHit.T * ray.Direction.Length(),
		FrontFace:    ray.Direction.Dot(closestHit.Normal) < 0,
		Properties:   properties,
	}
}

func vecToArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats a linear albedo as a #rrggbb string
func hexColor(c core.Vec3) string {
	rgba := renderer.ToRGBA(c)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
