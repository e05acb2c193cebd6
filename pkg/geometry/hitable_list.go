package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// HitableList is a brute-force collection of shapes. The list owns its shapes;
// their order only decides ties between equal t values.
type HitableList struct {
	Shapes []Shape
}

// NewHitableList creates a list holding the given shapes
func NewHitableList(shapes ...Shape) *HitableList {
	return &HitableList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *HitableList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of shapes in the list
func (l *HitableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the globally nearest intersection across every shape
func (l *HitableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
