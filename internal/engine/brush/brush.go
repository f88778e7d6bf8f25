// Package brush implements brush footprints and falloff shared by all terrain tools.
package brush

import (
	"fmt"
	"strings"
)

// Shape is the containment test of a brush footprint.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
)

// String returns the config name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShape parses a shape name.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "", "circle":
		return ShapeCircle, nil
	case "square":
		return ShapeSquare, nil
	}
	return 0, fmt.Errorf("unknown brush shape %q", s)
}

// Brush is a localized weighted footprint.
type Brush struct {
	Radius float32
	Power  float32
	Shape  Shape
}

// Contains reports whether a local offset from the brush center lies in the footprint.
func (b Brush) Contains(dx, dz float32) bool {
	switch b.Shape {
	case ShapeSquare:
		return abs(dx) <= b.Radius && abs(dz) <= b.Radius
	default:
		return dx*dx+dz*dz <= b.Radius*b.Radius
	}
}

// Falloff returns the weight at squared distance distSq for a squared radius.
// The weight is linear in squared distance and clamped to [0,1].
func Falloff(distSq, radiusSq float32) float32 {
	if radiusSq <= 0 {
		return 0
	}
	w := 1 - distSq/radiusSq
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// Weight returns the falloff of this brush at a local offset.
func (b Brush) Weight(dx, dz float32) float32 {
	return Falloff(dx*dx+dz*dz, b.Radius*b.Radius)
}

// Steps returns how many whole grid steps the radius spans on an axis of the given scale.
func (b Brush) Steps(axisScale float32) int {
	if axisScale <= 0 {
		return 0
	}
	return int(b.Radius / axisScale)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
