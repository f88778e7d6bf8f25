// Package terrain provides the editable height field and splat alpha maps of a map.
package terrain

import (
	"errors"
	"math"

	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// NoData is returned for height queries outside the grid. It is never written back.
const NoData float32 = -math.MaxFloat32

// Maximum number of alpha maps in a splat set, each carrying 4 layers.
const (
	MaxAlphaMaps    = 3
	LayersPerMap    = 4
	MaxSplatLayers  = MaxAlphaMaps * LayersPerMap
	bytesPerPixel   = 4
	channelMaxValue = 255
)

var (
	// ErrUnsupportedLayout indicates a pixel layout with no known channel order.
	ErrUnsupportedLayout = errors.New("unsupported alpha map layout")

	// ErrLayerOutOfRange indicates a splat layer index the set cannot address.
	ErrLayerOutOfRange = errors.New("splat layer out of range")

	// ErrInvalidSize indicates a non-positive grid or image dimension.
	ErrInvalidSize = errors.New("invalid terrain size")
)

// GridKey identifies a height sample by integer grid indices.
// Two lookups landing in the same cell always produce equal keys.
type GridKey struct {
	X, Z int
}

// HeightField is the elevation grid edited by height brushes.
// Heights are stored in field-internal units; world height = internal * Scale().Y.
type HeightField interface {
	// Height returns the internal height at k, or NoData when k is outside the grid.
	Height(k GridKey) float32
	// SetHeights writes internal heights. keys and values are parallel.
	SetHeights(keys []GridKey, values []float32)
	// Scale is the world size of one grid step on each axis.
	Scale() mgmath.Vec3
	// Origin is the world position of cell (0,0) at height 0.
	Origin() mgmath.Vec3
	// Size is the number of samples along each side.
	Size() int
}

// PaintBuffer is a packed 4-channel pixel buffer holding splat weights.
type PaintBuffer interface {
	Layout() Layout
	// Data returns the mutable pixel bytes, row-major, 4 bytes per pixel.
	Data() []byte
	Width() int
	Height() int
	// MarkDirty flags the buffer for re-upload by the renderer.
	MarkDirty()
}

// GenerationCounter signals texture re-uploads to the renderer.
type GenerationCounter interface {
	Increment()
	Decrement()
}
