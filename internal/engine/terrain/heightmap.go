package terrain

import (
	"fmt"
	stdmath "math"

	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// Heightmap is a square grid of internal heights with a world transform.
type Heightmap struct {
	altitudes []float32 // row-major, index z*size+x
	size      int
	scale     mgmath.Vec3
	origin    mgmath.Vec3
}

// NewHeightmap creates a flat heightmap of size x size samples.
func NewHeightmap(size int, scale, origin mgmath.Vec3) (*Heightmap, error) {
	if size <= 0 {
		return nil, fmt.Errorf("heightmap size %d: %w", size, ErrInvalidSize)
	}
	if scale.X <= 0 || scale.Y <= 0 || scale.Z <= 0 {
		return nil, fmt.Errorf("heightmap scale %v: %w", scale, ErrInvalidSize)
	}
	return &Heightmap{
		altitudes: make([]float32, size*size),
		size:      size,
		scale:     scale,
		origin:    origin,
	}, nil
}

// Size returns the number of samples along each side.
func (h *Heightmap) Size() int { return h.size }

// Scale returns the per-axis world size of a grid step.
func (h *Heightmap) Scale() mgmath.Vec3 { return h.scale }

// Origin returns the world position of cell (0,0).
func (h *Heightmap) Origin() mgmath.Vec3 { return h.origin }

// InBounds reports whether k addresses a sample.
func (h *Heightmap) InBounds(k GridKey) bool {
	return k.X >= 0 && k.Z >= 0 && k.X < h.size && k.Z < h.size
}

// Height returns the internal height at k, or NoData outside the grid.
func (h *Heightmap) Height(k GridKey) float32 {
	if !h.InBounds(k) {
		return NoData
	}
	return h.altitudes[k.Z*h.size+k.X]
}

// Set writes a single internal height. Out-of-range keys and NoData values are ignored.
func (h *Heightmap) Set(k GridKey, v float32) {
	if !h.InBounds(k) || v == NoData || stdmath.IsNaN(float64(v)) {
		return
	}
	h.altitudes[k.Z*h.size+k.X] = v
}

// SetHeights writes internal heights for parallel keys and values.
func (h *Heightmap) SetHeights(keys []GridKey, values []float32) {
	n := min(len(keys), len(values))
	for i := 0; i < n; i++ {
		h.Set(keys[i], values[i])
	}
}

// Fill sets every sample to v.
func (h *Heightmap) Fill(v float32) {
	for i := range h.altitudes {
		h.altitudes[i] = v
	}
}

// WorldHeight returns the height at k in world units, or NoData.
func (h *Heightmap) WorldHeight(k GridKey) float32 {
	v := h.Height(k)
	if v == NoData {
		return NoData
	}
	return v * h.scale.Y
}

// WorldToGrid converts a world position to fractional grid coordinates.
func (h *Heightmap) WorldToGrid(p mgmath.Vec3) (float32, float32) {
	local := p.Sub(h.origin).Div(h.scale)
	return local.X, local.Z
}

// KeyAt returns the grid cell nearest to world position p. The key may be out of bounds.
func (h *Heightmap) KeyAt(p mgmath.Vec3) GridKey {
	fx, fz := h.WorldToGrid(p)
	return GridKey{
		X: int(stdmath.Round(float64(fx))),
		Z: int(stdmath.Round(float64(fz))),
	}
}

// CellPosition returns the world position of cell k at its current height.
// Cells without data sit at the origin height.
func (h *Heightmap) CellPosition(k GridKey) mgmath.Vec3 {
	y := h.origin.Y
	if v := h.Height(k); v != NoData {
		y += v * h.scale.Y
	}
	return mgmath.Vec3{
		X: h.origin.X + float32(k.X)*h.scale.X,
		Y: y,
		Z: h.origin.Z + float32(k.Z)*h.scale.Z,
	}
}

// Clone returns a deep copy of the heightmap.
func (h *Heightmap) Clone() *Heightmap {
	return h.CopyInto(nil)
}

// CopyInto copies h into dst, reusing dst's storage when it is large enough.
// A nil dst allocates. The returned heightmap is the copy.
func (h *Heightmap) CopyInto(dst *Heightmap) *Heightmap {
	if dst == nil {
		dst = &Heightmap{}
	}
	n := len(h.altitudes)
	if cap(dst.altitudes) < n {
		dst.altitudes = make([]float32, n)
	}
	dst.altitudes = dst.altitudes[:n]
	copy(dst.altitudes, h.altitudes)
	dst.size = h.size
	dst.scale = h.scale
	dst.origin = h.origin
	return dst
}

// Capture snapshots any height field into dst, reusing dst's storage.
func Capture(field HeightField, dst *Heightmap) *Heightmap {
	if hm, ok := field.(*Heightmap); ok {
		return hm.CopyInto(dst)
	}
	if dst == nil {
		dst = &Heightmap{}
	}
	size := field.Size()
	n := size * size
	if cap(dst.altitudes) < n {
		dst.altitudes = make([]float32, n)
	}
	dst.altitudes = dst.altitudes[:n]
	dst.size = size
	dst.scale = field.Scale()
	dst.origin = field.Origin()
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			dst.altitudes[z*size+x] = field.Height(GridKey{X: x, Z: z})
		}
	}
	return dst
}
