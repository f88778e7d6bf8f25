package editor

import (
	"github.com/google/uuid"

	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
)

// Labels shown in the undo history.
const (
	LabelHeightmap = "Heightmap"
	LabelAlphaMap  = "AlphaMap"
)

// Operation is a committed stroke that can be re-applied and reverted.
// Apply and Revert mutate terrain state and must run on the world loop.
type Operation interface {
	ID() uuid.UUID
	Label() string
	// Len returns the number of samples the operation touches.
	Len() int
	Apply()
	Revert()
}

// HeightOperation restores or re-applies a set of height samples.
type HeightOperation struct {
	id     uuid.UUID
	target terrain.HeightField
	diff   Diff[terrain.GridKey, float32]
}

// NewHeightOperation wraps a committed height diff.
func NewHeightOperation(target terrain.HeightField, diff Diff[terrain.GridKey, float32]) *HeightOperation {
	return &HeightOperation{id: uuid.New(), target: target, diff: diff}
}

// ID returns the operation identity.
func (op *HeightOperation) ID() uuid.UUID { return op.id }

// Label returns the history label.
func (op *HeightOperation) Label() string { return LabelHeightmap }

// Len returns the number of samples.
func (op *HeightOperation) Len() int { return op.diff.Len() }

// Diff returns the captured before/after values.
func (op *HeightOperation) Diff() Diff[terrain.GridKey, float32] { return op.diff }

// Apply writes the after values.
func (op *HeightOperation) Apply() {
	op.target.SetHeights(op.diff.Keys, op.diff.After)
}

// Revert writes the before values.
func (op *HeightOperation) Revert() {
	op.target.SetHeights(op.diff.Keys, op.diff.Before)
}

// Texel is one packed pixel in buffer byte order.
type Texel [4]byte

// PaintOperation restores or re-applies a set of alpha map pixels keyed by byte offset.
type PaintOperation struct {
	id     uuid.UUID
	target terrain.PaintBuffer
	gen    terrain.GenerationCounter
	diff   Diff[int, Texel]
}

// NewPaintOperation wraps a committed paint diff. gen may be nil.
func NewPaintOperation(target terrain.PaintBuffer, gen terrain.GenerationCounter, diff Diff[int, Texel]) *PaintOperation {
	return &PaintOperation{id: uuid.New(), target: target, gen: gen, diff: diff}
}

// ID returns the operation identity.
func (op *PaintOperation) ID() uuid.UUID { return op.id }

// Label returns the history label.
func (op *PaintOperation) Label() string { return LabelAlphaMap }

// Len returns the number of pixels.
func (op *PaintOperation) Len() int { return op.diff.Len() }

// Diff returns the captured before/after texels.
func (op *PaintOperation) Diff() Diff[int, Texel] { return op.diff }

// Apply writes the after texels and bumps the buffer generation.
func (op *PaintOperation) Apply() {
	op.write(op.diff.After)
	if op.gen != nil {
		op.gen.Increment()
	}
}

// Revert writes the before texels and rolls the buffer generation back.
func (op *PaintOperation) Revert() {
	op.write(op.diff.Before)
	if op.gen != nil {
		op.gen.Decrement()
	}
}

func (op *PaintOperation) write(texels []Texel) {
	writeTexels(op.target.Data(), op.diff.Keys, texels)
	op.target.MarkDirty()
}

func readTexel(data []byte, off int) Texel {
	var t Texel
	if off < 0 || off+len(t) > len(data) {
		return t
	}
	copy(t[:], data[off:off+len(t)])
	return t
}

func writeTexels(data []byte, offsets []int, texels []Texel) {
	for i, off := range offsets {
		if off < 0 || off+len(texels[i]) > len(data) {
			continue
		}
		copy(data[off:], texels[i][:])
	}
}
