// Package undo sequences reversible terrain operations.
package undo

import "github.com/Faultbox/midgard-editor/internal/editor"

// History is a bounded undo/redo stack. ops[:cursor] can be undone,
// ops[cursor:] can be redone.
type History struct {
	ops    []editor.Operation
	cursor int
	limit  int
}

// NewHistory creates a history holding at most limit operations.
// A limit of zero or less keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records an executed operation. It drops the redo tail, and the oldest
// entry once the history is full. Empty operations are rejected.
func (h *History) Push(op editor.Operation) error {
	if op == nil || op.Len() == 0 {
		return ErrEmptyOperation
	}
	clear(h.ops[h.cursor:])
	h.ops = append(h.ops[:h.cursor], op)
	if h.limit > 0 && len(h.ops) > h.limit {
		drop := len(h.ops) - h.limit
		clear(h.ops[:drop])
		h.ops = append(h.ops[:0], h.ops[drop:]...)
	}
	h.cursor = len(h.ops)
	return nil
}

// Undo moves the cursor back and returns the operation to revert.
func (h *History) Undo() (editor.Operation, error) {
	if !h.CanUndo() {
		return nil, ErrNothingToUndo
	}
	h.cursor--
	return h.ops[h.cursor], nil
}

// Redo moves the cursor forward and returns the operation to apply.
func (h *History) Redo() (editor.Operation, error) {
	if !h.CanRedo() {
		return nil, ErrNothingToRedo
	}
	op := h.ops[h.cursor]
	h.cursor++
	return op, nil
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.ops) }

// Len returns the number of operations held, undone ones included.
func (h *History) Len() int { return len(h.ops) }

// Position returns how many operations are currently applied.
func (h *History) Position() int { return h.cursor }

// Clear forgets every operation.
func (h *History) Clear() {
	clear(h.ops)
	h.ops = h.ops[:0]
	h.cursor = 0
}
