package undo

import "errors"

var (
	ErrNothingToUndo  = errors.New("undo: nothing to undo")
	ErrNothingToRedo  = errors.New("undo: nothing to redo")
	ErrEmptyOperation = errors.New("undo: empty operation")
	ErrClosed         = errors.New("undo: manager stopped")
)
