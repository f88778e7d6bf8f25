// Package editor implements brush strokes over the height field and splat maps,
// capturing each stroke as a reversible operation for the undo history.
package editor

import "errors"

// Stroke lifecycle errors
var (
	// ErrNoStroke indicates an update or finish without a started stroke.
	ErrNoStroke = errors.New("no stroke in progress")

	// ErrStrokeActive indicates a start while a stroke is already in progress.
	ErrStrokeActive = errors.New("stroke already in progress")

	// ErrUnknownKind indicates a stroke kind with no tool behind it.
	ErrUnknownKind = errors.New("unknown stroke kind")
)

// Tool input errors
var (
	// ErrNoMarkers indicates a slope update before both markers are placed.
	ErrNoMarkers = errors.New("slope markers not placed")

	// ErrNoSplat indicates a paint stroke on a terrain without alpha maps.
	ErrNoSplat = errors.New("terrain has no alpha maps")

	// ErrNoHeights indicates a stroke on a terrain without a height field.
	ErrNoHeights = errors.New("terrain has no height field")
)
