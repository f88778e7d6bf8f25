// Package sim runs the terrain world: the only goroutine that mutates heights
// and splat maps.
package sim

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/editor"
	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	"github.com/Faultbox/midgard-editor/internal/logger"
	"github.com/Faultbox/midgard-editor/internal/metrics"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// DefaultQueueSize is the task queue capacity used when Options.QueueSize is unset.
const DefaultQueueSize = 256

var (
	ErrClosed  = errors.New("sim: world stopped")
	ErrBusy    = errors.New("sim: task queue full")
	ErrNoUndo  = errors.New("sim: no undo executor")
	ErrNoField = errors.New("sim: heights required")
)

// Executor receives committed operations. undo.Manager implements it.
type Executor interface {
	Execute(ctx context.Context, op editor.Operation) error
}

// Options configures a World.
type Options struct {
	QueueSize int
	Settings  brush.Settings
	Metrics   *metrics.Metrics
}

// Stats counts stroke outcomes seen by the world.
type Stats struct {
	Committed int
	Discarded int
	Errors    int
}

// World owns the terrain and the active stroke. Every method that changes
// state posts a task; tasks run in order on the goroutine calling Run.
type World struct {
	heights *terrain.Heightmap
	splat   *terrain.Splat
	undo    Executor
	metrics *metrics.Metrics
	log     *zap.Logger

	tasks chan func()
	done  chan struct{}

	// Owned by the Run goroutine.
	ctx      context.Context
	settings brush.Settings
	markers  editor.Markers
	strokes  map[editor.Kind]editor.Stroke
	active   editor.Stroke
	stats    Stats
}

// New creates a world editing heights and, when non-nil, splat.
func New(heights *terrain.Heightmap, splat *terrain.Splat, undo Executor, opts Options) (*World, error) {
	if heights == nil {
		return nil, ErrNoField
	}
	if undo == nil {
		return nil, ErrNoUndo
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Settings == (brush.Settings{}) {
		opts.Settings = brush.DefaultSettings()
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("brush settings: %w", err)
	}
	return &World{
		heights:  heights,
		splat:    splat,
		undo:     undo,
		metrics:  opts.Metrics,
		log:      logger.Named("sim"),
		tasks:    make(chan func(), opts.QueueSize),
		done:     make(chan struct{}),
		ctx:      context.Background(),
		settings: opts.Settings,
		strokes:  make(map[editor.Kind]editor.Stroke),
	}, nil
}

// Run executes posted tasks until ctx is cancelled. A stroke still active on
// exit is aborted and never reaches the undo executor.
func (w *World) Run(ctx context.Context) error {
	w.ctx = ctx
	defer close(w.done)
	w.log.Debug("world started", zap.Int("size", w.heights.Size()))
	for {
		select {
		case <-ctx.Done():
			w.abortActive("shutdown")
			w.log.Debug("world stopped",
				zap.Int("committed", w.stats.Committed),
				zap.Int("discarded", w.stats.Discarded))
			return nil
		case task := <-w.tasks:
			task()
		}
	}
}

// Post queues fn to run on the world goroutine.
func (w *World) Post(fn func()) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	select {
	case w.tasks <- fn:
		return nil
	case <-w.done:
		return ErrClosed
	}
}

// PostHistory queues an undo or redo step without blocking, so the undo
// manager never waits on the world while the world may be waiting on it.
// A stroke still active when the step runs is aborted first; its recorded
// originals would not survive the step.
func (w *World) PostHistory(fn func()) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	task := func() {
		w.abortActive("history step")
		fn()
	}
	select {
	case w.tasks <- task:
		return nil
	case <-w.done:
		return ErrClosed
	default:
		return ErrBusy
	}
}

// Do runs fn on the world goroutine and waits for it to finish.
// fn may read Heights and Splat.
func (w *World) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := w.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Sync waits until every task posted before it has run.
func (w *World) Sync(ctx context.Context) error {
	return w.Do(ctx, func() {})
}

// Heights returns the height field. Only use it from inside Do.
func (w *World) Heights() *terrain.Heightmap { return w.heights }

// Splat returns the splat maps, nil when the world has none. Only use it from inside Do.
func (w *World) Splat() *terrain.Splat { return w.splat }

// Stats returns the stroke outcome counters.
func (w *World) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := w.Do(ctx, func() { s = w.stats })
	return s, err
}

// SetSettings replaces the brush settings used by later updates.
func (w *World) SetSettings(s brush.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return w.Post(func() { w.settings = s })
}

// SetMarkers places the slope markers.
func (w *World) SetMarkers(base, target mgmath.Vec3) error {
	return w.Post(func() {
		w.markers = editor.Markers{Base: base, Target: target, Placed: true}
	})
}

// ClearMarkers removes the slope markers.
func (w *World) ClearMarkers() error {
	return w.Post(func() { w.markers = editor.Markers{} })
}

// Begin starts a stroke of kind. A stroke still active is aborted first.
func (w *World) Begin(kind editor.Kind, button editor.Button) error {
	return w.Post(func() {
		w.abortActive("replaced")
		s, err := w.stroke(kind)
		if err != nil {
			w.editFailed(kind, err)
			return
		}
		if err := s.Start(button); err != nil {
			w.editFailed(kind, err)
			return
		}
		w.active = s
	})
}

// Drag feeds one contact point to the active stroke.
func (w *World) Drag(contact mgmath.Vec3) error {
	return w.Post(func() {
		if w.active == nil {
			return
		}
		if err := w.active.Update(contact); err != nil {
			w.editFailed(w.active.Kind(), err)
		}
	})
}

// Release finishes the active stroke and hands its operation to the undo executor.
func (w *World) Release() error {
	return w.Post(func() {
		s := w.active
		if s == nil {
			return
		}
		w.active = nil
		tool := s.Kind().String()
		op, err := s.Finish()
		if err != nil {
			w.editFailed(s.Kind(), err)
			return
		}
		if op == nil {
			w.stats.Discarded++
			w.metrics.StrokeDiscarded(tool, metrics.ReasonEmpty)
			return
		}
		if err := w.undo.Execute(w.ctx, op); err != nil {
			op.Revert()
			w.editFailed(s.Kind(), fmt.Errorf("undo hand-off: %w", err))
			return
		}
		w.stats.Committed++
		w.metrics.StrokeCommitted(tool, op.Len())
	})
}

// Cancel aborts the active stroke, restoring everything it touched.
func (w *World) Cancel() error {
	return w.Post(func() { w.abortActive("cancelled") })
}

func (w *World) abortActive(reason string) {
	if w.active == nil {
		return
	}
	s := w.active
	w.active = nil
	s.Abort()
	w.stats.Discarded++
	w.metrics.StrokeDiscarded(s.Kind().String(), metrics.ReasonAborted)
	w.log.Debug("stroke aborted", zap.Stringer("tool", s.Kind()), zap.String("reason", reason))
}

func (w *World) editFailed(kind editor.Kind, err error) {
	w.stats.Errors++
	w.metrics.EditError(kind.String())
	w.log.Error("edit failed", zap.Stringer("tool", kind), zap.Error(err))
}

// stroke returns the cached stroke for kind, creating it on first use.
func (w *World) stroke(kind editor.Kind) (editor.Stroke, error) {
	if s, ok := w.strokes[kind]; ok {
		return s, nil
	}
	s, err := editor.New(kind, editor.Env{
		Heights:  w.heights,
		Splat:    w.splat,
		Settings: worldSettings{w},
		Markers:  worldMarkers{w},
	})
	if err != nil {
		return nil, err
	}
	w.strokes[kind] = s
	return s, nil
}

type worldSettings struct{ w *World }

func (p worldSettings) BrushSettings() brush.Settings { return p.w.settings }

type worldMarkers struct{ w *World }

func (p worldMarkers) SlopeMarkers() (mgmath.Vec3, mgmath.Vec3, bool) {
	return p.w.markers.SlopeMarkers()
}
