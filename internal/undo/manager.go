package undo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/editor"
	"github.com/Faultbox/midgard-editor/internal/logger"
	"github.com/Faultbox/midgard-editor/internal/metrics"
)

// DefaultQueueSize is the inbox capacity used when Options.QueueSize is unset.
const DefaultQueueSize = 64

// Dispatcher runs history steps on the goroutine that owns the terrain.
// PostHistory must not block: a full queue is reported as an error.
type Dispatcher interface {
	PostHistory(fn func()) error
}

// Options configures a Manager.
type Options struct {
	MaxSteps  int
	QueueSize int
	Metrics   *metrics.Metrics
}

// State describes the history at one point in time.
type State struct {
	Len      int
	Position int
	NextUndo string
	NextRedo string
}

type action int

const (
	actionExecute action = iota
	actionUndo
	actionRedo
	actionState
	actionClear
)

type message struct {
	action action
	op     editor.Operation
	reply  chan reply
}

type reply struct {
	op    editor.Operation
	state State
	err   error
}

// Manager owns a History on its own goroutine. Executed operations and
// undo/redo requests share one inbox, so they are served in arrival order.
// Reverts and re-applies are posted back to the terrain owner.
type Manager struct {
	history *History
	world   Dispatcher
	metrics *metrics.Metrics
	log     *zap.Logger

	inbox chan message
	done  chan struct{}
}

// NewManager creates a manager that replays operations through world.
func NewManager(world Dispatcher, opts Options) *Manager {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	return &Manager{
		history: NewHistory(opts.MaxSteps),
		world:   world,
		metrics: opts.Metrics,
		log:     logger.Named("undo"),
		inbox:   make(chan message, opts.QueueSize),
		done:    make(chan struct{}),
	}
}

// Run serves the inbox until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)
	m.log.Debug("undo manager started", zap.Int("max_steps", m.history.limit))
	for {
		select {
		case <-ctx.Done():
			m.log.Debug("undo manager stopped", zap.Int("held", m.history.Len()))
			return nil
		case msg := <-m.inbox:
			r := m.handle(msg)
			if msg.reply != nil {
				msg.reply <- r
			}
		}
	}
}

func (m *Manager) handle(msg message) reply {
	switch msg.action {
	case actionExecute:
		if err := m.history.Push(msg.op); err != nil {
			return reply{err: err}
		}
		m.log.Debug("operation registered",
			zap.String("label", msg.op.Label()),
			zap.Stringer("op", msg.op.ID()),
			zap.Int("len", msg.op.Len()))
		m.metrics.HistoryDepth(m.history.Len())
		return reply{op: msg.op}
	case actionUndo:
		op, err := m.history.Undo()
		if err != nil {
			return reply{err: err}
		}
		if err := m.world.PostHistory(op.Revert); err != nil {
			m.history.cursor++
			return reply{err: fmt.Errorf("posting revert: %w", err)}
		}
		m.metrics.UndoStep(metrics.DirectionUndo)
		m.log.Debug("undo", zap.String("label", op.Label()), zap.Stringer("op", op.ID()))
		return reply{op: op}
	case actionRedo:
		op, err := m.history.Redo()
		if err != nil {
			return reply{err: err}
		}
		if err := m.world.PostHistory(op.Apply); err != nil {
			m.history.cursor--
			return reply{err: fmt.Errorf("posting apply: %w", err)}
		}
		m.metrics.UndoStep(metrics.DirectionRedo)
		m.log.Debug("redo", zap.String("label", op.Label()), zap.Stringer("op", op.ID()))
		return reply{op: op}
	case actionClear:
		m.history.Clear()
		m.metrics.HistoryDepth(0)
		return reply{}
	}
	return reply{state: m.state()}
}

func (m *Manager) state() State {
	s := State{Len: m.history.Len(), Position: m.history.Position()}
	if m.history.CanUndo() {
		s.NextUndo = m.history.ops[m.history.cursor-1].Label()
	}
	if m.history.CanRedo() {
		s.NextRedo = m.history.ops[m.history.cursor].Label()
	}
	return s
}

// Execute registers an operation that has already been applied to the
// terrain. Ownership of op passes to the manager.
func (m *Manager) Execute(ctx context.Context, op editor.Operation) error {
	if op == nil || op.Len() == 0 {
		return ErrEmptyOperation
	}
	return m.send(ctx, message{action: actionExecute, op: op})
}

// Undo reverts the most recent applied operation and returns it.
func (m *Manager) Undo(ctx context.Context) (editor.Operation, error) {
	r, err := m.call(ctx, actionUndo)
	return r.op, err
}

// Redo re-applies the most recently undone operation and returns it.
func (m *Manager) Redo(ctx context.Context) (editor.Operation, error) {
	r, err := m.call(ctx, actionRedo)
	return r.op, err
}

// Clear drops the whole history without touching the terrain.
func (m *Manager) Clear(ctx context.Context) error {
	_, err := m.call(ctx, actionClear)
	return err
}

// State reports the history position after every earlier message is served.
func (m *Manager) State(ctx context.Context) (State, error) {
	r, err := m.call(ctx, actionState)
	return r.state, err
}

func (m *Manager) call(ctx context.Context, a action) (reply, error) {
	ch := make(chan reply, 1)
	if err := m.send(ctx, message{action: a, reply: ch}); err != nil {
		return reply{}, err
	}
	select {
	case r := <-ch:
		return r, r.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	case <-m.done:
		select {
		case r := <-ch:
			return r, r.err
		default:
			return reply{}, ErrClosed
		}
	}
}

func (m *Manager) send(ctx context.Context, msg message) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}
	select {
	case m.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrClosed
	}
}
