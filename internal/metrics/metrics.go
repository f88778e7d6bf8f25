// Package metrics exposes Prometheus counters for terrain editing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "midgard_editor"

// Undo directions.
const (
	DirectionUndo = "undo"
	DirectionRedo = "redo"
)

// Discard reasons.
const (
	ReasonEmpty   = "empty"
	ReasonAborted = "aborted"
)

// Metrics holds the editor's collectors. A nil *Metrics records nothing.
type Metrics struct {
	strokesCommitted *prometheus.CounterVec
	strokesDiscarded *prometheus.CounterVec
	editErrors       *prometheus.CounterVec
	undoSteps        *prometheus.CounterVec
	cellsTouched     *prometheus.HistogramVec
	historyDepth     prometheus.Gauge
}

// New registers the editor collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		strokesCommitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stroke",
			Name:      "committed_total",
			Help:      "Strokes that produced an undoable operation",
		}, []string{"tool"}),
		strokesDiscarded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stroke",
			Name:      "discarded_total",
			Help:      "Strokes that ended without an operation",
		}, []string{"tool", "reason"}),
		editErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stroke",
			Name:      "edit_errors_total",
			Help:      "Stroke updates rejected with an error",
		}, []string{"tool"}),
		undoSteps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "undo",
			Name:      "steps_total",
			Help:      "Undo and redo steps performed",
		}, []string{"direction"}),
		cellsTouched: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stroke",
			Name:      "cells_touched",
			Help:      "Cells or pixels recorded by a committed stroke",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"tool"}),
		historyDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "undo",
			Name:      "history_depth",
			Help:      "Operations currently held by the undo history",
		}),
	}
}

// StrokeCommitted records a committed stroke of n touched elements.
func (m *Metrics) StrokeCommitted(tool string, n int) {
	if m == nil {
		return
	}
	m.strokesCommitted.WithLabelValues(tool).Inc()
	m.cellsTouched.WithLabelValues(tool).Observe(float64(n))
}

// StrokeDiscarded records a stroke that ended without an operation.
func (m *Metrics) StrokeDiscarded(tool, reason string) {
	if m == nil {
		return
	}
	m.strokesDiscarded.WithLabelValues(tool, reason).Inc()
}

// EditError records a rejected stroke update.
func (m *Metrics) EditError(tool string) {
	if m == nil {
		return
	}
	m.editErrors.WithLabelValues(tool).Inc()
}

// UndoStep records an undo or redo.
func (m *Metrics) UndoStep(direction string) {
	if m == nil {
		return
	}
	m.undoSteps.WithLabelValues(direction).Inc()
}

// HistoryDepth sets the number of operations held by the history.
func (m *Metrics) HistoryDepth(n int) {
	if m == nil {
		return
	}
	m.historyDepth.Set(float64(n))
}
