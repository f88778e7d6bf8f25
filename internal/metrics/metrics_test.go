package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := New(reg)

	m.StrokeCommitted("raise", 12)
	m.StrokeCommitted("raise", 3)
	m.StrokeDiscarded("paint", ReasonEmpty)
	m.EditError("paint")
	m.UndoStep(DirectionUndo)
	m.UndoStep(DirectionUndo)
	m.UndoStep(DirectionRedo)
	m.HistoryDepth(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.strokesCommitted.WithLabelValues("raise")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.strokesDiscarded.WithLabelValues("paint", ReasonEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.editErrors.WithLabelValues("paint")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.undoSteps.WithLabelValues(DirectionUndo)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.undoSteps.WithLabelValues(DirectionRedo)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.historyDepth))

	n, err := testutil.GatherAndCount(reg, "midgard_editor_stroke_cells_touched")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.StrokeCommitted("raise", 1)
		m.StrokeDiscarded("raise", ReasonAborted)
		m.EditError("raise")
		m.UndoStep(DirectionRedo)
		m.HistoryDepth(1)
	})
}
