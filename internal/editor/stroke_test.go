package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"raise", KindRaise},
		{"Lower", KindRaise},
		{"smooth", KindSmooth},
		{"slope", KindSlope},
		{"paint", KindPaint},
		{"flatten", KindFlatten},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("erode")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNewDispatchesByKind(t *testing.T) {
	env, _ := newPaintEnv(t, 1, 0, settings(1, 1))
	env.Markers = rampMarkers
	for _, kind := range []Kind{KindRaise, KindSmooth, KindSlope, KindPaint, KindFlatten} {
		s, err := New(kind, env)
		require.NoError(t, err, kind.String())
		assert.Equal(t, kind, s.Kind())
		assert.False(t, s.Active())
	}

	_, err := New(Kind(42), env)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNewRequiresTargets(t *testing.T) {
	_, err := New(KindRaise, Env{})
	assert.ErrorIs(t, err, ErrNoHeights)

	_, err = New(KindPaint, Env{Heights: flatField(t, 4, 0)})
	assert.ErrorIs(t, err, ErrNoSplat)
}

func TestStrokeLifecycleErrors(t *testing.T) {
	s, err := New(KindRaise, Env{Heights: flatField(t, 4, 0), Settings: settings(1, 1)})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Update(at(1, 1)), ErrNoStroke)
	_, err = s.Finish()
	assert.ErrorIs(t, err, ErrNoStroke)

	require.NoError(t, s.Start(ButtonPrimary))
	assert.ErrorIs(t, s.Start(ButtonPrimary), ErrStrokeActive)
	assert.True(t, s.Active())
}

func TestInvalidSettingsRejectUpdate(t *testing.T) {
	s, err := New(KindRaise, Env{Heights: flatField(t, 4, 0), Settings: settings(0, 1)})
	require.NoError(t, err)
	require.NoError(t, s.Start(ButtonPrimary))
	assert.Error(t, s.Update(at(1, 1)))
}
