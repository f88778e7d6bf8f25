package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// Ramp along +X from x=5 (y=0) to x=15 (y=10) on row z=10.
var rampMarkers = Markers{
	Base:   mgmath.Vec3{X: 5, Y: 0, Z: 10},
	Target: mgmath.Vec3{X: 15, Y: 10, Z: 10},
	Placed: true,
}

func slopeSettings(radius, power float32, mutate func(*StaticSettings)) StaticSettings {
	s := settings(radius, power)
	mutate(&s)
	return s
}

func TestSlopePrecisionSnapsToRamp(t *testing.T) {
	hm := flatField(t, 21, 0)
	cfg := slopeSettings(1.5, 1, func(s *StaticSettings) { s.Precision = true })
	s, err := New(KindSlope, Env{Heights: hm, Settings: cfg, Markers: rampMarkers})
	require.NoError(t, err)

	runStroke(t, s, ButtonPrimary, at(10, 10))
	assert.InDelta(t, 5, hm.Height(terrain.GridKey{X: 10, Z: 10}), 1e-5)
	assert.InDelta(t, 4, hm.Height(terrain.GridKey{X: 9, Z: 10}), 1e-5)
	assert.InDelta(t, 6, hm.Height(terrain.GridKey{X: 11, Z: 10}), 1e-5)
}

func TestSlopeMarkerOrderDoesNotMatter(t *testing.T) {
	hm := flatField(t, 21, 0)
	swapped := Markers{Base: rampMarkers.Target, Target: rampMarkers.Base, Placed: true}
	cfg := slopeSettings(0.5, 1, func(s *StaticSettings) { s.Precision = true })
	s, err := New(KindSlope, Env{Heights: hm, Settings: cfg, Markers: swapped})
	require.NoError(t, err)

	runStroke(t, s, ButtonPrimary, at(12, 10))
	assert.InDelta(t, 7, hm.Height(terrain.GridKey{X: 12, Z: 10}), 1e-5)
}

func TestSlopeLimitedSkipsCellsOutsideSlab(t *testing.T) {
	contact := at(3, 10)

	// Without limiting, cells before the lower marker are pulled to its height.
	free := flatField(t, 21, 3)
	cfg := slopeSettings(1.5, 1, func(s *StaticSettings) { s.Precision = true })
	s, err := New(KindSlope, Env{Heights: free, Settings: cfg, Markers: rampMarkers})
	require.NoError(t, err)
	op := runStroke(t, s, ButtonPrimary, contact)
	require.NotNil(t, op)
	assert.Equal(t, float32(0), free.Height(terrain.GridKey{X: 3, Z: 10}))

	// With limiting, the same stroke at any power leaves them alone.
	for _, power := range []float32{0.01, 1, 50} {
		limited := flatField(t, 21, 3)
		before := heights(limited)
		cfg := slopeSettings(1.5, power, func(s *StaticSettings) {
			s.Precision = true
			s.Limited = true
		})
		s, err := New(KindSlope, Env{Heights: limited, Settings: cfg, Markers: rampMarkers})
		require.NoError(t, err)

		op := runStroke(t, s, ButtonPrimary, contact, at(2.5, 9), at(2, 11))
		assert.Nil(t, op, "power %v", power)
		assert.Equal(t, before, heights(limited))
	}
}

func TestSlopeLimitedNeverTouchesOutside(t *testing.T) {
	hm := flatField(t, 21, 2)
	before := heights(hm)
	cfg := slopeSettings(4, 0.8, func(s *StaticSettings) { s.Limited = true })
	s, err := New(KindSlope, Env{Heights: hm, Settings: cfg, Markers: rampMarkers})
	require.NoError(t, err)

	runStroke(t, s, ButtonPrimary, at(5, 10), at(10, 12), at(15, 8), at(16, 10))

	r, ok := newRamp(rampMarkers.Base, rampMarkers.Target)
	require.True(t, ok)
	for k, v := range before {
		p := mgmath.Vec3{X: float32(k.X), Z: float32(k.Z)}
		if !r.inSlab(p) {
			assert.Equal(t, v, hm.Height(k), "cell %v outside slab changed", k)
		}
	}
}

func TestSlopeSmoothlyDoesNotOvershoot(t *testing.T) {
	hm := flatField(t, 21, 0)
	cfg := slopeSettings(0.5, 100, func(s *StaticSettings) { s.Smoothly = true })
	s, err := New(KindSlope, Env{Heights: hm, Settings: cfg, Markers: rampMarkers})
	require.NoError(t, err)

	runStroke(t, s, ButtonPrimary, at(10, 10), at(10, 10), at(10, 10))
	assert.InDelta(t, 5, hm.Height(terrain.GridKey{X: 10, Z: 10}), 1e-5)
}

func TestSlopeSmoothlySteps(t *testing.T) {
	hm := flatField(t, 21, 0)
	cfg := slopeSettings(0.5, 1, func(s *StaticSettings) { s.Smoothly = true })
	s, err := New(KindSlope, Env{Heights: hm, Settings: cfg, Markers: rampMarkers})
	require.NoError(t, err)

	runStroke(t, s, ButtonPrimary, at(10, 10), at(10, 10))
	assert.InDelta(t, 2, hm.Height(terrain.GridKey{X: 10, Z: 10}), 1e-5)
}

func TestSlopeSmoothlySkipsTinySteps(t *testing.T) {
	hm := flatField(t, 21, 0)
	cfg := slopeSettings(0.5, 0.0005, func(s *StaticSettings) { s.Smoothly = true })
	s, err := New(KindSlope, Env{Heights: hm, Settings: cfg, Markers: rampMarkers})
	require.NoError(t, err)

	op := runStroke(t, s, ButtonPrimary, at(10, 10))
	assert.Nil(t, op)
}

func TestSlopeRatioClampIsOneSided(t *testing.T) {
	r, ok := newRamp(rampMarkers.Base, rampMarkers.Target)
	require.True(t, ok)

	// Far to the side near the lower marker: forced to the lower end even
	// though its projection is 0.2 along the ramp.
	assert.Equal(t, float32(0), r.ratio(mgmath.Vec3{X: 7, Z: 20}))

	// Mirrored near the higher marker: projected normally.
	assert.InDelta(t, 0.8, r.ratio(mgmath.Vec3{X: 13, Z: 20}), 1e-6)

	// Inside, on the axis.
	assert.InDelta(t, 0.3, r.ratio(mgmath.Vec3{X: 8, Z: 10}), 1e-6)
	assert.Equal(t, float32(1), r.ratio(mgmath.Vec3{X: 30, Z: 10}))
}

func TestSlopeRequiresMarkers(t *testing.T) {
	hm := flatField(t, 8, 0)
	s, err := New(KindSlope, Env{Heights: hm, Settings: settings(1, 1)})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Start(ButtonPrimary), ErrNoMarkers)

	s, err = New(KindSlope, Env{Heights: hm, Settings: settings(1, 1), Markers: Markers{}})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Start(ButtonPrimary), ErrNoMarkers)
	assert.False(t, s.Active())
}

func TestSlopeVerticalMarkersAreNoOp(t *testing.T) {
	hm := flatField(t, 8, 0)
	stacked := Markers{Base: mgmath.Vec3{X: 4, Y: 0, Z: 4}, Target: mgmath.Vec3{X: 4, Y: 9, Z: 4}, Placed: true}
	s, err := New(KindSlope, Env{Heights: hm, Settings: settings(2, 1), Markers: stacked})
	require.NoError(t, err)

	assert.Nil(t, runStroke(t, s, ButtonPrimary, at(4, 4)))
}
