package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
)

func TestSmoothFlattensSpike(t *testing.T) {
	hm := flatField(t, 9, 0)
	spike := terrain.GridKey{X: 4, Z: 4}
	hm.Set(spike, 5)

	s, err := New(KindSmooth, Env{Heights: hm, Settings: settings(0.5, 1)})
	require.NoError(t, err)
	op := runStroke(t, s, ButtonPrimary, at(4, 4))
	require.NotNil(t, op)

	// Only the center lies within radius 0.5: average of 5 and four zeros.
	assert.Equal(t, float32(1), hm.Height(spike))
	assert.Equal(t, 1, op.Len())
}

func TestSmoothPowerIsCapped(t *testing.T) {
	hm := flatField(t, 9, 0)
	spike := terrain.GridKey{X: 4, Z: 4}
	hm.Set(spike, 5)

	s, err := New(KindSmooth, Env{Heights: hm, Settings: settings(0.5, 10)})
	require.NoError(t, err)
	runStroke(t, s, ButtonPrimary, at(4, 4))

	// diff = -4, factor capped at 2.
	assert.Equal(t, float32(-3), hm.Height(spike))
}

func TestSmoothEdgeCellIgnoresMissingNeighbors(t *testing.T) {
	hm := flatField(t, 4, 0)
	corner := terrain.GridKey{X: 0, Z: 0}
	hm.Set(corner, 3)

	s, err := New(KindSmooth, Env{Heights: hm, Settings: settings(0.5, 1)})
	require.NoError(t, err)
	runStroke(t, s, ButtonPrimary, at(0, 0))

	// Two in-grid neighbors at 0: (3+0+0)/3.
	assert.Equal(t, float32(1), hm.Height(corner))
}

func TestSmoothSingleSampleIsNoOp(t *testing.T) {
	hm := flatField(t, 1, 7)
	s, err := New(KindSmooth, Env{Heights: hm, Settings: settings(2, 1)})
	require.NoError(t, err)

	op := runStroke(t, s, ButtonPrimary, at(0, 0))
	assert.Nil(t, op)
	assert.Equal(t, float32(7), hm.Height(terrain.GridKey{}))
}

func TestSmoothStaysWithinNeighborhoodBounds(t *testing.T) {
	hm := flatField(t, 12, 0)
	// Deterministic rough terrain.
	for z := 0; z < 12; z++ {
		for x := 0; x < 12; x++ {
			hm.Set(terrain.GridKey{X: x, Z: z}, float32((x*7+z*13)%11)-5)
		}
	}
	before := heights(hm)

	for _, power := range []float32{0.1, 0.5, 1} {
		field := terrain.Capture(hm, nil)
		s, err := New(KindSmooth, Env{Heights: field, Settings: settings(3, power)})
		require.NoError(t, err)
		runStroke(t, s, ButtonPrimary, at(6, 6))

		for k, center := range before {
			lo, hi := center, center
			for _, d := range smoothStencil {
				v, ok := before[terrain.GridKey{X: k.X + d.X, Z: k.Z + d.Z}]
				if !ok {
					continue
				}
				lo, hi = min(lo, v), max(hi, v)
			}
			got := field.Height(k)
			assert.GreaterOrEqual(t, got, lo-1e-5, "power %v cell %v", power, k)
			assert.LessOrEqual(t, got, hi+1e-5, "power %v cell %v", power, k)
		}
	}
}

func TestNeighborAverageExcludesNoData(t *testing.T) {
	hm := flatField(t, 2, 2)
	got := neighborAverage(hm, terrain.GridKey{}, 2)
	assert.Equal(t, float32(2), got)
}
