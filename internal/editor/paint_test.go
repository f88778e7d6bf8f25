package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
)

func newPaintEnv(t *testing.T, maps int, layout terrain.Layout, cfg StaticSettings) (Env, *terrain.Splat) {
	t.Helper()
	splat, err := terrain.NewSplat(maps, 10, 10, layout)
	require.NoError(t, err)
	return Env{Heights: flatField(t, 10, 0), Splat: splat, Settings: cfg}, splat
}

func pixel(t *testing.T, m *terrain.AlphaMap, x, y int) [4]float32 {
	t.Helper()
	px, err := m.Pixel(x, y)
	require.NoError(t, err)
	return px
}

func TestPaintSinglePixel(t *testing.T) {
	for _, layout := range []terrain.Layout{terrain.LayoutRGBA, terrain.LayoutBGRA} {
		t.Run(layout.String(), func(t *testing.T) {
			env, splat := newPaintEnv(t, 1, layout, settings(1, 0.2))
			m := splat.Maps()[0]
			gen := m.Generation().Value()

			s, err := New(KindPaint, env)
			require.NoError(t, err)
			op := runStroke(t, s, ButtonPrimary, at(0, 0))
			require.NotNil(t, op)
			assert.Equal(t, LabelAlphaMap, op.Label())
			assert.Equal(t, 1, op.Len())

			assert.Equal(t, [4]float32{0.2, 0, 0, 0}, pixel(t, m, 0, 0))
			assert.Equal(t, gen+1, m.Generation().Value())
			assert.True(t, m.TakeDirty())

			op.Revert()
			assert.Equal(t, [4]float32{0, 0, 0, 0}, pixel(t, m, 0, 0))
			assert.Equal(t, gen, m.Generation().Value())

			op.Apply()
			assert.Equal(t, [4]float32{0.2, 0, 0, 0}, pixel(t, m, 0, 0))
		})
	}
}

func TestPaintStaysInUnitRange(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.LayoutRGBA, settings(3, 0.3))
	m := splat.Maps()[0]

	add, err := New(KindPaint, env)
	require.NoError(t, err)
	contacts := []struct{ x, z float32 }{{4, 4}, {4.5, 4}, {5, 5}, {4, 4}, {4, 4}, {4, 4}, {4, 4}}
	require.NoError(t, add.Start(ButtonPrimary))
	for _, c := range contacts {
		require.NoError(t, add.Update(at(c.x, c.z)))
	}
	_, err = add.Finish()
	require.NoError(t, err)
	assert.Equal(t, float32(1), pixel(t, m, 4, 4)[0], "repeated adds saturate")

	eraseCfg := settings(3, 0.3)
	eraseCfg.Erase = true
	env.Settings = eraseCfg
	erase, err := New(KindPaint, env)
	require.NoError(t, err)
	require.NoError(t, erase.Start(ButtonPrimary))
	for i := 0; i < 10; i++ {
		require.NoError(t, erase.Update(at(4, 4)))
	}
	_, err = erase.Finish()
	require.NoError(t, err)
	assert.Equal(t, float32(0), pixel(t, m, 4, 4)[0], "repeated erases bottom out")

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			for c, v := range pixel(t, m, x, y) {
				assert.True(t, v >= 0 && v <= 1, "pixel (%d,%d) channel %d = %v", x, y, c, v)
			}
		}
	}
}

func TestPaintLayerSelectsMapAndChannel(t *testing.T) {
	cfg := settings(1, 0.5)
	cfg.Layer = 5
	env, splat := newPaintEnv(t, 2, terrain.LayoutRGBA, cfg)

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	runStroke(t, s, ButtonPrimary, at(3, 3))

	got := pixel(t, splat.Maps()[1], 3, 3)
	assert.InDelta(t, 0.5, got[1], 1.0/255)
	assert.Zero(t, got[0])
	assert.Equal(t, [4]float32{}, pixel(t, splat.Maps()[0], 3, 3))
}

func TestPaintLayerOutOfRange(t *testing.T) {
	cfg := settings(1, 0.5)
	cfg.Layer = 4
	env, _ := newPaintEnv(t, 1, terrain.LayoutRGBA, cfg)

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Start(ButtonPrimary), terrain.ErrLayerOutOfRange)
	assert.False(t, s.Active())
}

func TestPaintUnsupportedLayoutFailsWithoutMutation(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.Layout(9), settings(2, 1))
	m := splat.Maps()[0]

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	require.NoError(t, s.Start(ButtonPrimary))
	assert.ErrorIs(t, s.Update(at(5, 5)), terrain.ErrUnsupportedLayout)

	op, err := s.Finish()
	require.NoError(t, err)
	assert.Nil(t, op)
	assert.Equal(t, make([]byte, len(m.Data())), m.Data())
	assert.Zero(t, m.Generation().Value())
}

func TestPaintLocality(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.LayoutRGBA, settings(2, 0.4))
	m := splat.Maps()[0]

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	runStroke(t, s, ButtonPrimary, at(5, 5))

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			dx, dy := float32(x-5), float32(y-5)
			if dx*dx+dy*dy < 4 {
				continue
			}
			assert.Equal(t, [4]float32{}, pixel(t, m, x, y), "pixel (%d,%d) outside brush changed", x, y)
		}
	}
}

func TestPaintBorderContactIsClamped(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.LayoutRGBA, settings(2, 1))
	m := splat.Maps()[0]

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	op := runStroke(t, s, ButtonPrimary, at(9.4, 9.4), at(-0.3, 9))
	require.NotNil(t, op)
	assert.Len(t, m.Data(), 10*10*4)
	assert.InDelta(t, 0.92, pixel(t, m, 9, 9)[0], 1.0/255)
}

func TestPaintOutsideTerrainHasNoOperation(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.LayoutRGBA, settings(1, 1))
	s, err := New(KindPaint, env)
	require.NoError(t, err)

	op := runStroke(t, s, ButtonPrimary, at(40, 40))
	assert.Nil(t, op)
	assert.Zero(t, splat.Maps()[0].Generation().Value())
}

func TestPaintBelowOneByteStepHasNoOperation(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.LayoutRGBA, settings(1, 0.001))
	m := splat.Maps()[0]
	before := append([]byte(nil), m.Data()...)

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	op := runStroke(t, s, ButtonPrimary, at(0, 0), at(0, 0))

	assert.Nil(t, op)
	assert.Equal(t, before, m.Data())
	assert.Zero(t, m.Generation().Value())
	assert.False(t, m.TakeDirty())
}

func TestPaintOriginalSurvivesRepeatedTouches(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.LayoutRGBA, settings(1, 0.2))
	m := splat.Maps()[0]
	order, _ := terrain.ChannelOrder(terrain.LayoutRGBA)
	terrain.WritePixel(m.Data(), m.Offset(5, 5), order, [4]float32{0.4, 0.2, 0, 1})

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	op := runStroke(t, s, ButtonPrimary, at(5, 5), at(5, 5), at(5, 5))
	require.NotNil(t, op)

	po, ok := op.(*PaintOperation)
	require.True(t, ok)
	diff := po.Diff()
	require.Equal(t, []int{m.Offset(5, 5)}, diff.Keys)
	assert.Equal(t, Texel{102, 51, 0, 255}, diff.Before[0])
	assert.Equal(t, Texel{255, 51, 0, 255}, diff.After[0])
}

func TestPaintAbortRestores(t *testing.T) {
	env, splat := newPaintEnv(t, 1, terrain.LayoutRGBA, settings(2, 0.5))
	m := splat.Maps()[0]

	s, err := New(KindPaint, env)
	require.NoError(t, err)
	require.NoError(t, s.Start(ButtonPrimary))
	require.NoError(t, s.Update(at(5, 5)))
	s.Abort()

	assert.Equal(t, make([]byte, len(m.Data())), m.Data())
	assert.Zero(t, m.Generation().Value())
}

func TestScratchBufferGrowsButNeverShrinks(t *testing.T) {
	var sb scratchBuffer
	sb.capture(make([]byte, 64))
	assert.Equal(t, 64, sb.capacity())

	small := sb.capture([]byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, small)
	assert.Equal(t, 64, sb.capacity())

	sb.capture(make([]byte, 128))
	assert.Equal(t, 128, sb.capacity())
}
