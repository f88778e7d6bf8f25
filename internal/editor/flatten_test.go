package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
)

func TestFlattenLevelsToFirstContact(t *testing.T) {
	hm := flatField(t, 12, 0)
	hm.Set(terrain.GridKey{X: 3, Z: 3}, 4)
	for x := 5; x < 9; x++ {
		hm.Set(terrain.GridKey{X: x, Z: 3}, 9)
	}

	s, err := New(KindFlatten, Env{Heights: hm, Settings: settings(0.5, 1)})
	require.NoError(t, err)
	op := runStroke(t, s, ButtonPrimary, at(3, 3), at(5, 3), at(6, 3))
	require.NotNil(t, op)

	assert.Equal(t, float32(4), hm.Height(terrain.GridKey{X: 5, Z: 3}))
	assert.Equal(t, float32(4), hm.Height(terrain.GridKey{X: 6, Z: 3}))
	assert.Equal(t, float32(9), hm.Height(terrain.GridKey{X: 7, Z: 3}), "never under the brush")
}

func TestFlattenDoesNotCompound(t *testing.T) {
	hm := flatField(t, 12, 0)
	target := terrain.GridKey{X: 6, Z: 6}
	hm.Set(target, 8)

	s, err := New(KindFlatten, Env{Heights: hm, Settings: settings(0.5, 0.25)})
	require.NoError(t, err)

	// The level is picked at (2,2) = 0; every pass blends 25% from the snapshot.
	op := runStroke(t, s, ButtonPrimary, at(2, 2), at(6, 6), at(6, 6), at(6, 6))
	require.NotNil(t, op)
	assert.Equal(t, float32(6), hm.Height(target))

	op.Revert()
	assert.Equal(t, float32(8), hm.Height(target))
}

func TestFlattenSnapshotReusedAcrossStrokes(t *testing.T) {
	hm := flatField(t, 6, 1)
	s, err := New(KindFlatten, Env{Heights: hm, Settings: settings(1, 1)})
	require.NoError(t, err)

	runStroke(t, s, ButtonPrimary, at(1, 1))
	fs := s.(*flattenStroke)
	first := fs.snapshot

	hm.Set(terrain.GridKey{X: 4, Z: 4}, 3)
	runStroke(t, s, ButtonPrimary, at(4, 4))
	assert.Same(t, first, fs.snapshot)
	assert.Equal(t, float32(3), fs.snapshot.Height(terrain.GridKey{X: 4, Z: 4}))
}
