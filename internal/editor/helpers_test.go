package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

var unitScale = mgmath.Vec3{X: 1, Y: 1, Z: 1}

func flatField(t *testing.T, size int, level float32) *terrain.Heightmap {
	t.Helper()
	hm, err := terrain.NewHeightmap(size, unitScale, mgmath.Vec3{})
	require.NoError(t, err)
	hm.Fill(level)
	return hm
}

func settings(radius, power float32) StaticSettings {
	return StaticSettings{Radius: radius, Power: power, Shape: "circle"}
}

func at(x, z float32) mgmath.Vec3 {
	return mgmath.Vec3{X: x, Z: z}
}

// heights copies every sample of hm.
func heights(hm *terrain.Heightmap) map[terrain.GridKey]float32 {
	out := make(map[terrain.GridKey]float32, hm.Size()*hm.Size())
	for z := 0; z < hm.Size(); z++ {
		for x := 0; x < hm.Size(); x++ {
			k := terrain.GridKey{X: x, Z: z}
			out[k] = hm.Height(k)
		}
	}
	return out
}

// footprintKeys returns every cell a brush covers at the given contacts.
func footprintKeys(hm *terrain.Heightmap, b brush.Brush, contacts ...mgmath.Vec3) map[terrain.GridKey]bool {
	keys := make(map[terrain.GridKey]bool)
	for _, c := range contacts {
		brush.Footprint(b, hm, c, func(cell brush.Cell) {
			keys[cell.Key] = true
		})
	}
	return keys
}

// runStroke starts, updates and finishes a stroke.
func runStroke(t *testing.T, s Stroke, button Button, contacts ...mgmath.Vec3) Operation {
	t.Helper()
	require.NoError(t, s.Start(button))
	for _, c := range contacts {
		require.NoError(t, s.Update(c))
	}
	op, err := s.Finish()
	require.NoError(t, err)
	return op
}
