package brush

import (
	"math"

	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// Cell is one grid sample touched by a brush.
type Cell struct {
	Key terrain.GridKey
	// Offset is the world-space XZ offset from the contact point to the cell.
	Offset mgmath.Vec2
	// Weight is the falloff at the cell.
	Weight float32
}

// Footprint calls fn for every in-bounds grid cell the brush covers when centered at
// contact. Cells failing the shape test are skipped entirely.
func Footprint(b Brush, field terrain.HeightField, contact mgmath.Vec3, fn func(Cell)) {
	scale := field.Scale()
	origin := field.Origin()
	size := field.Size()

	local := contact.Sub(origin).Div(scale)
	cx := int(math.Round(float64(local.X)))
	cz := int(math.Round(float64(local.Z)))

	stepsX := b.Steps(scale.X)
	stepsZ := b.Steps(scale.Z)

	// Clamp iteration bounds to the grid so every write stays in range.
	minX, maxX := max(cx-stepsX, 0), min(cx+stepsX, size-1)
	minZ, maxZ := max(cz-stepsZ, 0), min(cz+stepsZ, size-1)

	radiusSq := b.Radius * b.Radius
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			dx := origin.X + float32(x)*scale.X - contact.X
			dz := origin.Z + float32(z)*scale.Z - contact.Z
			if !b.Contains(dx, dz) {
				continue
			}
			fn(Cell{
				Key:    terrain.GridKey{X: x, Z: z},
				Offset: mgmath.Vec2{X: dx, Y: dz},
				Weight: Falloff(dx*dx+dz*dz, radiusSq),
			})
		}
	}
}
