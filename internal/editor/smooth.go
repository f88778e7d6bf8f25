package editor

import (
	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// maxSmoothPower caps the blend factor toward the neighbor average.
const maxSmoothPower = 2

var smoothStencil = [4]terrain.GridKey{{X: -1}, {X: 1}, {Z: -1}, {Z: 1}}

// smoothStroke pulls each touched sample toward the average of its 4-neighborhood.
type smoothStroke struct {
	heightStroke
}

func newSmoothStroke(env Env) (*smoothStroke, error) {
	base, err := newHeightStroke(KindSmooth, env, false)
	if err != nil {
		return nil, err
	}
	return &smoothStroke{heightStroke: base}, nil
}

func (s *smoothStroke) Start(Button) error {
	return s.begin()
}

func (s *smoothStroke) Update(contact mgmath.Vec3) error {
	_, b, err := s.resolve()
	if err != nil {
		return err
	}
	factor := min(b.Power, maxSmoothPower)

	brush.Footprint(b, s.field, contact, func(c brush.Cell) {
		center := s.field.Height(c.Key)
		if center == terrain.NoData {
			return
		}
		avg := neighborAverage(s.field, c.Key, center)
		diff := avg - center
		if diff == 0 {
			return
		}
		s.stage(c.Key, center+diff*factor)
	})
	s.flush()
	return nil
}

// neighborAverage averages center with its in-grid 4-neighbors. Missing neighbors
// are left out of both the sum and the divisor.
func neighborAverage(field terrain.HeightField, k terrain.GridKey, center float32) float32 {
	sum := center
	count := float32(1)
	for _, d := range smoothStencil {
		v := field.Height(terrain.GridKey{X: k.X + d.X, Z: k.Z + d.Z})
		if v == terrain.NoData {
			continue
		}
		sum += v
		count++
	}
	return sum / count
}
