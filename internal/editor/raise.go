package editor

import (
	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// raiseStroke raises terrain on the primary button and lowers it on the secondary.
type raiseStroke struct {
	heightStroke
	sign float32
}

func newRaiseStroke(env Env) (*raiseStroke, error) {
	base, err := newHeightStroke(KindRaise, env, false)
	if err != nil {
		return nil, err
	}
	return &raiseStroke{heightStroke: base}, nil
}

func (s *raiseStroke) Start(button Button) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.sign = 1
	if button == ButtonSecondary {
		s.sign = -1
	}
	return nil
}

func (s *raiseStroke) Update(contact mgmath.Vec3) error {
	_, b, err := s.resolve()
	if err != nil {
		return err
	}
	scaleY := s.field.Scale().Y

	brush.Footprint(b, s.field, contact, func(c brush.Cell) {
		cur := s.field.Height(c.Key)
		if cur == terrain.NoData {
			return
		}
		delta := c.Weight * b.Power * s.sign
		if delta == 0 {
			return
		}
		s.stage(c.Key, (cur*scaleY+delta)/scaleY)
	})
	s.flush()
	return nil
}
