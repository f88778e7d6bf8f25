package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// flattenStroke levels terrain to the height found under the first contact.
// It blends from the stroke-start snapshot, so passes over the same cell do not
// compound: a cell keeps the strongest pull toward the level it has received.
type flattenStroke struct {
	heightStroke
	level    float32
	hasLevel bool
}

func newFlattenStroke(env Env) (*flattenStroke, error) {
	base, err := newHeightStroke(KindFlatten, env, true)
	if err != nil {
		return nil, err
	}
	return &flattenStroke{heightStroke: base}, nil
}

func (s *flattenStroke) Start(Button) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.hasLevel = false
	return nil
}

func (s *flattenStroke) Update(contact mgmath.Vec3) error {
	_, b, err := s.resolve()
	if err != nil {
		return err
	}
	if !s.hasLevel {
		lv := s.snapshot.Height(s.snapshot.KeyAt(contact))
		if lv == terrain.NoData {
			return nil
		}
		s.level, s.hasLevel = lv, true
		s.log.Debug("flatten level picked", zap.Float32("level", lv))
	}

	brush.Footprint(b, s.field, contact, func(c brush.Cell) {
		base := s.snapshot.Height(c.Key)
		if base == terrain.NoData {
			return
		}
		next := mgmath.Lerp(base, s.level, mgmath.Clamp(b.Power*c.Weight, 0, 1))
		cur := s.field.Height(c.Key)
		if cur == terrain.NoData || next == cur {
			return
		}
		if mgmath.Abs(s.level-next) >= mgmath.Abs(s.level-cur) {
			return
		}
		s.stage(c.Key, next)
	})
	s.flush()
	return nil
}
