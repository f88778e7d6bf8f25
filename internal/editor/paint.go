package editor

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	"github.com/Faultbox/midgard-editor/internal/logger"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// paintStroke adds or erases one splat layer in an alpha map.
type paintStroke struct {
	env     Env
	session *Session[int, Texel]
	backup  scratchBuffer
	log     *zap.Logger

	target  *terrain.AlphaMap
	channel int
	erase   bool
	before  []byte // stroke-start copy of target, owned by backup
}

func newPaintStroke(env Env) (*paintStroke, error) {
	if env.Splat == nil {
		return nil, ErrNoSplat
	}
	if env.Heights == nil {
		return nil, ErrNoHeights
	}
	s := &paintStroke{
		env: env,
		log: logger.Named("editor").With(zap.Stringer("tool", KindPaint)),
	}
	s.session = NewSession(s.originalTexel, s.currentTexel)
	return s, nil
}

func (s *paintStroke) originalTexel(off int) Texel { return readTexel(s.before, off) }

func (s *paintStroke) currentTexel(off int) Texel { return readTexel(s.target.Data(), off) }

func (s *paintStroke) Kind() Kind { return KindPaint }

func (s *paintStroke) Active() bool { return s.session.Active() }

func (s *paintStroke) Start(Button) error {
	if s.session.Active() {
		return ErrStrokeActive
	}
	settings := s.env.Settings.BrushSettings()
	if err := settings.Validate(); err != nil {
		return err
	}
	target, channel, err := s.env.Splat.Locate(settings.Layer)
	if err != nil {
		return err
	}
	s.target = target
	s.channel = channel
	s.erase = settings.Erase
	s.before = s.backup.capture(target.Data())
	s.session.Start()
	s.log.Debug("stroke started",
		zap.Int("layer", settings.Layer),
		zap.Bool("erase", settings.Erase))
	return nil
}

// pixelSpace maps world positions onto the alpha map's pixel grid.
type pixelSpace struct {
	cx, cy       float32 // contact in pixels
	unitX, unitZ float32 // world units per pixel
}

func newPixelSpace(field terrain.HeightField, m terrain.PaintBuffer, contact mgmath.Vec3) pixelSpace {
	scale := field.Scale()
	local := contact.Sub(field.Origin()).Div(scale)

	span := float32(max(field.Size()-1, 1))
	w := float32(max(m.Width()-1, 1))
	h := float32(max(m.Height()-1, 1))

	u := local.X / span
	v := local.Z / span
	return pixelSpace{
		cx:    u * w,
		cy:    v * h,
		unitX: span * scale.X / w,
		unitZ: span * scale.Z / h,
	}
}

func (s *paintStroke) Update(contact mgmath.Vec3) error {
	if !s.session.Active() {
		return ErrNoStroke
	}
	order, err := terrain.ChannelOrder(s.target.Layout())
	if err != nil {
		return fmt.Errorf("paint layer channel %d: %w", s.channel, err)
	}
	b, err := s.env.Settings.BrushSettings().Brush()
	if err != nil {
		return err
	}

	ps := newPixelSpace(s.env.Heights, s.target, contact)
	rx := b.Radius / ps.unitX
	ry := b.Radius / ps.unitZ
	w, h := s.target.Width(), s.target.Height()

	x0 := clampInt(int(math.Floor(float64(ps.cx-rx))), 0, w-1)
	x1 := clampInt(int(math.Ceil(float64(ps.cx+rx))), 0, w-1)
	y0 := clampInt(int(math.Floor(float64(ps.cy-ry))), 0, h-1)
	y1 := clampInt(int(math.Ceil(float64(ps.cy+ry))), 0, h-1)

	data := s.target.Data()
	touched := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float32(x) - ps.cx) * ps.unitX
			dz := (float32(y) - ps.cy) * ps.unitZ
			if !b.Contains(dx, dz) {
				continue
			}
			weight := b.Weight(dx, dz)
			if weight <= 0 {
				continue
			}
			off := (y*w + x) * 4
			if off < 0 || off+4 > len(data) {
				continue
			}

			pos := off + order[s.channel]
			cur := data[pos]
			delta := b.Power * weight
			if s.erase {
				delta = -delta
			}
			next := terrain.EncodeWeight(terrain.DecodeWeight(cur) + delta)
			if next == cur {
				continue
			}

			s.session.Change(off)
			data[pos] = next
			touched++
		}
	}
	if touched > 0 {
		s.target.MarkDirty()
	}
	return nil
}

func (s *paintStroke) Finish() (Operation, error) {
	if !s.session.Active() {
		return nil, ErrNoStroke
	}
	diff, ok := s.session.Commit()
	if !ok {
		s.log.Debug("stroke discarded, nothing touched")
		return nil, nil
	}
	op := NewPaintOperation(s.target, s.target.Generation(), diff)
	op.Apply()
	s.log.Debug("stroke committed", zap.Int("pixels", op.Len()), zap.Stringer("op", op.ID()))
	return op, nil
}

func (s *paintStroke) Abort() {
	if !s.session.Active() {
		return
	}
	data := s.target.Data()
	s.session.Rollback(func(offsets []int, texels []Texel) {
		writeTexels(data, offsets, texels)
	})
	s.target.MarkDirty()
	s.log.Debug("stroke aborted")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
