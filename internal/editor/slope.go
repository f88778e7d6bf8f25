package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

const (
	// slopeStepEpsilon is the smallest smoothly-mode step worth writing.
	slopeStepEpsilon = 0.001
	// minMarkerSeparation is the horizontal distance below which markers define no slope.
	minMarkerSeparation = 1e-4
)

// slopeStroke shapes terrain into the ramp between two markers.
type slopeStroke struct {
	heightStroke
}

func newSlopeStroke(env Env) (*slopeStroke, error) {
	base, err := newHeightStroke(KindSlope, env, false)
	if err != nil {
		return nil, err
	}
	return &slopeStroke{heightStroke: base}, nil
}

func (s *slopeStroke) Start(Button) error {
	if s.env.Markers == nil {
		return ErrNoMarkers
	}
	if _, _, ok := s.env.Markers.SlopeMarkers(); !ok {
		return ErrNoMarkers
	}
	return s.begin()
}

// ramp is the slab between two markers, measured in the horizontal plane.
type ramp struct {
	lowerY, higherY float32
	lower, higher   mgmath.Vec3 // marker positions flattened to y=0
	lowerPlane      mgmath.Plane
	higherPlane     mgmath.Plane
	separation      float32
}

func newRamp(a, b mgmath.Vec3) (ramp, bool) {
	lower, higher := a, b
	if lower.Y > higher.Y {
		lower, higher = higher, lower
	}
	r := ramp{
		lowerY:  lower.Y,
		higherY: higher.Y,
		lower:   mgmath.Vec3{X: lower.X, Z: lower.Z},
		higher:  mgmath.Vec3{X: higher.X, Z: higher.Z},
	}
	axis := r.higher.Sub(r.lower)
	r.separation = axis.Length()
	if r.separation < minMarkerSeparation {
		return ramp{}, false
	}
	r.lowerPlane = mgmath.NewPlane(r.lower, axis)
	r.higherPlane = mgmath.NewPlane(r.higher, axis)
	return r, true
}

// inSlab reports whether p lies between the two marker planes (inclusive).
func (r ramp) inSlab(p mgmath.Vec3) bool {
	return r.lowerPlane.Distance(p) >= 0 && r.higherPlane.Distance(p) <= 0
}

// ratio returns the position of p along the ramp, 0 at the lower marker and 1 at the higher.
func (r ramp) ratio(p mgmath.Vec3) float32 {
	lowerDist := p.Distance(r.lower)
	higherDist := p.Distance(r.higher)
	// One-sided: points nearer the lower marker but farther from the higher
	// marker than the markers are apart snap to the lower end.
	if lowerDist < higherDist && higherDist > r.separation {
		return 0
	}
	return mgmath.Clamp(r.lowerPlane.Distance(p)/r.separation, 0, 1)
}

func (r ramp) desired(p mgmath.Vec3) float32 {
	return mgmath.Lerp(r.lowerY, r.higherY, r.ratio(p))
}

func (s *slopeStroke) Update(contact mgmath.Vec3) error {
	settings, b, err := s.resolve()
	if err != nil {
		return err
	}
	base, target, ok := s.env.Markers.SlopeMarkers()
	if !ok {
		return ErrNoMarkers
	}
	r, ok := newRamp(base, target)
	if !ok {
		s.log.Debug("markers share a column, slope undefined", zap.Any("base", base), zap.Any("target", target))
		return nil
	}

	scale := s.field.Scale()
	origin := s.field.Origin()

	brush.Footprint(b, s.field, contact, func(c brush.Cell) {
		cur := s.field.Height(c.Key)
		if cur == terrain.NoData {
			return
		}
		p := mgmath.Vec3{X: contact.X + c.Offset.X, Z: contact.Z + c.Offset.Y}
		if settings.Limited && !r.inSlab(p) {
			return
		}

		desired := r.desired(p)
		curWorld := origin.Y + cur*scale.Y

		var next float32
		switch {
		case settings.Precision:
			next = desired
		case settings.Smoothly:
			gap := desired - curWorld
			adj := mgmath.Sign(gap) * b.Power * c.Weight
			if mgmath.Abs(adj) > mgmath.Abs(gap) {
				adj = gap
			}
			if mgmath.Abs(adj) < slopeStepEpsilon {
				return
			}
			next = curWorld + adj
		default:
			next = mgmath.Lerp(curWorld, desired, mgmath.Clamp(b.Power*c.Weight, 0, 1))
		}

		v := (next - origin.Y) / scale.Y
		if v == cur {
			return
		}
		s.stage(c.Key, v)
	})
	s.flush()
	return nil
}
