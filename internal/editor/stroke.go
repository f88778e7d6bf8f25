package editor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	"github.com/Faultbox/midgard-editor/internal/logger"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// Kind selects a stroke variant.
type Kind int

const (
	KindRaise Kind = iota
	KindSmooth
	KindSlope
	KindPaint
	KindFlatten
)

var kindNames = map[Kind]string{
	KindRaise:   "raise",
	KindSmooth:  "smooth",
	KindSlope:   "slope",
	KindPaint:   "paint",
	KindFlatten: "flatten",
}

// String returns the tool name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses a tool name. "lower" is an alias of raise.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(s)
	if s == "lower" {
		return KindRaise, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Button is the pointer input that started a stroke.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// SettingsProvider exposes the brush settings owned by the UI.
type SettingsProvider interface {
	BrushSettings() brush.Settings
}

// StaticSettings is a fixed SettingsProvider.
type StaticSettings brush.Settings

// BrushSettings returns the settings.
func (s StaticSettings) BrushSettings() brush.Settings { return brush.Settings(s) }

// MarkerProvider exposes the slope tool's base and target markers in world space.
type MarkerProvider interface {
	SlopeMarkers() (base, target mgmath.Vec3, ok bool)
}

// Markers is a fixed MarkerProvider.
type Markers struct {
	Base, Target mgmath.Vec3
	Placed       bool
}

// SlopeMarkers returns the markers.
func (m Markers) SlopeMarkers() (mgmath.Vec3, mgmath.Vec3, bool) {
	return m.Base, m.Target, m.Placed
}

// Env is what a stroke edits and reads.
type Env struct {
	Heights  terrain.HeightField
	Splat    *terrain.Splat
	Settings SettingsProvider
	Markers  MarkerProvider
}

// Stroke is one drag gesture of a tool: Start on press, Update per drag sample,
// Finish on release.
type Stroke interface {
	Kind() Kind
	// Active reports whether the stroke is between Start and Finish/Abort.
	Active() bool
	Start(button Button) error
	Update(contact mgmath.Vec3) error
	// Finish commits the stroke. It returns a nil Operation when nothing changed.
	Finish() (Operation, error)
	// Abort drops the stroke, restoring every value it touched.
	Abort()
}

// New creates the stroke variant for kind.
func New(kind Kind, env Env) (Stroke, error) {
	if env.Settings == nil {
		env.Settings = StaticSettings(brush.DefaultSettings())
	}
	switch kind {
	case KindRaise:
		return newRaiseStroke(env)
	case KindSmooth:
		return newSmoothStroke(env)
	case KindSlope:
		return newSlopeStroke(env)
	case KindFlatten:
		return newFlattenStroke(env)
	case KindPaint:
		return newPaintStroke(env)
	}
	return nil, fmt.Errorf("%v: %w", kind, ErrUnknownKind)
}

// heightStroke is the session bookkeeping shared by the height tools.
type heightStroke struct {
	kind     Kind
	env      Env
	field    terrain.HeightField
	session  *Session[terrain.GridKey, float32]
	snapshot *terrain.Heightmap
	snap     bool
	log      *zap.Logger

	keys   []terrain.GridKey
	values []float32
}

func newHeightStroke(kind Kind, env Env, snap bool) (heightStroke, error) {
	if env.Heights == nil {
		return heightStroke{}, ErrNoHeights
	}
	return heightStroke{
		kind:    kind,
		env:     env,
		field:   env.Heights,
		session: NewSession(env.Heights.Height, env.Heights.Height),
		snap:    snap,
		log:     logger.Named("editor").With(zap.Stringer("tool", kind)),
	}, nil
}

func (h *heightStroke) Kind() Kind { return h.kind }

func (h *heightStroke) Active() bool { return h.session.Active() }

func (h *heightStroke) begin() error {
	if h.session.Active() {
		return ErrStrokeActive
	}
	h.session.Start()
	if h.snap {
		h.snapshot = terrain.Capture(h.field, h.snapshot)
	}
	h.log.Debug("stroke started")
	return nil
}

// resolve reads the current settings for one update.
func (h *heightStroke) resolve() (brush.Settings, brush.Brush, error) {
	if !h.session.Active() {
		return brush.Settings{}, brush.Brush{}, ErrNoStroke
	}
	s := h.env.Settings.BrushSettings()
	b, err := s.Brush()
	return s, b, err
}

// stage marks k in the session and queues its new internal height.
func (h *heightStroke) stage(k terrain.GridKey, v float32) {
	if v == terrain.NoData {
		return
	}
	h.session.Change(k)
	h.keys = append(h.keys, k)
	h.values = append(h.values, v)
}

// flush writes all staged heights in one batch.
func (h *heightStroke) flush() {
	if len(h.keys) > 0 {
		h.field.SetHeights(h.keys, h.values)
	}
	h.keys = h.keys[:0]
	h.values = h.values[:0]
}

func (h *heightStroke) Finish() (Operation, error) {
	if !h.session.Active() {
		return nil, ErrNoStroke
	}
	diff, ok := h.session.Commit()
	if !ok {
		h.log.Debug("stroke discarded, nothing touched")
		return nil, nil
	}
	op := NewHeightOperation(h.field, diff)
	op.Apply()
	h.log.Debug("stroke committed", zap.Int("cells", op.Len()), zap.Stringer("op", op.ID()))
	return op, nil
}

func (h *heightStroke) Abort() {
	if !h.session.Active() {
		return
	}
	n := h.session.Len()
	h.session.Rollback(h.field.SetHeights)
	h.keys = h.keys[:0]
	h.values = h.values[:0]
	h.log.Debug("stroke aborted", zap.Int("cells", n))
}
