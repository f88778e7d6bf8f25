package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-editor/internal/editor"
	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

// Script is a recorded editing session.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one stroke, marker placement or history move. Fields run in the
// order markers, stroke, undo, redo.
type Step struct {
	Tool    string        `yaml:"tool"`
	Button  string        `yaml:"button"`
	Brush   *BrushPatch   `yaml:"brush"`
	Markers *MarkerPair   `yaml:"markers"`
	Points  []mgmath.Vec3 `yaml:"points"`
	Cancel  bool          `yaml:"cancel"`
	Undo    int           `yaml:"undo"`
	Redo    int           `yaml:"redo"`
}

// MarkerPair places the slope markers.
type MarkerPair struct {
	Base   mgmath.Vec3 `yaml:"base"`
	Target mgmath.Vec3 `yaml:"target"`
}

// BrushPatch overrides part of the configured brush for one stroke.
type BrushPatch struct {
	Radius    *float32 `yaml:"radius"`
	Power     *float32 `yaml:"power"`
	Shape     *string  `yaml:"shape"`
	Erase     *bool    `yaml:"erase"`
	Layer     *int     `yaml:"layer"`
	Precision *bool    `yaml:"precision"`
	Limited   *bool    `yaml:"limited"`
	Smoothly  *bool    `yaml:"smoothly"`
}

// Apply returns s with the patched fields replaced.
func (p *BrushPatch) Apply(s brush.Settings) brush.Settings {
	if p == nil {
		return s
	}
	setIf(&s.Radius, p.Radius)
	setIf(&s.Power, p.Power)
	setIf(&s.Shape, p.Shape)
	setIf(&s.Erase, p.Erase)
	setIf(&s.Layer, p.Layer)
	setIf(&s.Precision, p.Precision)
	setIf(&s.Limited, p.Limited)
	setIf(&s.Smoothly, p.Smoothly)
	return s
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// parsedStep is a Step with its names resolved.
type parsedStep struct {
	Step
	stroke bool
	kind   editor.Kind
	button editor.Button
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// parse resolves tool and button names.
func (s *Script) parse() ([]parsedStep, error) {
	steps := make([]parsedStep, 0, len(s.Steps))
	for i, st := range s.Steps {
		ps := parsedStep{Step: st}
		if st.Tool != "" {
			kind, err := editor.ParseKind(st.Tool)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			ps.stroke, ps.kind = true, kind
			button, err := parseButton(st.Tool, st.Button)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			ps.button = button
		}
		if st.Undo < 0 || st.Redo < 0 {
			return nil, fmt.Errorf("step %d: negative undo/redo count", i+1)
		}
		steps = append(steps, ps)
	}
	return steps, nil
}

// parseButton maps a button name. The "lower" tool defaults to the secondary button.
func parseButton(tool, name string) (editor.Button, error) {
	switch name {
	case "":
		if tool == "lower" {
			return editor.ButtonSecondary, nil
		}
		return editor.ButtonPrimary, nil
	case "primary", "left":
		return editor.ButtonPrimary, nil
	case "secondary", "right":
		return editor.ButtonSecondary, nil
	}
	return 0, fmt.Errorf("unknown button %q", name)
}
