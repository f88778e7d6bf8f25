package brush

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// settingsValidate checks brush settings coming from the UI or config.
var settingsValidate = validator.New()

// Settings are the user-selected brush parameters. The editor reads them, never writes them.
type Settings struct {
	Radius float32 `yaml:"radius" validate:"gt=0"`
	Power  float32 `yaml:"power" validate:"gt=0"`
	Shape  string  `yaml:"shape" validate:"omitempty,oneof=circle square"`

	// Erase subtracts paint instead of adding it.
	Erase bool `yaml:"erase"`
	// Layer is the splat layer painted by the paint tool.
	Layer int `yaml:"layer" validate:"gte=0,lt=12"`

	// Slope tool modes.
	Precision bool `yaml:"precision"`
	Limited   bool `yaml:"limited"`
	Smoothly  bool `yaml:"smoothly"`
}

// DefaultSettings returns the brush used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Radius: 5,
		Power:  1,
		Shape:  "circle",
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		return fmt.Errorf("invalid brush settings: %w", err)
	}
	return nil
}

// Brush builds the footprint described by the settings.
func (s Settings) Brush() (Brush, error) {
	if err := s.Validate(); err != nil {
		return Brush{}, err
	}
	shape, err := ParseShape(s.Shape)
	if err != nil {
		return Brush{}, err
	}
	return Brush{Radius: s.Radius, Power: s.Power, Shape: shape}, nil
}
