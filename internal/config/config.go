// Package config handles editor configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Faultbox/midgard-editor/internal/engine/brush"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	mgmath "github.com/Faultbox/midgard-editor/pkg/math"
)

var validate = validator.New()

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all editor settings.
type Config struct {
	Terrain TerrainConfig  `yaml:"terrain"`
	Paint   PaintConfig    `yaml:"paint"`
	Brush   brush.Settings `yaml:"brush"`
	Undo    UndoConfig     `yaml:"undo"`
	Logging LoggingConfig  `yaml:"logging"`
}

// TerrainConfig describes the height field.
type TerrainConfig struct {
	Size   int         `yaml:"size" validate:"gte=2"` // Samples per side
	Scale  mgmath.Vec3 `yaml:"scale"`                 // World units per grid step and per height unit
	Origin mgmath.Vec3 `yaml:"origin"`
}

// PaintConfig describes the splat alpha maps.
type PaintConfig struct {
	Resolution int    `yaml:"resolution" validate:"gte=2"` // Pixels per side
	Layout     string `yaml:"layout" validate:"oneof=rgba bgra"`
	Maps       int    `yaml:"maps" validate:"gte=0,lte=3"` // 0 disables painting
}

// UndoConfig holds undo history settings.
type UndoConfig struct {
	MaxSteps  int `yaml:"max_steps" validate:"gte=0"` // 0 keeps everything
	QueueSize int `yaml:"queue_size" validate:"gte=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" validate:"oneof=debug info warn warning error"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Size:  129,
			Scale: mgmath.Vec3{X: 1, Y: 1, Z: 1},
		},
		Paint: PaintConfig{
			Resolution: 256,
			Layout:     "rgba",
			Maps:       1,
		},
		Brush: brush.DefaultSettings(),
		Undo: UndoConfig{
			MaxSteps:  100,
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Brush.Validate(); err != nil {
		return fmt.Errorf("%w: brush: %w", ErrInvalid, err)
	}
	s := c.Terrain.Scale
	if s.X <= 0 || s.Y <= 0 || s.Z <= 0 {
		return fmt.Errorf("%w: terrain scale must be positive, got %+v", ErrInvalid, s)
	}
	if c.Paint.Maps > 0 && c.Brush.Layer >= c.Paint.Maps*terrain.LayersPerMap {
		return fmt.Errorf("%w: brush layer %d needs more than %d alpha maps", ErrInvalid, c.Brush.Layer, c.Paint.Maps)
	}
	return nil
}

// NewHeightmap builds the flat height field described by the terrain section.
func (c *Config) NewHeightmap() (*terrain.Heightmap, error) {
	return terrain.NewHeightmap(c.Terrain.Size, c.Terrain.Scale, c.Terrain.Origin)
}

// NewSplat builds the blank alpha maps described by the paint section.
// It returns nil when painting is disabled.
func (c *Config) NewSplat() (*terrain.Splat, error) {
	if c.Paint.Maps == 0 {
		return nil, nil
	}
	layout, err := terrain.ParseLayout(c.Paint.Layout)
	if err != nil {
		return nil, err
	}
	return terrain.NewSplat(c.Paint.Maps, c.Paint.Resolution, c.Paint.Resolution, layout)
}
