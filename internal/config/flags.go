package config

import "github.com/spf13/pflag"

// Overrides holds command-line values that take priority over the config file.
type Overrides struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	Size       int
	Layout     string
	Radius     float32
	Power      float32
	MaxSteps   int
}

// BindFlags registers the override flags on fs.
func (o *Overrides) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", "", "Path to config file")
	fs.BoolVar(&o.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&o.LogFile, "log-file", "", "Write logs to this file as well")
	fs.IntVar(&o.Size, "size", 0, "Terrain samples per side")
	fs.StringVar(&o.Layout, "layout", "", "Alpha map byte layout (rgba, bgra)")
	fs.Float32Var(&o.Radius, "radius", 0, "Brush radius in world units")
	fs.Float32Var(&o.Power, "power", 0, "Brush power")
	fs.IntVar(&o.MaxSteps, "max-undo", 0, "Undo history length")
}

// apply applies the overrides to the config.
func (o *Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.Size > 0 {
		cfg.Terrain.Size = o.Size
	}
	if o.Layout != "" {
		cfg.Paint.Layout = o.Layout
	}
	if o.Radius > 0 {
		cfg.Brush.Radius = o.Radius
	}
	if o.Power > 0 {
		cfg.Brush.Power = o.Power
	}
	if o.MaxSteps > 0 {
		cfg.Undo.MaxSteps = o.MaxSteps
	}
}
