package config

import (
	"sort"

	"github.com/san-kum/softbody/internal/input"
)

type preset func(*Config)

var Presets = map[string]preset{
	"default": func(*Config) {},
	"jelly": func(c *Config) {
		c.Body.Stiffness = 300
		c.Body.Pressure = 1500
		c.Body.Damping = 0.3
	},
	"stiff": func(c *Config) {
		c.Body.Stiffness = 4000
		c.Body.Pressure = 8000
	},
	"balloon": func(c *Config) {
		c.Body.Pressure = 12000
		c.Body.Gravity = 200
		c.Body.Points = 32
	},
	"heavy": func(c *Config) {
		c.Body.Mass = 4
		c.Body.Damping = 0.5
	},
	"zero-g": func(c *Config) {
		c.Body.Gravity = 0
	},
	"drop-corner": func(c *Config) {
		c.Run.Frames = 240
		c.Script = []input.Step{
			{Frame: 0, Kind: "press", X: c.Body.CenterX + c.Body.RestRadius, Y: c.Body.CenterY},
			{Frame: 0, Kind: "move", X: 0, Y: 0},
			{Frame: 1, Kind: "release"},
		}
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply layers the named preset onto cfg. It reports false for unknown names.
func Apply(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if !ok {
		return false
	}
	apply(cfg)
	return true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
