package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/softbody"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPoints   = 20
	DefaultWidth    = 1600.0
	DefaultHeight   = 900.0
	DefaultDt       = 1.0 / 60
	DefaultFrames   = 600
	DefaultLogLevel = "info"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Body     BodyConfig     `yaml:"body"`
	Viewport ViewportConfig `yaml:"viewport"`
	Run      RunConfig      `yaml:"run"`
	Script   []input.Step   `yaml:"script,omitempty"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type BodyConfig struct {
	Points     int     `yaml:"points"`
	CenterX    float64 `yaml:"center_x"`
	CenterY    float64 `yaml:"center_y"`
	RestRadius float64 `yaml:"rest_radius"`
	Stiffness  float64 `yaml:"stiffness"`
	Damping    float64 `yaml:"damping"`
	Pressure   float64 `yaml:"pressure"`
	Gravity    float64 `yaml:"gravity"`
	Mass       float64 `yaml:"mass"`
	MaxDt      float64 `yaml:"max_dt"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type RunConfig struct {
	Dt           float64 `yaml:"dt"`
	Frames       int     `yaml:"frames"`
	RecordPoints bool    `yaml:"record_points"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func DefaultConfig() *Config {
	p := softbody.DefaultParams()
	return &Config{
		Body: BodyConfig{
			Points:     DefaultPoints,
			CenterX:    DefaultWidth / 2,
			CenterY:    DefaultHeight / 2,
			RestRadius: p.RestRadius,
			Stiffness:  p.Stiffness,
			Damping:    p.Damping,
			Pressure:   p.Pressure,
			Gravity:    p.Gravity,
			Mass:       p.Mass,
			MaxDt:      p.MaxDt,
		},
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Run:      RunConfig{Dt: DefaultDt, Frames: DefaultFrames},
		Logging:  LoggingConfig{Level: DefaultLogLevel, Format: "console"},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Body.Points < 3 {
		return fmt.Errorf("body.points must be at least 3, got %d: %w", c.Body.Points, ErrInvalid)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("body: %w", err)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %gx%g: %w", c.Viewport.Width, c.Viewport.Height, ErrInvalid)
	}
	if c.Run.Dt <= 0 {
		return fmt.Errorf("run.dt must be positive, got %g: %w", c.Run.Dt, ErrInvalid)
	}
	if c.Run.Frames <= 0 {
		return fmt.Errorf("run.frames must be positive, got %d: %w", c.Run.Frames, ErrInvalid)
	}
	if _, err := input.NewScript(c.Script); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (c *Config) Params() softbody.Params {
	return softbody.Params{
		RestRadius: c.Body.RestRadius,
		Stiffness:  c.Body.Stiffness,
		Damping:    c.Body.Damping,
		Pressure:   c.Body.Pressure,
		Gravity:    c.Body.Gravity,
		Mass:       c.Body.Mass,
		MaxDt:      c.Body.MaxDt,
	}
}

// SetParam overrides one body parameter by the name softbody.Params uses.
func (c *Config) SetParam(name string, value float64) error {
	p := c.Params()
	if err := p.SetParam(name, value); err != nil {
		return err
	}
	c.Body.RestRadius = p.RestRadius
	c.Body.Stiffness = p.Stiffness
	c.Body.Damping = p.Damping
	c.Body.Pressure = p.Pressure
	c.Body.Gravity = p.Gravity
	return nil
}

func (c *Config) Center() cp.Vector {
	return cp.Vector{X: c.Body.CenterX, Y: c.Body.CenterY}
}

func (c *Config) Bounds() softbody.Bounds {
	return softbody.Bounds{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// NewBody builds the body described by the config.
func (c *Config) NewBody() *softbody.Body {
	return softbody.New(c.Center(), c.Body.Points, c.Params())
}

// NewScript builds the scheduled input, or nil when the config has none.
func (c *Config) NewScript() (*input.Script, error) {
	if len(c.Script) == 0 {
		return nil, nil
	}
	return input.NewScript(c.Script)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Script = append([]input.Step(nil), c.Script...)
	return &out
}
