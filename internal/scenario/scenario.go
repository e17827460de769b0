package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/logger"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one headless run. Zero fields keep the preset's value.
type Step struct {
	Preset       string             `yaml:"preset"`
	Params       map[string]float64 `yaml:"params"`
	Points       int                `yaml:"points"`
	Frames       int                `yaml:"frames"`
	Dt           float64            `yaml:"dt"`
	RecordPoints bool               `yaml:"record_points"`
	Script       []input.Step       `yaml:"script"`
	SaveAs       string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps: %w", scenario.Name, config.ErrInvalid)
	}

	return &scenario, nil
}

// Config resolves the step against its preset.
func (s Step) Config() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q: %w", preset, config.ErrInvalid)
	}

	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if s.Points > 0 {
		cfg.Body.Points = s.Points
	}
	if s.Frames > 0 {
		cfg.Run.Frames = s.Frames
	}
	if s.Dt > 0 {
		cfg.Run.Dt = s.Dt
	}
	if s.RecordPoints {
		cfg.Run.RecordPoints = true
	}
	if len(s.Script) > 0 {
		cfg.Script = s.Script
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Name labels the step's stored run.
func (s Step) Name() string {
	if s.SaveAs != "" {
		return s.SaveAs
	}
	if s.Preset != "" {
		return s.Preset
	}
	return "default"
}

// Prepare builds a simulator with the default metrics for cfg and the run
// configuration that drives it.
func Prepare(cfg *config.Config) (*sim.Simulator, sim.Config, error) {
	script, err := cfg.NewScript()
	if err != nil {
		return nil, sim.Config{}, err
	}

	simCfg := sim.Config{
		Dt:            cfg.Run.Dt,
		Frames:        cfg.Run.Frames,
		Bounds:        cfg.Bounds(),
		RecordPoints:  cfg.Run.RecordPoints,
		ValidateState: true,
	}
	if script != nil {
		simCfg.Input = script
	}

	s := sim.New(cfg.NewBody())
	for _, m := range metrics.Defaults(cfg.Bounds()) {
		s.AddMetric(m)
	}
	return s, simCfg, nil
}

// Metadata describes a run of cfg for storage.
func Metadata(name string, cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Preset: name,
		Points: cfg.Body.Points,
		Dt:     cfg.Run.Dt,
		Frames: cfg.Run.Frames,
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
		Params: cfg.Params().GetParams(),
	}
}

type StepResult struct {
	Step   int
	Name   string
	RunID  string
	Result *sim.Result
}

// RunScenario executes all steps in order. Each result is saved to store
// when store is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]StepResult, error) {
	log := logger.L().With("scenario", scenario.Name)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "preset", step.Name())

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		s, simCfg, err := Prepare(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := s.Run(ctx, simCfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Name: step.Name(), Result: result}
		if store != nil {
			id, err := store.Save(Metadata(step.Name(), cfg), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}
