package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/gui"
	"github.com/san-kum/softbody/internal/logger"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	logFile    string

	points       int
	restRadius   float64
	stiffness    float64
	damping      float64
	pressure     float64
	gravity      float64
	mass         float64
	dt           float64
	frames       int
	width        float64
	height       float64
	recordPoints bool

	// resolved by the root PersistentPreRunE
	cfg        *config.Config
	presetName string
	closeLog   = func() error { return nil }
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the commands; with no subcommand it opens the window.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "softbody",
		Short:             "pressure soft-body ring simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { _ = closeLog() },
		Run: func(cmd *cobra.Command, args []string) {
			gui.Run(cfg.NewBody(), cfg.Bounds(), presetName)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".softbody", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "console", "log format (console, text, json)")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")

	pf.IntVar(&points, "points", config.DefaultPoints, "number of ring points")
	pf.Float64Var(&restRadius, "radius", 0, "rest radius")
	pf.Float64Var(&stiffness, "stiffness", 0, "spring stiffness")
	pf.Float64Var(&damping, "damping", 0, "velocity damping")
	pf.Float64Var(&pressure, "pressure", 0, "internal pressure")
	pf.Float64Var(&gravity, "gravity", 0, "downward acceleration")
	pf.Float64Var(&mass, "mass", 0, "point mass")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	pf.Float64Var(&width, "width", config.DefaultWidth, "viewport width")
	pf.Float64Var(&height, "height", config.DefaultHeight, "viewport height")
	pf.BoolVar(&recordPoints, "record-points", false, "record per-point positions and forces")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newExportSVGCmd(),
		newPresetsCmd(),
		newSweepCmd(),
		newTuneCmd(),
		newScenarioCmd(),
		newMonteCarloCmd(),
		newLiveCmd(),
		newGUICmd(),
	)
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	c, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg, presetName = c, name

	closer, err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	closeLog = closer
	return nil
}

// resolveConfig layers defaults, the preset, the config file and finally any
// flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	name := "default"
	c := config.DefaultConfig()
	if preset != "" {
		c = config.GetPreset(preset)
		if c == nil {
			return nil, "", fmt.Errorf("unknown preset %q (see 'softbody presets')", preset)
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, c)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		c = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("points") {
		c.Body.Points = points
	}
	if flags.Changed("radius") {
		c.Body.RestRadius = restRadius
	}
	if flags.Changed("stiffness") {
		c.Body.Stiffness = stiffness
	}
	if flags.Changed("damping") {
		c.Body.Damping = damping
	}
	if flags.Changed("pressure") {
		c.Body.Pressure = pressure
	}
	if flags.Changed("gravity") {
		c.Body.Gravity = gravity
	}
	if flags.Changed("mass") {
		c.Body.Mass = mass
	}
	if flags.Changed("dt") {
		c.Run.Dt = dt
	}
	if flags.Changed("frames") {
		c.Run.Frames = frames
	}
	if flags.Changed("record-points") {
		c.Run.RecordPoints = recordPoints
	}
	if flags.Changed("width") || flags.Changed("height") {
		if flags.Changed("width") {
			c.Viewport.Width = width
		}
		if flags.Changed("height") {
			c.Viewport.Height = height
		}
		// keep the body centred unless the file placed it
		if configFile == "" {
			c.Body.CenterX = c.Viewport.Width / 2
			c.Body.CenterY = c.Viewport.Height / 2
		}
	}
	if flags.Changed("log-level") {
		c.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		c.Logging.Format = logFormat
	}
	if flags.Changed("log-file") {
		c.Logging.File = logFile
	}

	if err := c.Validate(); err != nil {
		return nil, "", err
	}
	return c, name, nil
}
