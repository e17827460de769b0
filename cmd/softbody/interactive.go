package main

import (
	"fmt"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/gui"
	"github.com/san-kum/softbody/internal/logger"
	"github.com/san-kum/softbody/internal/viz"
	"github.com/spf13/cobra"
)

func newLiveCmd() *cobra.Command {
	var (
		menu  bool
		theme string
	)
	cmd := &cobra.Command{
		Use:   "live",
		Short: "run the body in the terminal with mouse dragging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the terminal belongs to the ui
			if cfg.Logging.File == "" {
				logger.Discard()
			}
			viz.SetTheme(theme)

			if menu {
				return viz.Run(viz.NewMenu(config.ListPresets(), buildLive))
			}
			return viz.Run(viz.NewModel(cfg.NewBody(), cfg.Bounds(), cfg.Run.Dt, presetName))
		},
	}
	cmd.Flags().BoolVar(&menu, "menu", false, "pick a preset from a menu first")
	cmd.Flags().StringVar(&theme, "theme", "classic", "color theme (classic, retro, sunset)")
	return cmd
}

// buildLive opens a preset inside the viewport and timestep of the resolved
// config.
func buildLive(name string) (viz.Model, error) {
	c := config.GetPreset(name)
	if c == nil {
		return viz.Model{}, fmt.Errorf("unknown preset %q", name)
	}
	c.Viewport = cfg.Viewport
	c.Body.CenterX = cfg.Viewport.Width / 2
	c.Body.CenterY = cfg.Viewport.Height / 2
	c.Run.Dt = cfg.Run.Dt
	if err := c.Validate(); err != nil {
		return viz.Model{}, err
	}
	return viz.NewModel(c.NewBody(), c.Bounds(), c.Run.Dt, name), nil
}

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "open the body in a window",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			gui.Run(cfg.NewBody(), cfg.Bounds(), presetName)
		},
	}
}
