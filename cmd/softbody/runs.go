package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/analysis"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/export"
	"github.com/san-kum/softbody/internal/logger"
	"github.com/san-kum/softbody/internal/scenario"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/softbody"
	"github.com/san-kum/softbody/internal/storage"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, simCfg, err := scenario.Prepare(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Run(cmd.Context(), simCfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Printf("preset: %s\n", presetName)
			fmt.Printf("points: %d\n", cfg.Body.Points)
			fmt.Printf("frames: %d (%.2fs simulated in %v)\n\n", result.StepsTaken, float64(result.StepsTaken)*cfg.Run.Dt, elapsed.Round(time.Millisecond))
			if err := printMetrics(result.Metrics); err != nil {
				return err
			}
			for _, e := range result.Errors {
				fmt.Printf("error: %v\n", e)
			}

			if noSave {
				return nil
			}
			st := storage.New(dataDir)
			id, err := st.Save(scenario.Metadata(presetName, cfg), result)
			if err != nil {
				return fmt.Errorf("save run: %w", err)
			}
			logger.L().Debug("run saved", "id", id, "dir", dataDir)
			fmt.Printf("\nsaved: %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func printMetrics(m map[string]float64) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4g\n", name, m[name])
	}
	return w.Flush()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRESET\tTIME\tPOINTS\tDURATION\tDT\tERRORS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%d\n",
					run.ID,
					run.Preset,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Points,
					run.Duration,
					run.Dt,
					len(run.Errors),
				)
			}
			return w.Flush()
		},
	}
}

// loadRun accepts a run id or "latest".
func loadRun(arg string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	id := arg
	if id == "latest" {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		id = latest
	}

	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(id)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", id)
	}
	return meta, frames, nil
}

func series(frames []sim.Frame, fn func(sim.Frame) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = fn(f)
	}
	return out
}

func shapes(frames []sim.Frame) [][]cp.Vector {
	out := make([][]cp.Vector, 0, len(frames))
	for _, f := range frames {
		if len(f.Points) > 0 {
			out = append(out, f.Points)
		}
	}
	return out
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id|latest]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, frames, err := loadRun(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("preset: %s\n", meta.Preset)
			fmt.Printf("samples: %d\n\n", len(frames))

			plots := []struct {
				caption string
				data    []float64
			}{
				{"centroid y (screen, down is positive)", series(frames, sim.CentroidY)},
				{"kinetic energy", series(frames, sim.KineticEnergy)},
			}
			if ratio := analysis.AreaRatio(shapes(frames)); len(ratio) > 1 {
				plots = append(plots, struct {
					caption string
					data    []float64
				}{"area / initial area", ratio})
			}

			for _, p := range plots {
				fmt.Println(asciigraph.Plot(p.data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(p.caption),
				))
				fmt.Println()
			}
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id|latest]",
		Short: "wobble frequency and shape analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, frames, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if len(frames) < 4 {
				return fmt.Errorf("run %s: need at least 4 frames, have %d", meta.ID, len(frames))
			}

			ys := series(frames, sim.CentroidY)
			times := series(frames, func(f sim.Frame) float64 { return f.Time })
			sampleDt := (times[len(times)-1] - times[0]) / float64(len(times)-1)

			fmt.Printf("frequency analysis: %s\n", meta.ID)
			fmt.Printf("preset: %s\n\n", meta.Preset)

			ps := analysis.PowerSpectrum(ys)
			if quarter := len(ps) / 4; quarter > 1 {
				ps = ps[:quarter]
			}
			fmt.Println(asciigraph.Plot(ps,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum (centroid y)"),
			))
			fmt.Println()

			freq := analysis.DominantFrequency(ys, sampleDt)
			fmt.Printf("dominant frequency: %.3f hz\n", freq)
			if freq > 0 {
				fmt.Printf("period: %.3f s\n", 1.0/freq)
			}

			if ratio := analysis.AreaRatio(shapes(frames)); len(ratio) > 0 {
				lo, hi := ratio[0], ratio[0]
				for _, r := range ratio {
					lo = min(lo, r)
					hi = max(hi, r)
				}
				fmt.Printf("area ratio: min %.3f max %.3f final %.3f\n", lo, hi, ratio[len(ratio)-1])
			}

			if phase := analysis.PhasePortraitToASCII(analysis.CentroidPhase(times, ys), 60, 20); phase != "" {
				fmt.Println("\nphase portrait (centroid y vs dy/dt)")
				fmt.Println(phase)
			}
			return nil
		},
	}
}

func createOutput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func newExportCSVCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id|latest]",
		Short: "export recorded frames as csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, frames, err := loadRun(args[0])
			if err != nil {
				return err
			}
			f, err := createOutput(output)
			if err != nil {
				return err
			}
			if f != os.Stdout {
				defer f.Close()
			}
			return storage.WriteFramesCSV(f, frames)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-json [run_id|latest]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, frames, err := loadRun(args[0])
			if err != nil {
				return err
			}
			f, err := createOutput(output)
			if err != nil {
				return err
			}
			if f != os.Stdout {
				defer f.Close()
			}
			return storage.ExportJSON(f, *meta, frames)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportSVGCmd() *cobra.Command {
	var (
		output     string
		trajectory bool
		frameIdx   int
	)
	cmd := &cobra.Command{
		Use:   "export-svg [run_id|latest]",
		Short: "render a recorded frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, frames, err := loadRun(args[0])
			if err != nil {
				return err
			}

			var svg string
			if trajectory {
				path := make([]cp.Vector, len(frames))
				for i, f := range frames {
					path[i] = f.Centroid
				}
				svg = export.TrajectoryToSVG(path, int(meta.Width), int(meta.Height), "#ff0000")
			} else {
				if frameIdx < 0 {
					frameIdx = len(frames) - 1
				}
				if frameIdx >= len(frames) {
					return fmt.Errorf("frame %d out of range (run has %d)", frameIdx, len(frames))
				}
				f := frames[frameIdx]
				if len(f.Points) == 0 {
					return errors.New("run has no recorded points; rerun with --record-points")
				}
				bounds := softbody.Bounds{Width: meta.Width, Height: meta.Height}
				svg = export.FrameSVG(f.Points, f.Forces, bounds, export.DefaultSVGOptions())
			}

			out, err := createOutput(output)
			if err != nil {
				return err
			}
			if out != os.Stdout {
				defer out.Close()
			}
			_, err = fmt.Fprintln(out, svg)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&trajectory, "trajectory", false, "draw the centroid path instead of a frame")
	cmd.Flags().IntVar(&frameIdx, "frame", -1, "recorded frame to draw (default last)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPOINTS\tRADIUS\tSTIFFNESS\tDAMPING\tPRESSURE\tGRAVITY\tSCRIPTED")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\t%g\t%v\n",
					name,
					p.Body.Points,
					p.Body.RestRadius,
					p.Body.Stiffness,
					p.Body.Damping,
					p.Body.Pressure,
					p.Body.Gravity,
					len(p.Script) > 0,
				)
			}
			return w.Flush()
		},
	}
}
