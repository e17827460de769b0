package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/softbody/internal/optim"
	"github.com/san-kum/softbody/internal/scenario"
	"github.com/san-kum/softbody/internal/storage"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var (
		param    string
		from, to float64
		steps    int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one body per parameter value in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sw := &scenario.ParameterSweep{
				Base:     cfg,
				Param:    param,
				ParamMin: from,
				ParamMax: to,
				NumSteps: steps,
			}

			start := time.Now()
			results, err := scenario.RunSweep(cmd.Context(), sw)
			if err != nil {
				return err
			}
			fmt.Printf("sweep %s over %d values in %v\n\n", param, len(results), time.Since(start).Round(time.Millisecond))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tSTABLE\tCONTAIN\tMIN_SEP\tKE_MEAN\tKE_FINAL\tSETTLE\n", strings.ToUpper(param))
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(w, "%g\terror: %v\n", r.Value, r.Err)
					continue
				}
				m := r.Result.Metrics
				fmt.Fprintf(w, "%g\t%v\t%.3f\t%.2f\t%.4g\t%.4g\t%g\n",
					r.Value,
					len(r.Result.Errors) == 0,
					m["containment"],
					m["min_separation"],
					m["kinetic_energy_mean"],
					m["kinetic_energy_final"],
					m["settling_frames"],
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&param, "param", "stiffness", "parameter to sweep")
	cmd.Flags().Float64Var(&from, "from", 100, "first value")
	cmd.Flags().Float64Var(&to, "to", 2000, "last value")
	cmd.Flags().IntVar(&steps, "steps", 8, "number of values")
	return cmd
}

// parseRange reads "a,b,c" into values.
func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty range %q", s)
	}
	return out, nil
}

func newTuneCmd() *cobra.Command {
	var (
		metric string
		grid   []string
	)
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search body parameters for the lowest metric",
		Long: "tune runs every combination of the given values and reports the one\n" +
			"with the lowest metric, e.g.\n\n" +
			"  softbody tune --grid damping=0.1,0.5,2 --grid stiffness=300,1000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(grid) == 0 {
				return fmt.Errorf("at least one --grid name=v1,v2,... is required")
			}
			names := make([]string, 0, len(grid))
			ranges := make([][]float64, 0, len(grid))
			for _, g := range grid {
				name, values, ok := strings.Cut(g, "=")
				if !ok {
					return fmt.Errorf("bad grid %q, want name=v1,v2", g)
				}
				r, err := parseRange(values)
				if err != nil {
					return fmt.Errorf("grid %s: %w", name, err)
				}
				names = append(names, strings.TrimSpace(name))
				ranges = append(ranges, r)
			}

			gs := optim.NewGridSearch(names, ranges)
			fmt.Printf("searching %d candidates for lowest %s\n", gs.Candidates(), metric)
			best, score, err := gs.Search(cmd.Context(), cfg, metric)
			if err != nil {
				return err
			}

			fmt.Printf("best %s: %.4g\n", metric, score)
			for _, name := range names {
				fmt.Printf("  %s = %g\n", name, best[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "kinetic_energy_final", "metric to minimise")
	cmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values as name=v1,v2,... (repeatable)")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.LoadScenario(args[0])
			if err != nil {
				return err
			}

			var st *storage.Store
			if !noSave {
				st = storage.New(dataDir)
			}
			results, err := scenario.RunScenario(cmd.Context(), sc, st)
			if err != nil {
				return err
			}

			fmt.Printf("scenario: %s\n", sc.Name)
			if sc.Description != "" {
				fmt.Printf("%s\n", sc.Description)
			}
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tNAME\tFRAMES\tERRORS\tKE_FINAL\tCONTAIN\tRUN")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.4g\t%.3f\t%s\n",
					r.Step,
					r.Name,
					r.Result.StepsTaken,
					len(r.Result.Errors),
					r.Result.Metrics["kinetic_energy_final"],
					r.Result.Metrics["containment"],
					r.RunID,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store step runs")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	var (
		trials int
		hold   int
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "drag random points to random targets and check the body survives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := scenario.RunMonteCarlo(cmd.Context(), &scenario.MonteCarloConfig{
				Base:       cfg,
				NumTrials:  trials,
				HoldFrames: hold,
				Seed:       seed,
			})
			if err != nil {
				return err
			}

			stable := 0
			worstSep := 0.0
			for i, r := range results {
				if r.Stable {
					stable++
				}
				if i == 0 || r.MinSeparation < worstSep {
					worstSep = r.MinSeparation
				}
			}
			fmt.Printf("trials: %d\n", len(results))
			fmt.Printf("stable: %d (%.1f%%)\n", stable, 100*float64(stable)/float64(max(len(results), 1)))
			fmt.Printf("worst min separation: %.3f\n\n", worstSep)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TRIAL\tPOINT\tTARGET\tSTABLE\tCONTAIN\tMIN_SEP\tKE_FINAL")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%d\t(%.0f, %.0f)\t%v\t%.3f\t%.2f\t%.4g\n",
					r.TrialID, r.Point, r.Target.X, r.Target.Y,
					r.Stable, r.Containment, r.MinSeparation, r.FinalEnergy)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	cmd.Flags().IntVar(&hold, "hold", 10, "frames to hold each drag")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	return cmd
}
