package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/slitsim/internal/analysis"
	"github.com/san-kum/slitsim/internal/automation"
	"github.com/san-kum/slitsim/internal/compute"
	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/experiment"
	"github.com/san-kum/slitsim/internal/export"
	"github.com/san-kum/slitsim/internal/optics"
	"github.com/san-kum/slitsim/internal/optim"
	"github.com/san-kum/slitsim/internal/sampler"
	"github.com/san-kum/slitsim/internal/sim"
	"github.com/san-kum/slitsim/internal/storage"
)

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("seed") && cfg.Run.Seed == 0 {
		cfg.Run.Seed = time.Now().UnixNano()
	}

	name := "run"
	if preset != "" {
		name = preset
	}
	if len(args) > 0 {
		name = args[0]
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	exp, err := experiment.New(name, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("running %s: %d particles, %d ticks...\n", name, cfg.Simulation.ParticleCount, cfg.Run.Ticks)
	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := exp.Save(st, out)
	if err != nil {
		return err
	}

	res := out.Result
	fmt.Printf("completed in %v\n", out.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("landings: %d\n", len(res.Hits))
	fmt.Printf("crossings: %d (fallback %.1f%%)\n", res.Crossings, res.ExhaustionRate()*100)
	fmt.Println("\nmetrics:")
	printMetrics(res.Metrics)
	fmt.Printf("\nfringe spacing: %.4f theory, %.4f measured\n", out.Spacing, out.Period)
	fmt.Printf("chi-square: %.2f on %d dof (p=%.4f)\n", out.Fit.ChiSquare, out.Fit.DOF, out.Fit.PValue)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tNM\tD\tA\tL\tPARTICLES\tTICKS\tHITS\tBACKEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.2f\t%.2f\t%.1f\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Simulation.WavelengthNm,
			run.Simulation.SlitSeparation,
			run.Simulation.SlitWidth,
			run.Simulation.ScreenDistance,
			run.Simulation.ParticleCount,
			run.Ticks,
			run.Hits,
			run.Backend,
		)
	}

	return w.Flush()
}

// loadRun resolves a run id and reads its metadata and landing positions.
func loadRun(id string) (*storage.RunMetadata, []float64, error) {
	st := storage.New(dataDir)
	runID, err := resolveRunID(st, id)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	hits, err := st.LoadHits(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, storage.HitXs(hits), nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, xs, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return fmt.Errorf("no landings to plot")
	}

	half := meta.Scale.HalfWidth()
	hist := analysis.Histogram(xs, -half, half, bins)
	expected := analysis.Expected(meta.Simulation, meta.Scale, -half, half, bins, len(xs))

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("landings: %d\n\n", len(xs))

	graph := asciigraph.PlotMany([][]float64{hist, expected},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.Caption("landings (cyan) vs expected (yellow)"),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, xs, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return fmt.Errorf("no landings to analyze")
	}

	sc, simCfg := meta.Scale, meta.Simulation
	half := sc.HalfWidth()
	hist := analysis.Histogram(xs, -half, half, bins)
	expected := analysis.Expected(simCfg, sc, -half, half, bins, len(xs))
	fit := analysis.GoodnessOfFit(hist, expected)
	period := analysis.DominantPeriod(hist, sc.ScreenWidth/float64(bins))

	fmt.Printf("pattern analysis: %s\n\n", meta.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "landings\t%d\n", len(xs))
	fmt.Fprintf(w, "fringe spacing (theory)\t%.4f\n", analysis.FringeSpacing(simCfg, sc))
	fmt.Fprintf(w, "fringe spacing (measured)\t%.4f\n", period)
	fmt.Fprintf(w, "envelope half-width\t%.4f\n", analysis.EnvelopeWidth(simCfg, sc))
	fmt.Fprintf(w, "visibility (observed)\t%.3f\n", analysis.Visibility(hist))
	fmt.Fprintf(w, "visibility (expected)\t%.3f\n", analysis.Visibility(expected))
	fmt.Fprintf(w, "chi-square\t%.2f (%d dof)\n", fit.ChiSquare, fit.DOF)
	fmt.Fprintf(w, "p-value\t%.4f\n", fit.PValue)

	if nm, err := analysis.FitWavelength(hist, -half, half, simCfg, sc); err == nil {
		fmt.Fprintf(w, "fitted wavelength\t%.1fnm (configured %.1fnm)\n", nm, simCfg.WavelengthNm)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRunID(st, args[0])
	if err != nil {
		return err
	}
	return st.ExportJSON(os.Stdout, runID)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRunID(st, args[0])
	if err != nil {
		return err
	}
	return st.ExportCSV(os.Stdout, runID)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, xs, err := loadRun(args[0])
	if err != nil {
		return err
	}

	half := meta.Scale.HalfWidth()
	profile := optics.Profile(meta.Simulation, meta.Scale, 400)
	stroke := optics.Hex(optics.WavelengthRGB(meta.Simulation.WavelengthNm))
	fmt.Println(export.PatternSVG(profile, xs, -half, half, 800, 300, stroke))
	return nil
}

func showField(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	profile := optics.Profile(cfg.Simulation, cfg.Scale, bins)
	fmt.Println(asciigraph.Plot(profile,
		asciigraph.Height(12),
		asciigraph.Width(bins),
		asciigraph.Caption(fmt.Sprintf("intensity across the screen, %.0fnm", cfg.Simulation.WavelengthNm)),
	))
	fmt.Println()
	fmt.Printf("fringe spacing: %.4f\n", analysis.FringeSpacing(cfg.Simulation, cfg.Scale))
	fmt.Printf("envelope half-width: %.4f\n", analysis.EnvelopeWidth(cfg.Simulation, cfg.Scale))
	fmt.Printf("visibility: %.3f\n", analysis.Visibility(profile))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
	}
	return w.Flush()
}

func benchPool(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	backends := []compute.Backend{compute.NewSerialBackend(), compute.NewCPUBackend()}
	counts := []int{1000, 10000, 50000}
	smp := sampler.New(cfg.Scale, sampler.WithMaxAttempts(cfg.Run.MaxAttempts))

	fmt.Printf("benchmarking %d ticks\n\n", ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tPARTICLES\tTIME\tTICKS/SEC\tSTEPS/SEC")

	for _, b := range backends {
		for _, n := range counts {
			simCfg := cfg.Simulation
			simCfg.ParticleCount = n
			simCfg.IsPlaying = true

			pool := sim.NewPool(simCfg, cfg.Scale, sim.WithSeed(42), sim.WithBackend(b), sim.WithSampler(smp))
			start := time.Now()
			pool.Advance(simCfg, ticks)
			elapsed := time.Since(start)

			tps := float64(ticks) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.0f\n", b.Name(), n, elapsed.Round(time.Millisecond), tps, tps*float64(n))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	runs := runtime.NumCPU()
	ctx, cancel := interruptContext()
	defer cancel()

	start := time.Now()
	results, err := sim.NewEnsemble(cfg.Scale, smp, runs, 1).Run(ctx, cfg.Simulation, ticks)
	if err != nil {
		return err
	}
	total := 0
	for _, r := range results {
		total += len(r.Hits)
	}
	fmt.Printf("\nensemble: %d runs of %d particles in %v, %d landings\n",
		runs, cfg.Simulation.ParticleCount, time.Since(start).Round(time.Millisecond), total)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(ctx, scenario, base, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLANDINGS\tSPACING\tMEASURED\tP-VALUE\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%s\n",
			r.Step, len(r.Outcome.Result.Hits), r.Outcome.Spacing, r.Outcome.Period, r.Outcome.Fit.PValue, r.RunID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid max: %w", err)
	}
	steps, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("invalid steps: %w", err)
	}

	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	sweep := &automation.ParameterSweep{Param: args[0], Min: lo, Max: hi, NumSteps: steps}
	points, err := automation.RunSweep(ctx, sweep, base)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSPACING\tMEASURED\tFALLBACK\tP-VALUE\n", args[0])
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.1f%%\t%.4f\n", p.Value, p.Spacing, p.Period, p.Exhaustion*100, p.PValue)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

// tuneRanges are the grid bounds per parameter, matching the live view sliders.
var tuneRanges = map[string][2]float64{
	"wavelength": {380, 750},
	"separation": {0.5, 3},
	"width":      {0.1, 1},
	"distance":   {10, 30},
}

func runTune(cmd *cobra.Command, args []string) error {
	target, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid target spacing: %w", err)
	}
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ranges := make([][]float64, len(tuneParams))
	for i, name := range tuneParams {
		r, ok := tuneRanges[name]
		if !ok {
			return fmt.Errorf("unknown parameter %q", name)
		}
		ranges[i] = optim.Linspace(r[0], r[1], tuneSteps)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	best, err := optim.NewGridSearch(tuneParams, ranges).Search(ctx, base, optim.SpacingError(target))
	if err != nil {
		return err
	}
	if best.Params == nil {
		return fmt.Errorf("no valid configuration in %d runs", best.Runs)
	}

	fmt.Printf("searched %d configurations\n", best.Runs)
	printMetrics(best.Params)
	fmt.Printf("measured spacing off by %.4f\n", best.Score)
	return nil
}
