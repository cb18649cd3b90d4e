package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/slitsim/internal/config"
	"github.com/san-kum/slitsim/internal/experiment"
	"github.com/san-kum/slitsim/internal/gui"
	"github.com/san-kum/slitsim/internal/sampler"
	"github.com/san-kum/slitsim/internal/sim"
	"github.com/san-kum/slitsim/internal/storage"
	"github.com/san-kum/slitsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string

	wavelength float64
	separation float64
	slitWidth  float64
	distance   float64
	particles  int
	fieldScale float64
	paused     bool

	ticks       int
	seed        int64
	parallel    bool
	backendName string
	maxAttempts int
	frameRate   int
	bins        int
	tuneSteps   int
	tuneParams  []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slitsim",
		Short: "double-slit particle interference simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(newPool)
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".slitsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a 3D window",
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)
	guiCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "run headless and save the landings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the landing histogram of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bins, "bins", config.DefaultBins, "histogram bins")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "compare a run against the predicted pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bins, "bins", config.DefaultBins, "histogram bins")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and hits as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the hit log as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's pattern as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "print the predicted intensity profile",
		RunE:  showField,
	}
	addSimFlags(fieldCmd)
	fieldCmd.Flags().IntVar(&bins, "bins", 120, "samples across the screen")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark tick throughput across backends and pool sizes",
		RunE:  benchPool,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&ticks, "ticks", 500, "ticks per measurement")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of experiments",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addRunFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [wavelength|separation|width|distance] [min] [max] [steps]",
		Short: "measure fringe spacing across a parameter range",
		Args:  cobra.ExactArgs(4),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	addRunFlags(sweepCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [target_spacing]",
		Short: "grid search slit geometry for a target fringe spacing",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	addRunFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 5, "grid points per parameter")
	tuneCmd.Flags().StringSliceVar(&tuneParams, "params", []string{"separation"}, "parameters to search (wavelength, separation, width, distance)")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportCmd,
		exportCSVCmd, exportSVGCmd, fieldCmd, presetsCmd, benchCmd, scenarioCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.Float64Var(&wavelength, "wavelength", def.Simulation.WavelengthNm, "wavelength in nm")
	f.Float64Var(&separation, "separation", def.Simulation.SlitSeparation, "slit separation")
	f.Float64Var(&slitWidth, "width", def.Simulation.SlitWidth, "slit width")
	f.Float64Var(&distance, "distance", def.Simulation.ScreenDistance, "screen distance")
	f.IntVar(&particles, "particles", def.Simulation.ParticleCount, "particle count")
	f.Float64Var(&fieldScale, "field-scale", def.Scale.FieldScale, "field scale applied to screen x")
	f.BoolVar(&paused, "paused", false, "start paused")
}

func addRunFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.IntVar(&ticks, "ticks", def.Run.Ticks, "ticks to simulate")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.BoolVar(&parallel, "parallel", false, "use all cores")
	f.StringVar(&backendName, "backend", def.Run.Backend, "execution backend (serial, cpu, auto)")
	f.IntVar(&maxAttempts, "max-attempts", def.Run.MaxAttempts, "sampler attempts per crossing")
	f.IntVar(&bins, "bins", def.Run.Bins, "histogram bins")
}

func setupLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// resolveConfig layers the preset, the config file and any flags the user set
// explicitly over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("wavelength") {
		cfg.Simulation.WavelengthNm = wavelength
	}
	if changed("separation") {
		cfg.Simulation.SlitSeparation = separation
	}
	if changed("width") {
		cfg.Simulation.SlitWidth = slitWidth
	}
	if changed("distance") {
		cfg.Simulation.ScreenDistance = distance
	}
	if changed("particles") {
		cfg.Simulation.ParticleCount = particles
	}
	if changed("field-scale") {
		cfg.Scale.FieldScale = fieldScale
	}
	if changed("paused") {
		cfg.Simulation.IsPlaying = !paused
	}
	if changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if changed("seed") {
		cfg.Run.Seed = seed
	}
	if changed("parallel") {
		cfg.Run.Parallel = parallel
	}
	if changed("backend") {
		cfg.Run.Backend = backendName
	}
	if changed("max-attempts") {
		cfg.Run.MaxAttempts = maxAttempts
	}
	if changed("fps") {
		cfg.Run.FPS = frameRate
	}
	if changed("bins") {
		cfg.Run.Bins = bins
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings() {
		slog.Warn("config_warning", "msg", w)
	}
	return cfg, nil
}

// newPool builds an interactive pool. Live views run on the backend the
// config selects.
func newPool(c *config.Config) *sim.Pool {
	return sim.NewPool(c.Simulation, c.Scale,
		sim.WithSeed(c.Run.Seed),
		sim.WithBackend(experiment.Backend(c.Run)),
		sim.WithSampler(sampler.New(c.Scale, sampler.WithMaxAttempts(c.Run.MaxAttempts))),
	)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	title := "slitsim"
	if preset != "" {
		title += " :: " + preset
	}
	return viz.Run(viz.NewModel(cfg, newPool(cfg), title))
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	pool := newPool(cfg)
	slog.Info("gui_start", "backend", pool.Backend().Name(), "particles", pool.Len())
	gui.Run(cfg, pool)
	return nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

// resolveRunID accepts "latest" as an alias for the newest run.
func resolveRunID(st *storage.Store, id string) (string, error) {
	if id != "latest" {
		return id, nil
	}
	meta, err := st.Latest()
	if err != nil {
		return "", err
	}
	return meta.ID, nil
}
