package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	seed        int64
	iterations  int
	maxContacts int
	configFile  string
	preset      string
	runs        int
	recordEvery int

	// plot, analyze, export-svg
	particleIdx int
	axisName    string
	frameIdx    int
	trajectory  bool
	svgWidth    int
	svgHeight   int
	outFile     string

	// sweep, lyapunov
	param     string
	sweepFrom float64
	sweepTo   float64
	sweepN    int
	measure   string
	epsilon   float64
	lyapSteps int

	// montecarlo, tune
	trials  int
	perturb float64
	grid    []string
	metric  string

	// live, serve
	frameRate int
	gifPath   string
	addr      string
	origins   []string
)

var registry = scene.NewRegistry()

// main registers the partsim commands. With no subcommand it opens the
// interactive terminal browser.
func main() {
	env := config.LoadEnv()
	origins = env.Origins

	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "particle physics sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(registry)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.DataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeded runs (ensemble when > 1)")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "keep one frame in this many")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a particle coordinate and the contact count",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addSeriesFlags(plotCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a frame, or a particle's trajectory, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addSeriesFlags(exportSVGCmd)
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index (negative counts from the end)")
	exportSVGCmd.Flags().BoolVar(&trajectory, "trajectory", false, "draw the trajectory of --particle instead of a frame")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and trajectory of a particle",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	addSeriesFlags(analyzeCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "gravity", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -20, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", -2, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 10, "number of values")
	sweepCmd.Flags().StringVar(&measure, "measure", "kinetic_energy", "kinetic_energy, rod_error or penetration")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scene]",
		Short: "estimate the largest Lyapunov exponent of a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunov,
	}
	addSceneFlags(lyapunovCmd)
	lyapunovCmd.Flags().IntVar(&particleIdx, "particle", 0, "particle to perturb")
	lyapunovCmd.Flags().Float64Var(&epsilon, "eps", 1e-6, "initial perturbation")
	lyapunovCmd.Flags().IntVar(&lyapSteps, "steps", 2000, "steps to integrate")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of scenes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "run a scene with randomly perturbed starting velocities",
		Args:  cobra.ExactArgs(1),
		RunE:  monteCarlo,
	}
	addSceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.5, "largest velocity change per axis")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search parameters for the smallest metric",
		Args:  cobra.ExactArgs(1),
		RunE:  tune,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter range as name=from:to:n (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "max_penetration", "metric to minimise")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes and their tunable parameters",
		RunE:  listScenes,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&gifPath, "gif", "partsim.gif", "path for recorded GIFs")

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run a scene in a raylib window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "stream a scene over HTTP and websocket",
		Args:  cobra.ExactArgs(1),
		RunE:  serveScene,
	}
	addSceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", env.Addr, "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", env.FPS, "frames per second")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, sweepCmd, lyapunovCmd, scenarioCmd, monteCarloCmd, tuneCmd, benchCmd, presetsCmd, scenesCmd, liveCmd, guiCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "resolver iterations (0 = twice the contacts)")
	cmd.Flags().IntVar(&maxContacts, "max-contacts", config.DefaultMaxContacts, "contact buffer capacity")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addSeriesFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particleIdx, "particle", 0, "particle index")
	cmd.Flags().StringVar(&axisName, "axis", "y", "coordinate axis (x, y or z)")
}

// resolveConfig layers the scene's defaults, the preset, the config file
// and finally any flags set on the command line.
func resolveConfig(cmd *cobra.Command, sceneName string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(sceneName, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(sceneName))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if sceneName != "" {
		cfg.Scene = sceneName
	}

	flags := cmd.Flags()
	if flags.Changed("dt") || (preset == "" && configFile == "") {
		cfg.Dt = dt
	}
	if flags.Changed("time") || (preset == "" && configFile == "") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("max-contacts") {
		cfg.MaxContacts = maxContacts
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
