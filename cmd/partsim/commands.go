package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/gui"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/optim"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/server"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	simCfg := sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		RecordEvery:   recordEvery,
		ValidateState: true,
	}

	ctx, stop := signalContext()
	defer stop()

	if runs > 1 {
		return runEnsemble(ctx, cfg, simCfg)
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	sc, err := registry.Build(cfg)
	if err != nil {
		return err
	}
	s := sim.New(sc)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	fmt.Printf("running %s scene...\n", cfg.Scene)
	start := time.Now()

	result, err := s.Run(ctx, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, sc, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("particles: %d\n", result.Particles)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for _, name := range metrics.Names() {
		if val, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, simCfg sim.Config) error {
	ens := sim.NewEnsemble(registry, metrics.Default, runs, cfg.Seed)

	fmt.Printf("running %d seeded %s runs...\n", runs, cfg.Scene)
	start := time.Now()
	results, err := ens.Run(ctx, cfg, simCfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	names := metrics.Names()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	means := make([]float64, len(names))
	for i, r := range results {
		row := make([]string, len(names))
		for j, name := range names {
			v := r.Metrics[name]
			means[j] += v / float64(len(results))
			row[j] = strconv.FormatFloat(v, 'g', 5, 64)
		}
		fmt.Fprintf(w, "%d\t%s\n", cfg.Seed+int64(i), strings.Join(row, "\t"))
	}
	row := make([]string, len(names))
	for j, v := range means {
		row[j] = strconv.FormatFloat(v, 'g', 5, 64)
	}
	fmt.Fprintf(w, "mean\t%s\n", strings.Join(row, "\t"))
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tPARTICLES\tSTEPS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Particles,
			run.Steps,
			run.Seed,
		)
	}

	return w.Flush()
}

// loadRun reads a stored run and the frames recorded for it.
func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	axis, err := analysis.ParseAxis(axisName)
	if err != nil {
		return err
	}
	data, err := analysis.Series(frames, particleIdx, axis)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(frames))

	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("particle %d %s vs time", particleIdx, axis)),
	))
	fmt.Println()

	contacts := make([]float64, len(frames))
	for i, f := range frames {
		contacts[i] = float64(f.Contacts)
	}
	fmt.Println(asciigraph.Plot(contacts,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("contacts per frame"),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "contacts", "iterations"}
	for i := 0; i < meta.Particles; i++ {
		header = append(header, fmt.Sprintf("p%dx", i), fmt.Sprintf("p%dy", i), fmt.Sprintf("p%dz", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.Itoa(f.Contacts),
			strconv.Itoa(f.Iterations),
		}
		for _, p := range f.Positions {
			row = append(row,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Z, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if trajectory {
		yAxis, err := analysis.ParseAxis(axisName)
		if err != nil {
			return err
		}
		path, err := analysis.Trajectory(frames, particleIdx, analysis.AxisX, yAxis)
		if err != nil {
			return err
		}
		return export.TrajectoryToSVG(out, path, svgWidth, svgHeight, "#00cccc")
	}

	idx := frameIdx
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range (run has %d frames)", frameIdx, len(frames))
	}
	return export.FrameToSVG(out, meta.View, frames[idx], meta.Links, svgWidth, svgHeight)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 4 {
		return fmt.Errorf("run %s has too few frames to analyze", meta.ID)
	}
	axis, err := analysis.ParseAxis(axisName)
	if err != nil {
		return err
	}
	data, err := analysis.Series(frames, particleIdx, axis)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s, particle %d, axis %s\n\n", meta.Scene, particleIdx, axis)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(len(ps)/4, 2)]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", axis)),
	))
	fmt.Println()

	sampleDt := frames[1].Time - frames[0].Time
	freq := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	path, err := analysis.Trajectory(frames, particleIdx, analysis.AxisX, analysis.AxisY)
	if err != nil {
		return err
	}
	fmt.Printf("\ntrajectory (x, y):\n%s\n", path.ASCII(70, 20))
	fmt.Println("legend: o = start, x = end")
	return nil
}

var measures = map[string]analysis.Measure{
	"kinetic_energy": func(s *scene.Scene) float64 { return s.KineticEnergy() },
	"rod_error":      func(s *scene.Scene) float64 { return s.MaxRodError() },
	"penetration":    func(s *scene.Scene) float64 { return s.World.MaxPenetration() },
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, ok := measures[measure]
	if !ok {
		return fmt.Errorf("unknown measure: %s", measure)
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("sweeping %s over [%g, %g] for %s (%d runs of %.1fs)\n\n", param, sweepFrom, sweepTo, cfg.Scene, sweepN, cfg.Duration)
	points, err := analysis.Sweep(ctx, registry, cfg, param, analysis.Linspace(sweepFrom, sweepTo, sweepN), m)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(param), strings.ToUpper(measure))
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
		fmt.Fprintf(w, "%.4f\t%.6f\n", p.Param, p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(values) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", measure, param)),
		))
	}
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	a, err := registry.Build(cfg)
	if err != nil {
		return err
	}
	b, err := registry.Build(cfg)
	if err != nil {
		return err
	}
	if particleIdx < 0 || particleIdx >= len(b.Particles) {
		return fmt.Errorf("particle %d out of range (scene has %d)", particleIdx, len(b.Particles))
	}
	analysis.Perturb(b, particleIdx, epsilon)

	lambda := analysis.LyapunovExponent(a, b, cfg.Dt, lyapSteps)
	fmt.Printf("scene: %s\n", cfg.Scene)
	fmt.Printf("steps: %d (%.2fs)\n", lyapSteps, float64(lyapSteps)*cfg.Dt)
	fmt.Printf("largest lyapunov exponent: %.6f /s\n", lambda)
	switch {
	case math.IsNaN(lambda):
		fmt.Println("state diverged")
	case lambda > 0.01:
		fmt.Println("trajectories separate: chaotic")
	default:
		fmt.Println("trajectories stay together: regular")
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{1.0 / 30, 1.0 / 60, 1.0 / 120}

	fmt.Printf("benchmarking %s\n\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC\tMAX CONTACTS")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := config.DefaultConfig()
			cfg.Scene = args[0]
			cfg.Seed = 42
			sc, err := registry.Build(cfg)
			if err != nil {
				return err
			}

			s := sim.New(sc)
			load := metrics.NewContactLoad()
			s.AddMetric(load)

			start := time.Now()
			result, err := s.Run(context.Background(), sim.Config{Dt: step, Duration: dur, RecordEvery: 1 << 30})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds(), load.Value())
		}
	}

	return w.Flush()
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tPRESETS\tPARAMETERS")
	for _, name := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			name,
			strings.Join(config.ListPresets(name), ","),
			strings.Join(config.ParamNames(name), ","),
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return viz.RunInteractive(registry)
	}
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	m, err := viz.NewModel(registry, cfg)
	if err != nil {
		return err
	}
	m.SetFPS(frameRate)
	m.SetGIFPath(gifPath)

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return gui.Run(registry, nil)
	}
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	return gui.Run(registry, cfg)
}

func serveScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	hub, err := server.NewHub(registry, cfg, frameRate)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("serving %s on %s at %d fps\n", cfg.Scene, addr, frameRate)
	return server.New(hub, origins...).ListenAndServe(ctx, addr)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunScenario(ctx, scenario, registry, openStore())
	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tSCENE\tSTEPS\tKINETIC\tPENETRATION\tRUN ID")
		for _, r := range results {
			runID := r.RunID
			if runID == "" {
				runID = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\t%s\n",
				r.Name, r.Scene, r.Result.StepsTaken,
				r.Result.Metrics["kinetic_energy"], r.Result.Metrics["max_penetration"], runID)
		}
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return err
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("running %d perturbed %s trials (±%g m/s)...\n\n", trials, cfg.Scene, perturb)
	results, err := automation.RunMonteCarlo(ctx, registry, cfg, automation.MonteCarloConfig{
		Perturbation: perturb,
		Trials:       trials,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return err
	}

	peaks := make([]float64, len(results))
	for i, r := range results {
		peaks[i] = r.PeakEnergy
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("stable: %d\nunstable: %d\n", stable, unstable)
	if len(peaks) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(peaks,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("peak kinetic energy per trial"),
		))
	}
	return nil
}

// parseGrid reads name=from:to:n.
func parseGrid(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return "", nil, fmt.Errorf("grid %q: want name=from:to:n", spec)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("grid %q: want name=from:to:n", spec)
	}
	from, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", spec, err)
	}
	to, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("grid %q: bad count %q", spec, parts[2])
	}
	return name, analysis.Linspace(from, to, n), nil
}

func tune(cmd *cobra.Command, args []string) error {
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required (parameters: %s)", strings.Join(config.ParamNames(args[0]), ", "))
	}
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	names := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	for _, spec := range grid {
		name, values, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, stop := signalContext()
	defer stop()

	best, value, err := optim.NewGridSearch(names, ranges).Search(ctx, registry, cfg, metric)
	if err != nil {
		return err
	}
	if best == nil {
		fmt.Println("no combination ran cleanly")
		return nil
	}

	fmt.Printf("best %s: %.6f\n", metric, value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}
