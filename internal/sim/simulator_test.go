package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

func dropConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scene = "custom"
	cfg.Damping = 1
	cfg.Custom = config.CustomConfig{
		Particles: []config.ParticleSpec{
			{Position: [3]float64{0, 10, 0}, Mass: 1},
		},
	}
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config) *Simulator {
	t.Helper()
	sc, err := scene.NewRegistry().Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return New(sc)
}

func TestSimulatorRun(t *testing.T) {
	sim := newTestSim(t, dropConfig())

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	last := result.Frames[len(result.Frames)-1]
	if math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", last.Time)
	}

	// explicit Euler: y = 10 - g*dt^2 * n(n-1)/2
	expected := 10 - 9.81*0.01*45
	if math.Abs(last.Positions[0].Y-expected) > 1e-9 {
		t.Errorf("expected y %.4f, got %.4f", expected, last.Positions[0].Y)
	}
	if result.EnergyEnd <= result.EnergyStart {
		t.Error("falling particle should gain kinetic energy")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := newTestSim(t, dropConfig())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidStep) {
				t.Errorf("expected ErrInvalidStep, got %v", err)
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(s *scene.Scene, t float64) {
	m.count++
	m.sum += s.Particles[0].Position().Y
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

type countingObserver struct {
	frames int
	last   float64
}

func (o *countingObserver) OnFrame(f Frame) {
	o.frames++
	o.last = f.Time
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	sim := newTestSim(t, dropConfig())

	metric := &testMetric{}
	obs := &countingObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, RecordEvery: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if obs.frames != 10 {
		t.Errorf("expected 10 observed frames, got %d", obs.frames)
	}
	if math.Abs(obs.last-1.0) > 1e-9 {
		t.Errorf("last observed time %f", obs.last)
	}
	if len(result.Frames) != 3 {
		t.Errorf("expected 3 recorded frames, got %d", len(result.Frames))
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := newTestSim(t, dropConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Error("expected a partial result with no steps")
	}
}

func TestSimulatorValidateState(t *testing.T) {
	cfg := dropConfig()
	cfg.Custom.Particles[0].Velocity = [3]float64{math.Inf(1), 0, 0}
	sim := newTestSim(t, cfg)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}

	var fe *FrameError
	if !errors.As(result.Errors[0], &fe) || fe.Step != 0 {
		t.Errorf("expected FrameError at step 0, got %v", result.Errors[0])
	}
	if !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Error("FrameError should unwrap to ErrInvalidState")
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := newTestSim(t, dropConfig())

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 10}, func(f Frame) bool {
		calls++
		if len(f.Positions) != 1 {
			t.Errorf("frame has %d positions", len(f.Positions))
		}
		return calls < 3
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
	if math.Abs(sim.Scene().Time()-0.3) > 1e-9 {
		t.Errorf("scene time %f, want 0.3", sim.Scene().Time())
	}
}

func TestEnsemble(t *testing.T) {
	base := config.DefaultConfig()
	base.Scene = "swarm"
	base.Swarm.Count = 20

	ens := NewEnsemble(scene.NewRegistry(), func() []Metric { return []Metric{&testMetric{}} }, 3, 100)
	results, err := ens.Run(context.Background(), base, Config{Dt: 0.01, Duration: 0.5})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	first := results[0].Frames[0].Positions[0]
	if first == results[1].Frames[0].Positions[0] {
		t.Error("runs with different seeds started identically")
	}
	for i, r := range results {
		if r.Particles != 20 {
			t.Errorf("run %d: %d particles", i, r.Particles)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("run %d: metric missing", i)
		}
	}
	if base.Seed != 0 {
		t.Error("ensemble modified the base config")
	}
}

func TestEnsemble_BuildError(t *testing.T) {
	base := config.DefaultConfig()
	base.Scene = "volcano"

	ens := NewEnsemble(scene.NewRegistry(), nil, 2, 0)
	if _, err := ens.Run(context.Background(), base, Config{Dt: 0.01, Duration: 0.1}); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestFramePool(t *testing.T) {
	p := NewFramePool(8)

	buf := p.Get()
	if len(buf) != 0 || cap(buf) < 8 {
		t.Fatalf("Get() len %d cap %d", len(buf), cap(buf))
	}
	buf = append(buf, make([]vecmath.Vector3, 8)...)
	p.Put(buf)

	again := p.Get()
	if len(again) != 0 {
		t.Errorf("recycled buffer not emptied: len %d", len(again))
	}
}

func BenchmarkBridgeRun(b *testing.B) {
	cfg := config.DefaultConfig()
	for i := 0; i < b.N; i++ {
		sc, _ := scene.NewRegistry().Build(cfg)
		New(sc).Run(context.Background(), Config{Dt: cfg.Dt, Duration: 1, RecordEvery: 60})
	}
}
