package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

func singleParticle(t *testing.T) *scene.Scene {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scene = "custom"
	cfg.Custom = config.CustomConfig{
		Particles: []config.ParticleSpec{
			{Position: [3]float64{1, 1, 0}, Velocity: [3]float64{2, 0, 0}, Mass: 2},
		},
		Boundary: &config.BoundarySpec{},
	}
	s, err := scene.NewRegistry().Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestKineticEnergy(t *testing.T) {
	s := singleParticle(t)
	m := NewKineticEnergy()

	if m.Value() != 0 {
		t.Error("expected zero before observing")
	}

	m.Observe(s, 0)
	if math.Abs(m.Value()-4) > 1e-12 {
		t.Errorf("expected 4, got %f", m.Value())
	}

	s.Particles[0].SetVelocity(vecmath.Vector3{})
	m.Observe(s, 0.1)
	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("expected mean 2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPeakEnergy(t *testing.T) {
	s := singleParticle(t)
	m := NewPeakEnergy()

	m.Observe(s, 0)
	s.Particles[0].SetVelocity(vecmath.Vector3{})
	m.Observe(s, 0.1)
	if math.Abs(m.Value()-4) > 1e-12 {
		t.Errorf("expected peak 4, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	s := singleParticle(t)
	m := NewStability(1)

	if m.Value() != 1 {
		t.Error("expected 1 with no samples")
	}

	m.Observe(s, 0)
	s.Particles[0].SetPosition(vecmath.New(s.View.MaxX+5, 0, 0))
	m.Observe(s, 0.1)
	s.Particles[0].SetPosition(vecmath.New(math.NaN(), 0, 0))
	m.Observe(s, 0.2)
	s.Particles[0].SetPosition(vecmath.New(1, 1, 0))
	m.Observe(s, 0.3)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestContactMetrics(t *testing.T) {
	s := singleParticle(t)
	s.Particles[0].SetPosition(vecmath.New(1, -0.5, 0))
	s.Particles[0].SetVelocity(vecmath.New(0, -1, 0))

	load := NewContactLoad()
	sat := NewSaturation()
	pen := NewMaxPenetration()

	s.Step(0.01)
	load.Observe(s, s.Time())
	sat.Observe(s, s.Time())
	pen.Observe(s, s.Time())

	if load.Value() != 1 {
		t.Errorf("contact load = %f, want 1", load.Value())
	}
	if sat.Value() != 0 {
		t.Errorf("saturation = %f, want 0", sat.Value())
	}
	if pen.Value() < 0.5 {
		t.Errorf("max penetration = %f, want >= 0.5", pen.Value())
	}
}

func TestLinkError(t *testing.T) {
	cfg := config.GetPreset("custom", "pendulum")
	s, err := scene.NewRegistry().Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	m := NewLinkError()
	s.RodConstraints[0].Particle.SetPosition(vecmath.New(0, 7, 0))
	m.Observe(s, 0)
	if math.Abs(m.Value()-(3-s.RodConstraints[0].Length)) > 1e-12 {
		t.Errorf("link error = %f", m.Value())
	}
}

func TestRegistry(t *testing.T) {
	if len(Default()) != len(Names()) {
		t.Error("Default() should return one metric per name")
	}
	for _, name := range Names() {
		m, err := Get(name)
		if err != nil {
			t.Fatal(err)
		}
		if m.Name() != name {
			t.Errorf("metric %s reports name %s", name, m.Name())
		}
	}
	if _, err := Get("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
