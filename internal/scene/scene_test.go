package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/vecmath"
)

func build(t *testing.T, cfg *config.Config) *Scene {
	t.Helper()
	s, err := NewRegistry().Build(cfg)
	if err != nil {
		t.Fatalf("build %s: %v", cfg.Scene, err)
	}
	return s
}

func sceneConfig(name string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scene = name
	return cfg
}

func TestRegistry_List(t *testing.T) {
	want := []string{"bridge", "buoyancy", "custom", "rope", "swarm"}
	got := NewRegistry().List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Build(sceneConfig("volcano")); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}

	cfg := sceneConfig("bridge")
	cfg.Dt = 0
	if _, err := r.Build(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAllScenesRun(t *testing.T) {
	for _, name := range NewRegistry().List() {
		cfg := config.GetPreset(name, config.ListPresets(name)[0])
		s := build(t, cfg)
		if len(s.Particles) == 0 {
			t.Errorf("%s: no particles", name)
			continue
		}
		if s.View.Width() <= 0 || s.View.Height() <= 0 {
			t.Errorf("%s: empty view %+v", name, s.View)
		}
		for i := 0; i < 300; i++ {
			s.Step(cfg.Dt)
		}
		if !s.IsFinite() {
			t.Errorf("%s: state went non-finite", name)
		}
		if math.Abs(s.Time()-300*cfg.Dt) > 1e-9 {
			t.Errorf("%s: time = %f", name, s.Time())
		}
	}
}

func TestBridge_Layout(t *testing.T) {
	s := build(t, sceneConfig("bridge"))

	if len(s.Particles) != 12 || len(s.Cables) != 10 || len(s.CableConstraints) != 12 || len(s.Rods) != 6 {
		t.Fatalf("unexpected layout: %d particles %d cables %d supports %d rods",
			len(s.Particles), len(s.Cables), len(s.CableConstraints), len(s.Rods))
	}
	if got := len(s.Links()); got != 28 {
		t.Errorf("Links() = %d, want 28", got)
	}
	// 28 links plus the ground.
	if got := len(s.World.ContactGenerators()); got != 29 {
		t.Errorf("contact generators = %d, want 29", got)
	}
	for i := range s.Particles {
		if s.Particles[i].Position().X <= 0 {
			t.Errorf("particle %d starts left of the boundary", i)
		}
	}
}

func TestBridge_Load(t *testing.T) {
	s := build(t, sceneConfig("bridge"))

	total := 0.0
	for i := range s.Particles {
		total += s.Particles[i].Mass()
	}
	if math.Abs(total-22) > 1e-9 {
		t.Errorf("total mass = %f, want 22", total)
	}
	for _, i := range []int{4, 5, 6, 7} {
		if m := s.Particles[i].Mass(); math.Abs(m-3.5) > 1e-9 {
			t.Errorf("particle %d mass = %f, want 3.5", i, m)
		}
	}

	ball, ok := s.BallPosition()
	if !ok {
		t.Fatal("bridge should carry a load")
	}
	want := vecmath.New(6, 4, 0)
	if vecmath.Distance(ball, want) > 1e-9 {
		t.Errorf("ball at %v, want %v", ball, want)
	}

	if err := s.SetBallPosition(-3, 7); err != nil {
		t.Fatal(err)
	}
	if m := s.Particles[1].Mass(); math.Abs(m-11) > 1e-9 {
		t.Errorf("clamped load: particle 1 mass = %f, want 11", m)
	}
	if m := s.Particles[4].Mass(); m != 1 {
		t.Errorf("old load not cleared: particle 4 mass = %f", m)
	}
	if x, z, ok := s.BallGrid(); !ok || x != -3 || z != 7 {
		t.Errorf("BallGrid() = %g, %g, %v", x, z, ok)
	}
}

func TestSetBallPosition_NoLoad(t *testing.T) {
	s := build(t, sceneConfig("rope"))
	if s.HasLoad() {
		t.Error("rope has no load")
	}
	if err := s.SetBallPosition(1, 0); !errors.Is(err, ErrNoLoad) {
		t.Errorf("expected ErrNoLoad, got %v", err)
	}
	if _, ok := s.BallPosition(); ok {
		t.Error("rope reported a ball position")
	}
	if _, _, ok := s.BallGrid(); ok {
		t.Error("rope reported a ball grid position")
	}
}

func TestGridCell(t *testing.T) {
	tests := []struct {
		v    float64
		last int
		i    int
		frac float64
	}{
		{2.25, 5, 2, 0.25},
		{0, 5, 0, 0},
		{-1, 5, 0, 0},
		{5, 5, 5, 0},
		{9, 5, 5, 0},
		{0.5, 1, 0, 0.5},
		{math.NaN(), 1, 0, 0},
	}
	for _, tt := range tests {
		i, frac := gridCell(tt.v, tt.last)
		if i != tt.i || math.Abs(frac-tt.frac) > 1e-12 {
			t.Errorf("gridCell(%v, %d) = %d, %v; want %d, %v", tt.v, tt.last, i, frac, tt.i, tt.frac)
		}
	}
}

func TestRope_Hangs(t *testing.T) {
	cfg := sceneConfig("rope")
	s := build(t, cfg)

	if len(s.Cables) != cfg.Rope.Links-1 || len(s.RodConstraints) != 1 {
		t.Fatalf("unexpected layout: %d cables %d rods", len(s.Cables), len(s.RodConstraints))
	}

	for i := 0; i < 600; i++ {
		s.Step(cfg.Dt)
	}

	anchorY := cfg.Rope.AnchorY
	span := float64(cfg.Rope.Links) * cfg.Rope.LinkLength
	for i := range s.Particles {
		pos := s.Particles[i].Position()
		if pos.Y > anchorY+0.5 || pos.Y < anchorY-span-0.5 {
			t.Errorf("particle %d escaped the rope's reach: %v", i, pos)
		}
	}
}

func TestSwarm_Seeded(t *testing.T) {
	cfg := sceneConfig("swarm")
	cfg.Seed = 7
	a := build(t, cfg)
	b := build(t, cfg)
	cfg.Seed = 8
	c := build(t, cfg)

	if len(a.Particles) != cfg.Swarm.Count {
		t.Fatalf("particles = %d, want %d", len(a.Particles), cfg.Swarm.Count)
	}

	same, differs := true, false
	for i := range a.Particles {
		if a.Particles[i].Position() != b.Particles[i].Position() {
			same = false
		}
		if a.Particles[i].Position() != c.Particles[i].Position() {
			differs = true
		}
	}
	if !same {
		t.Error("same seed produced different swarms")
	}
	if !differs {
		t.Error("different seeds produced identical swarms")
	}
}

func TestBuoyancy_Floats(t *testing.T) {
	cfg := sceneConfig("buoyancy")
	s := build(t, cfg)

	for i := 0; i < int(40/cfg.Dt); i++ {
		s.Step(cfg.Dt)
	}

	bc := cfg.Buoyancy
	full := bc.Volume * 1000
	weight := bc.Mass * -cfg.Gravity
	want := bc.LiquidHeight + bc.MaxDepth - 2*bc.MaxDepth*weight/full
	for i := range s.Particles {
		if y := s.Particles[i].Position().Y; math.Abs(y-want) > 0.15 {
			t.Errorf("float %d at y=%f, want about %f", i, y, want)
		}
	}
}

func TestCustom_Hammock(t *testing.T) {
	cfg := config.GetPreset("custom", "hammock")
	s := build(t, cfg)

	if s.Boundary == nil || s.Boundary.Restitution != 0.2 {
		t.Fatalf("boundary not built: %+v", s.Boundary)
	}
	if s.Particles[0].HasFiniteMass() || s.Particles[4].HasFiniteMass() {
		t.Error("end posts should be immovable")
	}

	for i := 0; i < 300; i++ {
		s.Step(cfg.Dt)
	}

	if s.Particles[0].Position() != vecmath.New(0, 5, 0) {
		t.Errorf("post moved to %v", s.Particles[0].Position())
	}
	if s.Particles[2].Position().Y >= 5 {
		t.Errorf("hammock did not sag: %v", s.Particles[2].Position())
	}
}

func TestCustom_Pendulum(t *testing.T) {
	cfg := config.GetPreset("custom", "pendulum")
	s := build(t, cfg)

	for i := 0; i < 600; i++ {
		s.Step(cfg.Dt)
		if e := s.MaxRodError(); e > 1e-9 {
			t.Fatalf("frame %d: rod error %g", i, e)
		}
	}
}
