package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "bridge" {
		t.Errorf("expected scene bridge, got %s", cfg.Scene)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Iterations != 0 {
		t.Error("default iterations should select the automatic budget")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"no contacts", func(c *Config) { c.MaxContacts = 0 }},
		{"negative iterations", func(c *Config) { c.Iterations = -2 }},
		{"damping above one", func(c *Config) { c.Damping = 1.5 }},
		{"empty scene", func(c *Config) { c.Scene = "" }},
		{"rod out of range", func(c *Config) {
			c.Custom.Particles = []ParticleSpec{{Mass: 1}}
			c.Custom.Rods = []LinkSpec{{A: 0, B: 1, Length: 1}}
		}},
		{"spring out of range", func(c *Config) {
			c.Custom.Springs = []SpringSpec{{A: 3, B: -1}}
		}},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestValidate_AnchoredSpring(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Custom.Particles = []ParticleSpec{{Mass: 1}}
	cfg.Custom.Springs = []SpringSpec{{A: 0, B: -1, K: 2}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("anchored spring rejected: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"scene.yaml", "scene.toml"} {
		path := filepath.Join(t.TempDir(), name)

		cfg := GetPreset("custom", "hammock")
		cfg.Seed = 42
		if err := Save(path, cfg); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if loaded.Scene != "custom" || loaded.Seed != 42 {
			t.Errorf("%s: got scene %q seed %d", name, loaded.Scene, loaded.Seed)
		}
		if len(loaded.Custom.Particles) != 5 || len(loaded.Custom.Cables) != 4 {
			t.Errorf("%s: custom scene lost parts: %+v", name, loaded.Custom)
		}
		if loaded.Custom.Particles[2].Position != [3]float64{2, 5, 0} {
			t.Errorf("%s: position = %v", name, loaded.Custom.Particles[2].Position)
		}
		if loaded.Custom.Boundary == nil || loaded.Custom.Boundary.Restitution != 0.2 {
			t.Errorf("%s: boundary = %+v", name, loaded.Custom.Boundary)
		}
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rope.toml")
	data := "scene = \"rope\"\n\n[rope]\nlinks = 7\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rope.Links != 7 {
		t.Errorf("links = %d, want 7", cfg.Rope.Links)
	}
	if cfg.Rope.LinkLength != DefaultConfig().Rope.LinkLength {
		t.Errorf("link length default lost: %g", cfg.Rope.LinkLength)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("dt default lost: %g", cfg.Dt)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bridge", "edge")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Bridge.BallX != 0 {
		t.Errorf("expected ball x 0, got %f", cfg.Bridge.BallX)
	}

	again := GetPreset("bridge", "edge")
	again.Bridge.BallX = 3
	if cfg.Bridge.BallX != 0 {
		t.Error("presets must not share state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("bridge", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "edge"); cfg != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("rope")
	if len(presets) != 3 || presets[0] != "long" {
		t.Errorf("unexpected rope presets %v", presets)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PARTSIM_DATA", "/tmp/runs")
	t.Setenv("PARTSIM_FPS", "bogus")

	env := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	if env.DataDir != "/tmp/runs" {
		t.Errorf("data dir = %s", env.DataDir)
	}
	if env.FPS != DefaultFPS {
		t.Errorf("fps = %d, want default", env.FPS)
	}
	if env.Addr != DefaultAddr {
		t.Errorf("addr = %s", env.Addr)
	}
	if len(env.Origins) != 0 {
		t.Errorf("origins = %v, want none", env.Origins)
	}
}

func TestLoadEnv_Origins(t *testing.T) {
	t.Setenv("PARTSIM_ORIGINS", "http://localhost:5173, ,https://example.org")

	env := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	want := []string{"http://localhost:5173", "https://example.org"}
	if !slices.Equal(env.Origins, want) {
		t.Errorf("origins = %v, want %v", env.Origins, want)
	}
}

func TestLoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PARTSIM_ADDR=:9999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PARTSIM_ADDR", "")
	os.Unsetenv("PARTSIM_ADDR")

	env := LoadEnv(path)
	if env.Addr != ":9999" {
		t.Errorf("addr = %s, want :9999", env.Addr)
	}
	os.Unsetenv("PARTSIM_ADDR")
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetParam("damping", 0.5); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if cfg.Damping != 0.5 {
		t.Errorf("damping = %g, want 0.5", cfg.Damping)
	}

	if err := cfg.SetParam("iterations", 7.9); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if cfg.Iterations != 7 {
		t.Errorf("iterations = %d, want 7", cfg.Iterations)
	}

	if err := cfg.SetParam("bridge.extra_mass", 3); err != nil || cfg.Bridge.ExtraMass != 3 {
		t.Errorf("bridge.extra_mass not set: %v", err)
	}

	if err := cfg.SetParam("nope", 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParam(t *testing.T) {
	cfg := DefaultConfig()
	v, err := cfg.Param("bridge.extra_mass")
	if err != nil || v != 10 {
		t.Errorf("Param(bridge.extra_mass) = %g, %v", v, err)
	}
	if _, err := cfg.Param("nope"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParamNames(t *testing.T) {
	names := ParamNames("")
	if len(names) == 0 {
		t.Fatal("no parameters")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}

	for _, name := range ParamNames("rope") {
		if strings.HasPrefix(name, "bridge.") {
			t.Errorf("rope parameters include %s", name)
		}
	}
	if !slices.Contains(ParamNames("rope"), "rope.kick") {
		t.Error("rope parameters missing rope.kick")
	}
	if !slices.Contains(ParamNames("rope"), "damping") {
		t.Error("rope parameters missing damping")
	}
}
