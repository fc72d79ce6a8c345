package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultMaxContacts = 256
	DefaultDamping     = 0.9
	DefaultGravity     = -9.81
)

// Config describes one scene run. Iterations == 0 lets the world pick its
// own resolver budget each frame.
type Config struct {
	Scene       string  `yaml:"scene" toml:"scene"`
	Dt          float64 `yaml:"dt" toml:"dt"`
	Duration    float64 `yaml:"duration" toml:"duration"`
	Seed        int64   `yaml:"seed" toml:"seed"`
	MaxContacts int     `yaml:"max_contacts" toml:"max_contacts"`
	Iterations  int     `yaml:"iterations" toml:"iterations"`
	Damping     float64 `yaml:"damping" toml:"damping"`
	Gravity     float64 `yaml:"gravity" toml:"gravity"`

	Bridge   BridgeConfig   `yaml:"bridge" toml:"bridge"`
	Rope     RopeConfig     `yaml:"rope" toml:"rope"`
	Swarm    SwarmConfig    `yaml:"swarm" toml:"swarm"`
	Buoyancy BuoyancyConfig `yaml:"buoyancy" toml:"buoyancy"`
	Custom   CustomConfig   `yaml:"custom" toml:"custom"`
}

type BridgeConfig struct {
	BallX     float64 `yaml:"ball_x" toml:"ball_x"`
	BallZ     float64 `yaml:"ball_z" toml:"ball_z"`
	BaseMass  float64 `yaml:"base_mass" toml:"base_mass"`
	ExtraMass float64 `yaml:"extra_mass" toml:"extra_mass"`
}

type RopeConfig struct {
	Links       int     `yaml:"links" toml:"links"`
	LinkLength  float64 `yaml:"link_length" toml:"link_length"`
	AnchorY     float64 `yaml:"anchor_y" toml:"anchor_y"`
	Restitution float64 `yaml:"restitution" toml:"restitution"`
	Drag        float64 `yaml:"drag" toml:"drag"`
	Kick        float64 `yaml:"kick" toml:"kick"`
}

type SwarmConfig struct {
	Count    int     `yaml:"count" toml:"count"`
	Width    float64 `yaml:"width" toml:"width"`
	Height   float64 `yaml:"height" toml:"height"`
	MaxSpeed float64 `yaml:"max_speed" toml:"max_speed"`
	Drag     float64 `yaml:"drag" toml:"drag"`
}

type BuoyancyConfig struct {
	Count        int     `yaml:"count" toml:"count"`
	LiquidHeight float64 `yaml:"liquid_height" toml:"liquid_height"`
	MaxDepth     float64 `yaml:"max_depth" toml:"max_depth"`
	Volume       float64 `yaml:"volume" toml:"volume"`
	Mass         float64 `yaml:"mass" toml:"mass"`
	SpringK      float64 `yaml:"spring_k" toml:"spring_k"`
	DropHeight   float64 `yaml:"drop_height" toml:"drop_height"`
	Drag         float64 `yaml:"drag" toml:"drag"`
}

// CustomConfig lists every piece of a scene explicitly. Links refer to
// particles by index.
type CustomConfig struct {
	Particles        []ParticleSpec `yaml:"particles" toml:"particles"`
	Cables           []LinkSpec     `yaml:"cables" toml:"cables"`
	Rods             []LinkSpec     `yaml:"rods" toml:"rods"`
	CableConstraints []AnchorSpec   `yaml:"cable_constraints" toml:"cable_constraints"`
	RodConstraints   []AnchorSpec   `yaml:"rod_constraints" toml:"rod_constraints"`
	Springs          []SpringSpec   `yaml:"springs" toml:"springs"`
	Bungees          []SpringSpec   `yaml:"bungees" toml:"bungees"`
	Drag             *DragSpec      `yaml:"drag,omitempty" toml:"drag,omitempty"`
	Liquid           *LiquidSpec    `yaml:"liquid,omitempty" toml:"liquid,omitempty"`
	Boundary         *BoundarySpec  `yaml:"boundary,omitempty" toml:"boundary,omitempty"`
}

// ParticleSpec describes one particle. A mass <= 0 makes it immovable.
type ParticleSpec struct {
	Position [3]float64 `yaml:"position" toml:"position"`
	Velocity [3]float64 `yaml:"velocity" toml:"velocity"`
	Mass     float64    `yaml:"mass" toml:"mass"`
}

type LinkSpec struct {
	A           int     `yaml:"a" toml:"a"`
	B           int     `yaml:"b" toml:"b"`
	Length      float64 `yaml:"length" toml:"length"`
	Restitution float64 `yaml:"restitution" toml:"restitution"`
}

type AnchorSpec struct {
	Particle    int        `yaml:"particle" toml:"particle"`
	Anchor      [3]float64 `yaml:"anchor" toml:"anchor"`
	Length      float64    `yaml:"length" toml:"length"`
	Restitution float64    `yaml:"restitution" toml:"restitution"`
}

// SpringSpec joins particle A to particle B, or to Anchor when B < 0.
type SpringSpec struct {
	A          int        `yaml:"a" toml:"a"`
	B          int        `yaml:"b" toml:"b"`
	Anchor     [3]float64 `yaml:"anchor" toml:"anchor"`
	K          float64    `yaml:"k" toml:"k"`
	RestLength float64    `yaml:"rest_length" toml:"rest_length"`
}

type DragSpec struct {
	K1 float64 `yaml:"k1" toml:"k1"`
	K2 float64 `yaml:"k2" toml:"k2"`
}

type LiquidSpec struct {
	Height   float64 `yaml:"height" toml:"height"`
	MaxDepth float64 `yaml:"max_depth" toml:"max_depth"`
	Volume   float64 `yaml:"volume" toml:"volume"`
	Density  float64 `yaml:"density" toml:"density"`
}

type BoundarySpec struct {
	MaxX        float64 `yaml:"max_x" toml:"max_x"`
	MaxY        float64 `yaml:"max_y" toml:"max_y"`
	Restitution float64 `yaml:"restitution" toml:"restitution"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:       "bridge",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		MaxContacts: DefaultMaxContacts,
		Damping:     DefaultDamping,
		Gravity:     DefaultGravity,
		Bridge: BridgeConfig{
			BallX:     2.5,
			BallZ:     0.5,
			BaseMass:  1,
			ExtraMass: 10,
		},
		Rope: RopeConfig{
			Links:       10,
			LinkLength:  0.5,
			AnchorY:     8,
			Restitution: 0.3,
			Drag:        0.05,
			Kick:        3,
		},
		Swarm: SwarmConfig{
			Count:    200,
			Width:    40,
			Height:   40,
			MaxSpeed: 10,
			Drag:     0.01,
		},
		Buoyancy: BuoyancyConfig{
			Count:        5,
			LiquidHeight: 2,
			MaxDepth:     1,
			Volume:       0.1,
			Mass:         5,
			SpringK:      20,
			DropHeight:   5,
			Drag:         2,
		},
	}
}

// Load reads a YAML or TOML file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	switch {
	case c.Scene == "":
		return fmt.Errorf("%w: scene is empty", ErrInvalidConfig)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	case c.MaxContacts <= 0:
		return fmt.Errorf("%w: max_contacts must be positive, got %d", ErrInvalidConfig, c.MaxContacts)
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidConfig, c.Iterations)
	case c.Damping < 0 || c.Damping > 1:
		return fmt.Errorf("%w: damping must be in [0,1], got %g", ErrInvalidConfig, c.Damping)
	}
	return c.Custom.validate()
}

func (c *CustomConfig) validate() error {
	n := len(c.Particles)
	check := func(kind string, i, idx int) error {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: %s %d refers to particle %d of %d", ErrInvalidConfig, kind, i, idx, n)
		}
		return nil
	}
	for i, l := range c.Cables {
		if err := check("cable", i, l.A); err != nil {
			return err
		}
		if err := check("cable", i, l.B); err != nil {
			return err
		}
	}
	for i, l := range c.Rods {
		if err := check("rod", i, l.A); err != nil {
			return err
		}
		if err := check("rod", i, l.B); err != nil {
			return err
		}
	}
	for i, a := range c.CableConstraints {
		if err := check("cable constraint", i, a.Particle); err != nil {
			return err
		}
	}
	for i, a := range c.RodConstraints {
		if err := check("rod constraint", i, a.Particle); err != nil {
			return err
		}
	}
	for _, group := range []struct {
		kind  string
		specs []SpringSpec
	}{{"spring", c.Springs}, {"bungee", c.Bungees}} {
		for i, s := range group.specs {
			if err := check(group.kind, i, s.A); err != nil {
				return err
			}
			if s.B >= 0 {
				if err := check(group.kind, i, s.B); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
