package config

import "sort"

// Presets maps scene name to named adjustments of DefaultConfig.
var Presets = map[string]map[string]func(*Config){
	"bridge": {
		"center": func(c *Config) {
			c.Bridge.BallX, c.Bridge.BallZ = 2.5, 0.5
		},
		"edge": func(c *Config) {
			c.Bridge.BallX, c.Bridge.BallZ = 0, 0
		},
		"heavy": func(c *Config) {
			c.Bridge.ExtraMass = 40
			c.Duration = 20
		},
	},
	"rope": {
		"short": func(c *Config) {
			c.Rope.Links = 4
		},
		"long": func(c *Config) {
			c.Rope.Links = 30
			c.Rope.LinkLength = 0.25
			c.Duration = 20
		},
		"whip": func(c *Config) {
			c.Rope.Kick = 15
			c.Rope.Drag = 0
		},
	},
	"swarm": {
		"sparse": func(c *Config) {
			c.Swarm.Count = 50
		},
		"dense": func(c *Config) {
			c.Swarm.Count = 1000
			c.MaxContacts = 2048
		},
		"calm": func(c *Config) {
			c.Swarm.MaxSpeed = 1
			c.Damping = 0.5
		},
	},
	"buoyancy": {
		"calm": func(c *Config) {
			c.Buoyancy.DropHeight = 2.5
		},
		"splash": func(c *Config) {
			c.Buoyancy.DropHeight = 10
			c.Buoyancy.SpringK = 5
		},
	},
	"custom": {
		"pendulum": func(c *Config) {
			c.Custom = CustomConfig{
				Particles: []ParticleSpec{
					{Position: [3]float64{2, 8, 0}, Mass: 1},
				},
				RodConstraints: []AnchorSpec{
					{Particle: 0, Anchor: [3]float64{0, 10, 0}, Length: 2.8284271247461903},
				},
			}
		},
		"hammock": func(c *Config) {
			c.Custom = CustomConfig{
				Particles: []ParticleSpec{
					{Position: [3]float64{0, 5, 0}},
					{Position: [3]float64{1, 5, 0}, Mass: 1},
					{Position: [3]float64{2, 5, 0}, Mass: 3},
					{Position: [3]float64{3, 5, 0}, Mass: 1},
					{Position: [3]float64{4, 5, 0}},
				},
				Cables: []LinkSpec{
					{A: 0, B: 1, Length: 1.1, Restitution: 0.3},
					{A: 1, B: 2, Length: 1.1, Restitution: 0.3},
					{A: 2, B: 3, Length: 1.1, Restitution: 0.3},
					{A: 3, B: 4, Length: 1.1, Restitution: 0.3},
				},
				Boundary: &BoundarySpec{Restitution: 0.2},
			}
		},
	},
}

// GetPreset returns a fresh config for the scene with the preset applied,
// or nil when either is unknown.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	apply, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scene = scene
	apply(cfg)
	return cfg
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
