package config

import (
	"fmt"
	"sort"
	"strings"
)

type param struct {
	get func(*Config) float64
	set func(*Config, float64)
}

var params = map[string]param{
	"dt": {
		func(c *Config) float64 { return c.Dt },
		func(c *Config, v float64) { c.Dt = v },
	},
	"duration": {
		func(c *Config) float64 { return c.Duration },
		func(c *Config, v float64) { c.Duration = v },
	},
	"damping": {
		func(c *Config) float64 { return c.Damping },
		func(c *Config, v float64) { c.Damping = v },
	},
	"gravity": {
		func(c *Config) float64 { return c.Gravity },
		func(c *Config, v float64) { c.Gravity = v },
	},
	"iterations": {
		func(c *Config) float64 { return float64(c.Iterations) },
		func(c *Config, v float64) { c.Iterations = int(v) },
	},
	"max_contacts": {
		func(c *Config) float64 { return float64(c.MaxContacts) },
		func(c *Config, v float64) { c.MaxContacts = int(v) },
	},
	"bridge.ball_x": {
		func(c *Config) float64 { return c.Bridge.BallX },
		func(c *Config, v float64) { c.Bridge.BallX = v },
	},
	"bridge.ball_z": {
		func(c *Config) float64 { return c.Bridge.BallZ },
		func(c *Config, v float64) { c.Bridge.BallZ = v },
	},
	"bridge.extra_mass": {
		func(c *Config) float64 { return c.Bridge.ExtraMass },
		func(c *Config, v float64) { c.Bridge.ExtraMass = v },
	},
	"rope.restitution": {
		func(c *Config) float64 { return c.Rope.Restitution },
		func(c *Config, v float64) { c.Rope.Restitution = v },
	},
	"rope.kick": {
		func(c *Config) float64 { return c.Rope.Kick },
		func(c *Config, v float64) { c.Rope.Kick = v },
	},
	"swarm.max_speed": {
		func(c *Config) float64 { return c.Swarm.MaxSpeed },
		func(c *Config, v float64) { c.Swarm.MaxSpeed = v },
	},
	"buoyancy.volume": {
		func(c *Config) float64 { return c.Buoyancy.Volume },
		func(c *Config, v float64) { c.Buoyancy.Volume = v },
	},
	"buoyancy.mass": {
		func(c *Config) float64 { return c.Buoyancy.Mass },
		func(c *Config, v float64) { c.Buoyancy.Mass = v },
	},
}

// SetParam sets a numeric field by its config key, e.g. "damping" or
// "bridge.extra_mass". Integer fields are truncated.
func (c *Config) SetParam(name string, v float64) error {
	p, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	p.set(c, v)
	return nil
}

func (c *Config) Param(name string) (float64, error) {
	p, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	return p.get(c), nil
}

// ParamNames lists the keys accepted by SetParam. A non-empty scene
// restricts the list to the global keys and that scene's own.
func ParamNames(scene string) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		if prefix, _, scoped := strings.Cut(name, "."); scene == "" || !scoped || prefix == scene {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
