package scene

import (
	"math/rand"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/forces"
	"github.com/san-kum/partsim/internal/vecmath"
	"github.com/san-kum/partsim/internal/world"
)

// Swarm scatters particles with random velocities inside a closed box.
// Placement is reproducible for a given seed.
func Swarm(cfg *config.Config) (*Scene, error) {
	sc := cfg.Swarm
	s, err := newScene("swarm", cfg, max(sc.Count, 0))
	if err != nil {
		return nil, err
	}
	s.View = Box{MaxX: sc.Width, MaxY: sc.Height}

	rng := rand.New(rand.NewSource(cfg.Seed))
	drag := forces.NewDrag(sc.Drag, sc.Drag)
	for i := range s.Particles {
		p := &s.Particles[i]
		p.SetPosition(vecmath.New(rng.Float64()*sc.Width, rng.Float64()*sc.Height, 0))
		p.SetVelocity(vecmath.New(
			(rng.Float64()*2-1)*sc.MaxSpeed,
			(rng.Float64()*2-1)*sc.MaxSpeed,
			0,
		))
		p.SetAcceleration(gravity(cfg))
		if sc.Drag > 0 {
			s.World.Registry().Add(p, drag)
		}
	}

	s.Boundary = world.NewBox(s.World, sc.Width, sc.Height)
	s.World.AddContactGenerator(s.Boundary)
	return s, nil
}
