package scene

import (
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/forces"
	"github.com/san-kum/partsim/internal/vecmath"
	"github.com/san-kum/partsim/internal/world"
)

const floatSpacing = 1.5

// Buoyancy drops a string of floats, joined by springs, onto a liquid
// surface. Drag stands in for the liquid's viscosity.
func Buoyancy(cfg *config.Config) (*Scene, error) {
	bc := cfg.Buoyancy
	n := max(bc.Count, 1)

	s, err := newScene("buoyancy", cfg, n)
	if err != nil {
		return nil, err
	}
	s.View = Box{MaxX: float64(n+1) * floatSpacing, MaxY: bc.LiquidHeight + bc.DropHeight + 2}

	reg := s.World.Registry()
	grav := forces.NewGravity(gravity(cfg))
	liquid := forces.NewBuoyancy(bc.MaxDepth, bc.Volume, bc.LiquidHeight)
	drag := forces.NewDrag(bc.Drag, 0)

	for i := range s.Particles {
		p := &s.Particles[i]
		p.SetPosition(vecmath.New(float64(i+1)*floatSpacing, bc.LiquidHeight+bc.DropHeight, 0))
		p.SetMass(bc.Mass)
		reg.Add(p, grav)
		reg.Add(p, liquid)
		if bc.Drag > 0 {
			reg.Add(p, drag)
		}
	}
	for i := 0; i+1 < n; i++ {
		a, b := &s.Particles[i], &s.Particles[i+1]
		reg.Add(a, forces.NewSpring(b, bc.SpringK, floatSpacing))
		reg.Add(b, forces.NewSpring(a, bc.SpringK, floatSpacing))
	}

	s.Boundary = world.NewBoundary(s.World)
	s.World.AddContactGenerator(s.Boundary)
	return s, nil
}
