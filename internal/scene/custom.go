package scene

import (
	"math"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/forces"
	"github.com/san-kum/partsim/internal/links"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
	"github.com/san-kum/partsim/internal/world"
)

// Custom builds a scene straight from the lists in cfg.Custom. Particles
// with a non-positive mass are immovable and feel no gravity.
func Custom(cfg *config.Config) (*Scene, error) {
	cc := cfg.Custom
	s, err := newScene("custom", cfg, len(cc.Particles))
	if err != nil {
		return nil, err
	}

	reg := s.World.Registry()
	var drag *forces.Drag
	if cc.Drag != nil {
		drag = forces.NewDrag(cc.Drag.K1, cc.Drag.K2)
	}
	var liquid *forces.Buoyancy
	if cc.Liquid != nil {
		liquid = forces.NewBuoyancy(cc.Liquid.MaxDepth, cc.Liquid.Volume, cc.Liquid.Height)
		if cc.Liquid.Density > 0 {
			liquid.LiquidDensity = cc.Liquid.Density
		}
	}

	for i, spec := range cc.Particles {
		p := &s.Particles[i]
		p.SetPosition(vec(spec.Position))
		p.SetVelocity(vec(spec.Velocity))
		if spec.Mass <= 0 {
			p.SetInverseMass(0)
			continue
		}
		p.SetMass(spec.Mass)
		p.SetAcceleration(gravity(cfg))
		if drag != nil {
			reg.Add(p, drag)
		}
		if liquid != nil {
			reg.Add(p, liquid)
		}
	}

	s.Cables = make([]links.Cable, len(cc.Cables))
	for i, l := range cc.Cables {
		s.Cables[i] = links.Cable{
			Particles:   s.pair(l.A, l.B),
			MaxLength:   l.Length,
			Restitution: l.Restitution,
		}
		s.World.AddContactGenerator(&s.Cables[i])
	}
	s.Rods = make([]links.Rod, len(cc.Rods))
	for i, l := range cc.Rods {
		s.Rods[i] = links.Rod{Particles: s.pair(l.A, l.B), Length: l.Length}
		s.World.AddContactGenerator(&s.Rods[i])
	}
	s.CableConstraints = make([]links.CableConstraint, len(cc.CableConstraints))
	for i, a := range cc.CableConstraints {
		s.CableConstraints[i] = links.CableConstraint{
			Particle:    &s.Particles[a.Particle],
			Anchor:      vec(a.Anchor),
			MaxLength:   a.Length,
			Restitution: a.Restitution,
		}
		s.World.AddContactGenerator(&s.CableConstraints[i])
	}
	s.RodConstraints = make([]links.RodConstraint, len(cc.RodConstraints))
	for i, a := range cc.RodConstraints {
		s.RodConstraints[i] = links.RodConstraint{
			Particle: &s.Particles[a.Particle],
			Anchor:   vec(a.Anchor),
			Length:   a.Length,
		}
		s.World.AddContactGenerator(&s.RodConstraints[i])
	}

	for _, sp := range cc.Springs {
		p := &s.Particles[sp.A]
		if sp.B < 0 {
			reg.Add(p, forces.NewAnchoredSpring(vec(sp.Anchor), sp.K, sp.RestLength))
			continue
		}
		reg.Add(p, forces.NewSpring(&s.Particles[sp.B], sp.K, sp.RestLength))
	}
	for _, sp := range cc.Bungees {
		p := &s.Particles[sp.A]
		if sp.B < 0 {
			reg.Add(p, forces.NewAnchoredBungee(vec(sp.Anchor), sp.K, sp.RestLength))
			continue
		}
		reg.Add(p, forces.NewBungee(&s.Particles[sp.B], sp.K, sp.RestLength))
	}

	if b := cc.Boundary; b != nil {
		s.Boundary = world.NewBox(s.World, b.MaxX, b.MaxY)
		if b.Restitution > 0 {
			s.Boundary.Restitution = b.Restitution
		}
		s.World.AddContactGenerator(s.Boundary)
	}

	s.View = fitView(s)
	return s, nil
}

func (s *Scene) pair(a, b int) [2]*particle.Particle {
	return [2]*particle.Particle{&s.Particles[a], &s.Particles[b]}
}

func vec(v [3]float64) vecmath.Vector3 {
	return vecmath.New(v[0], v[1], v[2])
}

// fitView frames the particles and anchors with a margin, always
// including the origin.
func fitView(s *Scene) Box {
	box := Box{}
	grow := func(v vecmath.Vector3) {
		box.MinX = math.Min(box.MinX, v.X)
		box.MinY = math.Min(box.MinY, v.Y)
		box.MaxX = math.Max(box.MaxX, v.X)
		box.MaxY = math.Max(box.MaxY, v.Y)
	}
	for i := range s.Particles {
		grow(s.Particles[i].Position())
	}
	for _, l := range s.Links() {
		a, b := l.Ends()
		grow(a)
		grow(b)
	}
	if s.Boundary != nil {
		grow(vecmath.New(s.Boundary.MaxX, s.Boundary.MaxY, 0))
	}

	const margin = 2
	box.MinX -= margin
	box.MinY -= margin
	box.MaxX += margin
	box.MaxY += margin
	return box
}
