package scene

import (
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/forces"
	"github.com/san-kum/partsim/internal/links"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

const ropeAnchorX = 10

// Rope hangs a chain of cables from a rod fixed to an anchor. The free end
// is given a sideways kick so the rope swings.
func Rope(cfg *config.Config) (*Scene, error) {
	rc := cfg.Rope
	n := max(rc.Links, 1)

	s, err := newScene("rope", cfg, n)
	if err != nil {
		return nil, err
	}
	span := float64(n) * rc.LinkLength
	s.View = Box{MinX: ropeAnchorX - span - 1, MinY: rc.AnchorY - span - 1, MaxX: ropeAnchorX + span + 1, MaxY: rc.AnchorY + 1}

	anchor := vecmath.New(ropeAnchorX, rc.AnchorY, 0)
	grav := forces.NewGravity(gravity(cfg))
	drag := forces.NewDrag(rc.Drag, rc.Drag)
	reg := s.World.Registry()

	for i := range s.Particles {
		p := &s.Particles[i]
		p.SetPosition(vecmath.New(ropeAnchorX, rc.AnchorY-float64(i+1)*rc.LinkLength, 0))
		reg.Add(p, grav)
		if rc.Drag > 0 {
			reg.Add(p, drag)
		}
	}
	s.Particles[n-1].SetVelocity(vecmath.New(rc.Kick, 0, 0))

	s.RodConstraints = []links.RodConstraint{
		{Particle: &s.Particles[0], Anchor: anchor, Length: rc.LinkLength},
	}
	s.World.AddContactGenerator(&s.RodConstraints[0])

	s.Cables = make([]links.Cable, n-1)
	for i := range s.Cables {
		s.Cables[i] = links.Cable{
			Particles:   [2]*particle.Particle{&s.Particles[i], &s.Particles[i+1]},
			MaxLength:   rc.LinkLength,
			Restitution: rc.Restitution,
		}
		s.World.AddContactGenerator(&s.Cables[i])
	}
	return s, nil
}
