package scene

import (
	"math"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/links"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
	"github.com/san-kum/partsim/internal/world"
)

const (
	bridgeParticles = 12
	bridgeCables    = 10
	bridgeSupports  = 12
	bridgeRods      = 6
)

// Bridge builds a deck of six rod pairs joined by cables and hung from
// twelve supports. A load spreads extra mass over the deck particles
// nearest to it.
func Bridge(cfg *config.Config) (*Scene, error) {
	s, err := newScene("bridge", cfg, bridgeParticles)
	if err != nil {
		return nil, err
	}
	s.View = Box{MinX: 0, MinY: 0, MaxX: 13, MaxY: 8}

	for i := range s.Particles {
		p := &s.Particles[i]
		p.SetPosition(vecmath.New(float64(i/2)*2+1, 4, float64(i%2)*2-1))
		p.SetAcceleration(gravity(cfg))
	}

	s.Cables = make([]links.Cable, bridgeCables)
	for i := range s.Cables {
		s.Cables[i] = links.Cable{
			Particles:   [2]*particle.Particle{&s.Particles[i], &s.Particles[i+2]},
			MaxLength:   1.9,
			Restitution: 0.3,
		}
		s.World.AddContactGenerator(&s.Cables[i])
	}

	s.CableConstraints = make([]links.CableConstraint, bridgeSupports)
	for i := range s.CableConstraints {
		maxLength := 5.5 - float64(i/2)*0.5
		if i < 6 {
			maxLength = float64(i/2)*0.5 + 3
		}
		s.CableConstraints[i] = links.CableConstraint{
			Particle:    &s.Particles[i],
			Anchor:      vecmath.New(float64(i/2)*2.2+0.5, 6, float64(i%2)*1.6-0.8),
			MaxLength:   maxLength,
			Restitution: 0.5,
		}
		s.World.AddContactGenerator(&s.CableConstraints[i])
	}

	s.Rods = make([]links.Rod, bridgeRods)
	for i := range s.Rods {
		s.Rods[i] = links.Rod{
			Particles: [2]*particle.Particle{&s.Particles[i*2], &s.Particles[i*2+1]},
			Length:    2,
		}
		s.World.AddContactGenerator(&s.Rods[i])
	}

	s.Boundary = world.NewBoundary(s.World)
	s.World.AddContactGenerator(s.Boundary)

	s.load = &bridgeLoad{
		x:         cfg.Bridge.BallX,
		z:         cfg.Bridge.BallZ,
		baseMass:  cfg.Bridge.BaseMass,
		extraMass: cfg.Bridge.ExtraMass,
	}
	s.load.apply(s.Particles)
	return s, nil
}

type bridgeLoad struct {
	x, z                float64
	baseMass, extraMass float64
	display             vecmath.Vector3
}

// apply resets the deck to its base mass and adds the load's mass to the
// particles around it, split bilinearly.
func (l *bridgeLoad) apply(ps []particle.Particle) {
	for i := 0; i < bridgeParticles; i++ {
		ps[i].SetMass(l.baseMass)
	}

	x, xp := gridCell(l.x, 5)
	z, zp := gridCell(l.z, 1)

	l.display.Clear()
	share := func(i int, w float64) {
		ps[i].SetMass(l.baseMass + l.extraMass*w)
		l.display.AddScaled(ps[i].Position(), w)
	}

	share(x*2+z, (1-xp)*(1-zp))
	if xp > 0 {
		share(x*2+z+2, xp*(1-zp))
		if zp > 0 {
			share(x*2+z+3, xp*zp)
		}
	}
	if zp > 0 {
		share(x*2+z+1, (1-xp)*zp)
	}
}

// gridCell splits v into a cell index in [0,last] and the fraction past it.
// Values outside the grid snap to the nearest edge.
func gridCell(v float64, last int) (int, float64) {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0, 0
	case v >= float64(last):
		return last, 0
	}
	i := int(v)
	return i, v - float64(i)
}
