package links

import (
	"github.com/san-kum/partsim/internal/contact"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

// Link is any connection that can be drawn as a segment.
type Link interface {
	contact.Generator
	Ends() (a, b vecmath.Vector3)
	CurrentLength() float64
}

var (
	_ Link = (*Cable)(nil)
	_ Link = (*Rod)(nil)
	_ Link = (*CableConstraint)(nil)
	_ Link = (*RodConstraint)(nil)
)

// Cable joins two particles and only resists stretching past MaxLength.
type Cable struct {
	Particles   [2]*particle.Particle
	MaxLength   float64
	Restitution float64
}

func NewCable(a, b *particle.Particle, maxLength, restitution float64) *Cable {
	return &Cable{Particles: [2]*particle.Particle{a, b}, MaxLength: maxLength, Restitution: restitution}
}

func (c *Cable) Ends() (vecmath.Vector3, vecmath.Vector3) {
	return c.Particles[0].Position(), c.Particles[1].Position()
}

func (c *Cable) CurrentLength() float64 {
	return vecmath.Distance(c.Particles[0].Position(), c.Particles[1].Position())
}

func (c *Cable) AddContact(contacts []contact.Contact, limit int) int {
	if contact.Capacity(contacts, limit) < 1 {
		return 0
	}
	length := c.CurrentLength()
	if length < c.MaxLength || length == 0 {
		return 0
	}

	contacts[0] = contact.Contact{
		Particles:   c.Particles,
		Normal:      c.Particles[1].Position().Sub(c.Particles[0].Position()).Normalize(),
		Penetration: length - c.MaxLength,
		Restitution: c.Restitution,
	}
	return 1
}

// Rod keeps two particles at exactly Length apart, in both directions.
// Rod contacts never bounce.
type Rod struct {
	Particles [2]*particle.Particle
	Length    float64
}

func NewRod(a, b *particle.Particle, length float64) *Rod {
	return &Rod{Particles: [2]*particle.Particle{a, b}, Length: length}
}

func (r *Rod) Ends() (vecmath.Vector3, vecmath.Vector3) {
	return r.Particles[0].Position(), r.Particles[1].Position()
}

func (r *Rod) CurrentLength() float64 {
	return vecmath.Distance(r.Particles[0].Position(), r.Particles[1].Position())
}

func (r *Rod) AddContact(contacts []contact.Contact, limit int) int {
	if contact.Capacity(contacts, limit) < 1 {
		return 0
	}
	length := r.CurrentLength()
	if length == r.Length || length == 0 {
		return 0
	}

	contacts[0] = rodContact(r.Particles, r.Particles[1].Position().Sub(r.Particles[0].Position()), length, r.Length)
	return 1
}

// rodContact builds the contact for a rod whose ends are separated by
// toward (first end to second) of magnitude length.
func rodContact(ps [2]*particle.Particle, toward vecmath.Vector3, length, rest float64) contact.Contact {
	normal := toward.Normalize()
	penetration := length - rest
	if length < rest {
		normal.Invert()
		penetration = rest - length
	}
	return contact.Contact{Particles: ps, Normal: normal, Penetration: penetration}
}

// CableConstraint tethers a particle to a fixed anchor.
type CableConstraint struct {
	Particle    *particle.Particle
	Anchor      vecmath.Vector3
	MaxLength   float64
	Restitution float64
}

func NewCableConstraint(p *particle.Particle, anchor vecmath.Vector3, maxLength, restitution float64) *CableConstraint {
	return &CableConstraint{Particle: p, Anchor: anchor, MaxLength: maxLength, Restitution: restitution}
}

func (c *CableConstraint) Ends() (vecmath.Vector3, vecmath.Vector3) {
	return c.Anchor, c.Particle.Position()
}

func (c *CableConstraint) CurrentLength() float64 {
	return vecmath.Distance(c.Particle.Position(), c.Anchor)
}

func (c *CableConstraint) AddContact(contacts []contact.Contact, limit int) int {
	if contact.Capacity(contacts, limit) < 1 {
		return 0
	}
	length := c.CurrentLength()
	if length < c.MaxLength || length == 0 {
		return 0
	}

	contacts[0] = contact.Contact{
		Particles:   [2]*particle.Particle{c.Particle, nil},
		Normal:      c.Anchor.Sub(c.Particle.Position()).Normalize(),
		Penetration: length - c.MaxLength,
		Restitution: c.Restitution,
	}
	return 1
}

// RodConstraint holds a particle at a fixed distance from an anchor.
type RodConstraint struct {
	Particle *particle.Particle
	Anchor   vecmath.Vector3
	Length   float64
}

func NewRodConstraint(p *particle.Particle, anchor vecmath.Vector3, length float64) *RodConstraint {
	return &RodConstraint{Particle: p, Anchor: anchor, Length: length}
}

func (r *RodConstraint) Ends() (vecmath.Vector3, vecmath.Vector3) {
	return r.Anchor, r.Particle.Position()
}

func (r *RodConstraint) CurrentLength() float64 {
	return vecmath.Distance(r.Particle.Position(), r.Anchor)
}

func (r *RodConstraint) AddContact(contacts []contact.Contact, limit int) int {
	if contact.Capacity(contacts, limit) < 1 {
		return 0
	}
	length := r.CurrentLength()
	if length == r.Length || length == 0 {
		return 0
	}

	ps := [2]*particle.Particle{r.Particle, nil}
	contacts[0] = rodContact(ps, r.Anchor.Sub(r.Particle.Position()), length, r.Length)
	return 1
}
