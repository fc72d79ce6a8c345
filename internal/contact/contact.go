package contact

import (
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

// Contact is a single constraint violation detected during a frame.
// Particles[1] is nil for contacts against scenery or a fixed anchor.
type Contact struct {
	Particles   [2]*particle.Particle
	Restitution float64

	// Normal is in world coordinates, from the first particle's perspective.
	Normal      vecmath.Vector3
	Penetration float64
}

// Generator detects violations and writes them as contacts. AddContact
// writes at most limit contacts (and never past len(contacts)) and returns
// the number written.
type Generator interface {
	AddContact(contacts []Contact, limit int) int
}

// Capacity returns the number of contacts a generator may write given the
// buffer and the caller's limit.
func Capacity(contacts []Contact, limit int) int {
	if limit > len(contacts) {
		return len(contacts)
	}
	if limit < 0 {
		return 0
	}
	return limit
}

// SeparatingVelocity is the relative velocity along the normal. Negative
// values mean the particles are closing.
func (c *Contact) SeparatingVelocity() float64 {
	rel := c.Particles[0].Velocity()
	if c.Particles[1] != nil {
		rel.SubInPlace(c.Particles[1].Velocity())
	}
	return rel.Dot(c.Normal)
}

func (c *Contact) totalInverseMass() float64 {
	total := c.Particles[0].InverseMass()
	if c.Particles[1] != nil {
		total += c.Particles[1].InverseMass()
	}
	return total
}

// Resolve applies the velocity impulse and then removes interpenetration.
// Penetration is zero afterwards, so resolving the same contact again only
// touches velocities.
func (c *Contact) Resolve(dt float64) {
	c.resolveVelocity(dt)
	c.resolveInterpenetration()
}

func (c *Contact) resolveVelocity(dt float64) {
	sep := c.SeparatingVelocity()
	if sep > 0 {
		return
	}

	newSep := -sep * c.Restitution

	// Velocity built up from acceleration alone this frame. If it is closing,
	// the contact is resting and that part must not bounce back.
	accCaused := c.Particles[0].Acceleration()
	if c.Particles[1] != nil {
		accCaused.SubInPlace(c.Particles[1].Acceleration())
	}
	accSep := accCaused.Dot(c.Normal) * dt
	if accSep < 0 {
		newSep += c.Restitution * accSep
		if newSep < 0 {
			newSep = 0
		}
	}

	total := c.totalInverseMass()
	if total <= 0 {
		return
	}

	impulse := c.Normal.Scale((newSep - sep) / total)

	p0 := c.Particles[0]
	p0.SetVelocity(p0.Velocity().Add(impulse.Scale(p0.InverseMass())))
	if p1 := c.Particles[1]; p1 != nil {
		p1.SetVelocity(p1.Velocity().Add(impulse.Scale(-p1.InverseMass())))
	}
}

func (c *Contact) resolveInterpenetration() {
	if c.Penetration <= 0 {
		return
	}

	total := c.totalInverseMass()
	if total <= 0 {
		return
	}

	movePerIMass := c.Normal.Scale(c.Penetration / total)

	p0 := c.Particles[0]
	p0.SetPosition(p0.Position().Add(movePerIMass.Scale(p0.InverseMass())))
	if p1 := c.Particles[1]; p1 != nil {
		p1.SetPosition(p1.Position().Add(movePerIMass.Scale(-p1.InverseMass())))
	}
	c.Penetration = 0
}
