// Package particle implements the point mass simulated by the engine.
//
// A Particle carries position, velocity, a constant acceleration field, a
// per-frame force accumulator, a damping factor and an inverse mass. An
// inverse mass of zero encodes an immovable (infinite mass) particle.
package particle

import (
	"math"

	"github.com/san-kum/partsim/internal/vecmath"
)

type Particle struct {
	position     vecmath.Vector3
	velocity     vecmath.Vector3
	acceleration vecmath.Vector3
	forceAccum   vecmath.Vector3

	// damping is the fraction of velocity kept per second, in [0, 1].
	// 0 stops the particle without a continuous force, 1 leaves it undamped.
	damping float64

	inverseMass float64
}

// New returns an undamped particle of unit mass at rest at the origin.
func New() *Particle {
	return &Particle{damping: 1, inverseMass: 1}
}

// Integrate advances the particle by dt seconds. Position is updated from
// the velocity held before the call, then velocity from the resulting
// acceleration, then damping is applied as damping^dt.
func (p *Particle) Integrate(dt float64) {
	if dt == 0 {
		return
	}

	p.position.AddScaled(p.velocity, dt)

	acc := p.acceleration
	acc.AddScaled(p.forceAccum, p.inverseMass)

	p.velocity.AddScaled(acc, dt)
	p.velocity.ScaleInPlace(math.Pow(p.damping, dt))
}

func (p *Particle) ClearAccumulator() { p.forceAccum.Clear() }

// AddForce adds f to the accumulator for the current frame.
func (p *Particle) AddForce(f vecmath.Vector3) { p.forceAccum.AddInPlace(f) }

func (p *Particle) ForceAccum() vecmath.Vector3 { return p.forceAccum }

func (p *Particle) Position() vecmath.Vector3     { return p.position }
func (p *Particle) SetPosition(v vecmath.Vector3) { p.position = v }

func (p *Particle) Velocity() vecmath.Vector3     { return p.velocity }
func (p *Particle) SetVelocity(v vecmath.Vector3) { p.velocity = v }

func (p *Particle) Acceleration() vecmath.Vector3     { return p.acceleration }
func (p *Particle) SetAcceleration(v vecmath.Vector3) { p.acceleration = v }

func (p *Particle) Damping() float64     { return p.damping }
func (p *Particle) SetDamping(d float64) { p.damping = d }

// SetMass stores 1/mass. A zero mass is not rejected; use SetInverseMass(0)
// for immovable particles.
func (p *Particle) SetMass(mass float64) { p.inverseMass = 1 / mass }

// Mass returns math.MaxFloat64 for particles with infinite mass.
func (p *Particle) Mass() float64 {
	if p.inverseMass == 0 {
		return math.MaxFloat64
	}
	return 1 / p.inverseMass
}

func (p *Particle) InverseMass() float64     { return p.inverseMass }
func (p *Particle) SetInverseMass(m float64) { p.inverseMass = m }

func (p *Particle) HasFiniteMass() bool { return p.inverseMass != 0 }

// KineticEnergy returns ½mv², or 0 for an immovable particle.
func (p *Particle) KineticEnergy() float64 {
	if !p.HasFiniteMass() {
		return 0
	}
	return 0.5 * p.velocity.SquareMagnitude() / p.inverseMass
}

func (p *Particle) IsFinite() bool {
	return p.position.IsFinite() && p.velocity.IsFinite()
}
