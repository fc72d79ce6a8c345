// Package forces provides the force generators applied to particles each
// frame and the registry that drives them.
//
// A [Generator] only ever adds to a particle's accumulator; it never
// overwrites it. Generators keep no state between frames beyond their
// constant parameters and non-owning references to other particles.
package forces

import (
	"math"

	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

type Generator interface {
	UpdateForce(p *particle.Particle, dt float64)
}

// Func adapts a function to the Generator interface. It is used through a
// pointer so registrations stay comparable for Registry.Remove.
type Func struct {
	fn func(p *particle.Particle, dt float64)
}

func NewFunc(fn func(p *particle.Particle, dt float64)) *Func {
	return &Func{fn: fn}
}

func (f *Func) UpdateForce(p *particle.Particle, dt float64) { f.fn(p, dt) }

// Gravity applies Field*mass. Immovable particles are skipped.
type Gravity struct {
	Field vecmath.Vector3
}

func NewGravity(field vecmath.Vector3) *Gravity {
	return &Gravity{Field: field}
}

func (g *Gravity) UpdateForce(p *particle.Particle, _ float64) {
	if !p.HasFiniteMass() {
		return
	}
	p.AddForce(g.Field.Scale(p.Mass()))
}

// Drag opposes velocity with magnitude K1*|v| + K2*|v|².
type Drag struct {
	K1 float64 // velocity coefficient
	K2 float64 // velocity squared coefficient
}

func NewDrag(k1, k2 float64) *Drag {
	return &Drag{K1: k1, K2: k2}
}

func (d *Drag) UpdateForce(p *particle.Particle, _ float64) {
	v := p.Velocity()
	speed := v.Magnitude()
	coeff := d.K1*speed + d.K2*speed*speed
	p.AddForce(v.Normalize().Scale(-coeff))
}

// hooke returns the force on a body at pos attached to other by a spring
// with constant k and the given rest length. Stretched springs pull, and
// compressed springs push.
func hooke(pos, other vecmath.Vector3, k, rest float64) vecmath.Vector3 {
	d := pos.Sub(other)
	length := d.Magnitude()
	return d.Normalize().Scale(-k * (length - rest))
}

// Spring connects the particle it is registered for to Other.
type Spring struct {
	Other      *particle.Particle
	K          float64
	RestLength float64
}

func NewSpring(other *particle.Particle, k, restLength float64) *Spring {
	return &Spring{Other: other, K: k, RestLength: restLength}
}

func (s *Spring) UpdateForce(p *particle.Particle, _ float64) {
	p.AddForce(hooke(p.Position(), s.Other.Position(), s.K, s.RestLength))
}

// AnchoredSpring connects a particle to a fixed point in world space.
type AnchoredSpring struct {
	Anchor     vecmath.Vector3
	K          float64
	RestLength float64
}

func NewAnchoredSpring(anchor vecmath.Vector3, k, restLength float64) *AnchoredSpring {
	return &AnchoredSpring{Anchor: anchor, K: k, RestLength: restLength}
}

func (s *AnchoredSpring) UpdateForce(p *particle.Particle, _ float64) {
	p.AddForce(hooke(p.Position(), s.Anchor, s.K, s.RestLength))
}

// Bungee is a spring that only pulls: it exerts no force while its length
// is at or below RestLength.
type Bungee struct {
	Other      *particle.Particle
	K          float64
	RestLength float64
}

func NewBungee(other *particle.Particle, k, restLength float64) *Bungee {
	return &Bungee{Other: other, K: k, RestLength: restLength}
}

func (b *Bungee) UpdateForce(p *particle.Particle, _ float64) {
	if vecmath.Distance(p.Position(), b.Other.Position()) <= b.RestLength {
		return
	}
	p.AddForce(hooke(p.Position(), b.Other.Position(), b.K, b.RestLength))
}

// AnchoredBungee is a Bungee tied to a fixed point.
type AnchoredBungee struct {
	Anchor     vecmath.Vector3
	K          float64
	RestLength float64
}

func NewAnchoredBungee(anchor vecmath.Vector3, k, restLength float64) *AnchoredBungee {
	return &AnchoredBungee{Anchor: anchor, K: k, RestLength: restLength}
}

func (b *AnchoredBungee) UpdateForce(p *particle.Particle, _ float64) {
	if vecmath.Distance(p.Position(), b.Anchor) <= b.RestLength {
		return
	}
	p.AddForce(hooke(p.Position(), b.Anchor, b.K, b.RestLength))
}

// WaterDensity is the default liquid density in kg/m³.
const WaterDensity = 1000.0

// Buoyancy pushes particles up (+y) out of a liquid whose surface sits at
// LiquidHeight. Particles deeper than LiquidHeight-MaxDepth are fully
// submerged and receive LiquidDensity*Volume; particles above
// LiquidHeight+MaxDepth receive nothing; the force ramps linearly between.
type Buoyancy struct {
	MaxDepth      float64
	Volume        float64
	LiquidHeight  float64
	LiquidDensity float64
}

func NewBuoyancy(maxDepth, volume, liquidHeight float64) *Buoyancy {
	return &Buoyancy{
		MaxDepth:      maxDepth,
		Volume:        volume,
		LiquidHeight:  liquidHeight,
		LiquidDensity: WaterDensity,
	}
}

// Submersion returns the submerged fraction in [0, 1] for height y.
func (b *Buoyancy) Submersion(y float64) float64 {
	top := b.LiquidHeight + b.MaxDepth
	bottom := b.LiquidHeight - b.MaxDepth
	switch {
	case y >= top:
		return 0
	case y <= bottom:
		return 1
	}
	return math.Max(0, math.Min(1, (top-y)/(2*b.MaxDepth)))
}

func (b *Buoyancy) UpdateForce(p *particle.Particle, _ float64) {
	f := b.Submersion(p.Position().Y)
	if f == 0 {
		return
	}
	p.AddForce(vecmath.Vector3{Y: b.LiquidDensity * b.Volume * f})
}
