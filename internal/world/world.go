package world

import (
	"fmt"

	"github.com/san-kum/partsim/internal/contact"
	"github.com/san-kum/partsim/internal/forces"
	"github.com/san-kum/partsim/internal/particle"
)

type World struct {
	particles  []*particle.Particle
	generators []contact.Generator
	registry   *forces.Registry
	resolver   *contact.Resolver

	contacts       []contact.Contact
	usedContacts   int
	maxPenetration float64

	// auto sets the resolver budget to twice the contacts of each frame.
	auto bool
}

// New allocates the contact buffer once. iterations == 0 selects the
// automatic budget.
func New(maxContacts, iterations int) (*World, error) {
	if maxContacts <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, maxContacts)
	}
	resolver, err := contact.NewResolver(iterations)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	return &World{
		registry: forces.NewRegistry(),
		resolver: resolver,
		contacts: make([]contact.Contact, maxContacts),
		auto:     iterations == 0,
	}, nil
}

func (w *World) Registry() *forces.Registry { return w.registry }

func (w *World) AddParticle(p *particle.Particle) {
	w.particles = append(w.particles, p)
}

func (w *World) RemoveParticle(p *particle.Particle) bool {
	for i, q := range w.particles {
		if q == p {
			w.particles = append(w.particles[:i], w.particles[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) Particles() []*particle.Particle { return w.particles }

// AddContactGenerator registers g. Generators must be comparable (pointer
// types) to be removable.
func (w *World) AddContactGenerator(g contact.Generator) {
	w.generators = append(w.generators, g)
}

func (w *World) RemoveContactGenerator(g contact.Generator) bool {
	for i, h := range w.generators {
		if h == g {
			w.generators = append(w.generators[:i], w.generators[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) ContactGenerators() []contact.Generator { return w.generators }

// Contacts returns the contacts written during the last frame. The slice
// aliases the world's buffer and is overwritten by the next frame.
func (w *World) Contacts() []contact.Contact { return w.contacts[:w.usedContacts] }

// MaxPenetration is the deepest penetration generated in the last frame,
// measured before resolution.
func (w *World) MaxPenetration() float64 { return w.maxPenetration }

func (w *World) MaxContacts() int     { return len(w.contacts) }
func (w *World) IterationsUsed() int  { return w.resolver.IterationsUsed() }
func (w *World) Iterations() int      { return w.resolver.Iterations() }
func (w *World) AutoIterations() bool { return w.auto }

// StartFrame clears every particle's force accumulator.
func (w *World) StartFrame() {
	for _, p := range w.particles {
		p.ClearAccumulator()
	}
}

// GenerateContacts asks each generator in turn for contacts and returns the
// number written. Generation stops once the buffer is full.
func (w *World) GenerateContacts() int {
	limit := len(w.contacts)
	next := 0
	for _, g := range w.generators {
		used := g.AddContact(w.contacts[next:], limit)
		limit -= used
		next += used
		if limit <= 0 {
			break
		}
	}
	return next
}

func (w *World) Integrate(dt float64) {
	for _, p := range w.particles {
		p.Integrate(dt)
	}
}

// RunPhysics advances the world by dt. It does nothing for dt <= 0.
func (w *World) RunPhysics(dt float64) {
	if dt <= 0 {
		return
	}
	w.registry.UpdateForces(dt)
	w.Integrate(dt)

	w.usedContacts = w.GenerateContacts()
	w.maxPenetration = 0
	for i := range w.Contacts() {
		w.maxPenetration = max(w.maxPenetration, w.contacts[i].Penetration)
	}
	if w.auto {
		w.resolver.SetIterations(w.usedContacts * 2)
	}
	w.resolver.ResolveContacts(w.contacts[:w.usedContacts], dt)
}

// Step runs a complete frame.
func (w *World) Step(dt float64) {
	w.StartFrame()
	w.RunPhysics(dt)
}
