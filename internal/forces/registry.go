package forces

import "github.com/san-kum/partsim/internal/particle"

// Registration pairs a particle with a generator acting on it.
// Neither is owned by the registry.
type Registration struct {
	Particle  *particle.Particle
	Generator Generator
}

// Registry holds (particle, generator) pairs in registration order.
type Registry struct {
	registrations []Registration
}

func NewRegistry() *Registry {
	return &Registry{registrations: make([]Registration, 0)}
}

func (r *Registry) Add(p *particle.Particle, g Generator) {
	r.registrations = append(r.registrations, Registration{Particle: p, Generator: g})
}

// Remove drops the first registration matching the pair and reports
// whether one was found.
func (r *Registry) Remove(p *particle.Particle, g Generator) bool {
	for i, reg := range r.registrations {
		if reg.Particle == p && reg.Generator == g {
			r.registrations = append(r.registrations[:i], r.registrations[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Clear() { r.registrations = r.registrations[:0] }

func (r *Registry) Len() int { return len(r.registrations) }

func (r *Registry) Registrations() []Registration { return r.registrations }

// UpdateForces runs every registered generator once, in registration order.
func (r *Registry) UpdateForces(dt float64) {
	for _, reg := range r.registrations {
		reg.Generator.UpdateForce(reg.Particle, dt)
	}
}
