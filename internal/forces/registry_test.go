package forces

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

func TestRegistry_UpdateForcesInOrder(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	var order []string
	record := func(name string) Generator {
		return NewFunc(func(p *particle.Particle, _ float64) {
			order = append(order, name)
			p.AddForce(vecmath.UnitX)
		})
	}

	a, b := particle.New(), particle.New()
	r.Add(a, record("first"))
	r.Add(b, record("second"))
	r.Add(a, record("third"))

	r.UpdateForces(0.016)

	g.Expect(order).To(Equal([]string{"first", "second", "third"}))
	g.Expect(a.ForceAccum().X).To(Equal(2.0))
	g.Expect(b.ForceAccum().X).To(Equal(1.0))
}

func TestRegistry_Remove(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	p := particle.New()
	p.SetMass(1)
	gravity := NewGravity(vecmath.Gravity)
	drag := NewDrag(1, 1)

	r.Add(p, gravity)
	r.Add(p, drag)
	g.Expect(r.Len()).To(Equal(2))

	g.Expect(r.Remove(p, gravity)).To(BeTrue())
	g.Expect(r.Remove(p, gravity)).To(BeFalse())
	g.Expect(r.Remove(particle.New(), drag)).To(BeFalse())
	g.Expect(r.Len()).To(Equal(1))
	g.Expect(r.Registrations()[0].Generator).To(BeIdenticalTo(drag))

	r.Clear()
	g.Expect(r.Len()).To(BeZero())

	r.UpdateForces(0.1)
	g.Expect(p.ForceAccum()).To(Equal(vecmath.Vector3{}))
}
