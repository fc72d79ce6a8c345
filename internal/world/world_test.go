package world_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/contact"
	"github.com/san-kum/partsim/internal/forces"
	"github.com/san-kum/partsim/internal/links"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
	"github.com/san-kum/partsim/internal/world"
)

const dt = 0.016

func newParticle(x, y float64) *particle.Particle {
	p := particle.New()
	p.SetPosition(vecmath.New(x, y, 0))
	return p
}

// fixedGenerator always writes n contacts against the scenery.
type fixedGenerator struct {
	p     *particle.Particle
	n     int
	calls int
}

func (f *fixedGenerator) AddContact(contacts []contact.Contact, limit int) int {
	f.calls++
	n := min(f.n, contact.Capacity(contacts, limit))
	for i := 0; i < n; i++ {
		contacts[i] = contact.Contact{
			Particles: [2]*particle.Particle{f.p, nil},
			Normal:    vecmath.Up,
		}
	}
	return n
}

var _ = Describe("World", func() {
	Describe("construction", func() {
		It("rejects a non-positive contact capacity", func() {
			_, err := world.New(0, 4)
			Expect(errors.Is(err, world.ErrInvalidCapacity)).To(BeTrue())
		})

		It("rejects a negative iteration budget", func() {
			_, err := world.New(10, -1)
			Expect(errors.Is(err, contact.ErrNegativeIterations)).To(BeTrue())
		})

		It("selects automatic iterations for a zero budget", func() {
			w, err := world.New(10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AutoIterations()).To(BeTrue())
			Expect(w.MaxContacts()).To(Equal(10))
		})
	})

	Describe("registration", func() {
		It("adds and removes particles and generators", func() {
			w, _ := world.New(4, 0)
			a, b := newParticle(0, 0), newParticle(1, 0)
			w.AddParticle(a)
			w.AddParticle(b)
			Expect(w.Particles()).To(Equal([]*particle.Particle{a, b}))
			Expect(w.RemoveParticle(a)).To(BeTrue())
			Expect(w.RemoveParticle(a)).To(BeFalse())
			Expect(w.Particles()).To(Equal([]*particle.Particle{b}))

			rod := links.NewRod(a, b, 1)
			w.AddContactGenerator(rod)
			Expect(w.ContactGenerators()).To(HaveLen(1))
			Expect(w.RemoveContactGenerator(rod)).To(BeTrue())
			Expect(w.ContactGenerators()).To(BeEmpty())
		})
	})

	Describe("a single falling particle", func() {
		It("matches one explicit Euler step", func() {
			w, _ := world.New(4, 0)
			p := particle.New()
			p.SetAcceleration(vecmath.Gravity)
			w.AddParticle(p)

			w.Step(1)

			Expect(p.Position()).To(Equal(vecmath.Vector3{}))
			Expect(p.Velocity().Y).To(BeNumerically("~", -9.81, 1e-12))
		})
	})

	Describe("RunPhysics", func() {
		It("does nothing for a non-positive step", func() {
			w, _ := world.New(4, 0)
			p := newParticle(0, 5)
			p.SetVelocity(vecmath.New(1, 0, 0))
			w.AddParticle(p)
			w.Registry().Add(p, forces.NewGravity(vecmath.Gravity))

			w.Step(0)
			w.Step(-dt)

			Expect(p.Position()).To(Equal(vecmath.New(0, 5, 0)))
			Expect(p.Velocity()).To(Equal(vecmath.New(1, 0, 0)))
		})

		It("starves later generators once the buffer is full", func() {
			w, _ := world.New(3, 0)
			p := newParticle(0, 0)
			p.SetVelocity(vecmath.New(0, -1, 0))
			w.AddParticle(p)

			first := &fixedGenerator{p: p, n: 2}
			second := &fixedGenerator{p: p, n: 2}
			third := &fixedGenerator{p: p, n: 2}
			w.AddContactGenerator(first)
			w.AddContactGenerator(second)
			w.AddContactGenerator(third)

			Expect(w.GenerateContacts()).To(Equal(3))
			Expect(third.calls).To(BeZero())
		})

		It("budgets twice the contacts in automatic mode", func() {
			w, _ := world.New(8, 0)
			a, b := newParticle(0, 0), newParticle(3, 0)
			w.AddParticle(a)
			w.AddParticle(b)
			w.AddContactGenerator(links.NewRod(a, b, 2))
			a.SetVelocity(vecmath.New(-1, 0, 0))

			w.Step(dt)

			Expect(w.Contacts()).To(HaveLen(1))
			Expect(w.MaxPenetration()).To(BeNumerically(">", 1))
			Expect(w.Iterations()).To(Equal(2))
			Expect(w.IterationsUsed()).To(Equal(1))
		})

		It("honours a fixed budget", func() {
			w, _ := world.New(8, 1)
			p := newParticle(0, 0)
			w.AddParticle(p)
			gen := &fixedGenerator{p: p, n: 3}
			w.AddContactGenerator(gen)
			p.SetVelocity(vecmath.New(0, -1, 0))

			w.Step(dt)

			Expect(w.Contacts()).To(HaveLen(3))
			Expect(w.Iterations()).To(Equal(1))
			Expect(w.IterationsUsed()).To(Equal(1))
		})
	})

	Describe("ground contact", func() {
		var (
			w *world.World
			p *particle.Particle
		)

		BeforeEach(func() {
			w, _ = world.New(16, 0)
			p = newParticle(1, 0)
			p.SetAcceleration(vecmath.Gravity)
			w.AddParticle(p)
			w.AddContactGenerator(world.NewBoundary(w))
		})

		It("keeps a resting particle at rest", func() {
			g := -vecmath.Gravity.Y
			for i := 0; i < 1000; i++ {
				w.Step(dt)
				Expect(math.Abs(p.Position().Y)).To(BeNumerically("<=", g*dt*dt+1e-9))
				Expect(p.Velocity().Magnitude()).To(BeNumerically("<=", 2*g*dt+1e-9))
			}
		})

		It("loses height on every bounce", func() {
			p.SetPosition(vecmath.New(1, 5, 0))
			bounced := false
			peak := 0.0
			for i := 0; i < 600; i++ {
				w.Step(dt)
				if len(w.Contacts()) > 0 {
					bounced = true
				}
				if bounced {
					peak = math.Max(peak, p.Position().Y)
				}
			}
			Expect(bounced).To(BeTrue())
			Expect(peak).To(BeNumerically("<", 1))
		})
	})

	Describe("rods", func() {
		It("hold their length while pulled apart", func() {
			w, _ := world.New(4, 0)
			a, b := newParticle(0, 0), newParticle(2, 0)
			a.SetVelocity(vecmath.New(-1, 0, 0))
			b.SetVelocity(vecmath.New(1, 0, 0))
			w.AddParticle(a)
			w.AddParticle(b)
			rod := links.NewRod(a, b, 2)
			w.AddContactGenerator(rod)

			for i := 0; i < 50; i++ {
				w.Step(0.1)
				Expect(rod.CurrentLength()).To(BeNumerically("~", 2, 1e-9))
			}
		})

		It("keep a pendulum on its circle", func() {
			w, _ := world.New(4, 0)
			anchor := vecmath.New(0, 10, 0)
			p := newParticle(0, 8)
			p.SetAcceleration(vecmath.Gravity)
			p.SetVelocity(vecmath.New(2, 0, 0))
			w.AddParticle(p)
			rod := links.NewRodConstraint(p, anchor, 2)
			w.AddContactGenerator(rod)

			for i := 0; i < 500; i++ {
				w.Step(dt)
				Expect(rod.CurrentLength()).To(BeNumerically("~", 2, 1e-9))
			}
		})
	})
})
