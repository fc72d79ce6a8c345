package links

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/contact"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

func at(x, y, z float64) *particle.Particle {
	p := particle.New()
	p.SetPosition(vecmath.New(x, y, z))
	return p
}

func TestCable_OneSided(t *testing.T) {
	tests := []struct {
		name        string
		dist        float64
		want        int
		penetration float64
	}{
		{"slack", 1.5, 0, 0},
		{"taut", 2.0, 1, 0},
		{"stretched", 2.5, 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			a, b := at(0, 0, 0), at(tt.dist, 0, 0)
			c := NewCable(a, b, 2.0, 0.3)

			buf := make([]contact.Contact, 4)
			n := c.AddContact(buf, len(buf))
			g.Expect(n).To(Equal(tt.want))
			if n == 0 {
				return
			}
			g.Expect(buf[0].Penetration).To(BeNumerically("~", tt.penetration, 1e-12))
			g.Expect(buf[0].Normal).To(Equal(vecmath.UnitX))
			g.Expect(buf[0].Restitution).To(Equal(0.3))
			g.Expect(buf[0].Particles).To(Equal([2]*particle.Particle{a, b}))
		})
	}
}

func TestCable_ResolvePullsTogether(t *testing.T) {
	g := NewWithT(t)

	a, b := at(0, 0, 0), at(3, 0, 0)
	c := NewCable(a, b, 2.0, 0)
	buf := make([]contact.Contact, 1)
	g.Expect(c.AddContact(buf, 1)).To(Equal(1))

	buf[0].Resolve(0.016)
	g.Expect(c.CurrentLength()).To(BeNumerically("~", 2.0, 1e-12))
	g.Expect(a.Position().X).To(BeNumerically("~", 0.5, 1e-12))
	g.Expect(b.Position().X).To(BeNumerically("~", 2.5, 1e-12))
}

func TestRod(t *testing.T) {
	g := NewWithT(t)
	buf := make([]contact.Contact, 2)

	a, b := at(0, 0, 0), at(0, 3, 0)
	r := NewRod(a, b, 2)
	g.Expect(r.AddContact(buf, 2)).To(Equal(1))
	g.Expect(buf[0].Normal).To(Equal(vecmath.UnitY))
	g.Expect(buf[0].Penetration).To(BeNumerically("~", 1, 1e-12))
	g.Expect(buf[0].Restitution).To(BeZero())

	b.SetPosition(vecmath.New(0, 1.5, 0))
	g.Expect(r.AddContact(buf, 2)).To(Equal(1))
	g.Expect(buf[0].Normal).To(Equal(vecmath.New(0, -1, 0)))
	g.Expect(buf[0].Penetration).To(BeNumerically("~", 0.5, 1e-12))

	buf[0].Resolve(0.016)
	g.Expect(r.CurrentLength()).To(BeNumerically("~", 2, 1e-12))

	b.SetPosition(vecmath.New(0, 2, 0))
	g.Expect(r.AddContact(buf, 2)).To(BeZero())
}

func TestConstraints(t *testing.T) {
	g := NewWithT(t)
	buf := make([]contact.Contact, 1)
	anchor := vecmath.New(0, 10, 0)

	p := at(0, 6, 0)
	cc := NewCableConstraint(p, anchor, 3, 0.5)
	g.Expect(cc.AddContact(buf, 1)).To(Equal(1))
	g.Expect(buf[0].Particles[1]).To(BeNil())
	g.Expect(buf[0].Normal).To(Equal(vecmath.UnitY))
	g.Expect(buf[0].Penetration).To(BeNumerically("~", 1, 1e-12))

	p.SetPosition(vecmath.New(0, 8, 0))
	g.Expect(cc.AddContact(buf, 1)).To(BeZero())

	rc := NewRodConstraint(p, anchor, 3)
	g.Expect(rc.AddContact(buf, 1)).To(Equal(1))
	g.Expect(buf[0].Normal).To(Equal(vecmath.New(0, -1, 0)))
	g.Expect(buf[0].Penetration).To(BeNumerically("~", 1, 1e-12))

	buf[0].Resolve(0.016)
	g.Expect(rc.CurrentLength()).To(BeNumerically("~", 3, 1e-12))

	a, b := rc.Ends()
	g.Expect(a).To(Equal(anchor))
	g.Expect(b).To(Equal(p.Position()))
}

func TestAddContact_RespectsLimit(t *testing.T) {
	a, b := at(0, 0, 0), at(5, 0, 0)
	anchor := vecmath.New(10, 0, 0)
	gens := map[string]contact.Generator{
		"cable":           NewCable(a, b, 1, 0),
		"rod":             NewRod(a, b, 1),
		"cableConstraint": NewCableConstraint(a, anchor, 1, 0),
		"rodConstraint":   NewRodConstraint(a, anchor, 1),
	}
	for name, gen := range gens {
		if n := gen.AddContact(make([]contact.Contact, 4), 0); n != 0 {
			t.Errorf("%s: limit 0 wrote %d contacts", name, n)
		}
		if n := gen.AddContact(nil, 4); n != 0 {
			t.Errorf("%s: empty buffer wrote %d contacts", name, n)
		}
	}
}

func TestCoincidentEndsSkipped(t *testing.T) {
	a, b := at(1, 1, 1), at(1, 1, 1)
	buf := make([]contact.Contact, 1)
	if n := NewRod(a, b, 1).AddContact(buf, 1); n != 0 {
		t.Errorf("rod with coincident ends wrote %d contacts", n)
	}
	if n := NewCable(a, b, 0, 0).AddContact(buf, 1); n != 0 {
		t.Errorf("cable with coincident ends wrote %d contacts", n)
	}
}
