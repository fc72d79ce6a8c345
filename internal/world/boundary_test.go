package world

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/contact"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

func TestBoundary(t *testing.T) {
	g := NewWithT(t)

	w, _ := New(8, 0)
	inside := particle.New()
	inside.SetPosition(vecmath.New(1, 1, 0))
	corner := particle.New()
	corner.SetPosition(vecmath.New(-0.5, -2, 0))
	w.AddParticle(inside)
	w.AddParticle(corner)

	b := NewBoundary(w)
	buf := make([]contact.Contact, 8)
	n := b.AddContact(buf, len(buf))

	g.Expect(n).To(Equal(2))
	g.Expect(buf[0].Normal).To(Equal(vecmath.Up))
	g.Expect(buf[0].Penetration).To(Equal(2.0))
	g.Expect(buf[0].Restitution).To(Equal(DefaultBoundaryRestitution))
	g.Expect(buf[1].Normal).To(Equal(vecmath.Right))
	g.Expect(buf[1].Penetration).To(Equal(0.5))
	g.Expect(buf[1].Particles[0]).To(BeIdenticalTo(corner))
	g.Expect(buf[1].Particles[1]).To(BeNil())
}

func TestBoundary_Limit(t *testing.T) {
	w, _ := New(8, 0)
	for i := 0; i < 4; i++ {
		p := particle.New()
		p.SetPosition(vecmath.New(-1, -1, 0))
		w.AddParticle(p)
	}

	b := NewBoundary(w)
	buf := make([]contact.Contact, 8)
	tests := []struct {
		limit, want int
	}{
		{0, 0},
		{1, 1},
		{3, 3},
		{8, 8},
		{20, 8},
	}
	for _, tt := range tests {
		if got := b.AddContact(buf, tt.limit); got != tt.want {
			t.Errorf("AddContact(limit %d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestBox_UpperBounds(t *testing.T) {
	g := NewWithT(t)

	w, _ := New(8, 0)
	p := particle.New()
	p.SetPosition(vecmath.New(12, 7, 0))
	w.AddParticle(p)

	buf := make([]contact.Contact, 8)
	g.Expect(NewBoundary(w).AddContact(buf, len(buf))).To(Equal(0))

	b := NewBox(w, 10, 5)
	g.Expect(b.AddContact(buf, len(buf))).To(Equal(2))
	g.Expect(buf[0].Normal).To(Equal(vecmath.New(0, -1, 0)))
	g.Expect(buf[0].Penetration).To(BeNumerically("~", 2, 1e-12))
	g.Expect(buf[1].Normal).To(Equal(vecmath.New(-1, 0, 0)))
	g.Expect(buf[1].Penetration).To(BeNumerically("~", 2, 1e-12))

	buf[0].Resolve(dtForTest)
	buf[1].Resolve(dtForTest)
	g.Expect(p.Position().X).To(BeNumerically("~", 10, 1e-12))
	g.Expect(p.Position().Y).To(BeNumerically("~", 5, 1e-12))
}

const dtForTest = 0.016

func BenchmarkStep(b *testing.B) {
	w, _ := New(256, 0)
	for i := 0; i < 100; i++ {
		p := particle.New()
		p.SetPosition(vecmath.New(float64(i), 1, 0))
		p.SetAcceleration(vecmath.Gravity)
		w.AddParticle(p)
	}
	w.AddContactGenerator(NewBoundary(w))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step(dtForTest)
	}
}
