package world

import (
	"github.com/san-kum/partsim/internal/contact"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
)

const DefaultBoundaryRestitution = 0.2

var (
	down = vecmath.New(0, -1, 0)
	left = vecmath.New(-1, 0, 0)
)

// Boundary keeps the world's particles above y = 0 and right of x = 0.
// MaxX and MaxY, when positive, also close the box on the other sides.
// Those upper walls are deliberately real walls: they push inward along
// -x and -y with penetration coord - max, instead of reusing the floor's
// upward normal and negated coordinate, and they stay open until set.
type Boundary struct {
	world       *World
	MaxX, MaxY  float64
	Restitution float64
}

func NewBoundary(w *World) *Boundary {
	return &Boundary{world: w, Restitution: DefaultBoundaryRestitution}
}

// NewBox returns a boundary closed on all four sides.
func NewBox(w *World, maxX, maxY float64) *Boundary {
	b := NewBoundary(w)
	b.MaxX, b.MaxY = maxX, maxY
	return b
}

func (b *Boundary) AddContact(contacts []contact.Contact, limit int) int {
	capacity := contact.Capacity(contacts, limit)
	used := 0
	add := func(p *particle.Particle, normal vecmath.Vector3, penetration float64) bool {
		contacts[used] = contact.Contact{
			Particles:   [2]*particle.Particle{p, nil},
			Normal:      normal,
			Penetration: penetration,
			Restitution: b.Restitution,
		}
		used++
		return used >= capacity
	}

	if capacity == 0 {
		return 0
	}
	for _, p := range b.world.particles {
		pos := p.Position()
		if pos.Y < 0 && add(p, vecmath.Up, -pos.Y) {
			return used
		}
		if pos.X < 0 && add(p, vecmath.Right, -pos.X) {
			return used
		}
		if b.MaxY > 0 && pos.Y > b.MaxY && add(p, down, pos.Y-b.MaxY) {
			return used
		}
		if b.MaxX > 0 && pos.X > b.MaxX && add(p, left, pos.X-b.MaxX) {
			return used
		}
	}
	return used
}
