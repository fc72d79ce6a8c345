package contact

import "fmt"

// Resolver resolves a frame's contacts one at a time, worst first.
//
// Each iteration picks the contact with the most negative separating
// velocity (the first one found on ties) and resolves only that contact.
// Resolution stops when the iteration budget is spent or no contact is
// closing. A low budget leaves dense contact clusters under-resolved; that
// shows up as lingering interpenetration and is the price of a bounded
// per-frame cost of O(iterations × contacts).
type Resolver struct {
	iterations     int
	iterationsUsed int
}

func NewResolver(iterations int) (*Resolver, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeIterations, iterations)
	}
	return &Resolver{iterations: iterations}, nil
}

// SetIterations changes the budget for subsequent calls. Negative values
// are clamped to zero.
func (r *Resolver) SetIterations(n int) {
	if n < 0 {
		n = 0
	}
	r.iterations = n
}

func (r *Resolver) Iterations() int     { return r.iterations }
func (r *Resolver) IterationsUsed() int { return r.iterationsUsed }

func (r *Resolver) ResolveContacts(contacts []Contact, dt float64) {
	r.iterationsUsed = 0
	for r.iterationsUsed < r.iterations {
		worst := Worst(contacts)
		if worst < 0 {
			return
		}
		contacts[worst].Resolve(dt)
		r.iterationsUsed++
	}
}

// Worst returns the index of the contact with the most negative separating
// velocity, or -1 if no contact is closing.
func Worst(contacts []Contact) int {
	worst := -1
	lowest := 0.0
	for i := range contacts {
		if sep := contacts[i].SeparatingVelocity(); sep < lowest {
			lowest = sep
			worst = i
		}
	}
	return worst
}
