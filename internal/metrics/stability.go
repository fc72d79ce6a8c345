package metrics

import (
	"github.com/san-kum/partsim/internal/scene"
)

// Stability is the fraction of frames in which every particle stayed
// within margin of the scene's view box and finite.
type Stability struct {
	name       string
	margin     float64
	violations int
	samples    int
}

func NewStability(margin float64) *Stability {
	return &Stability{
		name:   "stability",
		margin: margin,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sc *scene.Scene, t float64) {
	s.samples++
	if !sc.IsFinite() {
		s.violations++
		return
	}
	v := sc.View
	for i := range sc.Particles {
		p := sc.Particles[i].Position()
		if p.X < v.MinX-s.margin || p.X > v.MaxX+s.margin ||
			p.Y < v.MinY-s.margin || p.Y > v.MaxY+s.margin {
			s.violations++
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
