package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/scene"
)

// KineticEnergy is the mean total kinetic energy over the observed frames.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s *scene.Scene, t float64) {
	e.total += s.KineticEnergy()
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// PeakEnergy is the largest kinetic energy seen in any frame.
type PeakEnergy struct {
	name string
	peak float64
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (e *PeakEnergy) Name() string { return e.name }

func (e *PeakEnergy) Observe(s *scene.Scene, t float64) {
	e.peak = math.Max(e.peak, s.KineticEnergy())
}

func (e *PeakEnergy) Value() float64 { return e.peak }
func (e *PeakEnergy) Reset()         { e.peak = 0 }
