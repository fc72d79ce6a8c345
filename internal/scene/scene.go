package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/links"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vecmath"
	"github.com/san-kum/partsim/internal/world"
)

// Box is the region of the x/y plane a host should show.
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Scene owns the storage of everything a world points at. The arena
// slices are sized once when the scene is built and never grow, so the
// pointers held by the world and the generators stay valid.
type Scene struct {
	Name  string
	World *world.World
	View  Box

	Particles        []particle.Particle
	Cables           []links.Cable
	Rods             []links.Rod
	CableConstraints []links.CableConstraint
	RodConstraints   []links.RodConstraint
	Boundary         *world.Boundary

	load *bridgeLoad
	time float64
}

func newScene(name string, cfg *config.Config, particles int) (*Scene, error) {
	w, err := world.New(cfg.MaxContacts, cfg.Iterations)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}

	s := &Scene{
		Name:      name,
		World:     w,
		Particles: make([]particle.Particle, particles),
	}
	for i := range s.Particles {
		s.Particles[i] = *particle.New()
		s.Particles[i].SetDamping(cfg.Damping)
		w.AddParticle(&s.Particles[i])
	}
	return s, nil
}

func gravity(cfg *config.Config) vecmath.Vector3 {
	return vecmath.New(0, cfg.Gravity, 0)
}

// Step runs one frame.
func (s *Scene) Step(dt float64) {
	s.World.Step(dt)
	if dt > 0 {
		s.time += dt
	}
	if s.load != nil {
		s.load.apply(s.Particles)
	}
}

func (s *Scene) Time() float64 { return s.time }

// Links returns every link generator in draw order: supports, cables, rods.
func (s *Scene) Links() []links.Link {
	out := make([]links.Link, 0, len(s.Cables)+len(s.Rods)+len(s.CableConstraints)+len(s.RodConstraints))
	for i := range s.CableConstraints {
		out = append(out, &s.CableConstraints[i])
	}
	for i := range s.RodConstraints {
		out = append(out, &s.RodConstraints[i])
	}
	for i := range s.Cables {
		out = append(out, &s.Cables[i])
	}
	for i := range s.Rods {
		out = append(out, &s.Rods[i])
	}
	return out
}

// Positions appends the current particle positions to dst.
func (s *Scene) Positions(dst []vecmath.Vector3) []vecmath.Vector3 {
	for i := range s.Particles {
		dst = append(dst, s.Particles[i].Position())
	}
	return dst
}

func (s *Scene) KineticEnergy() float64 {
	total := 0.0
	for i := range s.Particles {
		total += s.Particles[i].KineticEnergy()
	}
	return total
}

// MaxRodError is the largest deviation of a rod from its length.
func (s *Scene) MaxRodError() float64 {
	worst := 0.0
	for i := range s.Rods {
		worst = max(worst, math.Abs(s.Rods[i].CurrentLength()-s.Rods[i].Length))
	}
	for i := range s.RodConstraints {
		worst = max(worst, math.Abs(s.RodConstraints[i].CurrentLength()-s.RodConstraints[i].Length))
	}
	return worst
}

func (s *Scene) IsFinite() bool {
	for i := range s.Particles {
		if !s.Particles[i].IsFinite() {
			return false
		}
	}
	return true
}

// HasLoad reports whether the scene carries a movable load.
func (s *Scene) HasLoad() bool { return s.load != nil }

// SetBallPosition moves the load in bridge grid coordinates: x runs along
// the deck in [0,5], z across it in [0,1].
func (s *Scene) SetBallPosition(x, z float64) error {
	if s.load == nil {
		return fmt.Errorf("%w: %s", ErrNoLoad, s.Name)
	}
	s.load.x, s.load.z = x, z
	s.load.apply(s.Particles)
	return nil
}

// BallPosition is the load's world position, interpolated from the deck
// particles carrying it.
func (s *Scene) BallPosition() (vecmath.Vector3, bool) {
	if s.load == nil {
		return vecmath.Vector3{}, false
	}
	return s.load.display, true
}

// BallGrid returns the load's grid coordinates as last set.
func (s *Scene) BallGrid() (x, z float64, ok bool) {
	if s.load == nil {
		return 0, 0, false
	}
	return s.load.x, s.load.z, true
}
