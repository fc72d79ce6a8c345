package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

type Simulator struct {
	scene     *scene.Scene
	metrics   []Metric
	observers []Observer
	pool      *FramePool
}

func New(s *scene.Scene) *Simulator {
	return &Simulator{
		scene:     s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		pool:      NewFramePool(len(s.Particles)),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Scene() *scene.Scene    { return s.scene }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	every := max(cfg.RecordEvery, 1)
	result := &Result{
		Scene:     s.scene.Name,
		Particles: len(s.scene.Particles),
		Frames:    make([]Frame, 0, steps/every+2),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.EnergyStart = s.scene.KineticEnergy()
	result.Frames = append(result.Frames, s.snapshot(nil))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.scene.Step(cfg.Dt)
		t := s.scene.Time()

		if cfg.ValidateState && !s.scene.IsFinite() {
			result.Errors = append(result.Errors, &FrameError{Step: i, Time: t, Wrapped: ErrInvalidState})
			break
		}
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(s.scene, t)
		}

		recorded := (i+1)%every == 0 || i == steps-1
		if !recorded && len(s.observers) == 0 {
			continue
		}

		var f Frame
		if recorded {
			f = s.snapshot(nil)
			result.Frames = append(result.Frames, f)
		} else {
			f = s.snapshot(s.pool.Get())
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}
		if !recorded {
			s.pool.Put(f.Positions)
		}
	}

	result.EnergyEnd = s.scene.KineticEnergy()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// RunWithCallback steps the scene until the duration elapses or callback
// returns false. The frame's positions are reused after callback returns.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	buf := s.pool.Get()
	defer func() { s.pool.Put(buf) }()

	for step := 0; s.scene.Time() < cfg.Duration; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.scene.Step(cfg.Dt)
		if cfg.ValidateState && !s.scene.IsFinite() {
			return &FrameError{Step: step, Time: s.scene.Time(), Wrapped: ErrInvalidState}
		}

		f := s.snapshot(buf[:0])
		buf = f.Positions
		if !callback(f) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) snapshot(dst []vecmath.Vector3) Frame {
	w := s.scene.World
	return Frame{
		Time:       s.scene.Time(),
		Contacts:   len(w.Contacts()),
		Iterations: w.IterationsUsed(),
		Positions:  s.scene.Positions(dst[:0]),
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidStep, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidStep, cfg.Duration)
	}
	return nil
}
