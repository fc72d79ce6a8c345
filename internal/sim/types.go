package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

var (
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
	ErrInvalidStep  = errors.New("sim: invalid step configuration")
)

// Frame is a snapshot of a scene taken after a step. Positions are in
// particle order.
type Frame struct {
	Time       float64           `json:"time"`
	Contacts   int               `json:"contacts"`
	Iterations int               `json:"iterations"`
	Positions  []vecmath.Vector3 `json:"positions"`
}

type Metric interface {
	Name() string
	Observe(s *scene.Scene, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// Config controls a run. RecordEvery keeps one frame in that many in the
// result; values below 1 keep every frame.
type Config struct {
	Dt            float64
	Duration      float64
	RecordEvery   int
	ValidateState bool
}

type Result struct {
	Scene       string
	Particles   int
	Frames      []Frame
	Metrics     map[string]float64
	Errors      []error
	StepsTaken  int
	EnergyStart float64
	EnergyEnd   float64
}

// FrameError records the step at which a run went wrong.
type FrameError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
