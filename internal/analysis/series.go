package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/vecmath"
)

var ErrNoParticle = errors.New("analysis: particle index out of range")

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("analysis: unknown axis %q", s)
}

func (a Axis) of(v vecmath.Vector3) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return v.X
}

// Series extracts one coordinate of one particle from every frame.
func Series(frames []sim.Frame, particle int, axis Axis) ([]float64, error) {
	out := make([]float64, 0, len(frames))
	for i, f := range frames {
		if particle < 0 || particle >= len(f.Positions) {
			return nil, fmt.Errorf("%w: %d in frame %d", ErrNoParticle, particle, i)
		}
		out = append(out, axis.of(f.Positions[particle]))
	}
	return out, nil
}

func Times(frames []sim.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Time
	}
	return out
}
