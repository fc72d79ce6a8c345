package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
)

// Measure reduces a scene at the end of a run to one number.
type Measure func(s *scene.Scene) float64

type SweepPoint struct {
	Param float64
	Value float64
}

// Sweep builds one scene per value of param, runs each for the base
// config's duration and measures the result. The base config is not
// modified.
func Sweep(ctx context.Context, reg *scene.Registry, base *config.Config, param string, values []float64, measure Measure) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		cfg := *base
		if err := cfg.SetParam(param, v); err != nil {
			return nil, err
		}
		sc, err := reg.Build(&cfg)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", param, v, err)
		}

		steps := int(cfg.Duration/cfg.Dt + 0.5)
		for i := 0; i < steps; i++ {
			if i%64 == 0 {
				if err := ctx.Err(); err != nil {
					return points, err
				}
			}
			sc.Step(cfg.Dt)
		}
		points = append(points, SweepPoint{Param: v, Value: measure(sc)})
	}
	return points, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
