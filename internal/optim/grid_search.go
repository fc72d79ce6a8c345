package optim

import (
	"context"
	"fmt"
	"math"
	"maps"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/sim"
)

// GridSearch tries every combination of parameter values and keeps the one
// with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs base with each combination applied through config.SetParam.
// Runs that fail validation are skipped; bad parameter names and unknown
// metrics are errors.
func (g *GridSearch) Search(ctx context.Context, reg *scene.Registry, base *config.Config, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if _, err := metrics.Get(metricName); err != nil {
		return nil, 0, err
	}
	for _, name := range g.paramNames {
		if _, err := base.Param(name); err != nil {
			return nil, 0, err
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), reg, base, metricName, &best, &bestParams)
	if err != nil {
		return bestParams, best, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	reg *scene.Registry,
	base *config.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for k, v := range current {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}
		sc, err := reg.Build(&cfg)
		if err != nil {
			return nil
		}

		m, _ := metrics.Get(metricName)
		s := sim.New(sc)
		s.AddMetric(m)
		result, err := s.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, RecordEvery: 1 << 30, ValidateState: true})
		if err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			return nil
		}

		val := result.Metrics[metricName]
		if val < *best {
			*best = val
			*bestParams = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, reg, base, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
