package sim

import (
	"context"
	"sync"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
)

// Ensemble runs copies of one scene configuration with consecutive seeds,
// each in its own goroutine with its own world.
type Ensemble struct {
	registry  *scene.Registry
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

// NewEnsemble builds an ensemble. metrics, when not nil, is called once per
// run so that no metric is shared between goroutines.
func NewEnsemble(registry *scene.Registry, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{registry: registry, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, base *config.Config, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sceneCfg := *base
			sceneCfg.Seed = e.seedStart + int64(idx)

			sc, err := e.registry.Build(&sceneCfg)
			if err != nil {
				errs[idx] = err
				return
			}

			sim := New(sc)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
