package automation

import (
	"context"
	"math/rand"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/vecmath"
)

// MonteCarloConfig perturbs every movable particle's starting velocity by
// up to Perturbation on each axis, once per trial. Seed drives the
// perturbations, so equal seeds, zero included, give equal trials.
type MonteCarloConfig struct {
	Perturbation float64
	Trials       int
	Seed         int64
}

type MonteCarloResult struct {
	Trial      int
	Stable     bool // stayed finite and inside the view margin
	Stability  float64
	PeakEnergy float64
}

// stabilityMargin is how far outside its view box a particle may go before
// a frame counts against the trial.
const stabilityMargin = 5

func RunMonteCarlo(ctx context.Context, reg *scene.Registry, base *config.Config, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.Trials)

	rng := rand.New(rand.NewSource(cfg.Seed))

	for trial := 0; trial < cfg.Trials; trial++ {
		sc, err := reg.Build(base)
		if err != nil {
			return nil, err
		}
		perturb(sc, rng, cfg.Perturbation)

		s := sim.New(sc)
		stability := metrics.NewStability(stabilityMargin)
		peak := metrics.NewPeakEnergy()
		s.AddMetric(stability)
		s.AddMetric(peak)

		result, err := s.Run(ctx, sim.Config{Dt: base.Dt, Duration: base.Duration, RecordEvery: 1 << 30, ValidateState: true})
		if err != nil {
			return results, err
		}

		results = append(results, MonteCarloResult{
			Trial:      trial,
			Stable:     len(result.Errors) == 0 && stability.Value() >= 1,
			Stability:  stability.Value(),
			PeakEnergy: peak.Value(),
		})
	}

	return results, nil
}

func perturb(sc *scene.Scene, rng *rand.Rand, amount float64) {
	for i := range sc.Particles {
		p := &sc.Particles[i]
		if !p.HasFiniteMass() {
			continue
		}
		kick := vecmath.New(
			(rng.Float64()-0.5)*2*amount,
			(rng.Float64()-0.5)*2*amount,
			(rng.Float64()-0.5)*2*amount,
		)
		p.SetVelocity(p.Velocity().Add(kick))
	}
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
