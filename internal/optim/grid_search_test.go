package optim

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
)

func dropConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scene = "custom"
	cfg.Duration = 0.5
	cfg.Custom = config.CustomConfig{
		Particles: []config.ParticleSpec{{Position: [3]float64{0, 10, 0}, Mass: 1}},
	}
	return cfg
}

func TestGridSearch(t *testing.T) {
	g := NewWithT(t)

	gs := NewGridSearch(
		[]string{"gravity", "damping"},
		[][]float64{{-20, -10, -2}, {0.5, 1}},
	)
	base := dropConfig()
	best, value, err := gs.Search(context.Background(), scene.NewRegistry(), base, "peak_energy")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(best).To(HaveKeyWithValue("gravity", -2.0))
	g.Expect(best).To(HaveKeyWithValue("damping", 0.5))
	g.Expect(value).To(BeNumerically(">", 0))
	g.Expect(base.Gravity).To(Equal(config.DefaultGravity))
}

func TestGridSearch_Errors(t *testing.T) {
	g := NewWithT(t)
	reg := scene.NewRegistry()

	_, _, err := NewGridSearch([]string{"gravity"}, nil).Search(context.Background(), reg, dropConfig(), "peak_energy")
	g.Expect(err).To(HaveOccurred())

	_, _, err = NewGridSearch([]string{"bogus"}, [][]float64{{1}}).Search(context.Background(), reg, dropConfig(), "peak_energy")
	g.Expect(err).To(MatchError(config.ErrInvalidConfig))

	_, _, err = NewGridSearch([]string{"gravity"}, [][]float64{{1}}).Search(context.Background(), reg, dropConfig(), "nope")
	g.Expect(err).To(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewGridSearch([]string{"gravity"}, [][]float64{{-1}}).Search(ctx, reg, dropConfig(), "peak_energy")
	g.Expect(err).To(MatchError(context.Canceled))
}
