package analysis

import (
	"math"

	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

// LyapunovExponent estimates the largest Lyapunov exponent from two
// scenes built from the same config, b perturbed slightly away from a.
// Both are stepped in lockstep. After every step the growth of their
// phase-space separation is logged and b is pulled back to the initial
// distance d0, so the result is the mean log growth rate over the time
// integrated. Scenes with different particle counts, or no initial
// separation, give 0.
func LyapunovExponent(a, b *scene.Scene, dt float64, steps int) float64 {
	if len(a.Particles) != len(b.Particles) || dt <= 0 || steps <= 0 {
		return 0
	}
	d0 := separation(a, b)
	if d0 == 0 {
		return 0
	}

	sumLog := 0.0
	count := 0
	for range steps {
		a.Step(dt)
		b.Step(dt)

		sep := separation(a, b)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / d0)
		count++
		renormalize(a, b, d0/sep)
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

// Perturb moves one particle of s by eps along x.
func Perturb(s *scene.Scene, particle int, eps float64) {
	if particle < 0 || particle >= len(s.Particles) {
		return
	}
	p := &s.Particles[particle]
	p.SetPosition(p.Position().Add(vecmath.New(eps, 0, 0)))
}

func separation(a, b *scene.Scene) float64 {
	sum := 0.0
	for i := range a.Particles {
		dp := b.Particles[i].Position().Sub(a.Particles[i].Position())
		dv := b.Particles[i].Velocity().Sub(a.Particles[i].Velocity())
		sum += dp.Dot(dp) + dv.Dot(dv)
	}
	return math.Sqrt(sum)
}

func renormalize(a, b *scene.Scene, scale float64) {
	for i := range b.Particles {
		pa, pb := &a.Particles[i], &b.Particles[i]
		pb.SetPosition(pa.Position().Add(pb.Position().Sub(pa.Position()).Scale(scale)))
		pb.SetVelocity(pa.Velocity().Add(pb.Velocity().Sub(pa.Velocity()).Scale(scale)))
	}
}
