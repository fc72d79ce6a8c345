package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k|^2 for the non-negative frequency bins of a
// real series, after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	power := make([]float64, len(spectrum)/2+1)
	for i := range power {
		a := cmplx.Abs(spectrum[i])
		power[i] = a * a
	}
	return power
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin of a series sampled every dt seconds, or 0 if there is none.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 2 || dt <= 0 {
		return 0
	}
	power := PowerSpectrum(data)

	best, bestPower := 0, 0.0
	for k := 1; k < len(power); k++ {
		if power[k] > bestPower {
			best, bestPower = k, power[k]
		}
	}
	return float64(best) / (float64(len(data)) * dt)
}
