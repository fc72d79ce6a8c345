// Package analysis turns recorded runs into numbers and pictures.
//
//   - [Series]: one coordinate of one particle over a run
//   - [PowerSpectrum] and [DominantFrequency]: oscillation content of a series
//   - [Trajectory]: a particle's path projected onto two axes
//   - [LyapunovExponent]: divergence of two nearly identical scenes
//   - [Sweep]: a scalar outcome across values of one config parameter
//
// A rope swinging under gravity shows a clear spectral peak; a swarm in a
// box does not:
//
//	ys, _ := analysis.Series(result.Frames, 9, analysis.AxisX)
//	f := analysis.DominantFrequency(ys, dt)
package analysis
