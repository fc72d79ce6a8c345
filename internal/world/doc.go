// Package world runs the per-frame physics loop over a set of particles
// that it does not own.
//
// A frame is StartFrame followed by RunPhysics: force generators update the
// accumulators, every particle integrates, contact generators fill the
// fixed-capacity contact buffer in registration order, and the resolver
// works through the buffer. Generators registered late are starved when
// the buffer fills up.
package world
