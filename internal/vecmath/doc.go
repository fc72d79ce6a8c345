// Package vecmath provides the 3-component vector used throughout the engine.
//
// [Vector3] is a plain value type. Methods with value receivers return a new
// vector; the pointer-receiver forms ([Vector3.AddScaled], [Vector3.Invert],
// [Vector3.Clear] and the *InPlace helpers) mutate the receiver.
//
//	v := vecmath.New(3, 4, 0)
//	v.Normalize()           // (0.6, 0.8, 0)
//	vecmath.Vector3{}.Normalize() // zero in, zero out
package vecmath
