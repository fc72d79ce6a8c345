package vecmath

import (
	"fmt"
	"math"
)

// Vector3 is a point or direction in world space.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var (
	Gravity = Vector3{0, -9.81, 0}
	Up      = Vector3{0, 1, 0}
	Right   = Vector3{1, 0, 0}
	UnitX   = Vector3{1, 0, 0}
	UnitY   = Vector3{0, 1, 0}
	UnitZ   = Vector3{0, 0, 1}
)

func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// ComponentProduct returns [ax, by, cz] for [a, b, c] and [x, y, z].
func (v Vector3) ComponentProduct(o Vector3) Vector3 {
	return Vector3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.SquareMagnitude())
}

func (v Vector3) SquareMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Magnitude()
	if l > 0 {
		return v.Scale(1 / l)
	}
	return v
}

// Reflect mirrors v about the plane with normal n (v - 2(v·n)n).
// A vector lying in the plane (v·n == 0) is returned inverted.
func (v Vector3) Reflect(n Vector3) Vector3 {
	d := v.Dot(n)
	if d == 0 {
		return v.Scale(-1)
	}
	return v.Sub(n.Scale(2 * d))
}

func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// AddScaled performs v += o*s.
func (v *Vector3) AddScaled(o Vector3, s float64) {
	v.X += o.X * s
	v.Y += o.Y * s
	v.Z += o.Z * s
}

func (v *Vector3) AddInPlace(o Vector3) {
	v.X += o.X
	v.Y += o.Y
	v.Z += o.Z
}

func (v *Vector3) SubInPlace(o Vector3) {
	v.X -= o.X
	v.Y -= o.Y
	v.Z -= o.Z
}

func (v *Vector3) ScaleInPlace(s float64) {
	v.X *= s
	v.Y *= s
	v.Z *= s
}

func (v *Vector3) ComponentProductInPlace(o Vector3) {
	v.X *= o.X
	v.Y *= o.Y
	v.Z *= o.Z
}

func (v *Vector3) CrossInPlace(o Vector3) {
	*v = v.Cross(o)
}

func (v *Vector3) Invert() {
	v.X, v.Y, v.Z = -v.X, -v.Y, -v.Z
}

func (v *Vector3) Clear() {
	v.X, v.Y, v.Z = 0, 0, 0
}

// Distance returns |a - b|.
func Distance(a, b Vector3) float64 {
	return a.Sub(b).Magnitude()
}
