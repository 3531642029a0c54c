// Package geometry holds the vector types shared by the steering, crowd and
// viewer packages.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the tolerance used by Eq and IsZero.
const Epsilon = 1e-9

// Vector3D is the position/velocity/force type used by the steering and
// crowd packages. It is an immutable value: every operation returns a new
// vector.
type Vector3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Zero3 is the zero vector.
var Zero3 = Vector3D{}

// NewVector3 creates a new Vector3D.
func NewVector3(x, y, z float64) Vector3D {
	return Vector3D{X: x, Y: y, Z: z}
}

func (v Vector3D) vec() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func fromVec(p r3.Vec) Vector3D { return Vector3D{X: p.X, Y: p.Y, Z: p.Z} }

// String implements the fmt.Stringer interface.
func (v Vector3D) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// Add adds two vectors and returns the result.
func (v Vector3D) Add(other Vector3D) Vector3D {
	return fromVec(r3.Add(v.vec(), other.vec()))
}

// Sub subtracts the other vector from the current vector.
func (v Vector3D) Sub(other Vector3D) Vector3D {
	return fromVec(r3.Sub(v.vec(), other.vec()))
}

// Mul scales the vector by a scalar value.
func (v Vector3D) Mul(scalar float64) Vector3D {
	return fromVec(r3.Scale(scalar, v.vec()))
}

// Dot calculates the dot product of two vectors.
func (v Vector3D) Dot(other Vector3D) float64 {
	return r3.Dot(v.vec(), other.vec())
}

// Cross calculates the right-handed cross product v × other.
func (v Vector3D) Cross(other Vector3D) Vector3D {
	return fromVec(r3.Cross(v.vec(), other.vec()))
}

// LenSqr calculates the squared magnitude of the vector.
func (v Vector3D) LenSqr() float64 {
	return r3.Norm2(v.vec())
}

// Len calculates the magnitude (length) of the vector.
func (v Vector3D) Len() float64 {
	return r3.Norm(v.vec())
}

// IsZero reports whether the vector is shorter than Epsilon.
func (v Vector3D) IsZero() bool {
	return v.Len() < Epsilon
}

// Normalize returns a unit vector in the same direction. Any vector with a
// positive length is scaled, however short; the zero vector normalizes to
// the zero vector, never to NaN.
func (v Vector3D) Normalize() Vector3D {
	l := v.Len()
	if l == 0 {
		return Vector3D{}
	}
	return Vector3D{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// Truncate rescales v to max when it is longer than max, otherwise returns v
// unchanged.
func (v Vector3D) Truncate(max float64) Vector3D {
	if v.Len() > max {
		return v.Normalize().Mul(max)
	}
	return v
}

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector3D) DistanceTo(other Vector3D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector3D) DistanceSquaredTo(other Vector3D) float64 {
	return v.Sub(other).LenSqr()
}

// Min returns the componentwise minimum of v and other.
func (v Vector3D) Min(other Vector3D) Vector3D {
	return Vector3D{math.Min(v.X, other.X), math.Min(v.Y, other.Y), math.Min(v.Z, other.Z)}
}

// Max returns the componentwise maximum of v and other.
func (v Vector3D) Max(other Vector3D) Vector3D {
	return Vector3D{math.Max(v.X, other.X), math.Max(v.Y, other.Y), math.Max(v.Z, other.Z)}
}

// LessOrEqual reports whether every component of v is <= the matching
// component of other.
func (v Vector3D) LessOrEqual(other Vector3D) bool {
	return v.X <= other.X && v.Y <= other.Y && v.Z <= other.Z
}

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector3D) Eq(other Vector3D) bool {
	return math.Abs(v.X-other.X) <= Epsilon &&
		math.Abs(v.Y-other.Y) <= Epsilon &&
		math.Abs(v.Z-other.Z) <= Epsilon
}
