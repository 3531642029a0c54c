package geometry

import "math"

// Vector2D is a point or direction on the ground plane. The crowd flow
// field stores its per-cell directions with it.
type Vector2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// LenSqr calculates the squared magnitude of the vector.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction, or the zero vector
// when v has no length.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l == 0 {
		return Vector2D{}
	}
	return Vector2D{v.X / l, v.Y / l}
}

// XY3 lifts v into 3D space on the z=0 plane.
func (v Vector2D) XY3() Vector3D {
	return Vector3D{X: v.X, Y: v.Y}
}
