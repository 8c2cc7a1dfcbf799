// Package geom provides the 2D vector and capsule math used by physics and
// collision. Everything here is pure.
package geom

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{X: a.X + b.X, Y: a.Y + b.Y}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{X: a.X - b.X, Y: a.Y - b.Y}
}

func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{X: a.X * s, Y: a.Y * s}
}

func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// LenSq returns the squared length.
func (a Vec2) LenSq() float64 {
	return a.Dot(a)
}

// Len returns the length.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// Rotate rotates a by angle radians (counter-clockwise in a y-up frame,
// clockwise on screen).
func (a Vec2) Rotate(angle float64) Vec2 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vec2{
		X: a.X*cos - a.Y*sin,
		Y: a.X*sin + a.Y*cos,
	}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (a Vec2) IsFinite() bool {
	return IsFinite(a.X) && IsFinite(a.Y)
}

// Heading returns the unit vector for a rotation.
func Heading(rotation float64) Vec2 {
	return Vec2{X: 1, Y: 0}.Rotate(rotation)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
