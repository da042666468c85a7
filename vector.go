package scrollsynth

import "math"

// Vector is a two-component value used throughout the engine for input
// deltas, velocities, and screen locations. Vectors are plain values;
// methods return new vectors and never mutate the receiver.
type Vector struct {
	// X is the horizontal component. Positive X points right.
	X float64 `json:"x" yaml:"x"`

	// Y is the vertical component. Positive Y points down, matching
	// screen coordinates.
	Y float64 `json:"y" yaml:"y"`
}

// Vec constructs a vector from its components.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scaled returns v with both components multiplied by f.
func (v Vector) Scaled(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

// Div returns v with both components divided by f.
func (v Vector) Div(f float64) Vector {
	return Vector{X: v.X / f, Y: v.Y / f}
}

// Magnitude returns the Euclidean length of v.
func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns the direction of v with magnitude 1. The zero vector has no
// direction and is returned unchanged.
func (v Vector) Unit() Vector {
	m := v.Magnitude()
	if m == 0 {
		return Vector{}
	}
	return Vector{X: v.X / m, Y: v.Y / m}
}

// Apply returns a vector with f applied to each component independently.
// Useful for building per-axis velocity transforms.
func (v Vector) Apply(f func(float64) float64) Vector {
	return Vector{X: f(v.X), Y: f(v.Y)}
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Dominant returns the axis with the larger absolute component. Horizontal
// wins ties. The zero vector has no dominant axis.
func (v Vector) Dominant() Axis {
	if v.IsZero() {
		return AxisNone
	}
	if math.Abs(v.X) >= math.Abs(v.Y) {
		return AxisHorizontal
	}
	return AxisVertical
}

// ApproxEqual reports whether both components of v are within threshold
// of o's.
func (v Vector) ApproxEqual(o Vector, threshold float64) bool {
	return math.Abs(v.X-o.X) <= threshold && math.Abs(v.Y-o.Y) <= threshold
}

// Axis identifies a scroll direction.
type Axis int

const (
	// AxisNone is the axis of the zero vector.
	AxisNone Axis = iota

	// AxisHorizontal is the x axis.
	AxisHorizontal

	// AxisVertical is the y axis.
	AxisVertical
)

// String returns a short label for logs.
func (a Axis) String() string {
	switch a {
	case AxisNone:
		return "none"
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "unknown"
	}
}
