// Package core provides the platform primitives shared by games and the
// terminal front end: screen buffers, input actions, colors and layout
// geometry. It has no Bubble Tea dependency so game logic stays testable.
package core

// Rect is an axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Inset shrinks the rectangle by n cells on every side.
// The result never has negative dimensions.
func (r Rect) Inset(n int) Rect {
	return Rect{
		X: r.X + n,
		Y: r.Y + n,
		W: Max(0, r.W-2*n),
		H: Max(0, r.H-2*n),
	}
}

// CenteredIn returns a w×h rectangle centered inside the outer one.
func CenteredIn(outer Rect, w, h int) Rect {
	return Rect{
		X: outer.X + (outer.W-w)/2,
		Y: outer.Y + (outer.H-h)/2,
		W: w,
		H: h,
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Wrap maps val into [0, n), wrapping negatives around the end.
func Wrap(val, n int) int {
	if n <= 0 {
		return 0
	}
	val %= n
	if val < 0 {
		val += n
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
