package core

import "fmt"

// Position addresses a board cell. Row 0 is the top row, Col 0 the left column.
type Position struct {
	Row int
	Col int
}

// P is a convenience constructor for Position.
func P(row, col int) Position {
	return Position{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns a new Position offset by (dr, dc).
func (p Position) Add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Step returns the position one cell away in the given direction.
func (p Position) Step(d Dir) Position {
	dr, dc := d.Delta()
	return p.Add(dr, dc)
}

// Manhattan returns the Manhattan distance to another position.
func (p Position) Manhattan(other Position) int {
	dr := p.Row - other.Row
	dc := p.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Adjacent reports whether other is an orthogonal neighbour of p.
func (p Position) Adjacent(other Position) bool {
	return p.Manhattan(other) == 1
}

// Dir is one of the four orthogonal directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Dirs lists the orthogonal directions in clockwise order.
var Dirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (dRow, dCol) offset for one step in this direction.
func (d Dir) Delta() (dr, dc int) {
	switch d {
	case DirUp:
		return -1, 0
	case DirRight:
		return 0, 1
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	default:
		return 0, 0
	}
}

// mooreOffsets are the eight (dRow, dCol) offsets around a cell, row-major.
var mooreOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
