package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one character position on a Screen.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a 2D character buffer for rendering game graphics.
// Games draw runes and colors into it; the platform turns it into
// styled terminal output.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  width,
		height: height,
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	old := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	for y := 0; y < Min(oldH, height); y++ {
		copy(s.cells[y], old[y][:Min(oldW, width)])
	}
}

// Clear fills the entire screen with uncolored spaces.
func (s *Screen) Clear() {
	s.fill(blank)
}

// Fill fills the entire screen with the given rune.
func (s *Screen) Fill(r rune) {
	s.fill(Cell{Rune: r})
}

func (s *Screen) fill(c Cell) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = c
		}
	}
}

func (s *Screen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Set places an uncolored rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetWithColor(x, y, r, ColorDefault)
}

// SetWithColor places a rune with a foreground color.
func (s *Screen) SetWithColor(x, y int, r rune, c Color) {
	if !s.inBounds(x, y) {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// SetColor recolors a cell without touching its rune.
func (s *Screen) SetColor(x, y int, c Color) {
	if !s.inBounds(x, y) {
		return
	}
	s.cells[y][x].Color = c
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the full cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inBounds(x, y) {
		return blank
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColor(x, y, text, ColorDefault)
}

// DrawTextColor writes a string in a single color.
func (s *Screen) DrawTextColor(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetWithColor(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawTextCenteredColor(y, text, ColorDefault)
}

// DrawTextCenteredColor is DrawTextCentered with a color.
func (s *Screen) DrawTextCenteredColor(y int, text string, c Color) {
	x := (s.width - utf8.RuneCountInString(text)) / 2
	s.DrawTextColor(x, y, text, c)
}

// DrawRect fills a rectangular area with the given rune.
func (s *Screen) DrawRect(r Rect, fill rune) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.Set(x, y, fill)
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (s *Screen) DrawBox(r Rect) {
	s.DrawBoxColor(r, ColorDefault)
}

// DrawBoxColor draws a box outline in the given color.
func (s *Screen) DrawBoxColor(r Rect, c Color) {
	right, bottom := r.Right()-1, r.Bottom()-1

	s.SetWithColor(r.X, r.Y, '┌', c)
	s.SetWithColor(right, r.Y, '┐', c)
	s.SetWithColor(r.X, bottom, '└', c)
	s.SetWithColor(right, bottom, '┘', c)

	for x := r.X + 1; x < right; x++ {
		s.SetWithColor(x, r.Y, '─', c)
		s.SetWithColor(x, bottom, '─', c)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetWithColor(r.X, y, '│', c)
		s.SetWithColor(right, y, '│', c)
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		s.Set(x+i, y, r)
	}
}

// String converts the screen buffer to plain text without colors.
// Rows are joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	runes := make([]rune, s.width)
	for x, c := range s.cells[y] {
		runes[x] = c.Rune
	}
	return string(runes)
}
