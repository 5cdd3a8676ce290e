package core

import (
	"fmt"
	"strings"
)

// Board is the fixed rows x cols slot array. Cells are stored in row-major
// order: index = row*cols + col. Every non-nil cell holds a tile whose Pos
// equals the cell coordinates; all writes go through Set, Clear and Swap,
// which keep that true.
type Board struct {
	rows   int
	cols   int
	cells  []*Tile
	nextID uint64
}

// NewBoard creates an empty board. Non-positive dimensions are a
// configuration error.
func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &ConfigError{
			Code:    CodeInvalidDimensions,
			Message: fmt.Sprintf("board must be at least 1x1, got %dx%d", rows, cols),
		}
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]*Tile, rows*cols),
	}, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

func (b *Board) index(p Position) int {
	return p.Row*b.cols + p.Col
}

// InBounds returns true if the position is within the board.
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// Get returns the tile at p, or nil if the cell is empty or out of bounds.
func (b *Board) Get(p Position) *Tile {
	if !b.InBounds(p) {
		return nil
	}
	return b.cells[b.index(p)]
}

// Set places t at p and updates t.Pos. If t currently occupies another cell
// of this board, that cell is vacated. A nil tile clears the cell.
func (b *Board) Set(p Position, t *Tile) {
	if !b.InBounds(p) {
		return
	}
	if t == nil {
		b.Clear(p)
		return
	}
	if t.Pos != p && b.Get(t.Pos) == t {
		b.cells[b.index(t.Pos)] = nil
	}
	b.cells[b.index(p)] = t
	t.Pos = p
}

// Clear empties the cell at p and returns its previous occupant.
func (b *Board) Clear(p Position) *Tile {
	if !b.InBounds(p) {
		return nil
	}
	i := b.index(p)
	t := b.cells[i]
	b.cells[i] = nil
	return t
}

// Swap exchanges the occupants of two cells and updates both positions.
// Either cell may be empty. Returns false if either position is out of bounds.
func (b *Board) Swap(pa, pb Position) bool {
	if !b.InBounds(pa) || !b.InBounds(pb) {
		return false
	}
	ia, ib := b.index(pa), b.index(pb)
	b.cells[ia], b.cells[ib] = b.cells[ib], b.cells[ia]
	if t := b.cells[ia]; t != nil {
		t.Pos = pa
	}
	if t := b.cells[ib]; t != nil {
		t.Pos = pb
	}
	return true
}

// Neighbors4 returns the in-bounds orthogonal neighbours of p.
func (b *Board) Neighbors4(p Position) []Position {
	out := make([]Position, 0, 4)
	for _, d := range Dirs {
		if n := p.Step(d); b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Neighbors8 returns the in-bounds Moore neighbourhood of p in row-major order.
func (b *Board) Neighbors8(p Position) []Position {
	out := make([]Position, 0, 8)
	for _, off := range mooreOffsets {
		if n := p.Add(off[0], off[1]); b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// NewStandard creates a detached standard tile with a fresh identity.
func (b *Board) NewStandard(c ColorID) *Tile {
	b.nextID++
	return &Tile{
		ID:           b.nextID,
		Kind:         KindStandard,
		Color:        c,
		Movable:      true,
		Matchable:    true,
		Destructible: true,
	}
}

// NewSpecial creates a detached special tile with a fresh identity.
func (b *Board) NewSpecial() *Tile {
	b.nextID++
	return &Tile{
		ID:      b.nextID,
		Kind:    KindSpecial,
		Movable: true,
	}
}

// Reset empties every cell. Tile identities keep increasing.
func (b *Board) Reset() {
	clear(b.cells)
}

// Tiles returns the occupied tiles in row-major order.
func (b *Board) Tiles() []*Tile {
	out := make([]*Tile, 0, len(b.cells))
	for _, t := range b.cells {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Empty returns the positions of empty cells in row-major order.
func (b *Board) Empty() []Position {
	var out []Position
	for i, t := range b.cells {
		if t == nil {
			out = append(out, Position{Row: i / b.cols, Col: i % b.cols})
		}
	}
	return out
}

// Full reports whether no cell is empty.
func (b *Board) Full() bool {
	for _, t := range b.cells {
		if t == nil {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the board. Tile identities are preserved.
func (b *Board) Clone() *Board {
	c := &Board{
		rows:   b.rows,
		cols:   b.cols,
		cells:  make([]*Tile, len(b.cells)),
		nextID: b.nextID,
	}
	for i, t := range b.cells {
		if t != nil {
			cp := *t
			c.cells[i] = &cp
		}
	}
	return c
}

// Equal reports whether two boards have the same shape and the same tile
// variant, color, mobility and latch in every cell. Identities are ignored.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i, t := range b.cells {
		o := other.cells[i]
		if (t == nil) != (o == nil) {
			return false
		}
		if t == nil {
			continue
		}
		if t.Kind != o.Kind || t.Color != o.Color || t.Movable != o.Movable || t.Exploded != o.Exploded {
			return false
		}
	}
	return true
}

// Check verifies that every occupied cell agrees with its tile's Pos and that
// no tile occupies two cells.
func (b *Board) Check() error {
	seen := make(map[*Tile]Position, len(b.cells))
	for i, t := range b.cells {
		if t == nil {
			continue
		}
		p := Position{Row: i / b.cols, Col: i % b.cols}
		if t.Pos != p {
			return fmt.Errorf("tile %s stored at %s", t, p)
		}
		if prev, dup := seen[t]; dup {
			return fmt.Errorf("tile %s stored at %s and %s", t, prev, p)
		}
		seen[t] = p
	}
	return nil
}

// Layout returns one notation string per row.
func (b *Board) Layout() []string {
	out := make([]string, b.rows)
	var sb strings.Builder
	for r := range b.rows {
		sb.Reset()
		for c := range b.cols {
			sb.WriteRune(b.cells[r*b.cols+c].Symbol())
		}
		out[r] = sb.String()
	}
	return out
}

// String renders the board in notation, one row per line.
func (b *Board) String() string {
	return strings.Join(b.Layout(), "\n")
}
