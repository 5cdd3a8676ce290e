package core

// MinRun is the shortest line of equal colors that counts as a match.
const MinRun = 3

// Axis tells which scan produced a group.
type Axis uint8

const (
	AxisRow Axis = iota
	AxisColumn
)

// String returns the string representation of an axis.
func (a Axis) String() string {
	if a == AxisRow {
		return "row"
	}
	return "column"
}

// MatchGroup is one run found by Scan, minus tiles already claimed by an
// earlier group of the same scan.
type MatchGroup struct {
	Color ColorID
	Axis  Axis
	Tiles []*Tile
}

// Len returns the number of tiles in the group.
func (g MatchGroup) Len() int {
	return len(g.Tiles)
}

// Positions returns the positions of the group's tiles at scan time.
func (g MatchGroup) Positions() []Position {
	out := make([]Position, len(g.Tiles))
	for i, t := range g.Tiles {
		out[i] = t.Pos
	}
	return out
}

// CountTiles returns the total number of tiles across groups.
func CountTiles(groups []MatchGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Tiles)
	}
	return n
}

// Scan finds every run of MinRun or more equal matchable tiles. Rows are
// scanned top to bottom first, then columns left to right. A tile is claimed
// by the first group that reaches it, so a tile at the crossing of a
// horizontal and a vertical run always belongs to the horizontal group.
func Scan(b *Board) []MatchGroup {
	claimed := make(map[*Tile]bool)
	var groups []MatchGroup
	for r := range b.Rows() {
		groups = scanLine(b, P(r, 0), DirRight, b.Cols(), AxisRow, claimed, groups)
	}
	for c := range b.Cols() {
		groups = scanLine(b, P(0, c), DirDown, b.Rows(), AxisColumn, claimed, groups)
	}
	return groups
}

func scanLine(b *Board, start Position, d Dir, n int, axis Axis, claimed map[*Tile]bool, groups []MatchGroup) []MatchGroup {
	var run []*Tile
	flush := func() {
		if len(run) >= MinRun {
			g := MatchGroup{Color: run[0].Color, Axis: axis}
			for _, t := range run {
				if !claimed[t] {
					claimed[t] = true
					g.Tiles = append(g.Tiles, t)
				}
			}
			if len(g.Tiles) > 0 {
				groups = append(groups, g)
			}
		}
		run = run[:0]
	}

	p := start
	for range n {
		t := b.Get(p)
		switch {
		case t == nil || !t.Matchable:
			flush()
		case len(run) > 0 && run[0].Color == t.Color:
			run = append(run, t)
		default:
			flush()
			run = append(run, t)
		}
		p = p.Step(d)
	}
	flush()
	return groups
}

// HasMatch reports whether the board holds at least one run.
func HasMatch(b *Board) bool {
	return len(Scan(b)) > 0
}

// Move is a candidate swap between two adjacent cells.
type Move struct {
	A Position
	B Position
}

// FindMoves lists every swap that would be accepted: swaps that complete a
// run and swaps that move a special tile. Each pair is reported once, with A
// above or left of B.
func FindMoves(b *Board) []Move {
	var moves []Move
	work := b.Clone()
	for r := range b.Rows() {
		for c := range b.Cols() {
			a := P(r, c)
			for _, d := range [2]Dir{DirRight, DirDown} {
				n := a.Step(d)
				if CheckSwap(work, a, n) != ReasonNone {
					continue
				}
				if work.Get(a).IsSpecial() || work.Get(n).IsSpecial() {
					moves = append(moves, Move{A: a, B: n})
					continue
				}
				work.Swap(a, n)
				if HasMatch(work) {
					moves = append(moves, Move{A: a, B: n})
				}
				work.Swap(a, n)
			}
		}
	}
	return moves
}
