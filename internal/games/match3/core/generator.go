package core

// Random is the uniform integer source the engine draws from.
// *math/rand.Rand satisfies it.
type Random interface {
	// Intn returns a uniform int in [0, n). n is always positive.
	Intn(n int) int
}

// Generator picks colors for new standard tiles so that a new tile does not
// complete a run with tiles that are already on the board.
type Generator struct {
	palette Palette
	rng     Random
}

// NewGenerator creates a generator over a palette.
func NewGenerator(p Palette, rng Random) *Generator {
	return &Generator{palette: p, rng: rng}
}

// Palette returns the generator's palette.
func (g *Generator) Palette() Palette {
	return g.palette
}

// Pick chooses a color for pos uniformly among the palette colors that would
// not form a run of three with the two occupied cells in any of dirs. When
// dirs contains both a direction and its opposite, the color is also excluded
// if it would bridge the two immediate neighbours. Only tiles already on the
// board are inspected. If every color is excluded the full palette is used.
func (g *Generator) Pick(b *Board, pos Position, dirs ...Dir) ColorID {
	candidates := make([]ColorID, 0, len(g.palette))
	for _, c := range g.palette {
		if !wouldRun(b, pos, c, dirs) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		candidates = g.palette
	}
	return candidates[g.rng.Intn(len(candidates))]
}

func wouldRun(b *Board, pos Position, c ColorID, dirs []Dir) bool {
	has := [4]bool{}
	for _, d := range dirs {
		has[d] = true
		n1 := pos.Step(d)
		if b.Get(n1).matches(c) && b.Get(n1.Step(d)).matches(c) {
			return true
		}
	}
	if has[DirLeft] && has[DirRight] && b.Get(pos.Step(DirLeft)).matches(c) && b.Get(pos.Step(DirRight)).matches(c) {
		return true
	}
	if has[DirUp] && has[DirDown] && b.Get(pos.Step(DirUp)).matches(c) && b.Get(pos.Step(DirDown)).matches(c) {
		return true
	}
	return false
}

// Fill populates every empty cell left-to-right, top-to-bottom. Each pick
// looks only at the two cells to the left and the two cells above, which are
// always placed earlier in the pass. Returns the created tiles.
func (g *Generator) Fill(b *Board) []*Tile {
	return g.fill(b, DirLeft, DirUp)
}

// FillAround populates every empty cell of a board that already holds fixed
// tiles, checking all four directions so no new tile completes a run with a
// fixed neighbour.
func (g *Generator) FillAround(b *Board) []*Tile {
	return g.fill(b, DirLeft, DirUp, DirRight, DirDown)
}

func (g *Generator) fill(b *Board, dirs ...Dir) []*Tile {
	var created []*Tile
	for r := range b.Rows() {
		for c := range b.Cols() {
			p := P(r, c)
			if b.Get(p) != nil {
				continue
			}
			t := b.NewStandard(g.Pick(b, p, dirs...))
			b.Set(p, t)
			created = append(created, t)
		}
	}
	return created
}

// Spawn creates a refill tile at p. The pick is seeded by the settled tiles
// below p and by both horizontal neighbours.
func (g *Generator) Spawn(b *Board, p Position) *Tile {
	t := b.NewStandard(g.Pick(b, p, DirDown, DirLeft, DirRight))
	b.Set(p, t)
	return t
}
