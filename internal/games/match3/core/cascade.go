package core

// TileMove records a tile shifted by gravity.
type TileMove struct {
	Tile *Tile
	From Position
	To   Position
}

// Gravity compacts every column downward, keeping the vertical order of the
// movable tiles. An immovable tile is a floor: tiles above it settle on top of
// it and never pass it. Returns the moves made and, per column, the number of
// empty cells left at the top.
func Gravity(b *Board) ([]TileMove, []int) {
	var moves []TileMove
	tops := make([]int, b.Cols())
	for c := range b.Cols() {
		write := b.Rows() - 1
		for r := b.Rows() - 1; r >= 0; r-- {
			from := P(r, c)
			t := b.Get(from)
			switch {
			case t == nil:
			case !t.Movable:
				write = r - 1
			default:
				if r != write {
					to := P(write, c)
					b.Set(to, t)
					moves = append(moves, TileMove{Tile: t, From: from, To: to})
				}
				write--
			}
		}
		tops[c] = write + 1
	}
	return moves, tops
}

// Refill spawns a standard tile in every empty cell. Columns are filled left
// to right and each column bottom-up, so every pick is seeded by the settled
// tiles beneath it. Pockets sealed under an immovable tile are filled in
// place.
func Refill(b *Board, g *Generator) []*Tile {
	var created []*Tile
	for c := range b.Cols() {
		for r := b.Rows() - 1; r >= 0; r-- {
			p := P(r, c)
			if b.Get(p) == nil {
				created = append(created, g.Spawn(b, p))
			}
		}
	}
	return created
}

// resolve scores and removes one pass of groups, converting long groups into
// special tiles, then waits for the removal animation before refilling.
func (e *Engine) resolve(seq *sequence, groups []MatchGroup) {
	e.setPhase(PhaseResolving)
	seq.result.Passes++
	seq.result.Groups = append(seq.result.Groups, groups...)

	matched := CountTiles(groups)
	e.addScore(seq, matched)
	e.log.Debug("resolving matches", "pass", seq.result.Passes, "groups", len(groups), "tiles", matched)

	if e.targetReached() {
		for _, g := range groups {
			for _, t := range g.Tiles {
				e.remove(t)
			}
		}
		e.completeLevel(seq)
		return
	}

	promoted := make(map[*Tile]bool)
	for _, g := range groups {
		if g.Len() < e.threshold {
			continue
		}
		t := g.Tiles[e.rng.Intn(g.Len())]
		promoted[t] = true
		e.promote(t)
		seq.result.Specials++
	}
	for _, g := range groups {
		for _, t := range g.Tiles {
			if !promoted[t] {
				e.remove(t)
			}
		}
	}

	e.after(e.delays.Remove, func() { e.settle(seq) })
}

// settle applies gravity and refill, then waits for the fall-in animation
// before checking the board again.
func (e *Engine) settle(seq *sequence) {
	e.setPhase(PhaseRefilling)
	moves, empty := Gravity(e.board)
	for _, m := range moves {
		e.sink.TileMoved(*m.Tile, m.From, m.To, e.delays.Refill)
	}
	created := Refill(e.board, e.gen)
	for _, t := range created {
		e.sink.TileCreated(*t)
	}
	e.log.Debug("board settled", "moved", len(moves), "empty_top", empty, "spawned", len(created))

	e.after(e.delays.Refill, func() { e.check(seq) })
}

// check re-scans the settled board and either starts another pass or ends
// the sequence.
func (e *Engine) check(seq *sequence) {
	e.setPhase(PhaseChecking)
	if groups := Scan(e.board); len(groups) > 0 {
		e.resolve(seq, groups)
		return
	}
	e.finish(seq)
}

// remove clears a matched tile's cell.
func (e *Engine) remove(t *Tile) {
	if e.board.Get(t.Pos) != t {
		return
	}
	e.board.Clear(t.Pos)
	e.sink.TileRemoved(*t)
}

// promote replaces a matched tile with a new special tile in the same cell.
func (e *Engine) promote(t *Tile) {
	s := e.board.NewSpecial()
	e.board.Set(t.Pos, s)
	e.sink.TileRemoved(*t)
	e.sink.TileCreated(*s)
}
