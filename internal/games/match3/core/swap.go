package core

// CheckSwap validates a swap request without touching the board. It returns
// ReasonNone when both cells are in bounds, orthogonally adjacent, occupied
// and movable.
func CheckSwap(b *Board, pa, pb Position) RejectReason {
	switch {
	case !b.InBounds(pa) || !b.InBounds(pb):
		return ReasonOutOfBounds
	case !pa.Adjacent(pb):
		return ReasonNotAdjacent
	}
	ta, tb := b.Get(pa), b.Get(pb)
	switch {
	case ta == nil || tb == nil:
		return ReasonEmptyCell
	case !ta.Movable || !tb.Movable:
		return ReasonImmovable
	}
	return ReasonNone
}

// AttemptSwap asks the engine to swap the tiles at a and b.
//
// A request that fails validation, or arrives while the engine is busy, is
// rejected without touching the board. Otherwise the tiles are exchanged and,
// after the swap delay, evaluated: a special tile in either cell detonates, a
// completed run starts a cascade, and anything else swaps the tiles back.
//
// If the scheduler runs continuations inline the returned result is final.
// Otherwise it has Pending set and the final result is delivered as a
// MoveResolved event.
func (e *Engine) AttemptSwap(a, b Position) MoveResult {
	if e.board == nil {
		return e.reject(a, b, ReasonNoBoard)
	}
	if e.phase != PhaseIdle {
		return e.reject(a, b, ReasonBusy)
	}
	if reason := CheckSwap(e.board, a, b); reason != ReasonNone {
		if reason == ReasonImmovable {
			if t := e.board.Get(a); t != nil {
				e.sink.TileMoved(*t, a, a, e.delays.Swap)
			}
		}
		return e.reject(a, b, reason)
	}

	seq := e.begin(a, b)
	e.swapTiles(seq, a, b, true)
	return seq.snapshot()
}

// swapTiles exchanges two tiles and waits for the swap animation. A player
// swap then evaluates the board; a settling swap (the revert of a failed
// move) only finishes the sequence.
func (e *Engine) swapTiles(seq *sequence, a, b Position, player bool) {
	e.setPhase(PhaseSwapping)
	e.board.Swap(a, b)
	if t := e.board.Get(a); t != nil {
		e.sink.TileMoved(*t, b, a, e.delays.Swap)
	}
	if t := e.board.Get(b); t != nil {
		e.sink.TileMoved(*t, a, b, e.delays.Swap)
	}
	e.after(e.delays.Swap, func() {
		if player {
			e.evaluate(seq)
			return
		}
		e.finish(seq)
	})
}

// evaluate runs once the swapped tiles have arrived.
func (e *Engine) evaluate(seq *sequence) {
	e.setPhase(PhaseEvaluating)

	// The dragged tile now sits at B; it takes precedence when both are bombs.
	if bomb := firstSpecial(e.board.Get(seq.result.B), e.board.Get(seq.result.A)); bomb != nil {
		seq.result.Accepted = true
		seq.result.BoardChanged = true
		e.explode(seq, bomb)
		return
	}

	groups := Scan(e.board)
	if len(groups) == 0 {
		seq.result.Reason = ReasonNoMatch
		e.emit(MoveRejected{A: seq.result.A, B: seq.result.B, Reason: ReasonNoMatch})
		e.swapTiles(seq, seq.result.B, seq.result.A, false)
		return
	}

	seq.result.Accepted = true
	seq.result.BoardChanged = true
	e.resolve(seq, groups)
}

func firstSpecial(tiles ...*Tile) *Tile {
	for _, t := range tiles {
		if t.IsSpecial() {
			return t
		}
	}
	return nil
}
