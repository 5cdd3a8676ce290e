package core

// Blast is the outcome of a detonation sweep, chained detonations included.
type Blast struct {
	Detonated []Position // special tiles that went off, in order
	Destroyed []Tile     // destructible tiles cleared by the sweep
	Score     int        // matchable tiles among Destroyed
}

func (bl *Blast) merge(other Blast) {
	bl.Detonated = append(bl.Detonated, other.Detonated...)
	bl.Destroyed = append(bl.Destroyed, other.Destroyed...)
	bl.Score += other.Score
}

// Detonate explodes a special tile: it clears the tile's own cell, chains
// into every special tile in its Moore neighbourhood and clears every other
// destructible neighbour. The Exploded latch makes repeated calls, and cycles
// between neighbouring specials, no-ops. Non-special tiles are ignored.
func Detonate(b *Board, t *Tile) Blast {
	var bl Blast
	detonate(b, t, &bl)
	return bl
}

func detonate(b *Board, t *Tile, bl *Blast) {
	if !t.IsSpecial() || t.Exploded {
		return
	}
	t.Exploded = true
	origin := t.Pos
	if b.Get(origin) == t {
		b.Clear(origin)
	}
	bl.Detonated = append(bl.Detonated, origin)

	for _, p := range b.Neighbors8(origin) {
		n := b.Get(p)
		switch {
		case n == nil:
		case n.IsSpecial():
			detonate(b, n, bl)
		case n.Destructible:
			b.Clear(p)
			bl.Destroyed = append(bl.Destroyed, *n)
			if n.Matchable {
				bl.Score++
			}
		}
	}
}

// ExplosionResult describes a TriggerSpecial request.
type ExplosionResult struct {
	Triggered bool
	Reason    RejectReason // set when not triggered
	Blast     Blast
	Pending   bool       // settling continues; see MoveResolved
	Move      MoveResult // the full sequence; final unless Pending
}

// TriggerSpecial detonates the special tile at p directly, as a tap would.
// The blast is applied before returning; gravity, refill and any cascade it
// causes follow through the scheduler like a swap.
func (e *Engine) TriggerSpecial(p Position) ExplosionResult {
	reason := ReasonNone
	switch {
	case e.board == nil:
		reason = ReasonNoBoard
	case e.phase != PhaseIdle:
		reason = ReasonBusy
	case !e.board.InBounds(p):
		reason = ReasonOutOfBounds
	case e.board.Get(p) == nil:
		reason = ReasonEmptyCell
	case !e.board.Get(p).IsSpecial():
		reason = ReasonNotSpecial
	}
	if reason != ReasonNone {
		e.reject(p, p, reason)
		return ExplosionResult{Reason: reason}
	}

	seq := e.begin(p, p)
	seq.result.Accepted = true
	seq.result.BoardChanged = true
	e.explode(seq, e.board.Get(p))

	res := ExplosionResult{
		Triggered: true,
		Blast:     seq.result.Blast,
		Move:      seq.snapshot(),
	}
	res.Pending = res.Move.Pending
	return res
}

// explode runs a detonation inside a sequence and schedules the settle pass.
// Detonation never starts a fresh match sweep of its own; the re-scan after
// refill decides whether a cascade follows.
func (e *Engine) explode(seq *sequence, t *Tile) {
	e.setPhase(PhaseResolving)
	bl := Detonate(e.board, t)
	for _, p := range bl.Detonated {
		e.sink.Explosion(p)
	}
	for _, d := range bl.Destroyed {
		e.sink.TileRemoved(d)
	}
	seq.result.Blast.merge(bl)
	e.addScore(seq, bl.Score)
	e.log.Debug("detonation", "origin", t.Pos, "chained", len(bl.Detonated), "destroyed", len(bl.Destroyed))

	if e.targetReached() {
		e.completeLevel(seq)
		return
	}
	e.after(e.delays.Remove, func() { e.settle(seq) })
}
