package match3

import (
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Flash length for detonated cells, in ticks.
const flashTicks = 12

// slide is a tile gliding between two cells.
type slide struct {
	from, to core.Position
	ticks    int
	duration int
}

// progress returns how far the slide has run, from 0.0 to 1.0.
func (s slide) progress() float64 {
	if s.duration <= 0 {
		return 1.0
	}
	p := float64(s.ticks) / float64(s.duration)
	if p > 1.0 {
		p = 1.0
	}
	return p
}

// fade is a removed tile still drawn while it disappears.
type fade struct {
	tile  core.Tile
	ticks int
}

// flash marks a detonated cell.
type flash struct {
	pos   core.Position
	ticks int
}

// effects records the engine's presentation commands and turns them into
// tick-based animation state for the renderer. It implements core.Sink.
type effects struct {
	tickRate  int
	fadeTicks int
	dropTicks int

	slides  map[uint64]*slide
	fades   []fade
	flashes []flash
	spawned map[uint64]int // ticks since a refilled tile appeared
}

func newEffects(tickRate int, delays core.Delays) *effects {
	fx := &effects{tickRate: tickRate}
	fx.fadeTicks = fx.ticksFor(delays.Fade)
	fx.dropTicks = fx.ticksFor(delays.Refill)
	fx.reset()
	return fx
}

// reset drops every running animation.
func (fx *effects) reset() {
	fx.slides = make(map[uint64]*slide)
	fx.fades = nil
	fx.flashes = nil
	fx.spawned = make(map[uint64]int)
}

// ticksFor converts an engine delay into simulation ticks, at least one.
func (fx *effects) ticksFor(d time.Duration) int {
	if d <= 0 || fx.tickRate <= 0 {
		return 0
	}
	n := int((d*time.Duration(fx.tickRate) + time.Second/2) / time.Second)
	if n < 1 {
		n = 1
	}
	return n
}

func (fx *effects) TileCreated(t core.Tile) {
	if fx.dropTicks > 0 {
		fx.spawned[t.ID] = 0
	}
}

func (fx *effects) TileRemoved(t core.Tile) {
	delete(fx.slides, t.ID)
	delete(fx.spawned, t.ID)
	if fx.fadeTicks > 0 {
		fx.fades = append(fx.fades, fade{tile: t})
	}
}

func (fx *effects) TileMoved(t core.Tile, from, to core.Position, hint time.Duration) {
	duration := fx.ticksFor(hint)
	if duration == 0 {
		return
	}
	// A rejected immovable swap reports from == to; draw it as a short nudge.
	fx.slides[t.ID] = &slide{from: from, to: to, duration: duration}
}

func (fx *effects) Explosion(p core.Position) {
	fx.flashes = append(fx.flashes, flash{pos: p})
}

// update advances every animation by one tick and drops finished ones.
func (fx *effects) update() {
	for id, s := range fx.slides {
		s.ticks++
		if s.ticks >= s.duration {
			delete(fx.slides, id)
		}
	}

	fades := fx.fades[:0]
	for _, f := range fx.fades {
		f.ticks++
		if f.ticks < fx.fadeTicks {
			fades = append(fades, f)
		}
	}
	fx.fades = fades

	flashes := fx.flashes[:0]
	for _, f := range fx.flashes {
		f.ticks++
		if f.ticks < flashTicks {
			flashes = append(flashes, f)
		}
	}
	fx.flashes = flashes

	for id, n := range fx.spawned {
		if n+1 >= fx.dropTicks {
			delete(fx.spawned, id)
			continue
		}
		fx.spawned[id] = n + 1
	}
}

// active reports whether anything is still animating.
func (fx *effects) active() bool {
	return len(fx.slides) > 0 || len(fx.fades) > 0 || len(fx.flashes) > 0 || len(fx.spawned) > 0
}

// offset returns the eased drawing offset of a tile, in cells, relative to
// its current position. Freshly spawned tiles drop in from the row above.
func (fx *effects) offset(t *core.Tile) (dr, dc float64, moving bool) {
	s, ok := fx.slides[t.ID]
	if !ok {
		n, spawned := fx.spawned[t.ID]
		if !spawned || fx.dropTicks == 0 {
			return 0, 0, false
		}
		p := easeOutQuad(float64(n) / float64(fx.dropTicks))
		return -(1 - p), 0, true
	}
	p := easeOutQuad(s.progress())
	if s.from == s.to {
		// Nudge out and back.
		return 0, 0.25 * (1 - p), true
	}
	dr = float64(s.from.Row-s.to.Row) * (1 - p)
	dc = float64(s.from.Col-s.to.Col) * (1 - p)
	return dr, dc, true
}

// flashing reports whether the cell at p is lit by a detonation.
func (fx *effects) flashing(p core.Position) bool {
	for _, f := range fx.flashes {
		if f.pos == p {
			return true
		}
	}
	return false
}

// fading returns the removed tiles still being drawn and how far each has
// faded, from 0.0 to 1.0.
func (fx *effects) fading(yield func(t core.Tile, p float64) bool) {
	for _, f := range fx.fades {
		if !yield(f.tile, float64(f.ticks)/float64(fx.fadeTicks)) {
			return
		}
	}
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
