package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Reference 5x5 board with no runs. Swapping (0,2) and (1,2) completes
// a run of three zeros in row 0; swapping (0,3) and (0,4) completes nothing.
var board5 = []string{
	"00123",
	"12034",
	"23401",
	"34012",
	"40123",
}

// zeroRNG always picks the first candidate.
type zeroRNG struct{}

func (zeroRNG) Intn(int) int { return 0 }

// stepRNG cycles through 0, 1, 2, ... modulo n.
type stepRNG struct{ next int }

func (r *stepRNG) Intn(n int) int {
	v := r.next % n
	r.next++
	return v
}

type moveCall struct {
	tile     core.Tile
	from, to core.Position
	hint     time.Duration
}

// recordingSink keeps every presentation command.
type recordingSink struct {
	created    []core.Tile
	removed    []core.Tile
	moved      []moveCall
	explosions []core.Position
}

func (s *recordingSink) TileCreated(t core.Tile) { s.created = append(s.created, t) }
func (s *recordingSink) TileRemoved(t core.Tile) { s.removed = append(s.removed, t) }
func (s *recordingSink) TileMoved(t core.Tile, from, to core.Position, hint time.Duration) {
	s.moved = append(s.moved, moveCall{tile: t, from: from, to: to, hint: hint})
}
func (s *recordingSink) Explosion(p core.Position) { s.explosions = append(s.explosions, p) }

// loadEngine builds an engine around a fixed layout with no target.
func loadEngine(t *testing.T, rows []string, opts ...core.Option) (*core.Engine, *core.Board) {
	t.Helper()
	opts = append([]core.Option{core.WithRandom(zeroRNG{}), core.WithTarget(0)}, opts...)
	e := core.NewEngine(opts...)
	b := core.MustParseBoard(rows...)
	require.NoError(t, e.LoadBoard(b, core.NewPalette(5)))
	e.Events()
	return e, b
}

// phases extracts the state machine transitions from an event list.
func phases(events []core.Event) []core.Phase {
	var out []core.Phase
	for _, ev := range events {
		if pc, ok := ev.(core.PhaseChanged); ok {
			out = append(out, pc.To)
		}
	}
	return out
}

// requireSettled checks the invariants of a board at rest.
func requireSettled(t *testing.T, b *core.Board) {
	t.Helper()
	require.NoError(t, b.Check())
	require.True(t, b.Full(), "board has empty cells:\n%s", b)
	require.Empty(t, core.Scan(b), "board has runs:\n%s", b)
}
