package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

func TestNewBoardRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		rows, cols int
	}{
		{0, 5},
		{5, 0},
		{-1, 3},
		{3, -2},
	}

	for _, tt := range tests {
		_, err := core.NewBoard(tt.rows, tt.cols)
		var cfgErr *core.ConfigError
		require.True(t, errors.As(err, &cfgErr), "NewBoard(%d, %d) error = %v", tt.rows, tt.cols, err)
		assert.Equal(t, core.CodeInvalidDimensions, cfgErr.Code)
	}
}

func TestBoardInBounds(t *testing.T) {
	b, err := core.NewBoard(3, 4)
	require.NoError(t, err)

	tests := []struct {
		pos      core.Position
		expected bool
	}{
		{core.P(0, 0), true},
		{core.P(2, 3), true},
		{core.P(1, 2), true},
		{core.P(-1, 0), false},
		{core.P(0, -1), false},
		{core.P(3, 0), false},
		{core.P(0, 4), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, b.InBounds(tt.pos), "InBounds(%v)", tt.pos)
	}
}

func TestBoardSetKeepsPositionsConsistent(t *testing.T) {
	b, err := core.NewBoard(3, 3)
	require.NoError(t, err)

	tile := b.NewStandard(2)
	b.Set(core.P(0, 0), tile)
	assert.Equal(t, core.P(0, 0), tile.Pos)
	assert.Same(t, tile, b.Get(core.P(0, 0)))

	// Placing the same tile elsewhere vacates its old cell.
	b.Set(core.P(2, 1), tile)
	assert.Nil(t, b.Get(core.P(0, 0)))
	assert.Same(t, tile, b.Get(core.P(2, 1)))
	assert.Equal(t, core.P(2, 1), tile.Pos)
	require.NoError(t, b.Check())

	// Out of bounds writes are ignored.
	b.Set(core.P(5, 5), tile)
	assert.Equal(t, core.P(2, 1), tile.Pos)

	assert.Same(t, tile, b.Clear(core.P(2, 1)))
	assert.Nil(t, b.Get(core.P(2, 1)))
}

func TestBoardSwap(t *testing.T) {
	b := core.MustParseBoard(
		"01",
		"2.",
	)
	a, c := b.Get(core.P(0, 0)), b.Get(core.P(0, 1))

	require.True(t, b.Swap(core.P(0, 0), core.P(0, 1)))
	assert.Same(t, a, b.Get(core.P(0, 1)))
	assert.Same(t, c, b.Get(core.P(0, 0)))
	assert.Equal(t, core.P(0, 1), a.Pos)
	assert.Equal(t, core.P(0, 0), c.Pos)

	// Swapping into an empty cell moves the tile.
	moved := b.Get(core.P(1, 0))
	require.True(t, b.Swap(core.P(1, 0), core.P(1, 1)))
	assert.Nil(t, b.Get(core.P(1, 0)))
	assert.Equal(t, core.P(1, 1), moved.Pos)

	assert.False(t, b.Swap(core.P(0, 0), core.P(0, 2)))
	require.NoError(t, b.Check())
}

func TestBoardNeighbors(t *testing.T) {
	b, err := core.NewBoard(4, 4)
	require.NoError(t, err)

	tests := []struct {
		pos   core.Position
		four  int
		eight int
	}{
		{core.P(0, 0), 2, 3},
		{core.P(0, 2), 3, 5},
		{core.P(3, 3), 2, 3},
		{core.P(1, 1), 4, 8},
		{core.P(2, 0), 3, 5},
	}

	for _, tt := range tests {
		assert.Len(t, b.Neighbors4(tt.pos), tt.four, "Neighbors4(%v)", tt.pos)
		n8 := b.Neighbors8(tt.pos)
		assert.Len(t, n8, tt.eight, "Neighbors8(%v)", tt.pos)
		for _, n := range n8 {
			assert.NotEqual(t, tt.pos, n)
			assert.True(t, b.InBounds(n))
		}
	}
}

func TestBoardCheckDetectsStalePosition(t *testing.T) {
	b := core.MustParseBoard("012")
	require.NoError(t, b.Check())

	b.Get(core.P(0, 1)).Pos = core.P(0, 2)
	assert.Error(t, b.Check())
}

func TestBoardCloneIsIndependent(t *testing.T) {
	b := core.MustParseBoard(
		"01*",
		"a2.",
	)
	c := b.Clone()
	require.True(t, b.Equal(c))
	assert.Equal(t, b.Get(core.P(0, 1)).ID, c.Get(core.P(0, 1)).ID)

	c.Swap(core.P(0, 0), core.P(0, 1))
	assert.False(t, b.Equal(c))
	assert.Equal(t, "01*", b.Layout()[0])
	assert.Equal(t, "10*", c.Layout()[0])
}

func TestParseBoardRoundTrip(t *testing.T) {
	rows := []string{
		"0123",
		"a*.9",
	}
	b, err := core.ParseBoard(rows...)
	require.NoError(t, err)
	assert.Equal(t, rows, b.Layout())

	locked := b.Get(core.P(1, 0))
	assert.False(t, locked.Movable)
	assert.True(t, locked.Matchable)
	assert.Equal(t, core.ColorID(0), locked.Color)

	special := b.Get(core.P(1, 1))
	assert.Equal(t, core.KindSpecial, special.Kind)
	assert.False(t, special.Matchable)
	assert.False(t, special.Destructible)
	assert.True(t, special.Movable)
}

func TestParseBoardErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		code string
	}{
		{"no rows", nil, core.CodeInvalidDimensions},
		{"empty row", []string{""}, core.CodeInvalidDimensions},
		{"ragged", []string{"012", "01"}, core.CodeInvalidLayout},
		{"unknown cell", []string{"01x"}, core.CodeInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.ParseBoard(tt.rows...)
			var cfgErr *core.ConfigError
			require.True(t, errors.As(err, &cfgErr), "error = %v", err)
			assert.Equal(t, tt.code, cfgErr.Code)
		})
	}
}
