// Package core implements the match-three board engine: grid storage, board
// generation, run detection, swaps, cascades and special tile detonation.
// It is UI-agnostic; presentation and pacing are reached through the Sink and
// Scheduler interfaces.
package core

import "strconv"

// ColorID identifies a standard tile color within a palette.
type ColorID uint8

// Palette is the ordered set of colors the generator draws from.
type Palette []ColorID

// NewPalette returns the palette {0, 1, ..., n-1}.
func NewPalette(n int) Palette {
	if n <= 0 {
		return nil
	}
	p := make(Palette, n)
	for i := range p {
		p[i] = ColorID(i)
	}
	return p
}

// Kind tags the tile variant.
type Kind uint8

const (
	KindStandard Kind = iota
	KindSpecial
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "Standard"
	case KindSpecial:
		return "Special"
	default:
		return "Unknown"
	}
}

// Tile is a token occupying one board cell.
// Color is meaningful only for KindStandard, Exploded only for KindSpecial.
type Tile struct {
	ID   uint64
	Kind Kind
	Pos  Position

	Movable      bool
	Matchable    bool
	Destructible bool

	Color    ColorID
	Exploded bool
}

// IsSpecial reports whether the tile is a bomb.
func (t *Tile) IsSpecial() bool {
	return t != nil && t.Kind == KindSpecial
}

// matches reports whether t can extend a run of color c.
func (t *Tile) matches(c ColorID) bool {
	return t != nil && t.Matchable && t.Color == c
}

// Symbol returns the single-rune notation for the tile (see ParseBoard).
func (t *Tile) Symbol() rune {
	switch {
	case t == nil:
		return '.'
	case t.Kind == KindSpecial:
		return '*'
	case !t.Movable:
		return rune('a' + int(t.Color))
	default:
		return rune('0' + int(t.Color))
	}
}

// String returns a short description such as "#12 3@(1,2)".
func (t *Tile) String() string {
	if t == nil {
		return "<empty>"
	}
	return "#" + strconv.FormatUint(t.ID, 10) + " " + string(t.Symbol()) + "@" + t.Pos.String()
}
