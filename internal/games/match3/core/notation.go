package core

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseBoard builds a board from one string per row. Spaces are ignored.
//
//	'0'..'9'  standard tile of that color
//	'a'..'j'  immovable standard tile of color 0..9
//	'*'       special tile
//	'.'       empty cell
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) == 0 {
		return nil, &ConfigError{Code: CodeInvalidDimensions, Message: "layout has no rows"}
	}
	cells := make([][]rune, len(rows))
	for i, row := range rows {
		cells[i] = []rune(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, row))
	}

	b, err := NewBoard(len(cells), len(cells[0]))
	if err != nil {
		return nil, err
	}
	for r, line := range cells {
		if len(line) != b.Cols() {
			return nil, &ConfigError{
				Code:    CodeInvalidLayout,
				Message: fmt.Sprintf("row %d has %d cells, expected %d", r, len(line), b.Cols()),
			}
		}
		for c, ch := range line {
			var t *Tile
			switch {
			case ch == '.':
				continue
			case ch == '*':
				t = b.NewSpecial()
			case ch >= '0' && ch <= '9':
				t = b.NewStandard(ColorID(ch - '0'))
			case ch >= 'a' && ch <= 'j':
				t = b.NewStandard(ColorID(ch - 'a'))
				t.Movable = false
			default:
				return nil, &ConfigError{
					Code:    CodeInvalidLayout,
					Message: fmt.Sprintf("unknown cell %q at %s", ch, P(r, c)),
				}
			}
			b.Set(P(r, c), t)
		}
	}
	return b, nil
}

// MustParseBoard is like ParseBoard but panics on error.
func MustParseBoard(rows ...string) *Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}
	return b
}
