package core

import "fmt"

// Configuration error codes.
const (
	CodeInvalidDimensions = "invalid_dimensions"
	CodeEmptyPalette      = "empty_palette"
	CodeInvalidLayout     = "invalid_layout"
)

// ConfigError reports a board that cannot be constructed. It is the only
// failure the engine returns as an error; everything during play is a
// rejection reported through MoveResult.
type ConfigError struct {
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// RejectReason explains why a request did not change the board.
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonBusy
	ReasonOutOfBounds
	ReasonNotAdjacent
	ReasonEmptyCell
	ReasonImmovable
	ReasonNoMatch
	ReasonNotSpecial
	ReasonNoBoard
)

// String returns the string representation of a reason.
func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonBusy:
		return "busy"
	case ReasonOutOfBounds:
		return "out_of_bounds"
	case ReasonNotAdjacent:
		return "not_adjacent"
	case ReasonEmptyCell:
		return "empty_cell"
	case ReasonImmovable:
		return "immovable"
	case ReasonNoMatch:
		return "no_match"
	case ReasonNotSpecial:
		return "not_special"
	case ReasonNoBoard:
		return "no_board"
	default:
		return "unknown"
	}
}
