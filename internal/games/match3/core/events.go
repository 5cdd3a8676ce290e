package core

import "time"

// Event is something the engine reports to UI, audio or scoring collaborators.
// Events are queued in order and collected with Engine.Events.
type Event interface {
	isEvent()
}

// ScoreChanged is emitted whenever the score changes.
type ScoreChanged struct {
	Score int
}

// LevelComplete is emitted when the score reaches the target. Level counts
// completions since the board was initialised, starting at 1.
type LevelComplete struct {
	Score int
	Level int
}

// MoveRejected is emitted for a swap or trigger request that did not change
// the board, including swaps that were reverted for lack of a match.
type MoveRejected struct {
	A      Position
	B      Position
	Reason RejectReason
}

// MoveResolved is emitted when an accepted or reverted sequence returns the
// engine to PhaseIdle.
type MoveResolved struct {
	Result MoveResult
}

// PhaseChanged is emitted on every state machine transition.
type PhaseChanged struct {
	From Phase
	To   Phase
}

func (ScoreChanged) isEvent() {}
func (LevelComplete) isEvent() {}
func (MoveRejected) isEvent() {}
func (MoveResolved) isEvent() {}
func (PhaseChanged) isEvent() {}

// Sink receives presentation commands. Calls are fire-and-forget: the board
// is already updated when a call is made and nothing a sink does is read back.
// Tiles are passed by value.
type Sink interface {
	TileCreated(t Tile)
	TileRemoved(t Tile)
	TileMoved(t Tile, from, to Position, hint time.Duration)
	Explosion(p Position)
}

// NopSink discards every command.
type NopSink struct{}

func (NopSink) TileCreated(Tile) {}
func (NopSink) TileRemoved(Tile) {}
func (NopSink) TileMoved(Tile, Position, Position, time.Duration) {}
func (NopSink) Explosion(Position) {}
