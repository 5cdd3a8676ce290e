package match3

import "github.com/vovakirdan/tui-match3/internal/games/match3/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateResolving    GameStateType = "resolving"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePaused       GameStateType = "paused"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string
	Level     int // 1-based
	Target    int
	Score     int // current level
	Total     int // whole run
	Moves     int
	BestChain int
	Phase     core.Phase
	Cursor    core.Position
	Board     []string // board notation, one string per row
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	case g.engine.IsBusy():
		state = StateResolving
	}

	var layout []string
	if b := g.engine.Board(); b != nil {
		layout = b.Layout()
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Level:     g.level.ID,
		Target:    g.level.Target,
		Score:     g.engine.Score(),
		Total:     g.Score(),
		Moves:     g.moves,
		BestChain: g.bestChain,
		Phase:     g.engine.Phase(),
		Cursor:    g.cursor,
		Board:     layout,
		State:     state,
	}
}
