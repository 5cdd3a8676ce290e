// Package tui drives the match-3 game in a terminal through Bubble Tea:
// the per-session program loop, key mapping, the mode and level menus, the
// scoreboard and the wish SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// TickMsg asks the model to step the game once.
type TickMsg struct {
	At time.Time
}

// tickCmd schedules the next step at cfg's tick rate. The game's engine
// timeline advances by the same amount per step, so swap and cascade
// delays play out in wall-clock time.
func tickCmd(cfg core.RuntimeConfig) tea.Cmd {
	return tea.Tick(cfg.TickDuration(), func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}
