package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// Resizer is implemented by games that can adapt to a new screen size
// without restarting.
type Resizer interface {
	Resize(width, height int)
}

// RunReporter is implemented by games that report more than a score for
// the run history.
type RunReporter interface {
	RunStats() (level, moves, bestChain int)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	runSaved   bool // Whether the current run has been recorded
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	cfg = cfg.Normalize()

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the tick loop. The game must already be Reset.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// Games that cannot adapt are restarted with the new dimensions
	if r, ok := m.game.(Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Restart keeps the score of the abandoned run
	if m.inputFrame.Has(core.ActionRestart) {
		m.saveRun()
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		m.saveRun()
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config)
}

// saveRun records the current run once. Runs without points are skipped.
func (m *Model) saveRun() {
	if m.runSaved {
		return
	}
	m.runSaved = true

	state := m.game.State()
	if m.store == nil || state.Score <= 0 {
		return
	}

	run := storage.Run{Mode: m.game.ID(), Score: state.Score, Level: state.Level}
	if r, ok := m.game.(RunReporter); ok {
		run.Level, run.Moves, run.BestChain = r.RunStats()
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveRun(run)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.Dir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run resets the game and starts the Bubble Tea program.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)
	game.Reset(model.config)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
