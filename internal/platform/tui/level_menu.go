package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

// Difficulty presets offered by the selector, in display order.
var difficultyChoices = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

// LevelSelection holds the user's choice from the level selector.
type LevelSelection struct {
	Level      int // 0 = start from the beginning, otherwise a 1-based campaign level
	Difficulty config.DifficultyPreset
}

// option rows of the mode screen
const (
	optionStart = iota
	optionLevels
	optionDifficulty
)

// LevelSelectModel lets users choose a starting level and a difficulty
// preset before a run.
type LevelSelectModel struct {
	endless       bool
	options       []int
	levels        []match3.LevelInfo
	levelsErr     error
	cursor        int
	levelCursor   int
	difficulty    int // index into difficultyChoices
	inLevelSelect bool
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     LevelSelection
	choosing      bool
	quitting      bool
	back          bool
}

// NewLevelSelectModel creates a selector for the given game ID.
func NewLevelSelectModel(gameID string, preset config.DifficultyPreset, width, height int) LevelSelectModel {
	m := LevelSelectModel{
		endless:    strings.HasSuffix(gameID, "_endless"),
		difficulty: 1,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		choosing:   true,
	}
	for i, p := range difficultyChoices {
		if p == preset {
			m.difficulty = i
		}
	}

	if m.endless {
		m.options = []int{optionStart, optionDifficulty}
	} else {
		m.options = []int{optionStart, optionLevels, optionDifficulty}
		m.levels, m.levelsErr = match3.CampaignLevels()
	}
	return m
}

// Init initializes the model.
func (m LevelSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m LevelSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inLevelSelect {
		return m.handleLevelSelectKey(action)
	}
	return m.handleModeSelectKey(action)
}

func (m LevelSelectModel) handleModeSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case MenuActionLeft:
		if m.options[m.cursor] == optionDifficulty {
			m.difficulty = (m.difficulty + len(difficultyChoices) - 1) % len(difficultyChoices)
		}
	case MenuActionRight:
		if m.options[m.cursor] == optionDifficulty {
			m.difficulty = (m.difficulty + 1) % len(difficultyChoices)
		}
	case MenuActionSelect:
		switch m.options[m.cursor] {
		case optionStart:
			return m.choose(0)
		case optionLevels:
			if len(m.levels) > 0 {
				m.inLevelSelect = true
				m.levelCursor = 0
			}
		case optionDifficulty:
			m.difficulty = (m.difficulty + 1) % len(difficultyChoices)
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m LevelSelectModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		return m.choose(m.levels[m.levelCursor].ID)
	case MenuActionBack:
		m.inLevelSelect = false
	}

	return m, nil
}

func (m LevelSelectModel) choose(level int) (tea.Model, tea.Cmd) {
	m.choosing = false
	m.selection = LevelSelection{
		Level:      level,
		Difficulty: difficultyChoices[m.difficulty],
	}
	return m, tea.Quit
}

// View renders the mode/level selection.
func (m LevelSelectModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewModeSelect()
}

func (m LevelSelectModel) viewModeSelect() string {
	var b strings.Builder

	title := "M A T C H - 3"
	if m.endless {
		title = "E N D L E S S"
	}
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		var label string
		switch opt {
		case optionStart:
			label = "Start Endless"
			if !m.endless {
				label = fmt.Sprintf("Start Campaign (%d levels)", len(m.levels))
			}
		case optionLevels:
			label = "Select Level..."
		case optionDifficulty:
			label = fmt.Sprintf("Difficulty: < %s >", difficultyChoices[m.difficulty])
		}
		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	if m.levelsErr != nil {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Config error: %v", m.levelsErr), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Left/Right: Difficulty  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m LevelSelectModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	for i, l := range m.levels {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%2d. %-14s Target %4d  Colors %2d", cursor, l.ID, l.Name, l.Target, l.Palette)
		if l.Fixed {
			line += "  *"
		} else {
			line += "   "
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("* fixed layout", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m LevelSelectModel) Selected() *LevelSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m LevelSelectModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelSelectModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector runs the level selection for gameID and returns the
// selection, or nil when the user backed out or quit.
func RunLevelSelector(gameID string, preset config.DifficultyPreset, cfg core.RuntimeConfig) (*LevelSelection, error) {
	model := NewLevelSelectModel(gameID, preset, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(LevelSelectModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}
