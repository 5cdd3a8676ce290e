// Package match3 implements the match-three puzzle game for the terminal
// platform, in campaign and endless modes, on top of the board engine in
// the core subpackage.
package match3

import (
	"fmt"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Level is a resolved campaign or endless level.
type Level struct {
	ID      int // 1-based
	Name    string
	Target  int
	Palette int
	Layout  []string
}

// campaignLevels resolves the configured levels against the global rules.
// A config with no levels yields a single default level.
func campaignLevels(cfg config.Match3Config) []Level {
	if len(cfg.Levels) == 0 {
		return []Level{{
			ID:      1,
			Name:    "Classic",
			Target:  cfg.Rules.TargetScore,
			Palette: cfg.Board.Palette,
		}}
	}

	levels := make([]Level, len(cfg.Levels))
	for i, lc := range cfg.Levels {
		name := lc.Name
		if name == "" {
			name = fmt.Sprintf("Level %d", i+1)
		}
		levels[i] = Level{
			ID:      i + 1,
			Name:    name,
			Target:  cfg.LevelTarget(lc),
			Palette: cfg.LevelPalette(lc),
			Layout:  lc.Layout,
		}
	}
	return levels
}

// endlessLevel builds the level after cleared endless levels.
func endlessLevel(cfg config.Match3Config, dm *config.DifficultyManager, cleared int) Level {
	return Level{
		ID:      cleared + 1,
		Name:    fmt.Sprintf("Stage %d", cleared+1),
		Target:  dm.Target(cfg.Rules.TargetScore, cleared),
		Palette: dm.PaletteSize(cfg.Board.Palette, cleared),
	}
}

// board parses the level layout. Levels without a layout return nil.
func (l Level) board() (*core.Board, error) {
	if len(l.Layout) == 0 {
		return nil, nil
	}
	return core.ParseBoard(l.Layout...)
}

// LevelInfo describes a campaign level for menus and the CLI.
type LevelInfo struct {
	ID      int
	Name    string
	Target  int
	Palette int
	Fixed   bool // has a fixed layout
}

// CampaignLevels loads the configuration the game would use and lists its
// campaign levels.
func CampaignLevels() ([]LevelInfo, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	levels := campaignLevels(cfg)
	infos := make([]LevelInfo, len(levels))
	for i, l := range levels {
		infos[i] = LevelInfo{
			ID:      l.ID,
			Name:    l.Name,
			Target:  l.Target,
			Palette: l.Palette,
			Fixed:   len(l.Layout) > 0,
		}
	}
	return infos, nil
}

// ValidateLevels checks that every configured layout parses and that the
// engine can fill it without runs.
func ValidateLevels(cfg config.Match3Config) error {
	for _, l := range campaignLevels(cfg) {
		b, err := l.board()
		if err != nil {
			return fmt.Errorf("level %d (%s): %w", l.ID, l.Name, err)
		}
		if b == nil {
			continue
		}
		e := core.NewEngine(core.WithTarget(0))
		if err := e.LoadBoard(b, core.NewPalette(l.Palette)); err != nil {
			return fmt.Errorf("level %d (%s): %w", l.ID, l.Name, err)
		}
	}
	return nil
}
