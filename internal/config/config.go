// Package config provides YAML-based game configuration loading and
// difficulty management for the match-3 game.
package config

import (
	"fmt"
	"time"
)

// MaxPalette is the largest palette the board notation and the renderer
// can represent.
const MaxPalette = 10

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Board      BoardConfig      `yaml:"board"`
	Rules      RulesConfig      `yaml:"rules"`
	Timing     TimingConfig     `yaml:"timing"`
	Levels     []LevelConfig    `yaml:"levels"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the default board shape.
type BoardConfig struct {
	Rows    int `yaml:"rows"`
	Cols    int `yaml:"cols"`
	Palette int `yaml:"palette"` // number of gem colors
}

// RulesConfig defines scoring rules.
type RulesConfig struct {
	TargetScore      int `yaml:"target_score"`      // 0 disables level completion
	SpecialThreshold int `yaml:"special_threshold"` // group size that creates a bomb
}

// TimingConfig defines the animation waits, in milliseconds.
type TimingConfig struct {
	SwapMS   int `yaml:"swap_ms"`
	RemoveMS int `yaml:"remove_ms"`
	RefillMS int `yaml:"refill_ms"`
	FadeMS   int `yaml:"fade_ms"`
}

// Swap returns the swap animation time.
func (t TimingConfig) Swap() time.Duration { return ms(t.SwapMS) }

// Remove returns the wait after removal.
func (t TimingConfig) Remove() time.Duration { return ms(t.RemoveMS) }

// Refill returns the wait after refill.
func (t TimingConfig) Refill() time.Duration { return ms(t.RefillMS) }

// Fade returns the fade-out time of removed gems.
func (t TimingConfig) Fade() time.Duration { return ms(t.FadeMS) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// LevelConfig describes one campaign level.
type LevelConfig struct {
	Name    string   `yaml:"name"`
	Target  int      `yaml:"target"`
	Palette int      `yaml:"palette"` // 0 inherits board.palette
	Layout  []string `yaml:"layout"`  // optional fixed tiles in board notation
}

// DifficultyConfig defines endless-mode progression.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "levels" or "none"
	MaxAt int    `yaml:"max_at"` // levels cleared at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	TargetMultiplier float64 `yaml:"target_multiplier"` // added to the target factor at max difficulty
	PaletteGrowth    int     `yaml:"palette_growth"`    // extra colors at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ValidationError reports an unusable configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for values the engine cannot use.
func (c Match3Config) Validate() error {
	switch {
	case c.Board.Rows <= 0 || c.Board.Cols <= 0:
		return &ValidationError{"board", fmt.Sprintf("dimensions must be positive, got %dx%d", c.Board.Rows, c.Board.Cols)}
	case c.Board.Palette <= 0:
		return &ValidationError{"board.palette", "palette must have at least one color"}
	case c.Board.Palette > MaxPalette:
		return &ValidationError{"board.palette", fmt.Sprintf("at most %d colors are supported", MaxPalette)}
	case c.Rules.TargetScore < 0:
		return &ValidationError{"rules.target_score", "must not be negative"}
	case c.Rules.SpecialThreshold < 3:
		return &ValidationError{"rules.special_threshold", "must be at least 3"}
	case c.Timing.SwapMS < 0 || c.Timing.RemoveMS < 0 || c.Timing.RefillMS < 0 || c.Timing.FadeMS < 0:
		return &ValidationError{"timing", "durations must not be negative"}
	}

	for i, lvl := range c.Levels {
		field := fmt.Sprintf("levels[%d]", i)
		if lvl.Target < 0 {
			return &ValidationError{field + ".target", "must not be negative"}
		}
		if lvl.Palette < 0 || lvl.Palette > MaxPalette {
			return &ValidationError{field + ".palette", fmt.Sprintf("must be between 0 and %d", MaxPalette)}
		}
	}
	return nil
}

// LevelTarget returns the target of a campaign level, falling back to the
// global rule.
func (c Match3Config) LevelTarget(lvl LevelConfig) int {
	if lvl.Target > 0 {
		return lvl.Target
	}
	return c.Rules.TargetScore
}

// LevelPalette returns the palette size of a campaign level.
func (c Match3Config) LevelPalette(lvl LevelConfig) int {
	if lvl.Palette > 0 {
		return lvl.Palette
	}
	return c.Board.Palette
}
