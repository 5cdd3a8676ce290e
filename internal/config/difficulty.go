package config

import "math"

// DifficultyManager derives endless-mode targets and palette sizes from
// the number of levels cleared.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level (0.0 to 1.0) after cleared levels.
func (d *DifficultyManager) Level(cleared int) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "levels" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}
	progress := clampF(float64(cleared)/maxAt, 0.0, 1.0)

	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Target returns the score needed to clear the next level.
// The target grows from base to base * (1 + target_multiplier).
func (d *DifficultyManager) Target(base, cleared int) int {
	level := d.Level(cleared)
	return int(math.Round(float64(base) * (1.0 + level*d.cfg.Scaling.TargetMultiplier)))
}

// PaletteSize returns the number of colors for the next level.
func (d *DifficultyManager) PaletteSize(base, cleared int) int {
	level := d.Level(cleared)
	size := base + int(level*float64(d.cfg.Scaling.PaletteGrowth))
	if size > MaxPalette {
		size = MaxPalette
	}
	if size < 1 {
		size = 1
	}
	return size
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
