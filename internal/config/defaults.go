package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the hardcoded configuration used when the
// embedded YAML cannot be parsed.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: BoardConfig{
			Rows:    10,
			Cols:    8,
			Palette: 5,
		},
		Rules: RulesConfig{
			TargetScore:      100,
			SpecialThreshold: 4,
		},
		Timing: TimingConfig{
			SwapMS:   200,
			RemoveMS: 250,
			RefillMS: 200,
			FadeMS:   200,
		},
		Levels: []LevelConfig{
			{Name: "First Steps", Target: 60, Palette: 4},
			{Name: "Warm Up", Target: 100},
			{Name: "Finale", Target: 200, Palette: 6},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "levels",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				TargetMultiplier: 2.0,
				PaletteGrowth:    2,
			},
		},
	}
}
