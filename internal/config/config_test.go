package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsParse(t *testing.T) {
	cfg, err := parse(defaultMatch3YAML)
	if err != nil {
		t.Fatalf("embedded defaults should parse: %v", err)
	}
	if cfg.Board.Rows != 10 || cfg.Board.Cols != 8 || cfg.Board.Palette != 5 {
		t.Errorf("board = %+v, expected 10x8 with 5 colors", cfg.Board)
	}
	if cfg.Rules.TargetScore != 100 || cfg.Rules.SpecialThreshold != 4 {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	if cfg.Timing.Swap() != 200*time.Millisecond || cfg.Timing.Remove() != 250*time.Millisecond {
		t.Errorf("timing = %+v", cfg.Timing)
	}
	if len(cfg.Levels) != 5 {
		t.Fatalf("expected 5 campaign levels, got %d", len(cfg.Levels))
	}
	for i, lvl := range cfg.Levels {
		if lvl.Name == "" {
			t.Errorf("level %d has no name", i)
		}
		for _, row := range lvl.Layout {
			if len(row) != cfg.Board.Cols {
				t.Errorf("level %q layout row %q should have %d columns", lvl.Name, row, cfg.Board.Cols)
			}
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := "board:\n  rows: 6\n  cols: 6\nrules:\n  target_score: 30\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Board.Rows != 6 || cfg.Board.Cols != 6 {
		t.Errorf("board = %+v, expected 6x6", cfg.Board)
	}
	if cfg.Board.Palette != 5 {
		t.Errorf("omitted palette should keep the default, got %d", cfg.Board.Palette)
	}
	if cfg.Rules.TargetScore != 30 {
		t.Errorf("target = %d, expected 30", cfg.Rules.TargetScore)
	}
	if cfg.Rules.SpecialThreshold != 4 {
		t.Errorf("omitted threshold should keep the default, got %d", cfg.Rules.SpecialThreshold)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board:\n  rows: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	if verr.Field != "board" {
		t.Errorf("Field = %q, expected board", verr.Field)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Match3Config)
		field  string
	}{
		{"defaults", func(*Match3Config) {}, ""},
		{"zero rows", func(c *Match3Config) { c.Board.Rows = 0 }, "board"},
		{"negative cols", func(c *Match3Config) { c.Board.Cols = -2 }, "board"},
		{"empty palette", func(c *Match3Config) { c.Board.Palette = 0 }, "board.palette"},
		{"huge palette", func(c *Match3Config) { c.Board.Palette = MaxPalette + 1 }, "board.palette"},
		{"negative target", func(c *Match3Config) { c.Rules.TargetScore = -1 }, "rules.target_score"},
		{"threshold too small", func(c *Match3Config) { c.Rules.SpecialThreshold = 2 }, "rules.special_threshold"},
		{"negative timing", func(c *Match3Config) { c.Timing.FadeMS = -1 }, "timing"},
		{"bad level palette", func(c *Match3Config) { c.Levels[1].Palette = 11 }, "levels[1].palette"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultMatch3Config()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("Field = %q, expected %q", verr.Field, tc.field)
			}
		})
	}
}

func TestLevelFallbacks(t *testing.T) {
	cfg := DefaultMatch3Config()
	if got := cfg.LevelTarget(LevelConfig{}); got != cfg.Rules.TargetScore {
		t.Errorf("LevelTarget fallback = %d", got)
	}
	if got := cfg.LevelTarget(LevelConfig{Target: 42}); got != 42 {
		t.Errorf("LevelTarget = %d, expected 42", got)
	}
	if got := cfg.LevelPalette(LevelConfig{}); got != cfg.Board.Palette {
		t.Errorf("LevelPalette fallback = %d", got)
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"easy", "normal", "hard", "fixed"} {
		p, err := ParsePreset(name)
		if err != nil || string(p) != name {
			t.Errorf("ParsePreset(%q) = %q, %v", name, p, err)
		}
	}
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("empty preset should mean normal, got %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("unknown preset should be rejected")
	}
}

func TestApplyMatch3Preset(t *testing.T) {
	easy := DefaultMatch3Config()
	ApplyMatch3Preset(&easy, DifficultyEasy)
	if easy.Board.Palette != 4 {
		t.Errorf("easy palette = %d, expected 4", easy.Board.Palette)
	}
	if easy.Levels[0].Palette != 3 {
		t.Errorf("easy level palette = %d, expected 3", easy.Levels[0].Palette)
	}
	if !easy.Difficulty.Enabled || easy.Difficulty.InitialLevel != 0.0 {
		t.Errorf("easy difficulty = %+v", easy.Difficulty)
	}

	hard := DefaultMatch3Config()
	ApplyMatch3Preset(&hard, DifficultyHard)
	if hard.Board.Palette != 6 {
		t.Errorf("hard palette = %d, expected 6", hard.Board.Palette)
	}
	if hard.Levels[1].Palette != 0 {
		t.Error("inherited level palettes should stay inherited")
	}
	if hard.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard initial level = %v", hard.Difficulty.InitialLevel)
	}

	fixed := DefaultMatch3Config()
	ApplyMatch3Preset(&fixed, DifficultyFixed)
	if fixed.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
	if fixed.Board.Palette != 5 {
		t.Error("fixed preset should keep the palette")
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "levels", MaxAt: 10},
		Scaling:     ScalingConfig{TargetMultiplier: 2.0, PaletteGrowth: 2},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		cleared     int
		level       float64
		target      int
		paletteSize int
	}{
		{0, 0.0, 100, 5},
		{5, 0.5, 200, 6},
		{10, 1.0, 300, 7},
		{50, 1.0, 300, 7},
	}

	for _, tc := range tests {
		if got := dm.Level(tc.cleared); got != tc.level {
			t.Errorf("Level(%d) = %v, expected %v", tc.cleared, got, tc.level)
		}
		if got := dm.Target(100, tc.cleared); got != tc.target {
			t.Errorf("Target(100, %d) = %d, expected %d", tc.cleared, got, tc.target)
		}
		if got := dm.PaletteSize(5, tc.cleared); got != tc.paletteSize {
			t.Errorf("PaletteSize(5, %d) = %d, expected %d", tc.cleared, got, tc.paletteSize)
		}
	}

	if got := dm.PaletteSize(9, 10); got != MaxPalette {
		t.Errorf("PaletteSize should cap at %d, got %d", MaxPalette, got)
	}
}

func TestDifficultyManagerDisabled(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Progression: ProgressionConfig{Type: "levels", MaxAt: 10},
		Scaling:     ScalingConfig{TargetMultiplier: 2.0},
	})
	dm.SetInitialLevel(0.5)

	if dm.IsEnabled() {
		t.Error("manager should be disabled")
	}
	if got := dm.Level(10); got != 0.5 {
		t.Errorf("disabled Level = %v, expected the initial level", got)
	}

	dm.SetEnabled(true)
	if got := dm.Level(10); got != 1.0 {
		t.Errorf("enabled Level = %v, expected 1.0", got)
	}

	dm.SetInitialLevel(3)
	if got := dm.Level(0); got != 1.0 {
		t.Errorf("initial level should clamp to 1.0, got %v", got)
	}
}
