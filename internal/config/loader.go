package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Filename is the config file name looked up in each search location.
const Filename = "match3.yaml"

// Load loads the match-3 configuration.
// Search order: customPath -> ~/.match3/configs/match3.yaml ->
// ./configs/match3.yaml -> embedded default -> hardcoded default.
// Only a broken custom path is an error; other locations are skipped when
// missing or unparseable.
func Load(customPath string) (Match3Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Match3Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Match3Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(Filename), filepath.Join("configs", Filename)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := parse(defaultMatch3YAML); err == nil {
		return cfg, nil
	}
	return DefaultMatch3Config(), nil
}

// parse decodes YAML over the hardcoded defaults so omitted keys keep their
// default values, then validates the result.
func parse(data []byte) (Match3Config, error) {
	cfg := DefaultMatch3Config()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Match3Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Match3Config{}, err
	}
	return cfg, nil
}

// Dir returns the per-user data directory, or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".match3")
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// ApplyMatch3Preset modifies the config based on a difficulty preset.
// Fewer colors make runs and cascades more likely, so easy shrinks the
// palette and hard grows it.
func ApplyMatch3Preset(cfg *Match3Config, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Board.Palette = max(3, cfg.Board.Palette-1)
		for i := range cfg.Levels {
			if cfg.Levels[i].Palette > 3 {
				cfg.Levels[i].Palette--
			}
		}
	case DifficultyHard:
		cfg.Board.Palette = min(MaxPalette, cfg.Board.Palette+1)
		for i := range cfg.Levels {
			if p := cfg.Levels[i].Palette; p > 0 && p < MaxPalette {
				cfg.Levels[i].Palette++
			}
		}
	}
}
