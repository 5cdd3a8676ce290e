package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show and validate the campaign levels",
	Long: `Load the configuration the game would use, list its campaign levels
and check that every fixed layout can be filled without ready-made runs.

Examples:
  match3 levels
  match3 levels --config ./my-levels.yaml
  match3 levels --difficulty easy`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		preset, _ := config.ParsePreset(flagDifficulty)
		config.ApplyMatch3Preset(&cfg, preset)
	}

	levels, err := match3.CampaignLevels()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Board %dx%d, special at %d in a row\n", cfg.Board.Rows, cfg.Board.Cols, cfg.Rules.SpecialThreshold)
	fmt.Println()
	fmt.Printf("  %-3s  %-16s  %6s  %6s  %s\n", "#", "Name", "Target", "Colors", "Layout")
	fmt.Printf("  %-3s  %-16s  %6s  %6s  %s\n", "-", "----", "------", "------", "------")
	for _, l := range levels {
		layout := "random"
		if l.Fixed {
			layout = "fixed"
		}
		fmt.Printf("  %-3d  %-16s  %6d  %6d  %s\n", l.ID, l.Name, l.Target, l.Palette, layout)
	}
	fmt.Println()

	if err := match3.ValidateLevels(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("All layouts OK.")
}
