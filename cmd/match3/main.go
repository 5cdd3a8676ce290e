// match3 is a terminal match-three puzzle game.
//
// Usage:
//
//	match3 list              - List game modes
//	match3 play [mode]       - Play a mode (default: match3)
//	match3 menu              - Start menu to pick modes interactively
//	match3 levels            - Show and validate the campaign levels
//	match3 sim [mode]        - Autoplay a run without a screen
//	match3 serve             - Start SSH server for remote play
//	match3 scores [mode]     - Show high scores
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.match3/scores.db)
//	--config <path>       - Use a custom match3.yaml
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--log <path>          - Write diagnostics to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Match-3 - Swap gems in your terminal",
	Long: `Match-3 is a terminal puzzle game: swap neighbouring gems to line up
three or more of a color, set off cascades and bombs, and reach each
level's target score.

Available commands:
  list     - Show the game modes
  play     - Play a mode directly
  menu     - Interactive mode picker menu
  levels   - Show and validate the campaign levels
  sim      - Autoplay a run without a screen
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  match3 play
  match3 play match3_endless --difficulty hard
  match3 menu
  match3 sim --seed 42
  match3 serve --ssh :2222
  match3 scores`,
	PersistentPreRunE: setupGame,
	SilenceUsage:      true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.match3/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match3.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write diagnostics to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setupGame applies the global flags to the game package before any command runs.
func setupGame(_ *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	match3.SetConfigPath(flagConfig)
	match3.SetDifficultyPreset(flagDifficulty)

	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		match3.SetLogger(newLogger(f, log.DebugLevel))
	}
	return nil
}

// newLogger creates a timestamped game logger.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "match3",
		Level:           level,
	})
}
