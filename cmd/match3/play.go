package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the specified mode (match3 or match3_endless).

Without --level a selector lets you pick the starting level and the
difficulty first.

Controls:
  Arrows/WASD  - Move cursor (with a gem selected: swap that way)
  Space/Enter  - Select a gem, or swap it with a neighbour
  X            - Detonate the bomb under the cursor
  H            - Show a hint
  P/Esc        - Pause
  R            - Restart
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - One color fewer, endless starts at the lowest difficulty
  normal - Configured palette, endless starts at 30% difficulty
  hard   - One color more, endless starts at 70% difficulty
  fixed  - Endless targets and palette never grow

Examples:
  match3 play
  match3 play --level 3
  match3 play match3_endless --difficulty hard
  match3 play --config ./my-levels.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start at this campaign level and skip the selector")
}

// terminalConfig builds the runtime config from the terminal size and global flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the score database, continuing without one on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// chooseStart runs the level selector unless the flags already decide the
// start. It returns false when the user backed out.
func chooseStart(gameID string, cfg core.RuntimeConfig) (bool, error) {
	if flagLevel > 0 {
		match3.SetStartLevel(flagLevel)
		return true, nil
	}

	preset, _ := config.ParsePreset(flagDifficulty)
	selection, err := tui.RunLevelSelector(gameID, preset, cfg)
	if err != nil {
		return false, err
	}
	if selection == nil {
		return false, nil
	}

	match3.SetDifficultyPreset(string(selection.Difficulty))
	if selection.Level > 0 {
		match3.SetStartLevel(selection.Level)
	}
	return true, nil
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := "match3"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'match3 list' to see available modes.")
		os.Exit(1)
	}

	cfg := terminalConfig()

	ok, err := chooseStart(gameID, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		return
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()

	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
