package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	flagSimMoves   int
	flagSimStages  int
	flagSimVerbose bool
	flagSimSave    bool
)

var simCmd = &cobra.Command{
	Use:   "sim [mode]",
	Short: "Autoplay a run without a screen",
	Long: `Play a run headlessly, resolving every cascade instantly, and print
the result. Moves are picked at random among the legal ones, with bombs
preferred. The same --seed always replays the same run.

Examples:
  match3 sim
  match3 sim --seed 42 --verbose
  match3 sim match3_endless --stages 20
  match3 sim --moves 200 --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimMoves, "moves", 1000, "Stop after this many moves")
	simCmd.Flags().IntVar(&flagSimStages, "stages", 10, "Endless stages to play")
	simCmd.Flags().BoolVarP(&flagSimVerbose, "verbose", "v", false, "Log every move and level to stderr")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the run in the scores database")
}

func runSim(_ *cobra.Command, args []string) {
	gameID := "match3"
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		os.Exit(1)
	}

	mode := match3.ModeCampaign
	if gameID == "match3_endless" {
		mode = match3.ModeEndless
	}

	if flagSimVerbose && flagLogPath == "" {
		match3.SetLogger(newLogger(os.Stderr, log.DebugLevel))
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	res, err := match3.Simulate(match3.SimOptions{
		Mode:     mode,
		Seed:     seed,
		MaxMoves: flagSimMoves,
		Levels:   flagSimStages,
	})
	if err != nil && !errors.Is(err, match3.ErrStuck) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mode:        %s\n", res.Mode)
	fmt.Printf("Seed:        %d\n", res.Seed)
	fmt.Printf("Cleared:     %d\n", res.Cleared)
	fmt.Printf("Score:       %d\n", res.Score)
	fmt.Printf("Moves:       %d\n", res.Moves)
	fmt.Printf("Specials:    %d created, %d detonated\n", res.Specials, res.Detonated)
	fmt.Printf("Best chain:  x%d\n", res.BestChain)
	fmt.Printf("Reshuffles:  %d\n", res.Reshuffles)
	switch {
	case err != nil:
		fmt.Println("Result:      stuck, no legal move")
	case res.Won:
		fmt.Println("Result:      complete")
	default:
		fmt.Println("Result:      out of moves")
	}
	fmt.Printf("Time:        %s\n", time.Since(start).Round(time.Millisecond))

	if flagSimSave && res.Score > 0 {
		store, openErr := storage.Open(flagDBPath)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", openErr)
			os.Exit(1)
		}
		defer store.Close()
		level := res.Cleared + 1
		if res.Won {
			level = res.Cleared
		}
		if _, saveErr := store.SaveRun(storage.Run{
			Mode:      gameID,
			Score:     res.Score,
			Level:     level,
			Moves:     res.Moves,
			BestChain: res.BestChain,
		}); saveErr != nil {
			fmt.Fprintf(os.Stderr, "Error saving run: %v\n", saveErr)
		}
	}
}
