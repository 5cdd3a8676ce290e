package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the best runs for the specified mode, or a summary of every
mode when none is given.

Examples:
  match3 scores
  match3 scores match3
  match3 scores match3_endless --limit 25
  match3 scores match3 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every run of the mode")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if err := printSummary(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			os.Exit(1)
		}
		return
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'match3 list' to see available modes.")
		os.Exit(1)
	}

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all runs for %s.\n", gameID)
		return
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'match3 play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-5s  %s\n", "Rank", "Score", "Level", "Moves", "Chain", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-5s  %s\n", "----", "-----", "-----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  x%-4d  %s\n",
			i+1, entry.Score, entry.Level, entry.Moves, entry.BestChain, dateStr)
	}

	fmt.Println()
	if stats, err := store.GetModeStats(gameID); err == nil {
		fmt.Printf("Best: %d  |  Runs: %d  |  Average: %.0f  |  Total moves: %d\n",
			stats.HighScore, stats.Runs, stats.AvgScore, stats.TotalMoves)
	}
}

// printSummary prints one line per mode that has recorded runs.
func printSummary(store *storage.Store) error {
	all, err := store.GetAllModeStats()
	if err != nil {
		return err
	}

	fmt.Println("Summary")
	fmt.Println()

	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %5s  %8s  %8s  %5s  %5s  %s\n", "Mode", "Runs", "Best", "Average", "Level", "Chain", "Last played")
	for _, g := range registry.List() {
		s, ok := all[g.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-16s  %5d  %8d  %8.0f  %5d  x%-4d  %s\n",
			g.ID, s.Runs, s.HighScore, s.AvgScore, s.BestLevel, s.BestChain, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
