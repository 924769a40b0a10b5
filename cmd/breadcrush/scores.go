package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/breadcrush/internal/storage"
)

var (
	flagLimit  int
	flagStats  bool
	flagRecent string
	flagClear  string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display each player's best score, or per-player statistics.

Examples:
  breadcrush scores
  breadcrush scores --limit 25
  breadcrush scores --stats
  breadcrush scores --recent ann
  breadcrush scores --clear ann`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger <player>",
	Short: "Show a player's loyalty points",
	Long: `Display the loyalty points a player has earned per bread category,
and their character level.

Examples:
  breadcrush ledger ann`,
	Args: cobra.ExactArgs(1),
	Run:  runLedger,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-player statistics instead")
	scoresCmd.Flags().StringVar(&flagRecent, "recent", "", "Show recent games of this player instead")
	scoresCmd.Flags().StringVar(&flagClear, "clear", "", "Delete all results of this player")
}

func openStoreOrFail() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	return store
}

func runScores(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	store := openStoreOrFail()
	defer store.Close()

	var err error
	switch {
	case flagClear != "":
		err = store.ClearResults(ctx, flagClear)
		if err == nil {
			fmt.Printf("Cleared results of %s.\n", flagClear)
		}
	case flagStats:
		err = printStats(ctx, store)
	case flagRecent != "":
		err = printRecent(ctx, store, flagRecent)
	default:
		err = printTop(ctx, store)
	}
	if err != nil {
		store.Close()
		fail("%v", err)
	}
}

func printTop(ctx context.Context, store *storage.Store) error {
	top, err := store.Top(ctx, flagLimit)
	if err != nil {
		return err
	}
	fmt.Println("High Scores - Bread Crush")
	fmt.Println()
	if len(top) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'breadcrush play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-20s  %s\n", "Rank", "Player", "Best")
	fmt.Printf("  %-4s  %-20s  %s\n", "----", "------", "----")
	for _, e := range top {
		fmt.Printf("  %-4d  %-20s  %d\n", e.Rank, e.Player, e.Score)
	}
	return nil
}

func printRecent(ctx context.Context, store *storage.Store, player string) error {
	results, err := store.RecentResults(ctx, player, flagLimit)
	if err != nil {
		return err
	}
	fmt.Printf("Recent games - %s\n\n", player)
	if len(results) == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}
	fmt.Printf("  %-8s  %-5s  %-7s  %s\n", "Score", "Level", "Crushed", "Date")
	fmt.Printf("  %-8s  %-5s  %-7s  %s\n", "-----", "-----", "-------", "----")
	for _, r := range results {
		fmt.Printf("  %-8d  %-5d  %-7d  %s\n", r.Score, r.Level, r.Crushed.Total(), r.At.Format("2006-01-02 15:04"))
	}
	if best, err := store.HighScore(ctx, player); err == nil {
		fmt.Printf("\nBest: %d\n", best)
	}
	return nil
}

func printStats(ctx context.Context, store *storage.Store) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}
	fmt.Printf("  %-20s  %-5s  %-8s  %-5s  %-9s  %s\n", "Player", "Games", "Best", "Level", "Average", "Last played")
	for _, s := range stats {
		fmt.Printf("  %-20s  %-5d  %-8d  %-5d  %-9.1f  %s\n",
			s.Player, s.GamesCount, s.HighScore, s.BestLevel, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func runLedger(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	player := args[0]
	store := openStoreOrFail()
	defer store.Close()

	entries, err := store.Ledger(ctx, player)
	if err != nil {
		store.Close()
		fail("reading ledger: %v", err)
	}
	char, err := store.LoadCharacter(ctx, player)
	if err != nil {
		store.Close()
		fail("reading character: %v", err)
	}

	fmt.Printf("Loyalty points - %s (character level %d, %d exp)\n\n", player, char.Level, char.Exp)
	if len(entries) == 0 {
		fmt.Println("No points earned yet.")
		return
	}
	var total int64
	fmt.Printf("  %-14s  %-8s  %s\n", "Category", "Points", "Credits")
	fmt.Printf("  %-14s  %-8s  %s\n", "--------", "------", "-------")
	for _, e := range entries {
		fmt.Printf("  %-14s  %-8d  %d\n", e.Category, e.Points, e.Credits)
		total += e.Points
	}
	fmt.Printf("\nTotal: %d\n", total)
}
