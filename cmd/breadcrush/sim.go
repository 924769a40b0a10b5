package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/sim"
)

var (
	flagGames    int
	flagUseItems bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Autoplay games and print statistics",
	Long: `Play games headlessly with a bot that always makes the first legal
swap, then print score and level statistics. Useful for tuning configs.

Examples:
  breadcrush sim --games 100
  breadcrush sim --games 50 --seed 1 --difficulty hard
  breadcrush sim --config ./my-breadcrush.yaml --items`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagGames, "games", 20, "Number of games to play")
	simCmd.Flags().BoolVar(&flagUseItems, "items", false, "Let the bot use extra-moves items")
}

func runSim(_ *cobra.Command, _ []string) {
	cfg, err := presetGameConfig()
	if err != nil {
		fail("%v", err)
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rep, err := sim.Run(sim.Options{
		Config:   cfg,
		Games:    flagGames,
		Seed:     seed,
		UseItems: flagUseItems,
		Logger:   logger,
	})
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Simulated %d games in %v (seeds %d..%d)\n\n", len(rep.Games), rep.Elapsed.Round(time.Millisecond),
		seed, seed+int64(len(rep.Games))-1)
	fmt.Printf("  Average score:  %.1f\n", rep.AvgScore)
	fmt.Printf("  Average level:  %.2f\n", rep.AvgLevel)
	fmt.Printf("  Average swaps:  %.1f\n", rep.AvgSwaps)
	fmt.Printf("  Best game:      seed %d, score %d, level %d\n", rep.Best.Seed, rep.Best.Score, rep.Best.Level)

	var crushed engine.Tally
	reshuffles := 0
	for _, g := range rep.Games {
		crushed.Add(g.Crushed)
		reshuffles += g.Reshuffles
	}
	fmt.Printf("  Reshuffles:     %d\n\n", reshuffles)
	fmt.Println("  Crushed per category:")
	for i, n := range crushed {
		fmt.Printf("    %-14s %d\n", engine.Category(i), n)
	}
}
