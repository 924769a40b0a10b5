// breadcrush is a match-3 bakery game for the terminal, with an SSH and
// HTTP server for remote play.
//
// Usage:
//
//	breadcrush play             - Play in this terminal
//	breadcrush serve            - Start the HTTP API and optional SSH server
//	breadcrush scores           - Show the leaderboard
//	breadcrush ledger <player>  - Show a player's loyalty points
//	breadcrush levels           - Show level targets and character progression
//	breadcrush sim              - Autoplay games and print statistics
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 30)
//	--seed <value>         - Set RNG seed for reproducible boards
//	--db <path>            - Set database path (default: ~/.breadcrush/breadcrush.db)
//	--config <path>        - Custom game config YAML
//	--difficulty <preset>  - easy, normal, hard or fixed
//	--log-level <level>    - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/breadcrush/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "breadcrush",
	Short: "Bread Crush - match three loaves in your terminal",
	Long: `Bread Crush is a match-3 game: swap neighbouring breads to line up
three or more of a kind, chain cascades for combos and clear each
level's target score before your moves run out.

Available commands:
  play     - Play in this terminal
  serve    - Start the HTTP API and optional SSH server
  scores   - View the leaderboard
  ledger   - View a player's loyalty points
  levels   - Show level targets and character progression
  sim      - Autoplay games and print statistics

Examples:
  breadcrush play
  breadcrush play --difficulty hard
  breadcrush serve
  breadcrush sim --games 100 --seed 1`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.breadcrush/breadcrush.db", "Path to the results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(simCmd)
}

// newLogger builds the process logger writing to w at --log-level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "breadcrush",
	}), nil
}

// loadGameConfig loads --config and parses --difficulty. The preset is
// returned unapplied so the menu can still change it.
func loadGameConfig() (config.GameConfig, config.DifficultyPreset, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.GameConfig{}, "", err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, "", err
	}
	return cfg, preset, nil
}

// presetGameConfig loads --config with --difficulty applied.
func presetGameConfig() (config.GameConfig, error) {
	cfg, preset, err := loadGameConfig()
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
