package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/breadcrush/internal/core"
	"github.com/vovakirdan/breadcrush/internal/hub"
	"github.com/vovakirdan/breadcrush/internal/loyalty"
	"github.com/vovakirdan/breadcrush/internal/platform/tui"
	"github.com/vovakirdan/breadcrush/internal/storage"
)

var (
	flagPlayer  string
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Open the menu and play Bread Crush in this terminal.

Controls:
  Arrows/hjkl  - Move the cursor
  Space/Enter  - Select a bread, then a neighbour to swap
  Esc          - Cancel the selection
  1 / 2 / 3    - Score boost / hint / extra moves items
  z / x / c    - Bomb / shuffle / line clear skills
  n            - New game
  b            - Back to the menu
  Q/Ctrl+C     - Quit

Results, loyalty points and character experience are stored in --db.

Examples:
  breadcrush play
  breadcrush play --player ann --difficulty easy
  breadcrush play --config ./my-breadcrush.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name (default: current user)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the screen belongs to the game)")
}

func defaultPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}

func runPlay(_ *cobra.Command, _ []string) {
	gameCfg, preset, err := loadGameConfig()
	if err != nil {
		fail("%v", err)
	}

	logOut, closeLog := openLogFile()
	defer closeLog()
	logger, err := newLogger(logOut)
	if err != nil {
		fail("%v", err)
	}

	player := flagPlayer
	if player == "" {
		player = defaultPlayer()
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// The menu applies the preset itself.
	deps := tui.Deps{
		Game:   gameCfg,
		Preset: preset,
		Logger: logger,
	}

	// The game still works without storage.
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		store = nil
	}
	var dispatcher *loyalty.Dispatcher
	if store != nil {
		dispatcher = loyalty.NewDispatcher(loyalty.DefaultDispatcherConfig(), store, logger.WithPrefix("loyalty"))
		dispatcher.Start()
		deps.Scores = store
		deps.Credits = dispatcher
		deps.Recorder = &hub.Recorder{Board: store, Characters: store, Logger: logger}
	}

	runErr := tui.Run(deps, player, cfg)

	if dispatcher != nil {
		dispatcher.Stop()
	}
	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fail("running game: %v", runErr)
	}
}

// openLogFile returns --log-file, or a discard writer when unset.
func openLogFile() (*os.File, func()) {
	if flagLogFile == "" {
		devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			fail("%v", err)
		}
		return devNull, func() { devNull.Close() }
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fail("cannot open log file: %v", err)
	}
	return f, func() { f.Close() }
}
