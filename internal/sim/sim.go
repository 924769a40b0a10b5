// Package sim plays whole games headlessly with a bot that always takes
// the first legal swap, for balancing configs and smoke-testing the rules.
package sim

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/session"
)

// maxSwaps bounds one game in case a config never runs out of moves.
const maxSwaps = 10_000

// Options configures a simulation run.
type Options struct {
	Config   config.GameConfig
	Games    int
	Seed     int64
	UseItems bool // spend extra-moves items as soon as they are available
	Credits  session.CreditReporter
	Logger   *log.Logger
}

// Game is the result of one simulated game.
type Game struct {
	Seed       int64
	Score      int
	Level      int
	Swaps      int
	Passes     int
	Reshuffles int
	Crushed    engine.Tally
}

// Report aggregates a simulation run.
type Report struct {
	Games    []Game
	Elapsed  time.Duration
	Best     Game
	AvgScore float64
	AvgLevel float64
	AvgSwaps float64
}

// Run plays opts.Games games with consecutive seeds starting at opts.Seed.
func Run(opts Options) (Report, error) {
	if opts.Games <= 0 {
		return Report{}, fmt.Errorf("sim: games must be positive, got %d", opts.Games)
	}
	if err := opts.Config.Validate(); err != nil {
		return Report{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	start := time.Now()
	rep := Report{Games: make([]Game, 0, opts.Games)}
	for i := range opts.Games {
		g := play(opts, opts.Seed+int64(i))
		logger.Debug("game finished", "seed", g.Seed, "score", g.Score, "level", g.Level, "swaps", g.Swaps)
		rep.Games = append(rep.Games, g)
	}
	rep.Elapsed = time.Since(start)
	rep.summarize()
	return rep, nil
}

func play(opts Options, seed int64) Game {
	var sum session.Summary
	sess := session.New(session.Options{
		ID:      fmt.Sprintf("sim-%d", seed),
		Player:  "bot",
		Config:  opts.Config,
		Seed:    seed,
		Credits: opts.Credits,
		Logger:  opts.Logger,
		Hooks: session.Hooks{
			OnGameOver: func(s session.Summary) { sum = s },
		},
	})

	for range maxSwaps {
		if sess.Phase() == session.PhaseGameOver {
			break
		}
		if opts.UseItems {
			sess.UseItem(session.ItemExtraMoves)
		}
		from, to, ok := engine.FindMove(sess.Grid())
		if !ok || sess.TrySwap(from, to) != session.SwapAccepted {
			break
		}
		sess.Flush()
	}

	snap := sess.Snapshot()
	if sum.SessionID == "" {
		sum = session.Summary{Score: snap.TotalScore, Level: snap.Level, Crushed: snap.Crushed, Swaps: snap.Swaps}
	}
	return Game{
		Seed:       seed,
		Score:      sum.Score,
		Level:      sum.Level,
		Swaps:      sum.Swaps,
		Passes:     sum.Passes,
		Reshuffles: snap.Reshuffles,
		Crushed:    sum.Crushed,
	}
}

func (r *Report) summarize() {
	var score, level, swaps int
	for i, g := range r.Games {
		score += g.Score
		level += g.Level
		swaps += g.Swaps
		if i == 0 || g.Score > r.Best.Score {
			r.Best = g
		}
	}
	n := float64(len(r.Games))
	r.AvgScore = float64(score) / n
	r.AvgLevel = float64(level) / n
	r.AvgSwaps = float64(swaps) / n
}
