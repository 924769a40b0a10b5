// Package crush adapts a match-3 session to the platform's tick loop:
// cursor movement, key actions, banners and rendering into a core.Screen.
package crush

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/core"
	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/session"
)

// bannerDuration is how long combo and level messages stay on screen.
const bannerDuration = 1500 * time.Millisecond

// Options configures a Game.
type Options struct {
	Player  string
	Config  config.GameConfig
	Credits session.CreditReporter
	Logger  *log.Logger
}

// Game drives one session from platform input frames.
type Game struct {
	opts Options
	sess *session.Session

	cursor  engine.Position
	tickDur time.Duration
	screenW int
	screenH int

	banner     string
	bannerLeft time.Duration
	result     *session.Summary
}

// New creates a game. Reset must be called before the first Step.
func New(opts Options) *Game {
	if opts.Player == "" {
		opts.Player = "player"
	}
	return &Game{opts: opts}
}

// ID returns the game identifier used for stored results.
func (g *Game) ID() string {
	return "breadcrush"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Bread Crush"
}

// Reset starts a fresh session sized for the given screen.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.tickDur = time.Second / time.Duration(cfg.TickRate)
	g.Resize(cfg.ScreenW, cfg.ScreenH)
	g.banner = ""
	g.bannerLeft = 0
	g.result = nil

	g.sess = session.New(session.Options{
		ID:      fmt.Sprintf("%s-%d", g.opts.Player, seed),
		Player:  g.opts.Player,
		Config:  g.opts.Config,
		Seed:    seed,
		Credits: g.opts.Credits,
		Logger:  g.opts.Logger,
		Hooks: session.Hooks{
			OnPass:     g.onPass,
			OnLevelUp:  g.onLevelUp,
			OnGameOver: g.onGameOver,
		},
	})
	g.cursor = engine.P(g.opts.Config.Board.Rows/2, g.opts.Config.Board.Cols/2)
}

// Resize records a new screen size.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// Session exposes the running session.
func (g *Game) Session() *session.Session {
	return g.sess
}

// Cursor returns the cursor position.
func (g *Game) Cursor() engine.Position {
	return g.cursor
}

// TakeResult returns the summary of a finished game once.
func (g *Game) TakeResult() (session.Summary, bool) {
	if g.result == nil {
		return session.Summary{}, false
	}
	r := *g.result
	g.result = nil
	return r, true
}

// Step applies one frame of input and advances the cascade clock by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if !g.tooSmall() {
		g.handleInput(in)
	}
	g.sess.Advance(g.tickDur)
	if g.bannerLeft > 0 {
		g.bannerLeft -= g.tickDur
		if g.bannerLeft <= 0 {
			g.banner = ""
		}
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) handleInput(in core.InputFrame) {
	rows, cols := g.opts.Config.Board.Rows, g.opts.Config.Board.Cols
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row = core.Clamp(g.cursor.Row-1, 0, rows-1)
	case in.Has(core.ActionDown):
		g.cursor.Row = core.Clamp(g.cursor.Row+1, 0, rows-1)
	case in.Has(core.ActionLeft):
		g.cursor.Col = core.Clamp(g.cursor.Col-1, 0, cols-1)
	case in.Has(core.ActionRight):
		g.cursor.Col = core.Clamp(g.cursor.Col+1, 0, cols-1)
	}

	switch {
	case in.Has(core.ActionNewGame):
		if g.sess.NewGame() {
			g.showBanner("New game")
		}
	case in.Has(core.ActionSelect):
		if g.sess.SelectCell(g.cursor) == session.SwapRejected {
			g.showBanner("No match")
		}
	case in.Has(core.ActionCancel):
		g.sess.Deselect()
	case in.Has(core.ActionBoost):
		g.useItem(session.ItemScoreBoost)
	case in.Has(core.ActionHint):
		g.useItem(session.ItemHint)
	case in.Has(core.ActionMoves):
		g.useItem(session.ItemExtraMoves)
	case in.Has(core.ActionBomb):
		g.useSkill(session.SkillBomb)
	case in.Has(core.ActionShuffle):
		g.useSkill(session.SkillShuffle)
	case in.Has(core.ActionLineClear):
		g.useSkill(session.SkillLineClear)
	}
}

func (g *Game) useItem(it session.Item) {
	if g.sess.UseItem(it) {
		g.showBanner(itemLabel(it) + "!")
	}
}

func (g *Game) useSkill(sk session.Skill) {
	if g.sess.UseSkill(sk, g.cursor) {
		g.showBanner(skillLabel(sk) + "!")
	}
}

func (g *Game) showBanner(msg string) {
	g.banner = msg
	g.bannerLeft = bannerDuration
}

func (g *Game) onPass(r session.PassReport) {
	switch {
	case len(r.Detonations) > 0:
		g.showBanner(fmt.Sprintf("Boom! +%d", r.Points))
	case r.Combo >= 2:
		g.showBanner(fmt.Sprintf("Combo x%d  +%d", r.Combo, r.Points))
	}
}

func (g *Game) onLevelUp(r session.LevelReport) {
	g.showBanner(fmt.Sprintf("Level %d clear! +%d", r.Level, r.Bonus))
}

func (g *Game) onGameOver(s session.Summary) {
	g.result = &s
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	snap := g.sess.Snapshot()
	return core.GameState{
		Score:    snap.TotalScore,
		Level:    snap.Level,
		Moves:    snap.Moves,
		GameOver: snap.Phase == session.PhaseGameOver,
		Busy:     snap.Phase == session.PhaseAnimating || snap.Phase == session.PhaseLevelUp,
	}
}

func itemLabel(it session.Item) string {
	switch it {
	case session.ItemScoreBoost:
		return "Score boost"
	case session.ItemHint:
		return "Hint"
	case session.ItemExtraMoves:
		return "Extra moves"
	}
	return it.String()
}

func skillLabel(sk session.Skill) string {
	switch sk {
	case session.SkillBomb:
		return "Bomb"
	case session.SkillShuffle:
		return "Shuffle"
	case session.SkillLineClear:
		return "Line clear"
	}
	return sk.String()
}
