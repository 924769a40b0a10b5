package crush

import (
	"strings"
	"testing"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/core"
	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/session"
)

func newTestGame(t *testing.T, mutate func(*config.GameConfig)) *Game {
	t.Helper()
	cfg := config.DefaultGameConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	g := New(Options{Player: "tester", Config: cfg})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 42})
	settle(t, g)
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

// settle steps until no cascade or transition is playing.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		if !g.Session().Busy() {
			return
		}
		press(g)
	}
	t.Fatal("session never settled")
}

// moveCursor steps the cursor to p one cell at a time.
func moveCursor(g *Game, p engine.Position) {
	for g.Cursor().Row < p.Row {
		press(g, core.ActionDown)
	}
	for g.Cursor().Row > p.Row {
		press(g, core.ActionUp)
	}
	for g.Cursor().Col < p.Col {
		press(g, core.ActionRight)
	}
	for g.Cursor().Col > p.Col {
		press(g, core.ActionLeft)
	}
}

func playHint(t *testing.T, g *Game) {
	t.Helper()
	from, to, ok := engine.FindMove(g.Session().Grid())
	if !ok {
		t.Fatal("board has no legal move")
	}
	moveCursor(g, from)
	press(g, core.ActionSelect)
	moveCursor(g, to)
	press(g, core.ActionSelect)
}

func TestCursorClampsToBoard(t *testing.T) {
	g := newTestGame(t, nil)
	if g.Cursor() != engine.P(4, 3) {
		t.Errorf("Cursor() = %v, expected (4,3)", g.Cursor())
	}
	for i := 0; i < 20; i++ {
		press(g, core.ActionUp)
		press(g, core.ActionLeft)
	}
	if g.Cursor() != engine.P(0, 0) {
		t.Errorf("Cursor() = %v, expected (0,0)", g.Cursor())
	}
	for i := 0; i < 20; i++ {
		press(g, core.ActionDown)
		press(g, core.ActionRight)
	}
	if g.Cursor() != engine.P(7, 6) {
		t.Errorf("Cursor() = %v, expected (7,6)", g.Cursor())
	}
}

func TestSelectAndSwapThroughInput(t *testing.T) {
	g := newTestGame(t, nil)

	playHint(t, g)
	if s := g.State(); !s.Busy || s.Moves != 29 {
		t.Errorf("State() after swap = %+v, expected busy with 29 moves", s)
	}
	settle(t, g)

	snap := g.Session().Snapshot()
	if snap.Swaps != 1 || snap.TotalScore == 0 {
		t.Errorf("swaps %d total %d, expected one scoring swap", snap.Swaps, snap.TotalScore)
	}
	if snap.Phase != session.PhaseIdle {
		t.Errorf("Phase = %v, expected Idle", snap.Phase)
	}
}

func TestCancelDropsSelection(t *testing.T) {
	g := newTestGame(t, nil)
	press(g, core.ActionSelect)
	if g.Session().Phase() != session.PhaseSelected {
		t.Fatalf("Phase() = %v, expected Selected", g.Session().Phase())
	}
	press(g, core.ActionCancel)
	if g.Session().Phase() != session.PhaseIdle {
		t.Errorf("Phase() = %v, expected Idle", g.Session().Phase())
	}
}

func TestItemKeys(t *testing.T) {
	g := newTestGame(t, nil)
	press(g, core.ActionMoves)
	if g.State().Moves != 35 {
		t.Errorf("Moves = %d, expected 35", g.State().Moves)
	}
	if !strings.HasPrefix(g.banner, "Extra moves") {
		t.Errorf("banner = %q", g.banner)
	}
	press(g, core.ActionHint)
	if g.Session().Snapshot().Hint == nil {
		t.Error("hint not shown after using the hint item")
	}
}

func TestGameOverResultTakenOnce(t *testing.T) {
	g := newTestGame(t, func(c *config.GameConfig) {
		c.Level.MovesPerLevel = 1
		c.Level.TargetBase = 1_000_000
		c.Combo.OneMoveAt = 0
		c.Combo.TwoMovesAt = 0
	})

	playHint(t, g)
	settle(t, g)
	if !g.State().GameOver {
		t.Fatalf("State() = %+v, expected game over", g.State())
	}
	r, ok := g.TakeResult()
	if !ok || r.Player != "tester" || r.Swaps != 1 {
		t.Errorf("TakeResult() = %+v, %v", r, ok)
	}
	if _, ok := g.TakeResult(); ok {
		t.Error("TakeResult() returned the result twice")
	}

	press(g, core.ActionNewGame)
	settle(t, g)
	if s := g.State(); s.GameOver || s.Moves != 1 || s.Score != 0 {
		t.Errorf("State() after new game = %+v", s)
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, nil)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	for _, want := range []string{"Bread Crush", "Level  1", "Moves  30", "Items", "Skills", "locked"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q", want)
		}
	}

	w, _ := g.minSize()
	boardX := (80 - w) / 2
	x := boardX + 1 + 3*cellWidth
	y := 2 + 1 + 4
	if screen.Get(x, y) != '[' || screen.Get(x+2, y) != ']' {
		t.Errorf("cursor brackets not drawn at (%d,%d): %q", x, y, screen.Row(y))
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New(Options{Config: config.DefaultGameConfig()})
	g.Reset(core.RuntimeConfig{ScreenW: 30, ScreenH: 10, TickRate: 30, Seed: 1})

	before := g.Cursor()
	press(g, core.ActionLeft)
	if g.Cursor() != before {
		t.Error("input handled while the window is too small")
	}

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Errorf("Render() = %q, expected a size warning", screen.String())
	}
}
