package hub

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breadcrush/internal/character"
	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/ranking"
	"github.com/vovakirdan/breadcrush/internal/session"
)

// memCharacters is an in-memory CharacterStore.
type memCharacters struct {
	chars map[string]character.Progress
	err   error
}

func (m *memCharacters) LoadCharacter(_ context.Context, player string) (character.Progress, error) {
	if m.err != nil {
		return character.Progress{}, m.err
	}
	if p, ok := m.chars[player]; ok {
		return p, nil
	}
	return character.New(), nil
}

func (m *memCharacters) GrantExp(ctx context.Context, player string, exp int) (character.Progress, int, error) {
	p, err := m.LoadCharacter(ctx, player)
	if err != nil {
		return p, 0, err
	}
	p, gained := p.AddExp(exp)
	m.chars[player] = p
	return p, gained, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// oneMoveConfig ends every game after a single swap.
func oneMoveConfig() config.GameConfig {
	cfg := config.DefaultGameConfig()
	cfg.Level.MovesPerLevel = 1
	cfg.Level.TargetBase = 1_000_000
	cfg.Combo.OneMoveAt = 0
	cfg.Combo.TwoMovesAt = 0
	return cfg
}

func playOneMove(t *testing.T, s *session.Session) {
	t.Helper()
	from, to, ok := engine.FindMove(s.Grid())
	if !ok {
		t.Fatal("board has no legal move")
	}
	if got := s.TrySwap(from, to); got != session.SwapAccepted {
		t.Fatalf("TrySwap() = %v, expected SwapAccepted", got)
	}
	s.Flush()
}

func TestHubCreateGetRemove(t *testing.T) {
	h := New(DefaultConfig(), config.DefaultGameConfig(), nil, nil, quietLogger())

	s, err := h.Create(context.Background(), "ann", 1)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if s.ID() == "" || s.Player() != "ann" {
		t.Errorf("session id %q player %q", s.ID(), s.Player())
	}
	got, ok := h.Get(s.ID())
	if !ok || got != s {
		t.Errorf("Get(%q) = %v, %v", s.ID(), got, ok)
	}
	if h.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", h.Count())
	}
	h.Remove(s.ID())
	if _, ok := h.Get(s.ID()); ok {
		t.Error("Get() found a removed session")
	}
}

func TestHubSessionLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSessions = 2
	h := New(cfg, config.DefaultGameConfig(), nil, nil, quietLogger())

	for i := 0; i < 2; i++ {
		if _, err := h.Create(context.Background(), "p", int64(i+1)); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
	}
	if _, err := h.Create(context.Background(), "p", 3); !errors.Is(err, ErrFull) {
		t.Errorf("Create() over limit error = %v, expected ErrFull", err)
	}
}

func TestHubExpireIdle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IdleTimeout = time.Minute
	h := New(cfg, config.DefaultGameConfig(), nil, nil, quietLogger())

	old, _ := h.Create(context.Background(), "old", 1)
	fresh, _ := h.Create(context.Background(), "fresh", 2)
	h.sessions[old.ID()].lastSeen = time.Now().Add(-2 * time.Minute)

	if n := h.expireIdle(time.Now()); n != 1 {
		t.Errorf("expireIdle() = %d, expected 1", n)
	}
	if _, ok := h.Get(old.ID()); ok {
		t.Error("idle session survived")
	}
	if _, ok := h.Get(fresh.ID()); !ok {
		t.Error("active session expired")
	}
}

func TestHubTickAdvancesSessions(t *testing.T) {
	h := New(DefaultConfig(), config.DefaultGameConfig(), nil, nil, quietLogger())
	s, _ := h.Create(context.Background(), "ann", 5)

	from, to, _ := engine.FindMove(s.Grid())
	s.TrySwap(from, to)
	for i := 0; i < 10000 && s.Busy(); i++ {
		h.Tick(50 * time.Millisecond)
	}
	if s.Busy() || s.Phase() != session.PhaseIdle {
		t.Errorf("session still busy after ticking: phase %v", s.Phase())
	}
}

func TestHubRecordsFinishedGames(t *testing.T) {
	board := ranking.NewMemory()
	chars := &memCharacters{chars: map[string]character.Progress{}}
	rec := &Recorder{Board: board, Characters: chars, Logger: quietLogger()}
	h := New(DefaultConfig(), oneMoveConfig(), rec, nil, quietLogger())
	h.Start()

	s, err := h.Create(context.Background(), "ann", 9)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	playOneMove(t, s)
	if s.Phase() != session.PhaseGameOver {
		t.Fatalf("Phase() = %v, expected GameOver", s.Phase())
	}
	h.Stop()

	top, _ := board.Top(context.Background(), 10)
	if len(top) != 1 || top[0].Player != "ann" || top[0].Score != s.Snapshot().TotalScore {
		t.Errorf("Top() = %+v", top)
	}
	if chars.chars["ann"] == (character.Progress{}) {
		t.Error("no experience granted")
	}
}

func TestHubAppliesCharacterLevel(t *testing.T) {
	chars := &memCharacters{chars: map[string]character.Progress{"vet": {Level: 12}}}
	h := New(DefaultConfig(), config.DefaultGameConfig(), &Recorder{Characters: chars}, nil, quietLogger())

	s, _ := h.Create(context.Background(), "vet", 1)
	for _, st := range s.Snapshot().Skills {
		if !st.Unlocked {
			t.Errorf("skill %s locked at character level 12", st.Skill)
		}
	}
	rookie, _ := h.Create(context.Background(), "rookie", 1)
	for _, st := range rookie.Snapshot().Skills {
		if st.Unlocked {
			t.Errorf("skill %s unlocked at character level 1", st.Skill)
		}
	}
}

func TestRecorderOutcome(t *testing.T) {
	chars := &memCharacters{chars: map[string]character.Progress{}}
	rec := &Recorder{Characters: chars}
	sum := session.Summary{Player: "ann", Score: 1000, Level: 2, Crushed: engine.Tally{10, 5}}

	out, err := rec.Record(context.Background(), sum)
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	// 1000/10 + 2*50 + 15
	if out.Exp != 215 {
		t.Errorf("Exp = %d, expected 215", out.Exp)
	}
	if out.Character.Level != 2 || out.LevelsGained != 1 || out.Character.Exp != 115 {
		t.Errorf("Character = %+v gained %d, expected level 2 exp 115", out.Character, out.LevelsGained)
	}

	chars.err = errors.New("disk gone")
	if _, err := rec.Record(context.Background(), sum); err == nil {
		t.Error("Record() hid a character store failure")
	}
	if lvl := rec.CharacterLevel(context.Background(), "ann"); lvl != 1 {
		t.Errorf("CharacterLevel() on failure = %d, expected 1", lvl)
	}

	var nilRec *Recorder
	if out, err := nilRec.Record(context.Background(), sum); err != nil || out.Exp != 215 {
		t.Errorf("nil Recorder.Record() = %+v, %v", out, err)
	}
}
