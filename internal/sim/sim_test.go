package sim

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/loyalty"
)

type countCredits struct {
	n, points int
}

func (c *countCredits) Report(cr loyalty.Credit) {
	c.n++
	c.points += cr.Total()
}

func quietOptions(games int, seed int64) Options {
	return Options{
		Config: config.DefaultGameConfig(),
		Games:  games,
		Seed:   seed,
		Logger: log.New(io.Discard),
	}
}

func TestRunPlaysGamesToTheEnd(t *testing.T) {
	credits := &countCredits{}
	opts := quietOptions(3, 42)
	opts.Credits = credits

	rep, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rep.Games) != 3 {
		t.Fatalf("len(Games) = %d, expected 3", len(rep.Games))
	}
	moves := opts.Config.Level.MovesPerLevel
	for i, g := range rep.Games {
		if g.Seed != 42+int64(i) {
			t.Errorf("game %d seed = %d, expected %d", i, g.Seed, 42+i)
		}
		if g.Swaps < moves {
			t.Errorf("game %d made %d swaps, expected at least %d", i, g.Swaps, moves)
		}
		if g.Score <= 0 || g.Level < 1 || g.Crushed.Total() == 0 {
			t.Errorf("game %d = %+v, expected points, a level and crushed tiles", i, g)
		}
	}
	if rep.Best.Score < rep.Games[0].Score || rep.AvgScore <= 0 {
		t.Errorf("Best = %d, AvgScore = %v", rep.Best.Score, rep.AvgScore)
	}
	if credits.n == 0 || credits.points == 0 {
		t.Errorf("credits = %+v, expected some", credits)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := Run(quietOptions(2, 7))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(quietOptions(2, 7))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Games {
		if a.Games[i] != b.Games[i] {
			t.Errorf("game %d differs between runs: %+v vs %+v", i, a.Games[i], b.Games[i])
		}
	}
}

func TestRunUsesItems(t *testing.T) {
	opts := quietOptions(1, 3)
	opts.UseItems = true
	rep, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := opts.Config.Level.MovesPerLevel + opts.Config.Items.ExtraMoves
	if rep.Games[0].Swaps < want {
		t.Errorf("Swaps = %d with an extra-moves item, expected at least %d", rep.Games[0].Swaps, want)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	if _, err := Run(quietOptions(0, 1)); err == nil {
		t.Error("Run() with zero games should fail")
	}
	opts := quietOptions(1, 1)
	opts.Config.Board.Rows = 2
	if _, err := Run(opts); err == nil {
		t.Error("Run() with an invalid config should fail")
	}
}
