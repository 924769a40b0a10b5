package hub

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breadcrush/internal/character"
	"github.com/vovakirdan/breadcrush/internal/ranking"
	"github.com/vovakirdan/breadcrush/internal/session"
)

// CharacterStore persists character progress. storage.Store satisfies it.
type CharacterStore interface {
	LoadCharacter(ctx context.Context, player string) (character.Progress, error)
	GrantExp(ctx context.Context, player string, exp int) (character.Progress, int, error)
}

// Recorder turns finished games into leaderboard results and character
// experience. Both collaborators are optional.
type Recorder struct {
	Board      ranking.Board
	Characters CharacterStore
	Logger     *log.Logger
}

// Outcome is what recording a game produced.
type Outcome struct {
	Result       ranking.Result
	Exp          int
	Character    character.Progress
	LevelsGained int
}

// Record submits the summary and grants experience. Collaborator errors are
// joined; a failed submit does not stop the experience grant.
func (r *Recorder) Record(ctx context.Context, sum session.Summary) (Outcome, error) {
	out := Outcome{
		Result: ranking.Result{
			SessionID: sum.SessionID,
			Player:    sum.Player,
			Score:     sum.Score,
			Level:     sum.Level,
			Crushed:   sum.Crushed,
			At:        time.Now(),
		},
		Exp: character.ExpEarned(sum.Score, sum.Level, sum.Crushed.Total()),
	}
	if r == nil {
		return out, nil
	}

	var errs []error
	if r.Board != nil {
		if err := r.Board.Submit(ctx, out.Result); err != nil {
			errs = append(errs, err)
		}
	}
	if r.Characters != nil {
		p, gained, err := r.Characters.GrantExp(ctx, sum.Player, out.Exp)
		if err != nil {
			errs = append(errs, err)
		} else {
			out.Character, out.LevelsGained = p, gained
		}
	}
	err := errors.Join(errs...)
	if r.Logger != nil {
		if err != nil {
			r.Logger.Warn("recording game failed", "player", sum.Player, "error", err)
		} else {
			r.Logger.Info("game recorded", "player", sum.Player, "score", sum.Score,
				"level", sum.Level, "exp", out.Exp, "levels_gained", out.LevelsGained)
		}
	}
	return out, err
}

// CharacterLevel returns the player's stored character level, or 1.
func (r *Recorder) CharacterLevel(ctx context.Context, player string) int {
	if r == nil || r.Characters == nil {
		return 1
	}
	p, err := r.Characters.LoadCharacter(ctx, player)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warn("cannot load character", "player", player, "error", err)
		}
		return 1
	}
	return max(p.Level, 1)
}
