package session

import (
	"time"

	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/loyalty"
)

// maxDeadlockRounds bounds reshuffling when even rebuilt boards have no move.
const maxDeadlockRounds = 50

// detect runs one pass: find runs, score them, detonate specials, and queue
// the refill. With nothing matched it resolves deadlocks and settles.
func (s *Session) detect() {
	res := engine.Detect(s.grid, s.rules, s.dealer)
	if res.Empty() {
		s.resolveDeadlock()
		s.settle()
		return
	}

	s.combo++
	points := s.cfg.Scoring.PassScore(len(res.Matched), s.combo)
	s.resolvePass(res.Matched, res.Spawn, points, len(res.Matched))
}

// resolvePass removes cleared (plus detonations), credits the points, and
// schedules gravity followed by the next detection.
func (s *Session) resolvePass(cleared engine.PositionSet, spawn *engine.Spawn, points, matched int) {
	if s.chain.fever {
		points *= s.cfg.Combo.FeverMultiplier
	}
	if s.chain.boost && s.cfg.Items.ScoreBoostRate > 0 {
		points = int(float64(points) * s.cfg.Items.ScoreBoostRate)
	}

	removed, blasts := engine.Expand(s.grid, cleared)
	next, tally := engine.Collapse(s.grid, removed, spawn, s.dealer)

	s.grid.Mark(removed)
	s.matched = removed
	s.blasts = blasts
	s.score += points
	s.totalScore += points
	s.crushed.Add(tally)
	s.passes++

	report := PassReport{
		Level:       s.level,
		Combo:       s.combo,
		Matched:     matched,
		Points:      points,
		Fever:       s.chain.fever,
		Removed:     tally,
		Spawn:       spawn,
		Detonations: blasts,
	}
	s.logger.Debug("pass", "session", s.id, "combo", s.combo, "matched", matched,
		"removed", tally.Total(), "points", points, "blasts", len(blasts))
	s.reportCredit(report)
	if s.hooks.OnPass != nil {
		s.hooks.OnPass(report)
	}

	s.sched.After(s.cfg.Timing.Gravity, func() {
		s.grid = next
		s.matched = nil
		s.blasts = nil
		s.sched.After(s.cfg.Timing.Cascade, s.detect)
	})
}

func (s *Session) reportCredit(r PassReport) {
	if s.credits == nil {
		return
	}
	awards := loyalty.Distribute(r.Points, r.Removed)
	if len(awards) == 0 {
		return
	}
	s.credits.Report(loyalty.Credit{
		SessionID: s.id,
		Player:    s.player,
		Level:     r.Level,
		Pass:      r.Combo,
		Score:     r.Points,
		Awards:    awards,
		At:        time.Now(),
	})
}

// resolveDeadlock reshuffles until the board has a legal move. It never
// touches the move budget or the combo.
func (s *Session) resolveDeadlock() {
	for round := 0; round < maxDeadlockRounds; round++ {
		if engine.HasPossibleMoves(s.grid) {
			return
		}
		var ok bool
		s.grid, ok = engine.Reshuffle(s.grid, s.dealer, s.cfg.Reshuffle.Attempts)
		s.reshuffles++
		s.logger.Debug("deadlock reshuffle", "session", s.id, "permuted", ok)
	}
	s.logger.Warn("board still deadlocked after reshuffles", "session", s.id)
}

// settle applies end-of-chain rules and picks the next phase.
func (s *Session) settle() {
	if s.chain.player {
		s.moves += s.cfg.Combo.BonusMoves(s.combo)

		switch {
		case s.chain.fever:
			s.fever = max(s.fever-1, 0)
		case s.combo >= s.cfg.Combo.FeverAt && s.cfg.Combo.FeverAt > 0:
			s.fever = s.cfg.Combo.FeverSwaps
			s.logger.Debug("fever", "session", s.id, "swaps", s.fever)
		}
		if s.chain.boost {
			s.boost = max(s.boost-1, 0)
		}
		s.hintSwaps = max(s.hintSwaps-1, 0)
		for i := range s.cooldowns {
			s.cooldowns[i] = max(s.cooldowns[i]-1, 0)
		}
		s.swaps++
	}
	s.chain = chain{}

	switch {
	case s.score >= s.cfg.Level.TargetScore(s.level):
		s.levelClear()
	case s.moves <= 0:
		s.phase = PhaseGameOver
		s.logger.Debug("game over", "session", s.id, "score", s.totalScore, "level", s.level)
		if s.hooks.OnGameOver != nil {
			s.hooks.OnGameOver(s.summary())
		}
	default:
		s.phase = PhaseIdle
	}
}

// levelClear awards the clear bonus and schedules the next level.
func (s *Session) levelClear() {
	bonus := s.cfg.Level.ClearBonus(s.moves)
	s.score += bonus
	s.totalScore += bonus
	s.lastBonus = bonus
	s.phase = PhaseLevelUp

	reward := Items()[(s.level-1)%int(itemCount)]
	s.addItem(reward, 1)

	report := LevelReport{
		Level:          s.level,
		Score:          s.score,
		Bonus:          bonus,
		MovesRemaining: s.moves,
		Reward:         reward,
	}
	s.logger.Debug("level clear", "session", s.id, "level", s.level, "bonus", bonus)
	if s.hooks.OnLevelUp != nil {
		s.hooks.OnLevelUp(report)
	}

	s.sched.After(s.cfg.Timing.LevelUp, func() {
		s.level++
		s.startLevelBoard()
	})
}

// startCheck handles a freshly dealt board: standing matches cascade
// without spending a move, and a deadlocked board is reshuffled.
func (s *Session) startCheck() {
	if engine.HasMatch(s.grid) {
		s.phase = PhaseAnimating
		s.combo = 0
		s.chain = chain{}
		s.sched.After(0, s.detect)
		return
	}
	s.resolveDeadlock()
}

func (s *Session) summary() Summary {
	return Summary{
		SessionID: s.id,
		Player:    s.player,
		Score:     s.totalScore,
		Level:     s.level,
		Crushed:   s.crushed,
		Swaps:     s.swaps,
		Passes:    s.passes,
	}
}
