package session

import (
	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/engine"
)

// UseItem consumes one item from the inventory. It returns false when the
// phase does not accept input or the item is out of stock.
func (s *Session) UseItem(item Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.phase.acceptsInput() || item < 0 || item >= itemCount || s.inventory[item] <= 0 {
		return false
	}

	switch item {
	case ItemExtraMoves:
		s.moves += s.cfg.Items.ExtraMoves
	case ItemScoreBoost:
		s.boost = max(s.boost, s.cfg.Items.ScoreBoostSwaps)
	case ItemHint:
		s.hintSwaps = max(s.hintSwaps, s.cfg.Items.HintSwaps)
	}
	s.inventory[item]--
	s.logger.Debug("item used", "session", s.id, "item", item)
	return true
}

// AddItem grants n items, capped at the configured stack size.
func (s *Session) AddItem(item Item, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addItem(item, n)
}

func (s *Session) addItem(item Item, n int) {
	if item < 0 || item >= itemCount || n <= 0 {
		return
	}
	s.inventory[item] = min(s.inventory[item]+n, s.cfg.Items.MaxStack)
}

func (s *Session) skillUnlocked(sk Skill) bool {
	return s.cfg.Skills.CharacterLevel >= s.skillConfig(sk).UnlockLevel
}

func (s *Session) skillConfig(sk Skill) config.SkillConfig {
	switch sk {
	case SkillBomb:
		return s.cfg.Skills.Bomb
	case SkillShuffle:
		return s.cfg.Skills.Shuffle
	case SkillLineClear:
		return s.cfg.Skills.LineClear
	}
	return config.SkillConfig{}
}

// UseSkill fires a skill. Bomb and LineClear need an on-board target and
// start a cascade; Shuffle reshuffles in place. Skills never spend a move.
// It returns false when the skill is locked, cooling down, the target is
// invalid, or the phase does not accept input.
func (s *Session) UseSkill(sk Skill, target engine.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.phase.acceptsInput() || sk < 0 || sk >= skillCount {
		return false
	}
	if !s.skillUnlocked(sk) || s.cooldowns[sk] > 0 {
		return false
	}
	if sk.NeedsTarget() && !s.grid.InBounds(target) {
		return false
	}

	s.selected = nil
	s.cooldowns[sk] = s.skillConfig(sk).Cooldown
	s.logger.Debug("skill used", "session", s.id, "skill", sk, "target", target)

	if sk == SkillShuffle {
		s.grid, _ = engine.Reshuffle(s.grid, s.dealer, s.cfg.Reshuffle.Attempts)
		s.reshuffles++
		s.resolveDeadlock()
		s.phase = PhaseIdle
		return true
	}

	area := make(engine.PositionSet)
	if sk == SkillBomb {
		for _, p := range engine.Footprint(s.grid, target, engine.SpecialB) {
			area.Add(p)
		}
	} else {
		for c := 0; c < s.grid.Cols; c++ {
			area.Add(engine.P(target.Row, c))
		}
	}

	s.phase = PhaseAnimating
	s.combo = 0
	s.chain = chain{fever: s.fever > 0, boost: s.boost > 0}
	s.resolvePass(area, nil, len(area)*s.cfg.Scoring.PerTile, len(area))
	return true
}

// Hint returns a legal swap while a hint item is active.
func (s *Session) Hint() (from, to engine.Position, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hint()
}

func (s *Session) hint() (from, to engine.Position, ok bool) {
	if s.hintSwaps <= 0 || !s.phase.acceptsInput() {
		return engine.Position{}, engine.Position{}, false
	}
	return engine.FindMove(s.grid)
}
