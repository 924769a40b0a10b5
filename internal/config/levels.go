package config

// TargetScore returns the score needed to clear the given level.
func (l LevelConfig) TargetScore(level int) int {
	if level < 1 {
		level = 1
	}
	return l.TargetBase + (level-1)*l.TargetStep
}

// ClearBonus returns the points awarded for moves left at a level clear.
func (l LevelConfig) ClearBonus(movesRemaining int) int {
	if movesRemaining <= 0 {
		return 0
	}
	return movesRemaining * l.ClearBonusPerMove
}

// BonusMoves returns the extra moves earned by a settled combo. The larger
// threshold wins; they never stack.
func (c ComboConfig) BonusMoves(combo int) int {
	switch {
	case c.TwoMovesAt > 0 && combo >= c.TwoMovesAt:
		return 2
	case c.OneMoveAt > 0 && combo >= c.OneMoveAt:
		return 1
	}
	return 0
}

// PassScore returns the raw points of one cascade pass before multipliers.
func (s ScoringConfig) PassScore(matched, combo int) int {
	pts := matched * s.PerTile
	if combo > 1 {
		pts += combo * s.ComboBonus
	}
	return pts
}
