// Package character tracks a player's long-term level, which gates skills.
package character

// MaxLevel caps character progression.
const MaxLevel = 50

// Progress is a player's character level and experience toward the next one.
type Progress struct {
	Level int `json:"level"`
	Exp   int `json:"exp"`
}

// New returns a level 1 character.
func New() Progress {
	return Progress{Level: 1}
}

// ExpToNext returns the experience needed to leave the given level.
func ExpToNext(level int) int {
	return 100 + (level-1)*50
}

// ExpEarned returns the experience granted for a finished game.
func ExpEarned(score, levelReached, crushed int) int {
	return score/10 + levelReached*50 + crushed
}

// AddExp applies experience, handling multiple level-ups. It returns the
// new progress and how many levels were gained.
func (p Progress) AddExp(amount int) (Progress, int) {
	if p.Level < 1 {
		p.Level = 1
	}
	p.Exp += amount
	gained := 0
	for p.Level < MaxLevel {
		need := ExpToNext(p.Level)
		if p.Exp < need {
			break
		}
		p.Exp -= need
		p.Level++
		gained++
	}
	if p.Level >= MaxLevel {
		p.Level = MaxLevel
		p.Exp = 0
	}
	return p, gained
}
