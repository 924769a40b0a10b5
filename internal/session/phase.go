// Package session runs one player's game: input gating, the timed cascade
// after each swap, scoring, combo and fever rules, items, skills and level
// progression. Board rules live in the engine package.
package session

import "fmt"

// Phase is the session's input state.
type Phase int

const (
	PhaseIdle      Phase = iota // awaiting input
	PhaseSelected               // one tile chosen
	PhaseAnimating              // cascade or swap-back in progress, input ignored
	PhaseLevelUp                // level clear display, input ignored
	PhaseGameOver               // only a new game is accepted
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseSelected:
		return "Selected"
	case PhaseAnimating:
		return "Animating"
	case PhaseLevelUp:
		return "LevelUp"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// acceptsInput reports whether selection and swaps are allowed.
func (p Phase) acceptsInput() bool {
	return p == PhaseIdle || p == PhaseSelected
}

// Item is a consumable power-up.
type Item int

const (
	ItemScoreBoost Item = iota
	ItemHint
	ItemExtraMoves
	itemCount
)

var itemNames = [itemCount]string{"score_boost", "hint", "extra_moves"}

// String returns the item's wire name.
func (i Item) String() string {
	if i >= 0 && i < itemCount {
		return itemNames[i]
	}
	return "unknown"
}

// Items returns every item kind.
func Items() []Item {
	return []Item{ItemScoreBoost, ItemHint, ItemExtraMoves}
}

// ParseItem converts a wire name to an item.
func ParseItem(s string) (Item, error) {
	for i, n := range itemNames {
		if n == s {
			return Item(i), nil
		}
	}
	return 0, fmt.Errorf("session: unknown item %q", s)
}

// Skill is an active ability with a cooldown.
type Skill int

const (
	SkillBomb Skill = iota
	SkillShuffle
	SkillLineClear
	skillCount
)

var skillNames = [skillCount]string{"bomb", "shuffle", "line_clear"}

// String returns the skill's wire name.
func (s Skill) String() string {
	if s >= 0 && s < skillCount {
		return skillNames[s]
	}
	return "unknown"
}

// NeedsTarget reports whether the skill acts on a chosen cell.
func (s Skill) NeedsTarget() bool {
	return s == SkillBomb || s == SkillLineClear
}

// Skills returns every skill kind.
func Skills() []Skill {
	return []Skill{SkillBomb, SkillShuffle, SkillLineClear}
}

// ParseSkill converts a wire name to a skill.
func ParseSkill(s string) (Skill, error) {
	for i, n := range skillNames {
		if n == s {
			return Skill(i), nil
		}
	}
	return 0, fmt.Errorf("session: unknown skill %q", s)
}
