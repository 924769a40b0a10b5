package session

import (
	"github.com/vovakirdan/breadcrush/internal/engine"
)

// Move is a pair of adjacent positions.
type Move struct {
	From engine.Position `json:"from"`
	To   engine.Position `json:"to"`
}

// SkillState is a skill as seen by the player.
type SkillState struct {
	Skill    string `json:"skill"`
	Unlocked bool   `json:"unlocked"`
	Cooldown int    `json:"cooldown"`
}

// Snapshot is a read-only projection of the session for presentation.
type Snapshot struct {
	ID          string              `json:"id"`
	Player      string              `json:"player"`
	Phase       Phase               `json:"phase"`
	Rows        int                 `json:"rows"`
	Cols        int                 `json:"cols"`
	Cells       []engine.Cell       `json:"cells"`
	Score       int                 `json:"score"`
	TotalScore  int                 `json:"total_score"`
	Moves       int                 `json:"moves"`
	Level       int                 `json:"level"`
	Target      int                 `json:"target"`
	Selected    *engine.Position    `json:"selected,omitempty"`
	Matched     []engine.Position   `json:"matched,omitempty"`
	Detonations []engine.Detonation `json:"detonations,omitempty"`
	Combo       int                 `json:"combo"`
	Fever       int                 `json:"fever"`
	ScoreBoost  int                 `json:"score_boost"`
	Hint        *Move               `json:"hint,omitempty"`
	Items       map[string]int      `json:"items"`
	Skills      []SkillState        `json:"skills"`
	LastBonus   int                 `json:"last_bonus"`
	Crushed     engine.Tally        `json:"crushed"`
	Swaps       int                 `json:"swaps"`
	Reshuffles  int                 `json:"reshuffles"`
}

// FeverActive reports whether fever doubling applies to the next swap.
func (s Snapshot) FeverActive() bool {
	return s.Fever > 0
}

// Cell returns the snapshot cell at p.
func (s Snapshot) Cell(p engine.Position) engine.Cell {
	if p.Row < 0 || p.Row >= s.Rows || p.Col < 0 || p.Col >= s.Cols {
		return engine.Cell{}
	}
	return s.Cells[p.Row*s.Cols+p.Col]
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		Player:     s.player,
		Phase:      s.phase,
		Rows:       s.grid.Rows,
		Cols:       s.grid.Cols,
		Cells:      s.grid.Clone().Cells,
		Score:      s.score,
		TotalScore: s.totalScore,
		Moves:      s.moves,
		Level:      s.level,
		Target:     s.cfg.Level.TargetScore(s.level),
		Combo:      s.combo,
		Fever:      s.fever,
		ScoreBoost: s.boost,
		Items:      make(map[string]int, itemCount),
		LastBonus:  s.lastBonus,
		Crushed:    s.crushed,
		Swaps:      s.swaps,
		Reshuffles: s.reshuffles,
	}
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	if len(s.matched) > 0 {
		snap.Matched = s.matched.Sorted()
	}
	if len(s.blasts) > 0 {
		snap.Detonations = append([]engine.Detonation(nil), s.blasts...)
	}
	if from, to, ok := s.hint(); ok {
		snap.Hint = &Move{From: from, To: to}
	}
	for _, it := range Items() {
		snap.Items[it.String()] = s.inventory[it]
	}
	for _, sk := range Skills() {
		snap.Skills = append(snap.Skills, SkillState{
			Skill:    sk.String(),
			Unlocked: s.skillUnlocked(sk),
			Cooldown: s.cooldowns[sk],
		})
	}
	return snap
}

// Grid returns a copy of the board.
func (s *Session) Grid() *engine.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}
