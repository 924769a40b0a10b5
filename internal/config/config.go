// Package config provides YAML-based game configuration loading and
// difficulty presets for breadcrush.
package config

import (
	"fmt"
	"time"
)

// GameConfig contains all tunable rules of a session.
type GameConfig struct {
	Board     BoardConfig     `yaml:"board"`
	Level     LevelConfig     `yaml:"level"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Specials  SpecialsConfig  `yaml:"specials"`
	Combo     ComboConfig     `yaml:"combo"`
	Reshuffle ReshuffleConfig `yaml:"reshuffle"`
	Timing    TimingConfig    `yaml:"timing"`
	Items     ItemsConfig     `yaml:"items"`
	Skills    SkillsConfig    `yaml:"skills"`
}

// BoardConfig defines the grid shape.
type BoardConfig struct {
	Rows       int `yaml:"rows"`
	Cols       int `yaml:"cols"`
	Categories int `yaml:"categories"`
}

// LevelConfig defines the move budget and score targets.
type LevelConfig struct {
	MovesPerLevel     int `yaml:"moves_per_level"`
	TargetBase        int `yaml:"target_base"`
	TargetStep        int `yaml:"target_step"`
	ClearBonusPerMove int `yaml:"clear_bonus_per_move"`
}

// ScoringConfig defines per-pass points.
type ScoringConfig struct {
	PerTile    int `yaml:"per_tile"`
	ComboBonus int `yaml:"combo_bonus"`
}

// SpecialsConfig defines special tile spawn probabilities.
type SpecialsConfig struct {
	RunThreeChance float64 `yaml:"run_three_chance"`
	UpgradeChance  float64 `yaml:"upgrade_chance"`
}

// ComboConfig defines combo rewards and fever.
type ComboConfig struct {
	OneMoveAt       int `yaml:"one_move_at"`
	TwoMovesAt      int `yaml:"two_moves_at"`
	FeverAt         int `yaml:"fever_at"`
	FeverSwaps      int `yaml:"fever_swaps"`
	FeverMultiplier int `yaml:"fever_multiplier"`
}

// ReshuffleConfig bounds deadlock recovery.
type ReshuffleConfig struct {
	Attempts int `yaml:"attempts"`
}

// TimingConfig defines the pauses between cascade steps.
type TimingConfig struct {
	SwapReject time.Duration `yaml:"swap_reject"`
	Gravity    time.Duration `yaml:"gravity"`
	Cascade    time.Duration `yaml:"cascade"`
	LevelUp    time.Duration `yaml:"level_up"`
}

// ItemsConfig defines consumable items.
type ItemsConfig struct {
	MaxStack        int     `yaml:"max_stack"`
	StartStock      int     `yaml:"start_stock"`
	ExtraMoves      int     `yaml:"extra_moves"`
	ScoreBoostSwaps int     `yaml:"score_boost_swaps"`
	ScoreBoostRate  float64 `yaml:"score_boost_rate"`
	HintSwaps       int     `yaml:"hint_swaps"`
}

// SkillsConfig defines active skills and the character level that gates them.
type SkillsConfig struct {
	CharacterLevel int         `yaml:"character_level"`
	Bomb           SkillConfig `yaml:"bomb"`
	Shuffle        SkillConfig `yaml:"shuffle"`
	LineClear      SkillConfig `yaml:"line_clear"`
}

// SkillConfig defines one skill.
type SkillConfig struct {
	UnlockLevel int `yaml:"unlock_level"`
	Cooldown    int `yaml:"cooldown"`
}

// Validate reports the first setting that would break the engine.
func (c GameConfig) Validate() error {
	switch {
	case c.Board.Rows < 3 || c.Board.Cols < 3:
		return fmt.Errorf("config: board must be at least 3x3, got %dx%d", c.Board.Rows, c.Board.Cols)
	case c.Board.Categories < 3 || c.Board.Categories > 6:
		return fmt.Errorf("config: categories must be between 3 and 6, got %d", c.Board.Categories)
	case c.Level.MovesPerLevel <= 0:
		return fmt.Errorf("config: moves_per_level must be positive")
	case c.Level.TargetBase <= 0:
		return fmt.Errorf("config: target_base must be positive")
	case c.Specials.RunThreeChance < 0 || c.Specials.RunThreeChance > 1:
		return fmt.Errorf("config: run_three_chance must be within [0,1]")
	case c.Specials.UpgradeChance < 0 || c.Specials.UpgradeChance > 1:
		return fmt.Errorf("config: upgrade_chance must be within [0,1]")
	case c.Combo.FeverMultiplier < 1:
		return fmt.Errorf("config: fever_multiplier must be at least 1")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value to a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}
