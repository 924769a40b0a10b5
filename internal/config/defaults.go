package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/breadcrush.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns hardcoded defaults for the game.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Board: BoardConfig{
			Rows:       8,
			Cols:       7,
			Categories: 6,
		},
		Level: LevelConfig{
			MovesPerLevel:     30,
			TargetBase:        1000,
			TargetStep:        500,
			ClearBonusPerMove: 20,
		},
		Scoring: ScoringConfig{
			PerTile:    10,
			ComboBonus: 5,
		},
		Specials: SpecialsConfig{
			RunThreeChance: 0.25,
			UpgradeChance:  0.30,
		},
		Combo: ComboConfig{
			OneMoveAt:       4,
			TwoMovesAt:      6,
			FeverAt:         5,
			FeverSwaps:      3,
			FeverMultiplier: 2,
		},
		Reshuffle: ReshuffleConfig{
			Attempts: 10,
		},
		Timing: TimingConfig{
			SwapReject: 300 * time.Millisecond,
			Gravity:    400 * time.Millisecond,
			Cascade:    300 * time.Millisecond,
			LevelUp:    2 * time.Second,
		},
		Items: ItemsConfig{
			MaxStack:        3,
			StartStock:      1,
			ExtraMoves:      5,
			ScoreBoostSwaps: 5,
			ScoreBoostRate:  1.5,
			HintSwaps:       3,
		},
		Skills: SkillsConfig{
			CharacterLevel: 1,
			Bomb:           SkillConfig{UnlockLevel: 3, Cooldown: 8},
			Shuffle:        SkillConfig{UnlockLevel: 7, Cooldown: 12},
			LineClear:      SkillConfig{UnlockLevel: 12, Cooldown: 10},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultGameYAML
}
