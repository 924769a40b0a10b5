package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/breadcrush/internal/character"
	"github.com/vovakirdan/breadcrush/internal/session"
)

var flagLevels int

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show level targets and character progression",
	Long: `Print the target score, move budget and reward of the first levels for
the selected config and difficulty, followed by the experience needed per
character level and the skills each level unlocks.

Examples:
  breadcrush levels
  breadcrush levels --difficulty hard --count 20`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().IntVar(&flagLevels, "count", 10, "Number of levels to show")
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg, err := presetGameConfig()
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Levels (%s, %d moves each)\n\n", flagDifficulty, cfg.Level.MovesPerLevel)
	fmt.Printf("  %-5s  %-8s  %s\n", "Level", "Target", "Reward")
	fmt.Printf("  %-5s  %-8s  %s\n", "-----", "------", "------")
	items := session.Items()
	for lvl := 1; lvl <= flagLevels; lvl++ {
		fmt.Printf("  %-5d  %-8d  %s\n", lvl, cfg.Level.TargetScore(lvl), items[(lvl-1)%len(items)])
	}

	fmt.Println()
	fmt.Println("Character progression")
	fmt.Println()
	unlocks := map[int][]string{}
	for _, sk := range session.Skills() {
		lvl := cfg.Skills.Bomb.UnlockLevel
		switch sk {
		case session.SkillShuffle:
			lvl = cfg.Skills.Shuffle.UnlockLevel
		case session.SkillLineClear:
			lvl = cfg.Skills.LineClear.UnlockLevel
		}
		unlocks[lvl] = append(unlocks[lvl], sk.String())
	}
	fmt.Printf("  %-5s  %-8s  %s\n", "Level", "Exp", "Unlocks")
	fmt.Printf("  %-5s  %-8s  %s\n", "-----", "---", "-------")
	last := 1
	for lvl := range unlocks {
		last = max(last, lvl)
	}
	for lvl := 1; lvl <= max(last, 5); lvl++ {
		fmt.Printf("  %-5d  %-8d  %v\n", lvl, character.ExpToNext(lvl), unlocks[lvl])
	}
	fmt.Printf("\nExperience per game: score/10 + level reached*50 + breads crushed (max level %d).\n", character.MaxLevel)
}
