// Package loyalty turns crushed-tile tallies into per-category points and
// delivers them to reward ledgers.
package loyalty

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vovakirdan/breadcrush/internal/engine"
)

// Award is the points credited to one category.
type Award struct {
	Category engine.Category `json:"category"`
	Points   int             `json:"points"`
}

// Credit is one cascade pass worth of points.
type Credit struct {
	SessionID string    `json:"session_id"`
	Player    string    `json:"player"`
	Level     int       `json:"level"`
	Pass      int       `json:"pass"`
	Score     int       `json:"score"`
	Awards    []Award   `json:"awards"`
	At        time.Time `json:"at"`
}

// Total returns the sum of all awards.
func (c Credit) Total() int {
	n := 0
	for _, a := range c.Awards {
		n += a.Points
	}
	return n
}

// Distribute splits raw points across the categories in tally in proportion
// to their removal counts. Each share is round(raw*count/total); the last
// category processed takes whatever is left so the shares sum to raw exactly.
// Categories are processed by ascending count, ties in category order, so
// the remainder lands on the largest share. Categories with no removals get
// nothing. An empty tally yields no awards.
func Distribute(raw int, tally engine.Tally) []Award {
	total := tally.Total()
	if total <= 0 {
		return nil
	}

	var cats []engine.Category
	for _, c := range engine.Categories() {
		if tally[c] > 0 {
			cats = append(cats, c)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return tally[cats[i]] < tally[cats[j]]
	})

	rawDec := decimal.NewFromInt(int64(raw))
	totalDec := decimal.NewFromInt(int64(total))

	awards := make([]Award, 0, len(cats))
	given := 0
	for i, c := range cats {
		var pts int
		if i == len(cats)-1 {
			pts = raw - given
		} else {
			share := rawDec.Mul(decimal.NewFromInt(int64(tally[c]))).Div(totalDec).Round(0)
			pts = int(share.IntPart())
		}
		given += pts
		awards = append(awards, Award{Category: c, Points: pts})
	}
	return awards
}

// ByCategory folds awards into a tally-shaped array.
func ByCategory(awards []Award) engine.Tally {
	var out engine.Tally
	for _, a := range awards {
		if a.Category.Valid() {
			out[a.Category] += a.Points
		}
	}
	return out
}
