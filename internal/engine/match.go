package engine

// MinRun is the shortest run that counts as a match.
const MinRun = 3

// Rules holds the probabilities used when a pass spawns a special tile.
type Rules struct {
	RunThreeChance float64 // chance a run of 3 spawns an A
	UpgradeChance  float64 // chance a run of 4 or 5 spawns the next tag up
}

// DefaultRules returns the standard spawn probabilities.
func DefaultRules() Rules {
	return Rules{
		RunThreeChance: 0.25,
		UpgradeChance:  0.30,
	}
}

// Run is a maximal line of same-category, non-special tiles.
type Run struct {
	Start      Position
	Length     int
	Horizontal bool
	Category   Category
}

// At returns the i-th position of the run.
func (r Run) At(i int) Position {
	if r.Horizontal {
		return Position{Row: r.Start.Row, Col: r.Start.Col + i}
	}
	return Position{Row: r.Start.Row + i, Col: r.Start.Col}
}

// Positions lists the run's cells from start to end.
func (r Run) Positions() []Position {
	out := make([]Position, r.Length)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// Mid returns the run's midpoint, rounding toward the start.
func (r Run) Mid() Position {
	return r.At((r.Length - 1) / 2)
}

// Spawn directs gravity to turn one matched cell into a special tile.
type Spawn struct {
	Position Position `json:"position"`
	Special  Special  `json:"special"`
	Category Category `json:"category"`
}

// Resolution is the outcome of one detection pass.
type Resolution struct {
	Matched PositionSet
	Runs    []Run
	Spawn   *Spawn
}

// Empty reports whether nothing matched.
func (r Resolution) Empty() bool {
	return len(r.Matched) == 0
}

// FindRuns returns every qualifying run: rows top to bottom scanning left to
// right, then columns left to right scanning top to bottom.
func FindRuns(g *Grid) []Run {
	var runs []Run
	for r := 0; r < g.Rows; r++ {
		runs = scanLine(g, Position{Row: r}, true, g.Cols, runs)
	}
	for c := 0; c < g.Cols; c++ {
		runs = scanLine(g, Position{Col: c}, false, g.Rows, runs)
	}
	return runs
}

func scanLine(g *Grid, start Position, horizontal bool, n int, runs []Run) []Run {
	at := func(i int) Cell {
		if horizontal {
			return g.Get(Position{Row: start.Row, Col: i})
		}
		return g.Get(Position{Row: i, Col: start.Col})
	}

	i := 0
	for i < n {
		first := at(i)
		if first.IsSpecial() {
			i++
			continue
		}
		j := i + 1
		for j < n {
			next := at(j)
			if next.IsSpecial() || next.Category != first.Category {
				break
			}
			j++
		}
		if j-i >= MinRun {
			runs = append(runs, Run{
				Start:      first.Pos(),
				Length:     j - i,
				Horizontal: horizontal,
				Category:   first.Category,
			})
		}
		i = j
	}
	return runs
}

// HasMatch reports whether g contains at least one run. It never rolls dice.
func HasMatch(g *Grid) bool {
	return len(FindRuns(g)) > 0
}

// Detect runs one detection pass. The grid is not modified; the dealer is
// consulted only for the special-spawn roll.
func Detect(g *Grid, rules Rules, d *Dealer) Resolution {
	runs := FindRuns(g)
	res := Resolution{Matched: make(PositionSet), Runs: runs}
	if len(runs) == 0 {
		return res
	}

	longest := runs[0]
	for _, run := range runs {
		for _, p := range run.Positions() {
			res.Matched.Add(p)
		}
		if run.Length > longest.Length {
			longest = run
		}
	}

	if tag := rollSpecial(longest.Length, rules, d); tag != SpecialNone {
		res.Spawn = &Spawn{
			Position: longest.Mid(),
			Special:  tag,
			Category: longest.Category,
		}
	}
	return res
}

func rollSpecial(length int, rules Rules, d *Dealer) Special {
	switch {
	case length >= 6:
		return SpecialC
	case length == 5:
		if d.Chance(rules.UpgradeChance) {
			return SpecialC
		}
		return SpecialB
	case length == 4:
		if d.Chance(rules.UpgradeChance) {
			return SpecialB
		}
		return SpecialA
	case length == MinRun:
		if d.Chance(rules.RunThreeChance) {
			return SpecialA
		}
	}
	return SpecialNone
}
