package engine

// DefaultReshuffleAttempts bounds how many permutations Reshuffle tries
// before rebuilding the board.
const DefaultReshuffleAttempts = 10

// FindMove returns the first swap, in row-major order trying the right
// neighbour before the bottom one, that would produce a match.
func FindMove(g *Grid) (from, to Position, ok bool) {
	work := g.Clone()
	for r := 0; r < work.Rows; r++ {
		for c := 0; c < work.Cols; c++ {
			p := Position{r, c}
			for _, q := range [2]Position{{r, c + 1}, {r + 1, c}} {
				if !work.InBounds(q) {
					continue
				}
				work.Swap(p, q)
				hit := HasMatch(work)
				work.Swap(p, q)
				if hit {
					return p, q, true
				}
			}
		}
	}
	return Position{}, Position{}, false
}

// HasPossibleMoves reports whether any single adjacent swap produces a match.
func HasPossibleMoves(g *Grid) bool {
	_, _, ok := FindMove(g)
	return ok
}

// Reshuffle permutes the tiles of all non-special cells until the layout
// has no standing match and at least one legal move. Special cells keep
// their position and tag. After `attempts` failures it falls back to a
// fresh match-free board and reports false.
func Reshuffle(g *Grid, d *Dealer, attempts int) (*Grid, bool) {
	if attempts <= 0 {
		attempts = DefaultReshuffleAttempts
	}

	var slots []int
	for i, c := range g.Cells {
		if !c.IsSpecial() {
			slots = append(slots, i)
		}
	}

	for range attempts {
		out := g.Clone()
		out.ClearMatched()
		for i := len(slots) - 1; i > 0; i-- {
			j := d.Intn(i + 1)
			a, b := &out.Cells[slots[i]], &out.Cells[slots[j]]
			a.ID, b.ID = b.ID, a.ID
			a.Category, b.Category = b.Category, a.Category
		}
		if !HasMatch(out) && HasPossibleMoves(out) {
			return out, true
		}
	}
	return FillWithoutMatches(g.Rows, g.Cols, d), false
}
