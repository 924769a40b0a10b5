package engine

// Collapse removes every matched cell, lets the survivors fall, and refills
// each column from the top with fresh plain tiles. The spawn target, if any,
// survives as the new special instead of being removed. It returns the new
// grid and the per-category count of removed tiles. g is not modified.
func Collapse(g *Grid, matched PositionSet, spawn *Spawn, d *Dealer) (*Grid, Tally) {
	out := g.Clone()
	out.ClearMatched()

	var tally Tally
	removed := make(PositionSet, len(matched))
	for p := range matched {
		if !g.InBounds(p) {
			continue
		}
		removed.Add(p)
		tally[g.Get(p).Category]++
	}

	if spawn != nil && out.InBounds(spawn.Position) {
		if removed.Has(spawn.Position) {
			delete(removed, spawn.Position)
			tally[g.Get(spawn.Position).Category]--
		}
		cell := out.At(spawn.Position)
		cell.Special = spawn.Special
		cell.Category = spawn.Category
	}

	for c := 0; c < out.Cols; c++ {
		write := out.Rows - 1
		for r := out.Rows - 1; r >= 0; r-- {
			p := Position{r, c}
			if removed.Has(p) {
				continue
			}
			if write != r {
				out.Set(Position{write, c}, out.Get(p))
			}
			write--
		}
		for r := write; r >= 0; r-- {
			out.Set(Position{r, c}, d.Tile())
		}
	}
	return out, tally
}
