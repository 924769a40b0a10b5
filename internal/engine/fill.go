package engine

// FillWithoutMatches builds a rows x cols grid of plain tiles with no run
// of three. Each cell is re-rolled while it would complete a line with the
// two cells to its left or the two cells above it.
func FillWithoutMatches(rows, cols int, d *Dealer) *Grid {
	g := NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cat := d.Category()
			for completesLine(g, r, c, cat) {
				cat = d.Category()
			}
			cell := g.At(Position{r, c})
			cell.ID = d.NextID()
			cell.Category = cat
		}
	}
	return g
}

func completesLine(g *Grid, r, c int, cat Category) bool {
	if c >= 2 &&
		g.Get(Position{r, c - 1}).Category == cat &&
		g.Get(Position{r, c - 2}).Category == cat {
		return true
	}
	if r >= 2 &&
		g.Get(Position{r - 1, c}).Category == cat &&
		g.Get(Position{r - 2, c}).Category == cat {
		return true
	}
	return false
}
