package engine

// Detonation records one special tile that exploded during a pass.
type Detonation struct {
	Position  Position   `json:"position"`
	Special   Special    `json:"special"`
	Footprint []Position `json:"footprint"`
}

// Footprint returns the cells cleared by a special of the given tag at p,
// clipped to the board.
func Footprint(g *Grid, p Position, tag Special) []Position {
	var out []Position
	add := func(q Position) {
		if g.InBounds(q) {
			out = append(out, q)
		}
	}

	switch tag {
	case SpecialA:
		add(p)
		for d := 1; d <= 2; d++ {
			add(Position{p.Row - d, p.Col})
			add(Position{p.Row + d, p.Col})
			add(Position{p.Row, p.Col - d})
			add(Position{p.Row, p.Col + d})
		}
	case SpecialB, SpecialC:
		reach := 1
		if tag == SpecialC {
			reach = 2
		}
		for r := p.Row - reach; r <= p.Row+reach; r++ {
			for c := p.Col - reach; c <= p.Col+reach; c++ {
				add(Position{r, c})
			}
		}
	}
	return out
}

// Triggered returns the specials that detonate for the given matched set:
// those already matched and those orthogonally adjacent to a matched cell.
// Order is row-major.
func Triggered(g *Grid, matched PositionSet) []Position {
	var out []Position
	for _, p := range g.Specials() {
		if matched.Has(p) {
			out = append(out, p)
			continue
		}
		for _, n := range p.Neighbours() {
			if matched.Has(n) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Expand unions the footprints of every triggered special into matched.
// Only specials present when the pass starts detonate; cells pulled in by a
// footprint are not re-scanned for further specials. The input set is left
// untouched.
func Expand(g *Grid, matched PositionSet) (PositionSet, []Detonation) {
	out := matched.Clone()
	var blasts []Detonation
	for _, p := range Triggered(g, matched) {
		tag := g.Get(p).Special
		fp := Footprint(g, p, tag)
		for _, q := range fp {
			out.Add(q)
		}
		blasts = append(blasts, Detonation{Position: p, Special: tag, Footprint: fp})
	}
	return out, blasts
}
