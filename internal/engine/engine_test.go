package engine

import (
	"math/rand"
	"testing"
)

// fixedSource returns a constant roll and cycles through Intn values.
type fixedSource struct {
	roll float64
	next int
}

func (s *fixedSource) Intn(n int) int {
	s.next++
	return s.next % n
}

func (s *fixedSource) Float64() float64 {
	return s.roll
}

func newDealer(roll float64) *Dealer {
	return NewDealer(&fixedSource{roll: roll}, CategoryCount)
}

// patternGrid returns an 8x7 board with category (r+2c)%6 everywhere.
// It has no runs and no legal move.
func patternGrid() *Grid {
	g := NewGrid(DefaultRows, DefaultCols)
	for i := range g.Cells {
		c := &g.Cells[i]
		c.ID = i + 1
		c.Category = Category((c.Row + 2*c.Col) % CategoryCount)
	}
	return g
}

func setRow(g *Grid, row, from, to int, cat Category) {
	for c := from; c <= to; c++ {
		g.At(P(row, c)).Category = cat
	}
}

func TestPositionAdjacent(t *testing.T) {
	tests := []struct {
		a, b Position
		want bool
	}{
		{P(0, 0), P(0, 1), true},
		{P(0, 0), P(1, 0), true},
		{P(2, 2), P(1, 2), true},
		{P(0, 0), P(1, 1), false},
		{P(0, 0), P(0, 0), false},
		{P(0, 0), P(0, 2), false},
	}
	for _, tt := range tests {
		if got := tt.a.Adjacent(tt.b); got != tt.want {
			t.Errorf("%v.Adjacent(%v) = %v, expected %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFillWithoutMatches(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		d := NewDealer(rand.New(rand.NewSource(seed)), CategoryCount)
		g := FillWithoutMatches(DefaultRows, DefaultCols, d)

		if len(g.Cells) != DefaultRows*DefaultCols {
			t.Fatalf("seed %d: got %d cells, expected %d", seed, len(g.Cells), DefaultRows*DefaultCols)
		}
		if HasMatch(g) {
			t.Errorf("seed %d: fresh grid has a match:\n%s", seed, g)
		}

		ids := make(map[int]bool)
		for _, c := range g.Cells {
			if c.IsSpecial() {
				t.Errorf("seed %d: fresh grid has special at %v", seed, c.Pos())
			}
			if ids[c.ID] {
				t.Errorf("seed %d: duplicate id %d", seed, c.ID)
			}
			ids[c.ID] = true
		}
	}
}

func TestPatternGridIsDeadlocked(t *testing.T) {
	g := patternGrid()
	if HasMatch(g) {
		t.Fatal("pattern grid should have no match")
	}
	if HasPossibleMoves(g) {
		t.Error("pattern grid should have no legal move")
	}
}

func TestSpecialBreaksRun(t *testing.T) {
	g := patternGrid()
	setRow(g, 3, 0, 5, Plain)
	g.At(P(3, 2)).Special = SpecialA

	runs := FindRuns(g)
	if len(runs) != 1 {
		t.Fatalf("FindRuns() returned %d runs, expected 1", len(runs))
	}
	if runs[0].Start != P(3, 3) || runs[0].Length != 3 {
		t.Errorf("run = %+v, expected start (3,3) length 3", runs[0])
	}
}

func TestDetectSpawnByLength(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		roll     float64
		want     Special
		mid      Position
	}{
		{"three no roll", 0, 2, 0.99, SpecialNone, P(3, 1)},
		{"three rolled", 0, 2, 0.10, SpecialA, P(3, 1)},
		{"four", 1, 4, 0.99, SpecialA, P(3, 2)},
		{"four upgraded", 1, 4, 0.10, SpecialB, P(3, 2)},
		{"five", 0, 4, 0.99, SpecialB, P(3, 2)},
		{"five upgraded", 0, 4, 0.10, SpecialC, P(3, 2)},
		{"six", 0, 5, 0.99, SpecialC, P(3, 2)},
		{"seven", 0, 6, 0.99, SpecialC, P(3, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := patternGrid()
			setRow(g, 3, tt.from, tt.to, Hotteok)

			res := Detect(g, DefaultRules(), newDealer(tt.roll))
			if got := len(res.Matched); got != tt.to-tt.from+1 {
				t.Errorf("matched %d cells, expected %d", got, tt.to-tt.from+1)
			}
			if tt.want == SpecialNone {
				if res.Spawn != nil {
					t.Errorf("unexpected spawn %+v", *res.Spawn)
				}
				return
			}
			if res.Spawn == nil {
				t.Fatalf("expected %v spawn, got none", tt.want)
			}
			if res.Spawn.Special != tt.want {
				t.Errorf("spawn tag = %v, expected %v", res.Spawn.Special, tt.want)
			}
			if res.Spawn.Position != tt.mid {
				t.Errorf("spawn position = %v, expected %v", res.Spawn.Position, tt.mid)
			}
			if res.Spawn.Category != Hotteok {
				t.Errorf("spawn category = %v, expected Hotteok", res.Spawn.Category)
			}
		})
	}
}

func TestDetectDoesNotMutate(t *testing.T) {
	g := patternGrid()
	setRow(g, 3, 1, 4, Hotteok)
	before := g.String()

	Detect(g, DefaultRules(), newDealer(0))

	if g.String() != before {
		t.Error("Detect() modified the grid")
	}
	for _, c := range g.Cells {
		if c.Matched {
			t.Fatalf("Detect() set matched flag at %v", c.Pos())
		}
	}
}

func TestDetectCrossAndTieBreak(t *testing.T) {
	// Horizontal 3 on row 5 cols 0..2 and vertical 3 on col 6 rows 0..2.
	// Equal lengths: the row scan comes first.
	g := patternGrid()
	setRow(g, 5, 0, 2, Plain)
	for r := 0; r <= 2; r++ {
		g.At(P(r, 6)).Category = Everything
	}
	if runs := FindRuns(g); len(runs) != 2 {
		t.Fatalf("FindRuns() = %d runs, expected 2", len(runs))
	}

	res := Detect(g, DefaultRules(), newDealer(0))
	if len(res.Matched) != 6 {
		t.Errorf("matched %d cells, expected 6", len(res.Matched))
	}
	if res.Spawn == nil || res.Spawn.Position != P(5, 1) {
		t.Errorf("spawn = %+v, expected at (5,1)", res.Spawn)
	}

	// Every matched cell belongs to a run of at least three.
	for p := range res.Matched {
		found := false
		for _, run := range res.Runs {
			for _, q := range run.Positions() {
				if q == p {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("matched %v is not part of any run", p)
		}
	}
}

// lineLength counts the same-category plain cells through p along (dr, dc).
func lineLength(g *Grid, p Position, dr, dc int) int {
	cell := g.Get(p)
	if cell.IsSpecial() {
		return 0
	}
	same := func(q Position) bool {
		if !g.InBounds(q) {
			return false
		}
		c := g.Get(q)
		return !c.IsSpecial() && c.Category == cell.Category
	}
	n := 1
	for q := P(p.Row+dr, p.Col+dc); same(q); q = P(q.Row+dr, q.Col+dc) {
		n++
	}
	for q := P(p.Row-dr, p.Col-dc); same(q); q = P(q.Row-dr, q.Col-dc) {
		n++
	}
	return n
}

func TestDetectMatchesExactlyCellsInLines(t *testing.T) {
	specials := []Special{SpecialA, SpecialB, SpecialC}
	rng := rand.New(rand.NewSource(42))
	for round := range 2000 {
		g := NewGrid(DefaultRows, DefaultCols)
		for i := range g.Cells {
			c := &g.Cells[i]
			c.ID = i + 1
			c.Category = Category(rng.Intn(3))
			if rng.Float64() < 0.1 {
				c.Special = specials[rng.Intn(len(specials))]
			}
		}

		res := Detect(g, DefaultRules(), NewDealer(rng, CategoryCount))
		for i := range g.Cells {
			p := g.Cells[i].Pos()
			inLine := lineLength(g, p, 0, 1) >= MinRun || lineLength(g, p, 1, 0) >= MinRun
			if res.Matched.Has(p) != inLine {
				t.Fatalf("round %d: %v matched = %v, in a line of %d+ = %v\n%s",
					round, p, res.Matched.Has(p), MinRun, inLine, g)
			}
		}
		if res.Spawn != nil && !res.Matched.Has(res.Spawn.Position) {
			t.Fatalf("round %d: spawn %v lies outside the matched set", round, res.Spawn.Position)
		}
	}
}

func TestDetectCrossShapeUnion(t *testing.T) {
	// A plus shape sharing (3,3): row 3 cols 2..4 and col 3 rows 2..4.
	g := patternGrid()
	setRow(g, 3, 2, 4, GarlicButter)
	g.At(P(2, 3)).Category = GarlicButter
	g.At(P(4, 3)).Category = GarlicButter

	res := Detect(g, DefaultRules(), newDealer(0.99))
	if len(res.Matched) != 5 {
		t.Errorf("matched %d cells, expected 5 (shared cell counted once)", len(res.Matched))
	}
}

func TestFootprint(t *testing.T) {
	g := NewGrid(DefaultRows, DefaultCols)
	tests := []struct {
		name string
		pos  Position
		tag  Special
		want int
	}{
		{"A centre", P(3, 3), SpecialA, 9},
		{"A corner", P(0, 0), SpecialA, 5},
		{"A edge", P(0, 3), SpecialA, 7},
		{"B centre", P(3, 3), SpecialB, 9},
		{"B corner", P(7, 6), SpecialB, 4},
		{"C centre", P(3, 3), SpecialC, 25},
		{"C corner", P(0, 0), SpecialC, 9},
		{"C edge", P(7, 3), SpecialC, 15},
		{"none", P(3, 3), SpecialNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Footprint(g, tt.pos, tt.tag)); got != tt.want {
				t.Errorf("len(Footprint()) = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestExpandAdjacentSpecialWithoutChaining(t *testing.T) {
	g := patternGrid()
	// B sits next to the matched row; C sits inside B's blast but is not
	// touching the match, so it is cleared without detonating.
	g.At(P(2, 2)).Special = SpecialB
	g.At(P(1, 1)).Special = SpecialC
	matched := NewPositionSet(P(3, 1), P(3, 2), P(3, 3))

	out, blasts := Expand(g, matched)

	if len(blasts) != 1 || blasts[0].Position != P(2, 2) {
		t.Fatalf("blasts = %+v, expected only the B at (2,2)", blasts)
	}
	for r := 1; r <= 3; r++ {
		for c := 1; c <= 3; c++ {
			if !out.Has(P(r, c)) {
				t.Errorf("expanded set missing %v", P(r, c))
			}
		}
	}
	if out.Has(P(0, 0)) {
		t.Error("C at (1,1) must not chain within the same pass")
	}
	if len(matched) != 3 {
		t.Error("Expand() modified its input set")
	}
}

func TestCollapseFourRunSpawnsA(t *testing.T) {
	g := patternGrid()
	setRow(g, 3, 1, 4, Hotteok)
	above := g.Get(P(2, 1))

	d := newDealer(0.99)
	res := Detect(g, DefaultRules(), d)
	if res.Spawn == nil || res.Spawn.Special != SpecialA {
		t.Fatalf("expected A spawn, got %+v", res.Spawn)
	}
	matched, _ := Expand(g, res.Matched)
	out, tally := Collapse(g, matched, res.Spawn, d)

	if tally[Hotteok] != 3 || tally.Total() != 3 {
		t.Errorf("tally = %v, expected 3 Hotteok", tally)
	}

	spawned := out.Get(P(3, 2))
	if spawned.Special != SpecialA || spawned.Category != Hotteok {
		t.Errorf("cell (3,2) = %+v, expected Hotteok A", spawned)
	}

	specials := out.Specials()
	if len(specials) != 1 {
		t.Errorf("got %d specials, expected 1", len(specials))
	}

	fell := out.Get(P(3, 1))
	if fell.ID != above.ID || fell.Category != above.Category {
		t.Errorf("cell (3,1) = %+v, expected tile from (2,1) %+v", fell, above)
	}
	if fell.Row != 3 || fell.Col != 1 {
		t.Errorf("fallen cell has stale coordinates %d,%d", fell.Row, fell.Col)
	}
}

func TestCollapsePreservesShape(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewDealer(rng, CategoryCount)
	g := FillWithoutMatches(DefaultRows, DefaultCols, d)

	for trial := 0; trial < 30; trial++ {
		matched := make(PositionSet)
		n := rng.Intn(20)
		for i := 0; i < n; i++ {
			matched.Add(P(rng.Intn(g.Rows), rng.Intn(g.Cols)))
		}
		out, tally := Collapse(g, matched, nil, d)

		if out.Rows != g.Rows || out.Cols != g.Cols || len(out.Cells) != len(g.Cells) {
			t.Fatalf("Collapse() changed dimensions")
		}
		if tally.Total() != len(matched) {
			t.Errorf("tally total = %d, expected %d", tally.Total(), len(matched))
		}
		for i, c := range out.Cells {
			if c.Row*out.Cols+c.Col != i {
				t.Fatalf("cell %d has coordinates (%d,%d)", i, c.Row, c.Col)
			}
			if c.Matched {
				t.Fatalf("cell %v still flagged matched", c.Pos())
			}
		}
		g = out
	}
}

func TestSixRunSpawnsBlastThatClearsFiveByFive(t *testing.T) {
	g := patternGrid()
	setRow(g, 3, 0, 5, Plain)
	d := newDealer(0.99)

	res := Detect(g, DefaultRules(), d)
	if res.Spawn == nil || res.Spawn.Special != SpecialC {
		t.Fatalf("expected C spawn, got %+v", res.Spawn)
	}
	matched, _ := Expand(g, res.Matched)
	g, _ = Collapse(g, matched, res.Spawn, d)

	at := res.Spawn.Position
	if g.Get(at).Special != SpecialC {
		t.Fatalf("cell %v = %+v, expected C", at, g.Get(at))
	}

	blast, blasts := Expand(g, NewPositionSet(at))
	if len(blasts) != 1 {
		t.Fatalf("got %d detonations, expected 1", len(blasts))
	}
	if len(blast) != 25 {
		t.Errorf("blast cleared %d cells, expected 25", len(blast))
	}
	for r := at.Row - 2; r <= at.Row+2; r++ {
		for c := at.Col - 2; c <= at.Col+2; c++ {
			if !blast.Has(P(r, c)) {
				t.Errorf("blast missing %v", P(r, c))
			}
		}
	}
}

func TestFindMove(t *testing.T) {
	g := patternGrid()
	// Two Plain tiles on row 3 and a third one row above the gap.
	g.At(P(3, 0)).Category = Plain
	g.At(P(3, 1)).Category = Plain
	g.At(P(2, 2)).Category = Plain
	if HasMatch(g) {
		t.Fatalf("fixture has a standing match:\n%s", g)
	}

	from, to, ok := FindMove(g)
	if !ok {
		t.Fatal("FindMove() found nothing")
	}
	if !from.Adjacent(to) {
		t.Errorf("FindMove() returned non-adjacent %v %v", from, to)
	}
	if !HasMatch(g.Swapped(from, to)) {
		t.Errorf("swap %v %v does not produce a match", from, to)
	}
}

func TestReshuffle(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := patternGrid()
		g.At(P(4, 4)).Special = SpecialB
		d := NewDealer(rand.New(rand.NewSource(seed)), CategoryCount)

		out, ok := Reshuffle(g, d, DefaultReshuffleAttempts)
		if HasMatch(out) {
			t.Errorf("seed %d: reshuffled grid has a match", seed)
		}
		if !ok {
			continue
		}
		if !HasPossibleMoves(out) {
			t.Errorf("seed %d: reshuffled grid has no legal move", seed)
		}
		if c := out.Get(P(4, 4)); c.Special != SpecialB || c.Category != g.Get(P(4, 4)).Category {
			t.Errorf("seed %d: special moved or changed: %+v", seed, c)
		}

		var before, after Tally
		for i := range g.Cells {
			before[g.Cells[i].Category]++
			after[out.Cells[i].Category]++
		}
		if before != after {
			t.Errorf("seed %d: category mix changed %v -> %v", seed, before, after)
		}
	}
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid(`
		0 1 2
		3A 4B 5C
	`)
	if err != nil {
		t.Fatalf("ParseGrid() failed: %v", err)
	}
	if g.Rows != 2 || g.Cols != 3 {
		t.Fatalf("size = %dx%d, expected 2x3", g.Rows, g.Cols)
	}
	if c := g.Get(P(1, 2)); c.Category != Hotteok || c.Special != SpecialC {
		t.Errorf("cell (1,2) = %+v", c)
	}
	if g.String() != "0 1 2\n3A 4B 5C\n" {
		t.Errorf("String() = %q", g.String())
	}

	bad := []string{"", "0 1\n2", "0 9", "x"}
	for _, text := range bad {
		if _, err := ParseGrid(text); err == nil {
			t.Errorf("ParseGrid(%q) expected error", text)
		}
	}
}
