package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseGrid reads a board from text: one line per row, whitespace-separated
// tokens, each a category digit optionally followed by a special tag, for
// example "0 3 2A 5". Blank lines are skipped. Cell ids are assigned in
// row-major order starting at 1.
func ParseGrid(text string) (*Grid, error) {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("engine: empty grid")
	}

	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	id := 1
	for r, fields := range rows {
		if len(fields) != cols {
			return nil, fmt.Errorf("engine: row %d has %d cells, expected %d", r, len(fields), cols)
		}
		for c, tok := range fields {
			cat, tag, err := parseToken(tok)
			if err != nil {
				return nil, fmt.Errorf("engine: cell (%d,%d): %w", r, c, err)
			}
			cell := g.At(Position{r, c})
			cell.ID = id
			cell.Category = cat
			cell.Special = tag
			id++
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid that panics on error. Intended for fixtures.
func MustParseGrid(text string) *Grid {
	g, err := ParseGrid(text)
	if err != nil {
		panic(err)
	}
	return g
}

func parseToken(tok string) (Category, Special, error) {
	tag := SpecialNone
	switch tok[len(tok)-1] {
	case 'A':
		tag = SpecialA
	case 'B':
		tag = SpecialB
	case 'C':
		tag = SpecialC
	}
	if tag != SpecialNone {
		tok = tok[:len(tok)-1]
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, 0, fmt.Errorf("bad category %q", tok)
	}
	cat := Category(n)
	if n < 0 || !cat.Valid() {
		return 0, 0, fmt.Errorf("category %d out of range", n)
	}
	return cat, tag, nil
}

// String renders the grid in the format accepted by ParseGrid.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := g.Get(Position{r, c})
			sb.WriteString(strconv.Itoa(int(cell.Category)))
			if cell.IsSpecial() {
				sb.WriteString(cell.Special.String())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
