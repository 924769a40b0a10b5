package engine

import (
	"fmt"
	"sort"
)

// Default board dimensions.
const (
	DefaultRows = 8
	DefaultCols = 7
)

// Position addresses a cell. Row 0 is the top row.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// P is a convenience constructor for Position.
func P(row, col int) Position {
	return Position{Row: row, Col: col}
}

// String returns "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Adjacent reports whether p and q are orthogonal neighbours.
func (p Position) Adjacent(q Position) bool {
	dr, dc := p.Row-q.Row, p.Col-q.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

// Neighbours returns the four orthogonal neighbours of p, unclipped.
func (p Position) Neighbours() [4]Position {
	return [4]Position{
		{p.Row - 1, p.Col},
		{p.Row + 1, p.Col},
		{p.Row, p.Col - 1},
		{p.Row, p.Col + 1},
	}
}

// Cell is one tile of the board.
type Cell struct {
	ID       int      `json:"id"`
	Category Category `json:"category"`
	Special  Special  `json:"special"`
	Matched  bool     `json:"matched"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
}

// Pos returns the cell's coordinates.
func (c Cell) Pos() Position {
	return Position{Row: c.Row, Col: c.Col}
}

// IsSpecial reports whether the cell carries a special tag.
func (c Cell) IsSpecial() bool {
	return c.Special != SpecialNone
}

// Grid is a fully populated board stored in row-major order.
type Grid struct {
	Rows  int
	Cols  int
	Cells []Cell
}

// NewGrid allocates a grid with coordinates set and every other field zero.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Cell, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := &g.Cells[r*cols+c]
			cell.Row, cell.Col = r, c
		}
	}
	return g
}

func (g *Grid) index(p Position) int {
	return p.Row*g.Cols + p.Col
}

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// Get returns the cell at p. Out-of-bounds positions yield a zero Cell.
func (g *Grid) Get(p Position) Cell {
	if !g.InBounds(p) {
		return Cell{}
	}
	return g.Cells[g.index(p)]
}

// At returns a pointer to the cell at p, or nil when out of bounds.
func (g *Grid) At(p Position) *Cell {
	if !g.InBounds(p) {
		return nil
	}
	return &g.Cells[g.index(p)]
}

// Set stores cell at p, keeping the coordinates consistent with p.
func (g *Grid) Set(p Position, cell Cell) {
	if !g.InBounds(p) {
		return
	}
	cell.Row, cell.Col = p.Row, p.Col
	g.Cells[g.index(p)] = cell
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

// Swap exchanges the tiles at a and b. Tiles carry their id, category and
// special tag; coordinates stay with the slot.
func (g *Grid) Swap(a, b Position) {
	if !g.InBounds(a) || !g.InBounds(b) {
		return
	}
	ca, cb := g.At(a), g.At(b)
	ca.ID, cb.ID = cb.ID, ca.ID
	ca.Category, cb.Category = cb.Category, ca.Category
	ca.Special, cb.Special = cb.Special, ca.Special
}

// Swapped returns a copy of g with a and b exchanged.
func (g *Grid) Swapped(a, b Position) *Grid {
	out := g.Clone()
	out.Swap(a, b)
	return out
}

// ClearMatched resets every matched flag.
func (g *Grid) ClearMatched() {
	for i := range g.Cells {
		g.Cells[i].Matched = false
	}
}

// Mark sets the matched flag on every position in set.
func (g *Grid) Mark(set PositionSet) {
	for p := range set {
		if c := g.At(p); c != nil {
			c.Matched = true
		}
	}
}

// Specials returns the positions of all special tiles in row-major order.
func (g *Grid) Specials() []Position {
	var out []Position
	for _, c := range g.Cells {
		if c.IsSpecial() {
			out = append(out, c.Pos())
		}
	}
	return out
}

// PositionSet is an unordered set of board positions.
type PositionSet map[Position]struct{}

// NewPositionSet builds a set from the given positions.
func NewPositionSet(ps ...Position) PositionSet {
	s := make(PositionSet, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts p.
func (s PositionSet) Add(p Position) {
	s[p] = struct{}{}
}

// Has reports whether p is in the set.
func (s PositionSet) Has(p Position) bool {
	_, ok := s[p]
	return ok
}

// Clone returns a copy of the set.
func (s PositionSet) Clone() PositionSet {
	out := make(PositionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Sorted returns the positions in row-major order.
func (s PositionSet) Sorted() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
