// Package engine implements the match-3 board rules: grid construction,
// run detection, special tiles, gravity, deadlock checks and reshuffles.
// It performs no I/O and owns no global state; randomness comes from a Dealer.
package engine

import "fmt"

// Category is the kind of tile sitting in a cell.
type Category uint8

// Tile categories. The set is closed so per-category tallies can be arrays.
const (
	Plain Category = iota
	Everything
	OliveCheese
	BasilTomato
	GarlicButter
	Hotteok
)

// CategoryCount is the number of tile categories.
const CategoryCount = 6

var categoryNames = [CategoryCount]string{
	"Plain",
	"Everything",
	"OliveCheese",
	"BasilTomato",
	"GarlicButter",
	"Hotteok",
}

// String returns the category name.
func (c Category) String() string {
	if int(c) < CategoryCount {
		return categoryNames[c]
	}
	return "Unknown"
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return int(c) < CategoryCount
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("engine: invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	v, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("engine: unknown category %q", text)
	}
	*c = v
	return nil
}

// Categories returns all categories in enum order.
func Categories() []Category {
	out := make([]Category, CategoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Special marks a tile that detonates when it is removed.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialA            // plus shape, reach 2
	SpecialB            // 3x3 box
	SpecialC            // 5x5 box
)

// String returns the short tag used in logs and board dumps.
func (s Special) String() string {
	switch s {
	case SpecialNone:
		return "None"
	case SpecialA:
		return "A"
	case SpecialB:
		return "B"
	case SpecialC:
		return "C"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the tag as "None", "A", "B" or "C".
func (s Special) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a tag written by MarshalText.
func (s *Special) UnmarshalText(text []byte) error {
	switch string(text) {
	case "None", "":
		*s = SpecialNone
	case "A":
		*s = SpecialA
	case "B":
		*s = SpecialB
	case "C":
		*s = SpecialC
	default:
		return fmt.Errorf("engine: unknown special %q", text)
	}
	return nil
}

// Upgrade returns the next stronger tag. C stays C.
func (s Special) Upgrade() Special {
	switch s {
	case SpecialA:
		return SpecialB
	case SpecialB, SpecialC:
		return SpecialC
	default:
		return s
	}
}

// Tally counts removed tiles per category.
type Tally [CategoryCount]int

// Total returns the sum across categories.
func (t Tally) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

// Add accumulates other into t.
func (t *Tally) Add(other Tally) {
	for i, v := range other {
		t[i] += v
	}
}
