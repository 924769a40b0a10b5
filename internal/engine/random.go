package engine

// Source is the randomness the engine consumes. *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Dealer hands out random categories, probability rolls and cell ids.
// One Dealer belongs to one session; it is not safe for concurrent use.
type Dealer struct {
	src        Source
	categories int
	nextID     int
}

// NewDealer creates a dealer drawing from the first `categories` tile kinds.
// Values outside [3, CategoryCount] fall back to CategoryCount.
func NewDealer(src Source, categories int) *Dealer {
	if categories < 3 || categories > CategoryCount {
		categories = CategoryCount
	}
	return &Dealer{src: src, categories: categories, nextID: 1}
}

// Category returns a uniformly random category.
func (d *Dealer) Category() Category {
	return Category(d.src.Intn(d.categories))
}

// Chance returns true with probability p.
func (d *Dealer) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return d.src.Float64() < p
}

// Intn exposes the underlying source for shuffles.
func (d *Dealer) Intn(n int) int {
	return d.src.Intn(n)
}

// NextID returns a fresh, monotonically increasing cell id.
func (d *Dealer) NextID() int {
	id := d.nextID
	d.nextID++
	return id
}

// Tile returns a fresh plain tile with a new id.
func (d *Dealer) Tile() Cell {
	return Cell{ID: d.NextID(), Category: d.Category()}
}
