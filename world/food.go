package world

import "sort"

// FoodStore maps food-source coordinates to their remaining amount.
// Depleted sources keep their key so coordinates stay stable for addressing.
type FoodStore struct {
	amounts map[Coord]int
	initial int
}

// NewFoodStore creates an empty food store.
func NewFoodStore() *FoodStore {
	return &FoodStore{amounts: make(map[Coord]int)}
}

// Add registers amount units of food at c. Adding to an existing source
// accumulates. Non-positive amounts are ignored.
func (fs *FoodStore) Add(c Coord, amount int) {
	if amount <= 0 {
		return
	}
	fs.amounts[c] += amount
	fs.initial += amount
}

// AmountAt returns the remaining food at c, 0 if none.
func (fs *FoodStore) AmountAt(c Coord) int {
	return fs.amounts[c]
}

// HasFood reports whether any food remains at c.
func (fs *FoodStore) HasFood(c Coord) bool {
	return fs.amounts[c] > 0
}

// Withdraw removes up to amount units from c and returns how many were
// actually withdrawn. Withdrawing from a depleted or unknown source
// returns 0.
func (fs *FoodStore) Withdraw(c Coord, amount int) int {
	if amount <= 0 {
		return 0
	}
	remaining, ok := fs.amounts[c]
	if !ok || remaining == 0 {
		return 0
	}
	if amount > remaining {
		amount = remaining
	}
	fs.amounts[c] = remaining - amount
	return amount
}

// Exhausted reports whether every source is empty.
func (fs *FoodStore) Exhausted() bool {
	for _, n := range fs.amounts {
		if n > 0 {
			return false
		}
	}
	return true
}

// Initial returns the total amount of food the store was loaded with.
func (fs *FoodStore) Initial() int {
	return fs.initial
}

// Remaining returns the total amount of food left across all sources.
func (fs *FoodStore) Remaining() int {
	total := 0
	for _, n := range fs.amounts {
		total += n
	}
	return total
}

// Sources returns all source coordinates, including depleted ones, in
// row-major order.
func (fs *FoodStore) Sources() []Coord {
	out := make([]Coord, 0, len(fs.amounts))
	for c := range fs.amounts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
