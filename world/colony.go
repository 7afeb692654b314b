package world

// Colony is the fixed nest location. Ants spawn here and return carried food
// here; Collected only ever grows.
type Colony struct {
	Pos       Coord
	collected int
}

// NewColony creates a colony at c.
func NewColony(c Coord) *Colony {
	return &Colony{Pos: c}
}

// Deposit adds n returned food units. Non-positive n is ignored.
func (c *Colony) Deposit(n int) {
	if n > 0 {
		c.collected += n
	}
}

// Collected returns the total food units returned so far.
func (c *Colony) Collected() int {
	return c.collected
}
