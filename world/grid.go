// Package world models the static simulation environment: the cell grid,
// food sources, and the colony.
package world

// Coord is a zero-indexed grid coordinate, origin at the top-left.
type Coord struct {
	X, Y int
}

// CellKind classifies a grid cell.
type CellKind uint8

const (
	Open CellKind = iota
	Wall
)

// mooreDeltas is the fixed compass order for neighbor enumeration:
// N, NE, E, SE, S, SW, W, NW. Iteration order is part of the contract;
// reordering it changes run reproducibility.
var mooreDeltas = [8]Coord{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Grid is the spatial index of cell kinds. It is mutable during environment
// construction and treated as read-only once a simulation starts.
type Grid struct {
	W, H  int
	cells []CellKind
}

// NewGrid creates an all-open grid. Dimensions must be positive.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, cells: make([]CellKind, w*h)}
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// KindAt returns the cell kind at c. Out-of-bounds coordinates are Wall.
func (g *Grid) KindAt(c Coord) CellKind {
	if !g.InBounds(c) {
		return Wall
	}
	return g.cells[c.Y*g.W+c.X]
}

// IsPassable reports whether an ant may occupy c.
func (g *Grid) IsPassable(c Coord) bool {
	return g.InBounds(c) && g.cells[c.Y*g.W+c.X] == Open
}

// SetWall marks c as a wall. Out-of-bounds coordinates are ignored.
func (g *Grid) SetWall(c Coord) {
	if g.InBounds(c) {
		g.cells[c.Y*g.W+c.X] = Wall
	}
}

// Neighbors returns the in-bounds Moore neighborhood of c in fixed compass
// order (N, NE, E, SE, S, SW, W, NW). Walls are included; callers check
// passability themselves.
func (g *Grid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 8)
	for _, d := range mooreDeltas {
		n := Coord{c.X + d.X, c.Y + d.Y}
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsNeighbor reports whether b is in the Moore neighborhood of a.
func IsNeighbor(a, b Coord) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return false
	}
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}
