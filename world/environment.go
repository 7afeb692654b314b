package world

import "fmt"

// Environment bundles the static world data a simulation runs against.
// AntCount, TimeLimit and MaxSteps are optional hints carried from the
// environment source; zero means "not specified".
type Environment struct {
	Grid   *Grid
	Food   *FoodStore
	Colony *Colony

	AntCount  int
	TimeLimit float64 // seconds
	MaxSteps  int
}

// MalformedEnvironmentError reports an invalid or missing piece of
// environment data, identified by the section it came from.
type MalformedEnvironmentError struct {
	Section string
	Reason  string
}

func (e *MalformedEnvironmentError) Error() string {
	return fmt.Sprintf("malformed environment: section %s: %s", e.Section, e.Reason)
}

func malformed(section, format string, args ...interface{}) error {
	return &MalformedEnvironmentError{Section: section, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the cross-section invariants: the colony and every food
// source must be in-bounds and on an open cell.
func (e *Environment) Validate() error {
	if e.Grid == nil || e.Grid.W <= 0 || e.Grid.H <= 0 {
		return malformed("DIMENSIONS", "missing or non-positive dimensions")
	}
	if e.Colony == nil {
		return malformed("COLONY", "missing colony")
	}
	if !e.Grid.InBounds(e.Colony.Pos) {
		return malformed("COLONY", "coordinate (%d,%d) out of bounds", e.Colony.Pos.X, e.Colony.Pos.Y)
	}
	if e.Grid.KindAt(e.Colony.Pos) != Open {
		return malformed("COLONY", "coordinate (%d,%d) is a wall", e.Colony.Pos.X, e.Colony.Pos.Y)
	}
	if e.Food == nil || len(e.Food.Sources()) == 0 {
		return malformed("FOOD", "no food sources")
	}
	for _, c := range e.Food.Sources() {
		if !e.Grid.InBounds(c) {
			return malformed("FOOD", "coordinate (%d,%d) out of bounds", c.X, c.Y)
		}
		if e.Grid.KindAt(c) != Open {
			return malformed("FOOD", "coordinate (%d,%d) is a wall", c.X, c.Y)
		}
	}
	return nil
}
