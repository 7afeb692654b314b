// Package strategy defines the pluggable movement policy for ants: the
// perception an ant receives each step and the decision contract that maps
// it to a move.
package strategy

import (
	"fmt"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/world"
)

// State is an ant's behavioral state.
type State uint8

const (
	// Searching ants carry no food and follow to-food trails.
	Searching State = iota
	// Returning ants carry food home and follow to-colony trails.
	Returning
)

func (s State) String() string {
	if s == Returning {
		return "returning"
	}
	return "searching"
}

// Neighbor describes one cell adjacent to the ant.
type Neighbor struct {
	Coord     world.Coord
	Passable  bool
	Pheromone float64 // Concentration on the channel matching the ant's state
	HasFood   bool
	IsColony  bool
}

// Perception is the local snapshot an ant decides from. All ants in a step
// receive perceptions taken against the same field state. Strategies needing
// per-ant memory own it themselves, keyed by AntID.
type Perception struct {
	AntID    int
	State    State
	Position world.Coord

	HereHasFood  bool
	HereIsColony bool

	// Neighbors lists the in-bounds Moore neighborhood in fixed compass
	// order (N, NE, E, SE, S, SW, W, NW).
	Neighbors []Neighbor
}

// Strategy chooses the ant's next coordinate. Returning the current position
// means stay in place (also a harvest move on a food cell). The choice must
// be the current position or a passable neighbor; anything else is treated
// as an invalid move by the engine. A returned error aborts the run.
type Strategy interface {
	Name() string
	Decide(p Perception) (world.Coord, error)
}

// ByName constructs a built-in strategy. The driver maps externally supplied
// decision functions itself; the engine only sees the interface.
func ByName(name string, seed uint64, cfg config.StrategyConfig) (Strategy, error) {
	switch name {
	case "random":
		return NewRandom(seed, cfg), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
