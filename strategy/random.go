package strategy

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/world"
)

// Random moves toward food or the colony when one is directly visible and
// otherwise samples a passable neighbor with weight baseWeight +
// pheromoneBias * concentration. baseWeight is strictly positive, so every
// passable neighbor keeps nonzero selection probability even on a trail-free
// grid.
type Random struct {
	rng           *rand.Rand
	baseWeight    float64
	pheromoneBias float64

	// Scratch buffers reused across decisions
	weights    []float64
	candidates []world.Coord
}

// NewRandom creates a Random strategy seeded for reproducible runs.
func NewRandom(seed uint64, cfg config.StrategyConfig) *Random {
	return &Random{
		rng:           rand.New(rand.NewSource(seed)),
		baseWeight:    cfg.BaseWeight,
		pheromoneBias: cfg.PheromoneBias,
	}
}

// Name implements Strategy.
func (r *Random) Name() string { return "random" }

// Decide implements Strategy.
func (r *Random) Decide(p Perception) (world.Coord, error) {
	// Harvest in place: picking up food is a stay move.
	if p.State == Searching && p.HereHasFood {
		return p.Position, nil
	}

	// Head straight for a directly visible goal. First match wins, in
	// compass order, so runs stay reproducible.
	for _, n := range p.Neighbors {
		if !n.Passable {
			continue
		}
		if p.State == Searching && n.HasFood {
			return n.Coord, nil
		}
		if p.State == Returning && n.IsColony {
			return n.Coord, nil
		}
	}

	r.weights = r.weights[:0]
	r.candidates = r.candidates[:0]
	for _, n := range p.Neighbors {
		if !n.Passable {
			continue
		}
		r.candidates = append(r.candidates, n.Coord)
		r.weights = append(r.weights, r.baseWeight+r.pheromoneBias*n.Pheromone)
	}
	if len(r.candidates) == 0 {
		return p.Position, nil
	}

	sampler := sampleuv.NewWeighted(r.weights, r.rng)
	idx, ok := sampler.Take()
	if !ok {
		return p.Position, nil
	}
	return r.candidates[idx], nil
}
