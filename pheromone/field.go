// Package pheromone implements the decaying scalar trail fields ants deposit
// and sense.
package pheromone

import (
	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/world"
)

// Channel selects one of the two trail fields.
type Channel uint8

const (
	// ToFood trails are laid by returning ants and followed by searching ants.
	ToFood Channel = iota
	// ToColony trails are laid by searching ants and followed by returning ants.
	ToColony

	numChannels
)

// String returns the channel name for logs and telemetry.
func (c Channel) String() string {
	switch c {
	case ToFood:
		return "to_food"
	case ToColony:
		return "to_colony"
	}
	return "unknown"
}

// Field holds one concentration grid per channel over the world grid.
// Concentrations are never negative. A disabled field accepts deposits and
// decay calls as no-ops and samples as all-zero, so callers need no special
// casing.
type Field struct {
	grid    *world.Grid
	enabled bool

	evaporation float64
	diffusion   float64
	depositMax  float64
	cull        float64

	grids [numChannels][]float64

	// Scratch buffer reused across diffusion passes
	tmp []float64
}

// vonNeumannDeltas are the 4-neighborhood used for diffusion. Diffusing over
// the diagonal would double-weight corner flow.
var vonNeumannDeltas = [4]world.Coord{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// New creates a field over g. If enabled is false the field stays all-zero
// for the whole run.
func New(g *world.Grid, cfg config.PheromoneConfig, enabled bool) *Field {
	n := g.W * g.H
	f := &Field{
		grid:        g,
		enabled:     enabled,
		evaporation: cfg.EvaporationRate,
		diffusion:   cfg.DiffusionRate,
		depositMax:  cfg.DepositMax,
		cull:        cfg.CullThreshold,
		tmp:         make([]float64, n),
	}
	for ch := range f.grids {
		f.grids[ch] = make([]float64, n)
	}
	return f
}

// Enabled reports whether deposits and decay have any effect.
func (f *Field) Enabled() bool {
	return f.enabled
}

// Deposit adds amount to channel ch at c, clamped to the per-cell maximum.
// Deposits on walls, out of bounds, or non-positive amounts are ignored.
func (f *Field) Deposit(c world.Coord, ch Channel, amount float64) {
	if !f.enabled || amount <= 0 || !f.grid.IsPassable(c) {
		return
	}
	i := c.Y*f.grid.W + c.X
	v := f.grids[ch][i] + amount
	if v > f.depositMax {
		v = f.depositMax
	}
	f.grids[ch][i] = v
}

// At returns the concentration of channel ch at c, 0 out of bounds.
func (f *Field) At(c world.Coord, ch Channel) float64 {
	if !f.grid.InBounds(c) {
		return 0
	}
	return f.grids[ch][c.Y*f.grid.W+c.X]
}

// SampleNeighborhood returns the concentration of channel ch at every
// in-bounds Moore neighbor of c.
func (f *Field) SampleNeighborhood(c world.Coord, ch Channel) map[world.Coord]float64 {
	neighbors := f.grid.Neighbors(c)
	out := make(map[world.Coord]float64, len(neighbors))
	for _, n := range neighbors {
		out[n] = f.At(n, ch)
	}
	return out
}

// DecayStep evaporates both channels and diffuses a fraction of each open
// cell's concentration to its open cardinal neighbors. Called exactly once
// per simulation step, after all ants have acted. Diffusion is symmetric,
// conserves total quantity, and never flows into walls; evaporation and the
// cull threshold are the only sinks.
func (f *Field) DecayStep() {
	if !f.enabled {
		return
	}
	for ch := range f.grids {
		f.evaporate(f.grids[ch])
		if f.diffusion > 0 {
			f.diffuse(f.grids[ch])
		}
	}
}

func (f *Field) evaporate(g []float64) {
	k := 1 - f.evaporation
	for i, v := range g {
		if v == 0 {
			continue
		}
		v *= k
		if v < f.cull {
			v = 0
		}
		g[i] = v
	}
}

func (f *Field) diffuse(g []float64) {
	w, h := f.grid.W, f.grid.H
	copy(f.tmp, g)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			v := g[i]
			if v == 0 {
				continue
			}
			share := v * f.diffusion / 4
			for _, d := range vonNeumannDeltas {
				n := world.Coord{X: x + d.X, Y: y + d.Y}
				if !f.grid.IsPassable(n) {
					continue
				}
				f.tmp[n.Y*w+n.X] += share
				f.tmp[i] -= share
			}
		}
	}

	copy(g, f.tmp)
}

// Total returns the summed concentration of channel ch across the grid.
func (f *Field) Total(ch Channel) float64 {
	var sum float64
	for _, v := range f.grids[ch] {
		sum += v
	}
	return sum
}
