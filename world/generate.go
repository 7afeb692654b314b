package world

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/antfarm/config"
)

// Generate builds one of the named environments (simple, obstacle, maze).
// The seed only affects the maze layout.
func Generate(name string, w, h int, seed int64, gen config.GeneratorConfig) (*Environment, error) {
	if w <= 0 || h <= 0 {
		return nil, malformed("DIMENSIONS", "non-positive dimensions %dx%d", w, h)
	}
	var env *Environment
	switch name {
	case "simple":
		env = generateSimple(w, h, gen)
	case "obstacle":
		env = generateObstacle(w, h, gen)
	case "maze":
		env = generateMaze(w, h, seed, gen)
	default:
		return nil, fmt.Errorf("unknown environment type %q", name)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func newEmpty(w, h int) *Environment {
	env := &Environment{
		Grid: NewGrid(w, h),
		Food: NewFoodStore(),
	}
	env.Colony = NewColony(Coord{w / 2, h / 2})
	return env
}

// addFoodPatch places a size x size block of food anchored at (x,y),
// skipping cells that are out of bounds, walls, or the colony.
func addFoodPatch(env *Environment, x, y, size, amount int) {
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			c := Coord{x + i, y + j}
			if !env.Grid.IsPassable(c) || c == env.Colony.Pos {
				continue
			}
			env.Food.Add(c, amount)
		}
	}
}

// generateSimple places the colony at the center and a food patch near each
// corner.
func generateSimple(w, h int, gen config.GeneratorConfig) *Environment {
	env := newEmpty(w, h)

	size := clampPatch(gen.FoodPatchSize, w, h)
	margin := min(w, h) / 10
	if margin < 1 {
		margin = 1
	}

	addFoodPatch(env, margin, margin, size, gen.FoodAmount)
	addFoodPatch(env, w-margin-size, margin, size, gen.FoodAmount)
	addFoodPatch(env, margin, h-margin-size, size, gen.FoodAmount)
	addFoodPatch(env, w-margin-size, h-margin-size, size, gen.FoodAmount)

	return env
}

// generateObstacle is the simple layout plus a cross of walls through the
// center with a gap on each arm.
func generateObstacle(w, h int, gen config.GeneratorConfig) *Environment {
	env := newEmpty(w, h)

	wallX := w / 2
	gapY := h / 2
	gapSize := h / 10
	if gapSize < 1 {
		gapSize = 1
	}
	for y := 0; y < h; y++ {
		if abs(y-gapY) > gapSize {
			env.Grid.SetWall(Coord{wallX, y})
		}
	}

	wallY := h / 2
	gapX := w / 2
	gapSize = w / 10
	if gapSize < 1 {
		gapSize = 1
	}
	for x := 0; x < w; x++ {
		if abs(x-gapX) > gapSize {
			env.Grid.SetWall(Coord{x, wallY})
		}
	}

	size := clampPatch(gen.FoodPatchSize, w, h)
	margin := min(w, h) / 10
	if margin < 1 {
		margin = 1
	}
	addFoodPatch(env, margin, h/4, size, gen.FoodAmount)
	addFoodPatch(env, w-margin-size, h/4, size, gen.FoodAmount)
	addFoodPatch(env, margin, h-h/4-size, size, gen.FoodAmount)
	addFoodPatch(env, w-margin-size, h-h/4-size, size, gen.FoodAmount)

	return env
}

// generateMaze carves walls from smooth noise so corridors stay connected in
// practice, keeps a clearing around the colony, and scatters food patches
// away from it.
func generateMaze(w, h int, seed int64, gen config.GeneratorConfig) *Environment {
	env := newEmpty(w, h)
	noise := opensimplex.New(seed)

	clearing := min(w, h) / 8
	if clearing < 2 {
		clearing = 2
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if abs(x-env.Colony.Pos.X) <= clearing && abs(y-env.Colony.Pos.Y) <= clearing {
				continue
			}
			v := noise.Eval2(float64(x)*gen.MazeNoiseScale, float64(y)*gen.MazeNoiseScale)
			// Eval2 is in [-1,1]; remap to [0,1] before thresholding
			if (v+1)/2 > 1-gen.MazeWallDensity {
				env.Grid.SetWall(Coord{x, y})
			}
		}
	}

	size := clampPatch(gen.FoodPatchSize, w, h)
	minDist := float64(min(w, h)) / 4

	// Deterministic scan for patch anchors far enough from the colony.
	placed := 0
	for y := 0; y < h-size && placed < 5; y += size + 2 {
		for x := 0; x < w-size && placed < 5; x += size + 2 {
			dx := float64(x - env.Colony.Pos.X)
			dy := float64(y - env.Colony.Pos.Y)
			if math.Sqrt(dx*dx+dy*dy) < minDist {
				continue
			}
			if !env.Grid.IsPassable(Coord{x, y}) {
				continue
			}
			addFoodPatch(env, x, y, size, gen.FoodAmount)
			placed++
		}
	}

	// Noise can wall off every candidate anchor; fall back to a corner patch
	// so the environment stays valid.
	if len(env.Food.Sources()) == 0 {
		for y := 0; y < h && len(env.Food.Sources()) == 0; y++ {
			for x := 0; x < w; x++ {
				c := Coord{x, y}
				if env.Grid.IsPassable(c) && c != env.Colony.Pos {
					env.Food.Add(c, gen.FoodAmount)
					break
				}
			}
		}
	}

	return env
}

func clampPatch(size, w, h int) int {
	if size < 1 {
		size = 1
	}
	if m := min(w, h) / 3; size > m && m >= 1 {
		size = m
	}
	return size
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
