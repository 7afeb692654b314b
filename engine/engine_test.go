package engine

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/pheromone"
	"github.com/pthm-cable/antfarm/strategy"
	"github.com/pthm-cable/antfarm/world"
)

func testCfg(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openEnv builds a w x h all-open environment with the colony at colony and
// one food source.
func openEnv(w, h int, colony, food world.Coord, amount int) *world.Environment {
	env := &world.Environment{
		Grid:   world.NewGrid(w, h),
		Food:   world.NewFoodStore(),
		Colony: world.NewColony(colony),
	}
	env.Food.Add(food, amount)
	return env
}

func newTestEngine(t *testing.T, env *world.Environment, cfg *config.Config, opts Options) *Engine {
	t.Helper()
	if opts.Strategy == nil {
		opts.Strategy = strategy.NewRandom(1, cfg.Strategy)
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	e, err := New(env, cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// fixedStrategy always returns the same coordinate.
type fixedStrategy struct {
	target world.Coord
}

func (f *fixedStrategy) Name() string { return "fixed" }
func (f *fixedStrategy) Decide(strategy.Perception) (world.Coord, error) {
	return f.target, nil
}

// failingStrategy errors on every decision.
type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }
func (failingStrategy) Decide(strategy.Perception) (world.Coord, error) {
	return world.Coord{}, errors.New("model diverged")
}

// corridorStrategy walks right while searching and left while returning.
// Only usable on a 1-cell-high grid.
type corridorStrategy struct{}

func (corridorStrategy) Name() string { return "corridor" }
func (corridorStrategy) Decide(p strategy.Perception) (world.Coord, error) {
	dx := 1
	if p.State == strategy.Returning {
		dx = -1
	}
	return world.Coord{X: p.Position.X + dx, Y: p.Position.Y}, nil
}

func TestForageAndReturnOnSmallGrid(t *testing.T) {
	// 3x3 open grid, colony at the center, one food unit in the corner.
	// Both goals are always visible, so the run is deterministic: pick up
	// on the first step, deliver on the second.
	cfg := testCfg(t)
	env := openEnv(3, 3, world.Coord{X: 1, Y: 1}, world.Coord{X: 0, Y: 0}, 1)
	e := newTestEngine(t, env, cfg, Options{AntCount: 1, PheromonesEnabled: true})

	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if e.CarryingCount() != 1 {
		t.Fatal("ant should be carrying after stepping onto the food cell")
	}
	if got := e.AntPositions()[0]; got != (world.Coord{X: 0, Y: 0}) {
		t.Fatalf("ant should be on the food cell, got %v", got)
	}

	res, err := e.Step()
	if err != nil {
		t.Fatal(err)
	}
	if res.FoodCollected != 1 {
		t.Fatalf("expected 1 food collected after delivery, got %d", res.FoodCollected)
	}
	if e.CarryingCount() != 0 {
		t.Error("ant should have dropped its food at the colony")
	}
	if env.Food.Remaining() != 0 {
		t.Errorf("source should be empty, %d remaining", env.Food.Remaining())
	}
}

func TestMaxStepsTerminatesExactly(t *testing.T) {
	cfg := testCfg(t)
	file := `
DIMENSIONS:
5 5
COLONY:
2 2
FOOD:
0 0 1
TIME_LIMIT:
0
MAX_STEPS:
50
`
	env, err := world.Parse(strings.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(t, env, cfg, Options{
		AntCount:          2,
		MaxSteps:          env.MaxSteps,
		TimeLimit:         env.TimeLimit,
		PheromonesEnabled: true,
	})

	for !e.Terminated() {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
		if e.StepCount() < 50 && e.Terminated() {
			t.Fatalf("terminated early at step %d", e.StepCount())
		}
	}
	if e.StepCount() != 50 {
		t.Errorf("expected termination exactly at step 50, got %d", e.StepCount())
	}
}

func TestUnboundedEngineNeverSelfTerminates(t *testing.T) {
	cfg := testCfg(t)
	env := openEnv(5, 5, world.Coord{X: 2, Y: 2}, world.Coord{X: 0, Y: 0}, 1)
	e := newTestEngine(t, env, cfg, Options{AntCount: 1, PheromonesEnabled: true})

	for i := 0; i < 500; i++ {
		if e.Terminated() {
			t.Fatalf("unbounded engine terminated at step %d", e.StepCount())
		}
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalledInAntStaysPut(t *testing.T) {
	cfg := testCfg(t)
	env := openEnv(5, 5, world.Coord{X: 1, Y: 1}, world.Coord{X: 4, Y: 4}, 1)
	for _, c := range env.Grid.Neighbors(world.Coord{X: 1, Y: 1}) {
		env.Grid.SetWall(c)
	}
	e := newTestEngine(t, env, cfg, Options{AntCount: 1, PheromonesEnabled: true})

	for i := 0; i < 10; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
		if got := e.AntPositions()[0]; got != (world.Coord{X: 1, Y: 1}) {
			t.Fatalf("walled-in ant moved to %v", got)
		}
	}
	// The stationary ant still marks its cell
	if e.Field().At(world.Coord{X: 1, Y: 1}, pheromone.ToColony) <= 0 {
		t.Error("expected to-colony trail under the stationary ant")
	}
}

func TestInvalidMoveIsRecovered(t *testing.T) {
	cfg := testCfg(t)
	env := openEnv(9, 9, world.Coord{X: 4, Y: 4}, world.Coord{X: 0, Y: 0}, 1)
	e := newTestEngine(t, env, cfg, Options{
		AntCount:          1,
		Strategy:          &fixedStrategy{target: world.Coord{X: 8, Y: 8}}, // never adjacent
		PheromonesEnabled: true,
	})

	for i := 0; i < 5; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatalf("invalid move must not abort the run: %v", err)
		}
	}
	if got := e.AntPositions()[0]; got != (world.Coord{X: 4, Y: 4}) {
		t.Errorf("ant should have been held in place, got %v", got)
	}
}

func TestStrategyErrorAbortsRun(t *testing.T) {
	cfg := testCfg(t)
	env := openEnv(5, 5, world.Coord{X: 2, Y: 2}, world.Coord{X: 0, Y: 0}, 1)
	e := newTestEngine(t, env, cfg, Options{
		AntCount:          1,
		Strategy:          failingStrategy{},
		PheromonesEnabled: true,
	})

	if _, err := e.Step(); err == nil {
		t.Fatal("expected strategy evaluation failure to propagate")
	}
}

func TestDisabledPheromonesStayZero(t *testing.T) {
	cfg := testCfg(t)
	env := openEnv(7, 7, world.Coord{X: 3, Y: 3}, world.Coord{X: 0, Y: 0}, 2)
	e := newTestEngine(t, env, cfg, Options{AntCount: 3, PheromonesEnabled: false})

	for i := 0; i < 100; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if total := e.Field().Total(pheromone.ToFood) + e.Field().Total(pheromone.ToColony); total != 0 {
		t.Errorf("disabled field accumulated concentration %v", total)
	}
}

func TestDeterministicRuns(t *testing.T) {
	cfg := testCfg(t)

	run := func() ([]world.Coord, []int) {
		env := openEnv(15, 15, world.Coord{X: 7, Y: 7}, world.Coord{X: 1, Y: 1}, 5)
		env.Food.Add(world.Coord{X: 13, Y: 2}, 3)
		e, err := New(env, cfg, Options{
			AntCount:          4,
			Strategy:          strategy.NewRandom(1234, cfg.Strategy),
			PheromonesEnabled: true,
			Logger:            quietLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}
		var positions []world.Coord
		var collected []int
		for i := 0; i < 200; i++ {
			res, err := e.Step()
			if err != nil {
				t.Fatal(err)
			}
			positions = append(positions, e.AntPositions()...)
			collected = append(collected, res.FoodCollected)
		}
		return positions, collected
	}

	posA, colA := run()
	posB, colB := run()

	for i := range posA {
		if posA[i] != posB[i] {
			t.Fatalf("position trajectory diverged at index %d: %v vs %v", i, posA[i], posB[i])
		}
	}
	for i := range colA {
		if colA[i] != colB[i] {
			t.Fatalf("collection trajectory diverged at step %d: %d vs %d", i, colA[i], colB[i])
		}
	}
}

func TestStopWhenExhausted(t *testing.T) {
	cfg := testCfg(t)
	env := openEnv(3, 3, world.Coord{X: 1, Y: 1}, world.Coord{X: 0, Y: 0}, 1)
	e := newTestEngine(t, env, cfg, Options{
		AntCount:          1,
		PheromonesEnabled: true,
		StopWhenExhausted: true,
	})

	steps := 0
	for !e.Terminated() {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
		steps++
		if steps > 100 {
			t.Fatal("engine failed to terminate after all food was collected")
		}
	}
	if e.Collected() != 1 {
		t.Errorf("expected all food collected at termination, got %d", e.Collected())
	}
}

func TestTrailAttenuatesWithDistance(t *testing.T) {
	cfg := testCfg(t)
	// Corridor: colony on the left end, food on the right end. The scripted
	// strategy walks straight out and straight back, so every deposit is
	// predictable.
	env := openEnv(20, 1, world.Coord{X: 0, Y: 0}, world.Coord{X: 19, Y: 0}, 1)
	e := newTestEngine(t, env, cfg, Options{
		AntCount:          1,
		Strategy:          corridorStrategy{},
		PheromonesEnabled: true,
	})

	for i := 0; i < 60 && e.Collected() == 0; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if e.Collected() != 1 {
		t.Fatal("ant failed to complete the corridor round trip")
	}

	f := e.Field()
	// The to-food trail is laid on the walk home with a decaying budget, so
	// it is much stronger next to the food than next to the colony.
	nearFood := f.At(world.Coord{X: 18, Y: 0}, pheromone.ToFood)
	nearColony := f.At(world.Coord{X: 1, Y: 0}, pheromone.ToFood)
	if nearFood <= nearColony {
		t.Errorf("to-food trail should attenuate toward the colony: %v near food, %v near colony",
			nearFood, nearColony)
	}
	// The to-colony trail was laid on the walk out, with the opposite slope.
	outNearColony := f.At(world.Coord{X: 1, Y: 0}, pheromone.ToColony)
	outNearFood := f.At(world.Coord{X: 18, Y: 0}, pheromone.ToColony)
	if outNearColony <= outNearFood {
		t.Errorf("to-colony trail should attenuate toward the food: %v near colony, %v near food",
			outNearColony, outNearFood)
	}
}
