// Package engine advances the ant colony simulation in discrete,
// deterministic steps.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/pheromone"
	"github.com/pthm-cable/antfarm/strategy"
	"github.com/pthm-cable/antfarm/telemetry"
	"github.com/pthm-cable/antfarm/world"
)

// Options configures a simulation run.
type Options struct {
	AntCount          int
	Strategy          strategy.Strategy
	MaxSteps          int     // 0 = unbounded
	TimeLimit         float64 // seconds, 0 = unbounded
	PheromonesEnabled bool
	StopWhenExhausted bool

	Logger    *slog.Logger         // nil = slog.Default()
	Collector *telemetry.Collector // nil = no telemetry
}

// StepResult summarizes one completed step.
type StepResult struct {
	StepIndex     int
	ActiveAnts    int
	FoodCollected int
}

// Engine owns all mutable run state. Ants never touch the food store or the
// pheromone field directly; they see a perception snapshot and request a
// move, and the engine applies the consequences.
type Engine struct {
	env   *world.Environment
	field *pheromone.Field
	strat strategy.Strategy
	log   *slog.Logger

	world     *ecs.World
	antMapper *ecs.Map2[Position, Ant]
	posMap    *ecs.Map1[Position]
	antMap    *ecs.Map1[Ant]
	ants      []ecs.Entity // ascending id order

	depositInitial float64
	depositDecay   float64

	stepCount         int
	maxSteps          int
	timeLimit         float64
	stopWhenExhausted bool
	start             time.Time

	collector *telemetry.Collector

	// Scratch buffer reused across steps
	perceptions []strategy.Perception
}

// New validates env and constructs a ready engine. No engine is returned for
// an invalid environment.
func New(env *world.Environment, cfg *config.Config, opts Options) (*Engine, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if opts.Strategy == nil {
		return nil, fmt.Errorf("engine: no strategy supplied")
	}
	antCount := opts.AntCount
	if antCount <= 0 {
		antCount = cfg.Engine.AntCount
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := ecs.NewWorld()
	e := &Engine{
		env:   env,
		field: pheromone.New(env.Grid, cfg.Pheromone, opts.PheromonesEnabled),
		strat: opts.Strategy,
		log:   logger,

		world:     w,
		antMapper: ecs.NewMap2[Position, Ant](w),
		posMap:    ecs.NewMap1[Position](w),
		antMap:    ecs.NewMap1[Ant](w),

		depositInitial: cfg.Pheromone.DepositInitial,
		depositDecay:   cfg.Pheromone.DepositDecay,

		maxSteps:          opts.MaxSteps,
		timeLimit:         opts.TimeLimit,
		stopWhenExhausted: opts.StopWhenExhausted || cfg.Engine.StopWhenExhausted,
		start:             time.Now(),

		collector:   opts.Collector,
		perceptions: make([]strategy.Perception, antCount),
	}

	for i := 0; i < antCount; i++ {
		entity := e.antMapper.NewEntity(
			&Position{X: env.Colony.Pos.X, Y: env.Colony.Pos.Y},
			&Ant{ID: i, FoodBudget: e.depositInitial, ColonyBudget: e.depositInitial},
		)
		e.ants = append(e.ants, entity)
	}

	return e, nil
}

// Step advances the simulation by one step: snapshot every ant's perception
// against the same field state, apply decisions in ascending ant id, then
// decay the field once. A strategy evaluation error aborts the run.
func (e *Engine) Step() (StepResult, error) {
	for i, entity := range e.ants {
		e.perceptions[i] = e.perceive(entity)
	}

	for i, entity := range e.ants {
		choice, err := e.strat.Decide(e.perceptions[i])
		if err != nil {
			return StepResult{}, fmt.Errorf("strategy %q failed for ant %d: %w", e.strat.Name(), i, err)
		}
		e.apply(entity, choice)
	}

	e.field.DecayStep()
	e.stepCount++

	return StepResult{
		StepIndex:     e.stepCount,
		ActiveAnts:    len(e.ants),
		FoodCollected: e.env.Colony.Collected(),
	}, nil
}

// perceive builds an ant's view of its Moore neighborhood on the channel
// matching its state.
func (e *Engine) perceive(entity ecs.Entity) strategy.Perception {
	pos := e.posMap.Get(entity)
	ant := e.antMap.Get(entity)
	here := world.Coord{X: pos.X, Y: pos.Y}

	state := strategy.Searching
	channel := pheromone.ToFood
	if ant.Carrying {
		state = strategy.Returning
		channel = pheromone.ToColony
	}

	cells := e.env.Grid.Neighbors(here)
	neighbors := make([]strategy.Neighbor, len(cells))
	for i, c := range cells {
		neighbors[i] = strategy.Neighbor{
			Coord:     c,
			Passable:  e.env.Grid.IsPassable(c),
			Pheromone: e.field.At(c, channel),
			HasFood:   e.env.Food.HasFood(c),
			IsColony:  c == e.env.Colony.Pos,
		}
	}

	return strategy.Perception{
		AntID:        ant.ID,
		State:        state,
		Position:     here,
		HereHasFood:  e.env.Food.HasFood(here),
		HereIsColony: here == e.env.Colony.Pos,
		Neighbors:    neighbors,
	}
}

// apply executes one ant's chosen move: validate it, withdraw food, update
// position, deliver at the colony, and mark the trail behind.
func (e *Engine) apply(entity ecs.Entity, choice world.Coord) {
	pos := e.posMap.Get(entity)
	ant := e.antMap.Get(entity)
	here := world.Coord{X: pos.X, Y: pos.Y}

	if choice != here && !(world.IsNeighbor(here, choice) && e.env.Grid.IsPassable(choice)) {
		e.log.Warn("invalid move, staying in place",
			"strategy", e.strat.Name(),
			"ant", ant.ID,
			"from", fmt.Sprintf("(%d,%d)", here.X, here.Y),
			"to", fmt.Sprintf("(%d,%d)", choice.X, choice.Y),
		)
		e.collector.RecordInvalidMove()
		choice = here
	}

	pickedUp := false
	if !ant.Carrying {
		if got := e.env.Food.Withdraw(choice, 1); got > 0 {
			ant.Carrying = true
			ant.FoodBudget = e.depositInitial
			ant.ColonyBudget = e.depositInitial
			ant.TripSteps = 0
			pickedUp = true
			e.collector.RecordPickup()
		}
	}

	prev := here
	pos.X, pos.Y = choice.X, choice.Y

	if ant.Carrying && choice == e.env.Colony.Pos {
		e.env.Colony.Deposit(1)
		ant.Carrying = false
		ant.FoodBudget = e.depositInitial
		ant.ColonyBudget = e.depositInitial
		e.collector.RecordDelivery(ant.TripSteps)
		ant.TripSteps = 0
	}

	// Mark the cell just left on the channel matching the current state:
	// carriers strengthen the to-food trail, searchers the to-colony trail.
	if ant.Carrying {
		e.field.Deposit(prev, pheromone.ToFood, ant.FoodBudget)
		ant.FoodBudget *= e.depositDecay
	} else {
		e.field.Deposit(prev, pheromone.ToColony, ant.ColonyBudget)
		ant.ColonyBudget *= e.depositDecay
	}

	ant.TripSteps++
	if choice == prev && !pickedUp {
		e.collector.RecordStall()
	}
}

// Terminated reports whether a configured bound has been reached. With both
// bounds zero the engine never self-terminates; the driver supplies its own
// stopping condition.
func (e *Engine) Terminated() bool {
	if e.maxSteps > 0 && e.stepCount >= e.maxSteps {
		return true
	}
	if e.timeLimit > 0 && time.Since(e.start).Seconds() >= e.timeLimit {
		return true
	}
	if e.stopWhenExhausted && e.env.Food.Initial() > 0 &&
		e.env.Colony.Collected() >= e.env.Food.Initial() {
		return true
	}
	return false
}

// StepCount returns the number of completed steps.
func (e *Engine) StepCount() int { return e.stepCount }

// Collected returns the colony's food total.
func (e *Engine) Collected() int { return e.env.Colony.Collected() }

// Elapsed returns wall time since the engine was constructed.
func (e *Engine) Elapsed() time.Duration { return time.Since(e.start) }

// Field exposes the pheromone field for display and telemetry.
func (e *Engine) Field() *pheromone.Field { return e.field }

// Environment exposes the world data for display and telemetry.
func (e *Engine) Environment() *world.Environment { return e.env }

// AntPositions returns every ant's position in ascending id order.
func (e *Engine) AntPositions() []world.Coord {
	out := make([]world.Coord, len(e.ants))
	for i, entity := range e.ants {
		pos := e.posMap.Get(entity)
		out[i] = world.Coord{X: pos.X, Y: pos.Y}
	}
	return out
}

// CarryingCount returns how many ants currently carry food.
func (e *Engine) CarryingCount() int {
	n := 0
	for _, entity := range e.ants {
		if e.antMap.Get(entity).Carrying {
			n++
		}
	}
	return n
}

// Snapshot samples the engine state for a telemetry window boundary.
func (e *Engine) Snapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		Ants:          len(e.ants),
		Carrying:      e.CarryingCount(),
		FoodCollected: e.env.Colony.Collected(),
		FoodRemaining: e.env.Food.Remaining(),
		ToFoodTotal:   e.field.Total(pheromone.ToFood),
		ToColonyTotal: e.field.Total(pheromone.ToColony),
	}
}
