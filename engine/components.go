package engine

// Position is an ant's current grid cell.
type Position struct {
	X, Y int
}

// Ant holds per-ant simulation state. The deposit budgets decay
// geometrically with every deposit and refresh when the ant picks up food or
// delivers it, so trail strength falls off with distance from the reward.
type Ant struct {
	ID       int
	Carrying bool

	FoodBudget   float64 // Remaining to-food deposit strength
	ColonyBudget float64 // Remaining to-colony deposit strength

	TripSteps int // Steps since the last pickup or delivery
}
