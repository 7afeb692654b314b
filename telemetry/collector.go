// Package telemetry accumulates per-step simulation events into windowed
// statistics and writes them to CSV.
package telemetry

import "gonum.org/v1/gonum/stat"

// Snapshot carries the engine state sampled at a window boundary.
type Snapshot struct {
	Ants          int
	Carrying      int
	FoodCollected int
	FoodRemaining int
	ToFoodTotal   float64
	ToColonyTotal float64
}

// Collector accumulates events within step windows and produces WindowStats.
// A nil Collector is valid and records nothing.
type Collector struct {
	windowSteps int
	windowStart int

	pickups      int
	deliveries   int
	invalidMoves int
	stalls       int

	tripLengths []float64
}

// NewCollector creates a collector emitting one WindowStats per windowSteps
// steps.
func NewCollector(windowSteps int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{windowSteps: windowSteps}
}

// RecordPickup records a successful food withdrawal.
func (c *Collector) RecordPickup() {
	if c == nil {
		return
	}
	c.pickups++
}

// RecordDelivery records food returned to the colony after tripSteps steps
// carrying it.
func (c *Collector) RecordDelivery(tripSteps int) {
	if c == nil {
		return
	}
	c.deliveries++
	c.tripLengths = append(c.tripLengths, float64(tripSteps))
}

// RecordInvalidMove records a strategy choice the engine had to reject.
func (c *Collector) RecordInvalidMove() {
	if c == nil {
		return
	}
	c.invalidMoves++
}

// RecordStall records an ant that stayed in place without harvesting.
func (c *Collector) RecordStall() {
	if c == nil {
		return
	}
	c.stalls++
}

// WindowClosed reports whether the window ending at step is complete.
func (c *Collector) WindowClosed(step int) bool {
	if c == nil {
		return false
	}
	return step-c.windowStart >= c.windowSteps
}

// Flush emits stats for the closing window and starts the next one.
func (c *Collector) Flush(step int, snap Snapshot) WindowStats {
	ws := WindowStats{
		WindowStart:   c.windowStart,
		WindowEnd:     step,
		Ants:          snap.Ants,
		Carrying:      snap.Carrying,
		FoodCollected: snap.FoodCollected,
		FoodRemaining: snap.FoodRemaining,
		Pickups:       c.pickups,
		Deliveries:    c.deliveries,
		InvalidMoves:  c.invalidMoves,
		Stalls:        c.stalls,
		ToFoodTotal:   snap.ToFoodTotal,
		ToColonyTotal: snap.ToColonyTotal,
	}
	if len(c.tripLengths) > 0 {
		ws.TripMean = stat.Mean(c.tripLengths, nil)
	}
	if len(c.tripLengths) > 1 {
		ws.TripStd = stat.StdDev(c.tripLengths, nil)
	}

	c.windowStart = step
	c.pickups = 0
	c.deliveries = 0
	c.invalidMoves = 0
	c.stalls = 0
	c.tripLengths = c.tripLengths[:0]

	return ws
}
