package telemetry

// WindowStats holds aggregated statistics for one step window.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population at window end
	Ants     int `csv:"ants"`
	Carrying int `csv:"carrying"`

	// Colony progress at window end
	FoodCollected int `csv:"food_collected"`
	FoodRemaining int `csv:"food_remaining"`

	// Events during window
	Pickups      int `csv:"pickups"`
	Deliveries   int `csv:"deliveries"`
	InvalidMoves int `csv:"invalid_moves"`
	Stalls       int `csv:"stalls"`

	// Completed carry trips, in steps
	TripMean float64 `csv:"trip_mean"`
	TripStd  float64 `csv:"trip_std"`

	// Total trail concentration per channel
	ToFoodTotal   float64 `csv:"to_food_total"`
	ToColonyTotal float64 `csv:"to_colony_total"`
}
