package strategy

import (
	"testing"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/world"
)

func testStratCfg() config.StrategyConfig {
	return config.StrategyConfig{BaseWeight: 1.0, PheromoneBias: 0.05}
}

func openNeighbors(center world.Coord) []Neighbor {
	g := world.NewGrid(100, 100)
	var out []Neighbor
	for _, c := range g.Neighbors(center) {
		out = append(out, Neighbor{Coord: c, Passable: true})
	}
	return out
}

func TestHarvestInPlace(t *testing.T) {
	r := NewRandom(1, testStratCfg())
	p := Perception{
		State:       Searching,
		Position:    world.Coord{X: 5, Y: 5},
		HereHasFood: true,
		Neighbors:   openNeighbors(world.Coord{X: 5, Y: 5}),
	}

	got, err := r.Decide(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != p.Position {
		t.Errorf("searching ant on food should stay to harvest, moved to %v", got)
	}
}

func TestMovesTowardVisibleFood(t *testing.T) {
	r := NewRandom(1, testStratCfg())
	neighbors := openNeighbors(world.Coord{X: 5, Y: 5})
	neighbors[3].HasFood = true
	p := Perception{State: Searching, Position: world.Coord{X: 5, Y: 5}, Neighbors: neighbors}

	got, err := r.Decide(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != neighbors[3].Coord {
		t.Errorf("expected move to food at %v, got %v", neighbors[3].Coord, got)
	}
}

func TestMovesTowardVisibleColonyWhenReturning(t *testing.T) {
	r := NewRandom(1, testStratCfg())
	neighbors := openNeighbors(world.Coord{X: 5, Y: 5})
	neighbors[6].IsColony = true
	p := Perception{State: Returning, Position: world.Coord{X: 5, Y: 5}, Neighbors: neighbors}

	got, err := r.Decide(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != neighbors[6].Coord {
		t.Errorf("expected move to colony at %v, got %v", neighbors[6].Coord, got)
	}

	// A searching ant ignores the colony
	p.State = Searching
	got, err = r.Decide(p)
	if err != nil {
		t.Fatal(err)
	}
	if got == neighbors[6].Coord && func() bool {
		// Random choice may still land there; only fail if it always does
		for i := 0; i < 20; i++ {
			c, _ := r.Decide(p)
			if c != neighbors[6].Coord {
				return false
			}
		}
		return true
	}() {
		t.Error("searching ant appears to deterministically seek the colony")
	}
}

func TestStaysWhenFullyBlocked(t *testing.T) {
	r := NewRandom(1, testStratCfg())
	var neighbors []Neighbor
	g := world.NewGrid(100, 100)
	for _, c := range g.Neighbors(world.Coord{X: 5, Y: 5}) {
		neighbors = append(neighbors, Neighbor{Coord: c, Passable: false})
	}
	p := Perception{State: Searching, Position: world.Coord{X: 5, Y: 5}, Neighbors: neighbors}

	got, err := r.Decide(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != p.Position {
		t.Errorf("fully blocked ant must stay in place, moved to %v", got)
	}
}

func TestErgodicityWithoutPheromone(t *testing.T) {
	r := NewRandom(42, testStratCfg())
	p := Perception{
		State:     Searching,
		Position:  world.Coord{X: 5, Y: 5},
		Neighbors: openNeighbors(world.Coord{X: 5, Y: 5}),
	}

	seen := make(map[world.Coord]int)
	for i := 0; i < 4000; i++ {
		c, err := r.Decide(p)
		if err != nil {
			t.Fatal(err)
		}
		seen[c]++
	}
	for _, n := range p.Neighbors {
		if seen[n.Coord] == 0 {
			t.Errorf("neighbor %v was never chosen in 4000 draws", n.Coord)
		}
	}
}

func TestPheromoneBiasesSelection(t *testing.T) {
	cfg := config.StrategyConfig{BaseWeight: 0.1, PheromoneBias: 1.0}
	r := NewRandom(7, cfg)
	neighbors := openNeighbors(world.Coord{X: 5, Y: 5})
	neighbors[2].Pheromone = 100

	p := Perception{State: Searching, Position: world.Coord{X: 5, Y: 5}, Neighbors: neighbors}

	hits := 0
	const draws = 2000
	for i := 0; i < draws; i++ {
		c, err := r.Decide(p)
		if err != nil {
			t.Fatal(err)
		}
		if c == neighbors[2].Coord {
			hits++
		}
	}
	// Weight 100.1 against 7 x 0.1: the marked neighbor should dominate.
	if hits < draws*8/10 {
		t.Errorf("expected strong bias toward high-pheromone neighbor, got %d/%d", hits, draws)
	}
}

func TestDeterministicGivenSeed(t *testing.T) {
	p := Perception{
		State:     Searching,
		Position:  world.Coord{X: 5, Y: 5},
		Neighbors: openNeighbors(world.Coord{X: 5, Y: 5}),
	}

	a := NewRandom(99, testStratCfg())
	b := NewRandom(99, testStratCfg())
	for i := 0; i < 200; i++ {
		ca, err := a.Decide(p)
		if err != nil {
			t.Fatal(err)
		}
		cb, err := b.Decide(p)
		if err != nil {
			t.Fatal(err)
		}
		if ca != cb {
			t.Fatalf("decision %d diverged: %v vs %v", i, ca, cb)
		}
	}
}

func TestByName(t *testing.T) {
	s, err := ByName("random", 1, testStratCfg())
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "random" {
		t.Errorf("expected name random, got %s", s.Name())
	}
	if _, err := ByName("clairvoyant", 1, testStratCfg()); err == nil {
		t.Error("expected error for unknown strategy name")
	}
}
