package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Pheromone.DepositDecay <= 0 || cfg.Pheromone.DepositDecay > 1 {
		t.Errorf("default deposit_decay outside (0,1]: %v", cfg.Pheromone.DepositDecay)
	}
	if cfg.Strategy.BaseWeight <= 0 {
		t.Errorf("default base_weight must be positive, got %v", cfg.Strategy.BaseWeight)
	}
	if cfg.Engine.AntCount < 1 {
		t.Errorf("default ant_count must be at least 1, got %d", cfg.Engine.AntCount)
	}
	if cfg.Telemetry.StatsWindow < 1 {
		t.Errorf("default stats_window must be at least 1, got %d", cfg.Telemetry.StatsWindow)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "pheromone:\n  evaporation_rate: 0.25\nengine:\n  ant_count: 3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading merged config: %v", err)
	}

	if cfg.Pheromone.EvaporationRate != 0.25 {
		t.Errorf("expected evaporation_rate 0.25, got %v", cfg.Pheromone.EvaporationRate)
	}
	if cfg.Engine.AntCount != 3 {
		t.Errorf("expected ant_count 3, got %d", cfg.Engine.AntCount)
	}
	// Fields absent from the user file keep their defaults
	if cfg.Pheromone.DepositInitial != 100.0 {
		t.Errorf("expected default deposit_initial 100, got %v", cfg.Pheromone.DepositInitial)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"evaporation above one", "pheromone:\n  evaporation_rate: 1.5\n"},
		{"zero base weight", "strategy:\n  base_weight: 0\n"},
		{"zero ants", "engine:\n  ant_count: 0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Engine.AntCount = 7

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if back.Engine.AntCount != 7 {
		t.Errorf("expected ant_count 7 after round trip, got %d", back.Engine.AntCount)
	}
}
