// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Pheromone PheromoneConfig `yaml:"pheromone"`
	Strategy  StrategyConfig  `yaml:"strategy"`
	Engine    EngineConfig    `yaml:"engine"`
	Generator GeneratorConfig `yaml:"generator"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// PheromoneConfig holds pheromone field parameters.
type PheromoneConfig struct {
	EvaporationRate float64 `yaml:"evaporation_rate"` // Fraction removed per step
	DiffusionRate   float64 `yaml:"diffusion_rate"`   // Fraction shared with open neighbors per step
	DepositInitial  float64 `yaml:"deposit_initial"`  // Per-ant deposit budget after a reward
	DepositDecay    float64 `yaml:"deposit_decay"`    // Budget multiplier per deposit (< 1)
	DepositMax      float64 `yaml:"deposit_max"`      // Per-cell concentration cap
	CullThreshold   float64 `yaml:"cull_threshold"`   // Concentrations below this are zeroed
}

// StrategyConfig holds built-in strategy parameters.
type StrategyConfig struct {
	BaseWeight    float64 `yaml:"base_weight"`    // Minimum selection weight for any passable neighbor
	PheromoneBias float64 `yaml:"pheromone_bias"` // Weight added per unit of trail concentration
}

// EngineConfig holds engine defaults.
type EngineConfig struct {
	AntCount          int  `yaml:"ant_count"`
	StopWhenExhausted bool `yaml:"stop_when_exhausted"` // Terminate once all food is collected
}

// GeneratorConfig holds procedural environment generation parameters.
type GeneratorConfig struct {
	FoodPatchSize   int     `yaml:"food_patch_size"`   // Side length of square food patches
	FoodAmount      int     `yaml:"food_amount"`       // Food units per patch cell
	MazeNoiseScale  float64 `yaml:"maze_noise_scale"`  // Noise frequency for maze wall placement
	MazeWallDensity float64 `yaml:"maze_wall_density"` // Noise threshold above which a cell becomes wall
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Steps per stats window
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects parameter values the simulation cannot run with.
func (c *Config) validate() error {
	p := c.Pheromone
	if p.EvaporationRate < 0 || p.EvaporationRate > 1 {
		return fmt.Errorf("config: evaporation_rate %v outside [0,1]", p.EvaporationRate)
	}
	if p.DiffusionRate < 0 || p.DiffusionRate > 1 {
		return fmt.Errorf("config: diffusion_rate %v outside [0,1]", p.DiffusionRate)
	}
	if p.DepositDecay <= 0 || p.DepositDecay > 1 {
		return fmt.Errorf("config: deposit_decay %v outside (0,1]", p.DepositDecay)
	}
	if c.Strategy.BaseWeight <= 0 {
		return fmt.Errorf("config: base_weight must be positive, got %v", c.Strategy.BaseWeight)
	}
	if c.Strategy.PheromoneBias < 0 {
		return fmt.Errorf("config: pheromone_bias must be non-negative, got %v", c.Strategy.PheromoneBias)
	}
	if c.Engine.AntCount < 1 {
		return fmt.Errorf("config: ant_count must be at least 1, got %d", c.Engine.AntCount)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
