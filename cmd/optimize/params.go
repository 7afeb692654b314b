// Package main provides CMA-ES optimization for foraging parameters.
package main

import (
	"github.com/pthm-cable/antfarm/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// base_weight is locked at 1.0 so pheromone_bias carries the full
// exploitation/exploration trade-off.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Pheromone field dynamics
			{Name: "evaporation_rate", Path: "pheromone.evaporation_rate", Min: 0.0, Max: 0.05, Default: 0.001},
			{Name: "diffusion_rate", Path: "pheromone.diffusion_rate", Min: 0.0, Max: 0.3, Default: 0.05},
			// Per-ant deposit budget
			{Name: "deposit_initial", Path: "pheromone.deposit_initial", Min: 10.0, Max: 300.0, Default: 100.0},
			{Name: "deposit_decay", Path: "pheromone.deposit_decay", Min: 0.9, Max: 1.0, Default: 0.995},
			// Strategy (base_weight locked at 1.0)
			{Name: "pheromone_bias", Path: "strategy.pheromone_bias", Min: 0.0, Max: 0.5, Default: 0.05},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	cfg.Pheromone.EvaporationRate = clamped[i]
	i++
	cfg.Pheromone.DiffusionRate = clamped[i]
	i++
	cfg.Pheromone.DepositInitial = clamped[i]
	i++
	cfg.Pheromone.DepositDecay = clamped[i]
	i++
	cfg.Strategy.PheromoneBias = clamped[i]

	cfg.Strategy.BaseWeight = 1.0
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Pheromone.EvaporationRate,
		cfg.Pheromone.DiffusionRate,
		cfg.Pheromone.DepositInitial,
		cfg.Pheromone.DepositDecay,
		cfg.Strategy.PheromoneBias,
	}
}
