package main

import (
	"github.com/50thycal/ant-farm/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	apply   func(cfg *config.Config, v float64)
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the forager colony parameter set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Hunger
			{Name: "hunger_rate", Path: "ants.hunger_rate", Min: 0.005, Max: 0.08, Default: 0.02,
				apply: func(c *config.Config, v float64) { c.Ants.HungerRate = v }},
			{Name: "hunger_threshold", Path: "ants.hunger_threshold", Min: 0.2, Max: 0.9, Default: 0.6,
				apply: func(c *config.Config, v float64) { c.Ants.HungerThreshold = v }},
			// Movement
			{Name: "max_speed", Path: "ants.max_speed", Min: 2, Max: 12, Default: 6,
				apply: func(c *config.Config, v float64) { c.Ants.MaxSpeed = v }},
			{Name: "wander_interval", Path: "ants.wander_interval", Min: 0.3, Max: 4, Default: 1.5,
				apply: func(c *config.Config, v float64) { c.Ants.WanderInterval = v }},
			// Digging
			{Name: "dig_rate", Path: "ants.dig_rate", Min: 0.2, Max: 5, Default: 1.5,
				apply: func(c *config.Config, v float64) { c.Ants.DigRate = v }},
			{Name: "carry_timeout", Path: "ants.carry_timeout", Min: 5, Max: 60, Default: 30,
				apply: func(c *config.Config, v float64) { c.Ants.CarryTimeout = v }},
			// Scent
			{Name: "food_decay", Path: "pheromones.fields[food].decay", Min: 0.01, Max: 0.3, Default: 0.05,
				apply: func(c *config.Config, v float64) { setField(c, "food", func(f *config.FieldConfig) { f.Decay = v }) }},
			{Name: "food_diffusion", Path: "pheromones.fields[food].diffusion", Min: 0, Max: 2, Default: 0.8,
				apply: func(c *config.Config, v float64) { setField(c, "food", func(f *config.FieldConfig) { f.Diffusion = v }) }},
			{Name: "follow_threshold", Path: "pheromones.follow_threshold", Min: 0.001, Max: 0.2, Default: 0.02,
				apply: func(c *config.Config, v float64) { c.Pheromones.FollowThreshold = v }},
			{Name: "food_source", Path: "pheromones.food_source", Min: 0.02, Max: 0.6, Default: 0.2,
				apply: func(c *config.Config, v float64) { c.Pheromones.FoodSource = v }},
		},
	}
}

// setField edits the named pheromone field, if configured.
func setField(cfg *config.Config, name string, fn func(*config.FieldConfig)) {
	for i := range cfg.Pheromones.Fields {
		if cfg.Pheromones.Fields[i].Name == name {
			fn(&cfg.Pheromones.Fields[i])
		}
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
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].apply(cfg, v)
	}
}

// copyConfig returns a deep copy of base that sessions may modify freely.
func copyConfig(base *config.Config) *config.Config {
	cfg := *base
	cfg.Pheromones.Fields = append([]config.FieldConfig(nil), base.Pheromones.Fields...)
	cfg.Derived.FieldIndex = nil
	cfg.Refresh()
	return &cfg
}
