package main

import (
	"math"
	"testing"

	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsWithinBounds(t *testing.T) {
	for _, spec := range NewParamVector().Specs {
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s default %v outside [%v, %v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
		if spec.apply == nil {
			t.Errorf("%s has no apply func", spec.Name)
		}
	}
}

func TestApplyToConfigClampsAndCopies(t *testing.T) {
	base := config.Defaults()
	pv := NewParamVector()

	cfg := copyConfig(base)
	values := pv.DefaultVector()
	values[0] = 99 // hunger_rate above max
	for i, spec := range pv.Specs {
		if spec.Name == "food_decay" {
			values[i] = 0.2
		}
	}
	pv.ApplyToConfig(cfg, values)

	if cfg.Ants.HungerRate != pv.Specs[0].Max {
		t.Errorf("hunger_rate = %v, want clamped to %v", cfg.Ants.HungerRate, pv.Specs[0].Max)
	}
	var decay float64
	for _, f := range cfg.Pheromones.Fields {
		if f.Name == "food" {
			decay = f.Decay
		}
	}
	if decay != 0.2 {
		t.Errorf("food decay = %v, want 0.2", decay)
	}
	for _, f := range base.Pheromones.Fields {
		if f.Name == "food" && f.Decay == 0.2 {
			t.Error("applying to the copy changed the base config")
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("tuned config invalid: %v", err)
	}
}

func TestComputeQuality(t *testing.T) {
	healthy := make([]telemetry.WindowStats, 6)
	for i := range healthy {
		healthy[i] = telemetry.WindowStats{Ants: 20, Carrying: 2, HungerP50: 0.4}
	}
	starving := make([]telemetry.WindowStats, 6)
	for i := range starving {
		starving[i] = telemetry.WindowStats{Ants: 20 - 3*i, Carrying: 15, HungerP50: 1}
	}

	hq := computeQuality(healthy)
	sq := computeQuality(starving)
	if hq <= sq {
		t.Errorf("healthy quality %v should beat starving %v", hq, sq)
	}
	if hq < 0 || hq > 1 || sq < 0 || sq > 1 {
		t.Errorf("quality out of [0,1]: %v %v", hq, sq)
	}
	if q := computeQuality(healthy[:2]); q != 0 {
		t.Errorf("warmup-only quality = %v, want 0", q)
	}
}

func TestComputeFitnessPrefersGrowth(t *testing.T) {
	if computeFitness(100, 0.5) >= computeFitness(50, 0.5) {
		t.Error("more growth should give lower fitness")
	}
	if computeFitness(100, 1) >= computeFitness(100, 0) {
		t.Error("higher quality should give lower fitness")
	}
}
