package main

import "testing"

func TestBatchSteps(t *testing.T) {
	tests := []struct {
		name                  string
		tick, maxTicks, steps int
		want                  int
	}{
		{"no limit", 500, 0, 8, 8},
		{"negative limit", 500, -1, 8, 8},
		{"far from limit", 0, 100, 8, 8},
		{"batch ends on limit", 92, 100, 8, 8},
		{"batch would overshoot", 96, 100, 8, 4},
		{"limit reached", 100, 100, 8, 0},
		{"past limit", 120, 100, 8, 0},
		{"single step", 99, 100, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batchSteps(tt.tick, tt.maxTicks, tt.steps); got != tt.want {
				t.Errorf("batchSteps(%d, %d, %d) = %d, want %d", tt.tick, tt.maxTicks, tt.steps, got, tt.want)
			}
		})
	}
}

func TestBatchStepsStopsExactlyOnLimit(t *testing.T) {
	for _, steps := range []int{1, 3, 7, 64} {
		tick := 0
		for {
			n := batchSteps(tick, 100, steps)
			if n == 0 {
				break
			}
			tick += n
		}
		if tick != 100 {
			t.Errorf("steps=%d: stopped at tick %d, want 100", steps, tick)
		}
	}
}
