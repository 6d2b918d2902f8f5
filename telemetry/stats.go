// Package telemetry provides colony statistics windows, perf timing and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Colony state at window end
	Ants     int `csv:"ants"`
	Carrying int `csv:"carrying"`
	Stock    int `csv:"stock"`
	Food     int `csv:"food_items"`

	// Ants per mode at window end
	Wander  int `csv:"mode_wander"`
	Dig     int `csv:"mode_dig"`
	Carry   int `csv:"mode_carry"`
	Drop    int `csv:"mode_drop"`
	Seek    int `csv:"mode_seek"`
	Climb   int `csv:"mode_climb"`
	Descend int `csv:"mode_descend"`
	Ascend  int `csv:"mode_ascend"`

	// Events during window
	Digs      int `csv:"digs"`
	Drops     int `csv:"drops"`
	Climbs    int `csv:"climbs"`
	FoodEaten int `csv:"food_eaten"`
	Spawned   int `csv:"spawned"`
	Moved     int `csv:"particles_moved"`

	// Material
	Granular    int `csv:"granular"`     // Granular cells on the grid
	MassTotal   int `csv:"mass_total"`   // Granular cells plus carried units
	ActiveCells int `csv:"active_cells"` // Sand cells still awake

	// Hunger distribution (foragers, sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	// Scent mass per field
	FoodScent float64 `csv:"food_scent"`
	HomeScent float64 `csv:"home_scent"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution returns mean, population std and the 10/50/90
// percentiles of values.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("ants", s.Ants),
		slog.Int("carrying", s.Carrying),
		slog.Int("stock", s.Stock),
		slog.Int("food_items", s.Food),
		slog.Int("digs", s.Digs),
		slog.Int("drops", s.Drops),
		slog.Int("climbs", s.Climbs),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("spawned", s.Spawned),
		slog.Int("particles_moved", s.Moved),
		slog.Int("granular", s.Granular),
		slog.Int("mass_total", s.MassTotal),
		slog.Int("active_cells", s.ActiveCells),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_std", s.HungerStd),
		slog.Float64("food_scent", s.FoodScent),
		slog.Float64("home_scent", s.HomeScent),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"ants", s.Ants,
		"carrying", s.Carrying,
		"stock", s.Stock,
		"food_items", s.Food,
		"wander", s.Wander,
		"dig", s.Dig,
		"carry", s.Carry,
		"drop", s.Drop,
		"seek", s.Seek,
		"climb", s.Climb,
		"descend", s.Descend,
		"ascend", s.Ascend,
		"digs", s.Digs,
		"drops", s.Drops,
		"climbs", s.Climbs,
		"food_eaten", s.FoodEaten,
		"spawned", s.Spawned,
		"particles_moved", s.Moved,
		"granular", s.Granular,
		"mass_total", s.MassTotal,
		"active_cells", s.ActiveCells,
		"hunger_mean", s.HungerMean,
		"hunger_p50", s.HungerP50,
		"food_scent", s.FoodScent,
		"home_scent", s.HomeScent,
	)
}
