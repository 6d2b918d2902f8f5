package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	digs      int
	drops     int
	climbs    int
	foodEaten int
	spawned   int
	moved     int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordAntEvents adds one tick's worth of ant activity.
func (c *Collector) RecordAntEvents(digs, drops, climbs, foodEaten int) {
	c.digs += digs
	c.drops += drops
	c.climbs += climbs
	c.foodEaten += foodEaten
}

// RecordSpawn records a new ant.
func (c *Collector) RecordSpawn() {
	c.spawned++
}

// RecordSandMoves records particles moved by one sand step.
func (c *Collector) RecordSandMoves(n int) {
	c.moved += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// ColonySample is the colony state sampled at window end.
type ColonySample struct {
	Ants        int
	Carrying    int
	Stock       int
	Food        int
	ModeCounts  [8]int // Indexed by components.Mode
	Hunger      []float64
	Granular    int
	ActiveCells int
	FoodScent   float64
	HomeScent   float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample ColonySample) WindowStats {
	hMean, hStd, hP10, hP50, hP90 := ComputeDistribution(sample.Hunger)
	m := sample.ModeCounts

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Ants:     sample.Ants,
		Carrying: sample.Carrying,
		Stock:    sample.Stock,
		Food:     sample.Food,

		Wander:  m[0],
		Dig:     m[1],
		Carry:   m[2],
		Drop:    m[3],
		Seek:    m[4],
		Climb:   m[5],
		Descend: m[6],
		Ascend:  m[7],

		Digs:      c.digs,
		Drops:     c.drops,
		Climbs:    c.climbs,
		FoodEaten: c.foodEaten,
		Spawned:   c.spawned,
		Moved:     c.moved,

		Granular:    sample.Granular,
		MassTotal:   sample.Granular + sample.Carrying,
		ActiveCells: sample.ActiveCells,

		HungerMean: hMean,
		HungerStd:  hStd,
		HungerP10:  hP10,
		HungerP50:  hP50,
		HungerP90:  hP90,

		FoodScent: sample.FoodScent,
		HomeScent: sample.HomeScent,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.digs = 0
	c.drops = 0
	c.climbs = 0
	c.foodEaten = 0
	c.spawned = 0
	c.moved = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
