package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseOccupancy = "occupancy"
	PhaseSand      = "sand"
	PhaseAnts      = "ants"
	PhaseSources   = "sources"
	PhaseFields    = "fields"
	PhaseSpawn     = "spawn"
	PhaseTelemetry = "telemetry"
)

// Phases lists the step phases in execution order.
var Phases = []string{
	PhaseOccupancy, PhaseSand, PhaseAnts, PhaseSources,
	PhaseFields, PhaseSpawn, PhaseTelemetry,
}

// frameSmoothing weights the newest frame in the FPS moving average.
const frameSmoothing = 0.1

// PerfCollector times step phases over a ring of recent ticks.
// It is not safe for concurrent use.
type PerfCollector struct {
	size  int
	next  int
	count int

	ticks  []time.Duration            // tick durations, ring-indexed
	phases map[string][]time.Duration // per-phase durations, ring-indexed

	tickStart  time.Time
	phaseStart time.Time
	phase      string

	lastFrame time.Time
	frameAvg  time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
// Non-positive windows default to 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		size:   window,
		ticks:  make([]time.Duration, window),
		phases: make(map[string][]time.Duration),
	}
}

// StartTick begins timing a tick and clears the slot it will fill.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.phase = ""
	for _, ring := range p.phases {
		ring[p.next] = 0
	}
}

// StartPhase closes the running phase, if any, and opens the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase == "" {
		return
	}
	ring, ok := p.phases[p.phase]
	if !ok {
		ring = make([]time.Duration, p.size)
		p.phases[p.phase] = ring
	}
	ring[p.next] += now.Sub(p.phaseStart)
	p.phase = ""
}

// EndTick closes the last phase and commits the tick to the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.ticks[p.next] = now.Sub(p.tickStart)
	p.next = (p.next + 1) % p.size
	p.count = min(p.count+1, p.size)
}

// RecordFrame marks a presented frame. Frame time is a moving average.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		d := now.Sub(p.lastFrame)
		if p.frameAvg == 0 {
			p.frameAvg = d
		} else {
			p.frameAvg += time.Duration(frameSmoothing * float64(d-p.frameAvg))
		}
	}
	p.lastFrame = now
}

// PerfStats summarizes the collector window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, 0-100

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.phases)),
		PhasePct:      make(map[string]float64, len(p.phases)),
		FrameDuration: p.frameAvg,
	}
	if p.frameAvg > 0 {
		out.FPS = float64(time.Second) / float64(p.frameAvg)
	}
	if p.count == 0 {
		return out
	}

	// Slots past count are still zero, so the first count entries are the
	// filled ones until the ring wraps, and all of them afterwards.
	samples := make([]float64, p.count)
	for i := range samples {
		samples[i] = float64(p.ticks[i])
	}
	slices.Sort(samples)

	avg := stat.Mean(samples, nil)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(samples[0])
	out.MaxTickDuration = time.Duration(samples[len(samples)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, samples, nil))
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}

	for name, ring := range p.phases {
		var sum time.Duration
		for _, d := range ring[:p.count] {
			sum += d
		}
		pa := sum / time.Duration(p.count)
		out.PhaseAvg[name] = pa
		if avg > 0 {
			out.PhasePct[name] = float64(pa) / avg * 100
		}
	}
	return out
}

// LogStats logs the summary at info level, skipping idle phases.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Duration("avg_tick", s.AvgTickDuration),
		slog.Duration("p95_tick", s.P95TickDuration),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	OccupancyPct float64 `csv:"occupancy_pct"`
	SandPct      float64 `csv:"sand_pct"`
	AntsPct      float64 `csv:"ants_pct"`
	SourcesPct   float64 `csv:"sources_pct"`
	FieldsPct    float64 `csv:"fields_pct"`
	SpawnPct     float64 `csv:"spawn_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		OccupancyPct: s.PhasePct[PhaseOccupancy],
		SandPct:      s.PhasePct[PhaseSand],
		AntsPct:      s.PhasePct[PhaseAnts],
		SourcesPct:   s.PhasePct[PhaseSources],
		FieldsPct:    s.PhasePct[PhaseFields],
		SpawnPct:     s.PhasePct[PhaseSpawn],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
