// Package game owns a simulation session: the grid, the ants, the fields
// and the tick order that ties them together, plus the windowed host.
package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/observer"
	"github.com/50thycal/ant-farm/systems"
	"github.com/50thycal/ant-farm/telemetry"
)

// Options holds runtime settings that are not part of the simulation config.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	OutputDir      string  // CSV telemetry output, empty disables
	SnapshotDir    string  // Autosave directory, empty disables
	Observer       *observer.Hub
	StatsCallback  func(telemetry.WindowStats)
}

// Session is one simulation instance. It exclusively owns its grid, active
// set and fields; nothing is shared between sessions.
type Session struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	world     *ecs.World
	antMap    *ecs.Map4[components.Position, components.Velocity, components.Ant, components.Cooldowns]
	antFilter *ecs.Filter4[components.Position, components.Velocity, components.Ant, components.Cooldowns]

	grid    *grid.Grid
	sand    *systems.SandSystem
	fields  *systems.PheromoneSystem
	occ     *systems.Occupancy
	ants    *systems.AntSystem
	nest    systems.Rect
	profile components.Profile

	tick     int32
	nextID   uint32
	stock    int // Food units eaten and not yet turned into ants
	antCount int

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Outputs
	hub         *observer.Hub
	snapshotDir string
}

// NewSession builds a fresh world from cfg: terrain, nest, food and the
// initial ants.
func NewSession(cfg *config.Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Refresh()
	g, err := grid.New(cfg.World.Width, cfg.World.Height)
	if err != nil {
		return nil, err
	}
	systems.GenerateTerrain(g, cfg, opts.Seed)

	s, err := newSession(cfg, g, opts)
	if err != nil {
		return nil, err
	}
	for _, it := range systems.PlaceFood(g, s.rng, cfg.World.FoodItems) {
		s.ants.Food.Add(it.X, it.Y, it.Amount)
	}
	s.spawnInitialAnts()
	return s, nil
}

// newSession wires the systems around an existing grid.
func newSession(cfg *config.Config, g *grid.Grid, opts Options) (*Session, error) {
	profile, ok := components.ParseProfile(cfg.World.Profile)
	if !ok {
		return nil, fmt.Errorf("%w: unknown profile %q", config.ErrInvalid, cfg.World.Profile)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Session{
		cfg:     cfg,
		rng:     rng,
		seed:    opts.Seed,
		world:   world,
		antMap:  ecs.NewMap4[components.Position, components.Velocity, components.Ant, components.Cooldowns](world),
		grid:    g,
		nest:    systems.NestRect(cfg),
		profile: profile,
		nextID:  1,

		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		hub:           opts.Observer,
		snapshotDir:   opts.SnapshotDir,
	}
	s.antFilter = ecs.NewFilter4[components.Position, components.Velocity, components.Ant, components.Cooldowns](world)

	s.sand = systems.NewSandSystem(g, rng, cfg.Sand.ActiveSet)
	s.fields = systems.NewPheromoneSystem(g.W, g.H, cfg.Pheromones.Fields)
	s.occ = systems.NewOccupancy(g.W, g.H)
	s.ants = systems.NewAntSystem(world, g, s.sand, s.fields, s.occ, rng, cfg)

	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}
	s.collector = telemetry.NewCollector(window, cfg.Derived.DT32)
	s.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}
	s.outputManager = om
	return s, nil
}

// Close releases output files.
func (s *Session) Close() error {
	return s.outputManager.Close()
}

// Step advances the simulation by dt seconds. Non-positive, NaN and
// infinite deltas are ignored.
func (s *Session) Step(dt float32) {
	if !(dt > 0) || math.IsInf(float64(dt), 0) {
		return
	}

	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseOccupancy)
	s.ants.SyncOccupancy()

	s.perfCollector.StartPhase(telemetry.PhaseSand)
	var blocker systems.Blocker
	if s.cfg.Sand.AgentAware {
		blocker = s.occ
	}
	s.collector.RecordSandMoves(s.sand.Step(blocker))

	s.perfCollector.StartPhase(telemetry.PhaseAnts)
	s.ants.Update(dt)
	ev := s.ants.Events
	s.collector.RecordAntEvents(ev.Digs, ev.Drops, ev.Climbs, ev.FoodEaten)
	s.stock += ev.FoodEaten

	s.perfCollector.StartPhase(telemetry.PhaseSources)
	s.emitScents()

	s.perfCollector.StartPhase(telemetry.PhaseFields)
	s.fields.Step(dt)

	s.perfCollector.StartPhase(telemetry.PhaseSpawn)
	s.spawnFromStock()

	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.publishFrame()
	s.autosave()

	s.perfCollector.EndTick()
}

// emitScents lays food scent on every food item and home scent on every
// open nest cell.
func (s *Session) emitScents() {
	pc := s.cfg.Pheromones
	if pc.FoodSource > 0 {
		for _, it := range s.ants.Food.Items {
			s.fields.Deposit(systems.FieldFood, it.X, it.Y, float32(pc.FoodSource))
		}
	}
	if pc.NestSource > 0 {
		for y := s.nest.Y; y < s.nest.Y+s.nest.H; y++ {
			for x := s.nest.X; x < s.nest.X+s.nest.W; x++ {
				if s.grid.IsPassable(x, y) {
					s.fields.Deposit(systems.FieldHome, x, y, float32(pc.NestSource))
				}
			}
		}
	}
}
