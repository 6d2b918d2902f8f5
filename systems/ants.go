package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/grid"
)

// edgeEpsilon keeps clamped positions strictly inside [0, W) and [0, H).
const edgeEpsilon = 1e-3

// AntEvents counts what ants did during one Update.
type AntEvents struct {
	Digs      int
	Drops     int
	Climbs    int
	FoodEaten int
}

// AntSystem advances every ant's state machine and movement. Failed digs,
// drops and climbs never surface as errors: the ant falls back to a
// default transition and the rest of the tick proceeds.
type AntSystem struct {
	filter *ecs.Filter4[components.Position, components.Velocity, components.Ant, components.Cooldowns]

	g      *grid.Grid
	sand   *SandSystem
	fields *PheromoneSystem
	occ    *Occupancy
	rng    *rand.Rand
	cfg    config.AntsConfig
	pher   config.PheromonesConfig

	Food   *FoodSet
	Marker *Point
	Events AntEvents

	seenMarker *Point
	markerGen  uint32
}

// NewAntSystem creates the agent engine over the shared grid and fields.
func NewAntSystem(w *ecs.World, g *grid.Grid, sand *SandSystem, fields *PheromoneSystem, occ *Occupancy, rng *rand.Rand, cfg *config.Config) *AntSystem {
	return &AntSystem{
		filter: ecs.NewFilter4[components.Position, components.Velocity, components.Ant, components.Cooldowns](w),
		g:      g,
		sand:   sand,
		fields: fields,
		occ:    occ,
		rng:    rng,
		cfg:    cfg.Ants,
		pher:   cfg.Pheromones,
		Food:   &FoodSet{},
	}
}

// MarkerGen returns the generation of the current marker. It advances
// whenever Marker is replaced, so ants that reached an earlier marker are
// drawn to the new one.
func (s *AntSystem) MarkerGen() uint32 {
	if s.Marker != s.seenMarker {
		s.seenMarker = s.Marker
		s.markerGen++
	}
	return s.markerGen
}

// markerFor returns the marker if ant has not reached it yet.
func (s *AntSystem) markerFor(ant *components.Ant) *Point {
	if s.Marker == nil || ant.MarkerGen == s.MarkerGen() {
		return nil
	}
	return s.Marker
}

// SyncOccupancy rebuilds the occupancy grid from current ant positions.
func (s *AntSystem) SyncOccupancy() {
	s.occ.Clear()
	query := s.filter.Query()
	for query.Next() {
		pos, _, _, _ := query.Get()
		s.occ.Insert(pos.X, pos.Y)
	}
}

// Update advances all ants by dt seconds.
func (s *AntSystem) Update(dt float32) {
	s.Events = AntEvents{}
	if dt <= 0 {
		return
	}

	query := s.filter.Query()
	for query.Next() {
		pos, vel, ant, cd := query.Get()

		switch ant.Profile {
		case components.ProfileForager:
			s.updateForager(pos, vel, ant, cd, dt)
		default:
			if ant.Carrying() {
				ant.CarryTime += dt
			}
			steps := s.takeSteps(ant, dt)
			for i := 0; i < steps; i++ {
				if ant.Profile == components.ProfileTunnel {
					s.stepTunnel(pos, ant, cd)
				} else {
					s.stepSandbox(pos, ant)
				}
			}
		}

		s.clampPosition(pos, vel)
	}
}

// takeSteps converts elapsed time into whole grid steps for one ant.
func (s *AntSystem) takeSteps(ant *components.Ant, dt float32) int {
	ant.StepAccum += dt * float32(s.cfg.StepsPerSecond)
	n := int(ant.StepAccum)
	ant.StepAccum -= float32(n)
	if s.cfg.MaxStepsPerTick > 0 && n > s.cfg.MaxStepsPerTick {
		n = s.cfg.MaxStepsPerTick
	}
	return n
}

// clampPosition keeps the ant inside the grid, reflecting velocity off the
// boundary.
func (s *AntSystem) clampPosition(pos *components.Position, vel *components.Velocity) {
	maxX := float32(s.g.W) - edgeEpsilon
	maxY := float32(s.g.H) - edgeEpsilon
	if pos.X < 0 {
		pos.X = 0
		vel.X = -vel.X
	} else if pos.X > maxX {
		pos.X = maxX
		vel.X = -vel.X
	}
	if pos.Y < 0 {
		pos.Y = 0
		vel.Y = -vel.Y
	} else if pos.Y > maxY {
		pos.Y = maxY
		vel.Y = -vel.Y
	}
}

// moveTo places the ant at the center of cell (x, y).
func (s *AntSystem) moveTo(pos *components.Position, x, y int) {
	nx, ny := float32(x)+0.5, float32(y)+0.5
	s.occ.Move(pos.X, pos.Y, nx, ny)
	pos.X, pos.Y = nx, ny
}

// dig removes the granular cell at (x, y) into the ant's load.
func (s *AntSystem) dig(ant *components.Ant, x, y int) bool {
	if ant.Carrying() || !s.g.IsGranular(x, y) {
		return false
	}
	ant.Carry = s.g.MaterialAt(x, y)
	s.g.SetMaterial(x, y, grid.Air)
	s.sand.Wake(x, y)
	ant.CarryTime = 0
	ant.DigAttempts = 0
	s.Events.Digs++
	return true
}

// deposit places the ant's load at (x, y) if the cell is empty and free of ants.
func (s *AntSystem) deposit(ant *components.Ant, x, y int) bool {
	if !ant.Carrying() || !s.g.IsPassable(x, y) || s.occ.Occupied(x, y) {
		return false
	}
	s.g.SetMaterial(x, y, ant.Carry)
	s.sand.Wake(x, y)
	ant.Carry = grid.Air
	ant.CarryTime = 0
	ant.DropAttempts = 0
	s.Events.Drops++
	return true
}

// tryDrop deposits into the first empty cell among forward, above and
// behind. Once the ant has failed max_drop_attempts times or held its load
// past carry_timeout, every neighbour is considered.
func (s *AntSystem) tryDrop(pos *components.Position, ant *components.Ant) bool {
	if !ant.Carrying() {
		return true
	}
	cx, cy := pos.Cell()
	f := int(ant.Facing)
	if f == 0 {
		f = 1
	}
	for _, c := range [3][2]int{{cx + f, cy}, {cx, cy - 1}, {cx - f, cy}} {
		if s.deposit(ant, c[0], c[1]) {
			return true
		}
	}
	if int(ant.DropAttempts) >= s.cfg.MaxDropAttempts || s.carryExpired(ant) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if (dx != 0 || dy != 0) && s.deposit(ant, cx+dx, cy+dy) {
					return true
				}
			}
		}
	}
	ant.DropAttempts++
	return false
}

// tryClimb scans upward for a row where both the ant's column and the
// forward column are open, stopping at a ceiling in the ant's own column.
func (s *AntSystem) tryClimb(pos *components.Position, ant *components.Ant) bool {
	cx, cy := pos.Cell()
	fx := cx + int(ant.Facing)
	for h := 1; h <= s.cfg.ClimbMax; h++ {
		row := cy - h
		if !s.g.IsPassable(cx, row) {
			return false
		}
		if s.g.IsPassable(fx, row) {
			ant.ClimbRemaining = int32(h)
			ant.Mode = components.ModeClimb
			s.Events.Climbs++
			return true
		}
	}
	return false
}

// stepClimb rises one cell, then steps forward once the climb height is reached.
func (s *AntSystem) stepClimb(pos *components.Position, ant *components.Ant) {
	cx, cy := pos.Cell()
	if ant.ClimbRemaining > 0 {
		if s.g.IsPassable(cx, cy-1) {
			s.moveTo(pos, cx, cy-1)
			ant.ClimbRemaining--
			return
		}
		// Ceiling closed in mid-climb.
		ant.ClimbRemaining = 0
		ant.Facing = -ant.Facing
		ant.Mode = surfaceMode(ant)
		return
	}
	fx := cx + int(ant.Facing)
	if s.g.IsPassable(fx, cy) {
		s.moveTo(pos, fx, cy)
	} else {
		ant.Facing = -ant.Facing
	}
	ant.Mode = surfaceMode(ant)
}

// unbury frees an ant whose cell was filled, preferring to squeeze upward.
// An empty-handed ant with nowhere to go takes the cell it is stuck in.
func (s *AntSystem) unbury(pos *components.Position, ant *components.Ant) {
	cx, cy := pos.Cell()
	for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
		if s.g.IsPassable(cx+d[0], cy+d[1]) {
			s.moveTo(pos, cx+d[0], cy+d[1])
			return
		}
	}
	s.dig(ant, cx, cy)
}

func (s *AntSystem) carryExpired(ant *components.Ant) bool {
	return ant.Carrying() && s.cfg.CarryTimeout > 0 && float64(ant.CarryTime) >= s.cfg.CarryTimeout
}

// surfaceMode is the walking mode matching the ant's load.
func surfaceMode(ant *components.Ant) components.Mode {
	if ant.Carrying() {
		return components.ModeCarry
	}
	return components.ModeWander
}

// openSky reports whether (x, y) and every cell above it are empty.
func (s *AntSystem) openSky(x, y int) bool {
	if x < 0 || x >= s.g.W || y < 0 || y >= s.g.H {
		return false
	}
	return s.g.SurfaceRow(x) > y
}

func dirTo(from, to int) int8 {
	if to < from {
		return -1
	}
	return 1
}
