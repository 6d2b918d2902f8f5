package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/grid"
)

// nestAttempts bounds the random search for an open nest cell.
const nestAttempts = 32

// spawnInitialAnts creates the starting population of the default profile.
func (s *Session) spawnInitialAnts() {
	for i := 0; i < s.cfg.World.InitialAnts; i++ {
		var x, y float32
		var ok bool
		if s.profile == components.ProfileForager {
			x, y, ok = s.nestSpot()
		}
		if !ok {
			x, y, ok = s.surfaceSpot(s.rng.Intn(s.grid.W))
		}
		if !ok {
			continue
		}
		s.spawnAnt(s.newAnt(s.profile), x, y)
	}
	slog.Info("colony founded", "ants", s.antCount, "profile", s.profile.String(), "food", s.ants.Food.Len())
}

// spawnFromStock turns eaten food into new ants in the nest.
func (s *Session) spawnFromStock() {
	pc := s.cfg.Population
	if pc.SpawnThreshold <= 0 {
		return
	}
	for s.stock >= pc.SpawnThreshold && (pc.MaxAnts <= 0 || s.antCount < pc.MaxAnts) {
		x, y, ok := s.nestSpot()
		if !ok {
			x, y, ok = s.surfaceSpot(s.rng.Intn(s.grid.W))
		}
		if !ok {
			return
		}
		s.stock -= pc.SpawnThreshold
		s.spawnAnt(s.newAnt(s.profile), x, y)
		s.collector.RecordSpawn()
	}
}

// newAnt returns an ant with the defaults of its profile.
func (s *Session) newAnt(p components.Profile) components.Ant {
	ant := components.Ant{
		Profile: p,
		Mode:    components.ModeWander,
		Facing:  1,
		Carry:   grid.Air,
	}
	if s.rng.Intn(2) == 0 {
		ant.Facing = -1
	}
	s.hydrateProfile(&ant)
	return ant
}

// hydrateProfile fills profile-specific fields that have no neutral zero.
func (s *Session) hydrateProfile(ant *components.Ant) {
	switch ant.Profile {
	case components.ProfileTunnel:
		ant.HomeColumn = s.homeColumn()
	case components.ProfileForager:
		ant.WanderTimer = float32(s.cfg.Ants.WanderInterval) * s.rng.Float32()
	}
}

// homeColumn picks a shaft column above the nest, or anywhere without one.
func (s *Session) homeColumn() int {
	if s.nest.W > 0 {
		return s.nest.X + s.rng.Intn(s.nest.W)
	}
	return s.rng.Intn(s.grid.W)
}

// spawnAnt creates the entity and assigns the next ID.
func (s *Session) spawnAnt(ant components.Ant, x, y float32) ecs.Entity {
	ant.ID = s.nextID
	s.nextID++

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	cd := components.Cooldowns{}
	e := s.antMap.NewEntity(&pos, &vel, &ant, &cd)
	s.occ.Insert(x, y)
	s.antCount++
	return e
}

// surfaceSpot returns the center of the open cell resting on column x's surface.
func (s *Session) surfaceSpot(x int) (float32, float32, bool) {
	y := s.grid.SurfaceRow(x) - 1
	if y < 0 || y >= s.grid.H {
		return 0, 0, false
	}
	return float32(x) + 0.5, float32(y) + 0.5, true
}

// nestSpot returns the center of a random open nest cell.
func (s *Session) nestSpot() (float32, float32, bool) {
	if s.nest.W <= 0 || s.nest.H <= 0 {
		return 0, 0, false
	}
	for i := 0; i < nestAttempts; i++ {
		x := s.nest.X + s.rng.Intn(s.nest.W)
		y := s.nest.Y + s.rng.Intn(s.nest.H)
		if s.grid.IsPassable(x, y) {
			return float32(x) + 0.5, float32(y) + 0.5, true
		}
	}
	return 0, 0, false
}
