package game

import (
	"fmt"
	"log/slog"

	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/persistence"
)

// Snapshot captures the session as plain data.
func (s *Session) Snapshot() *persistence.Snapshot {
	snap := &persistence.Snapshot{
		Version: persistence.SnapshotVersion,
		Seed:    s.seed,
		Tick:    s.tick,
		Width:   s.grid.W,
		Height:  s.grid.H,
		Rows:    persistence.EncodeRows(s.grid),
		Nest:    persistence.NestIndices(s.grid),
		Ants:    make([]persistence.AntState, 0, s.antCount),
		Stock:   s.stock,
		NextID:  s.nextID,
	}

	_, hasMarker := s.Marker()
	markerGen := s.ants.MarkerGen()
	query := s.antFilter.Query()
	for query.Next() {
		pos, vel, ant, cd := query.Get()
		snap.Ants = append(snap.Ants, antState(pos, vel, ant, cd, hasMarker && ant.MarkerGen == markerGen))
	}

	for _, it := range s.ants.Food.Items {
		snap.Food = append(snap.Food, persistence.FoodState{X: it.X, Y: it.Y, Amount: it.Amount})
	}
	if m, ok := s.Marker(); ok {
		snap.Marker = &persistence.PointState{X: m.X, Y: m.Y}
	}
	for _, f := range s.fields.Fields() {
		values := make([]float32, len(f.Values))
		copy(values, f.Values)
		snap.Fields = append(snap.Fields, persistence.FieldState{Name: f.Name, Values: values})
	}
	return snap
}

// antState copies every ant field into the stored form.
func antState(pos *components.Position, vel *components.Velocity, ant *components.Ant, cd *components.Cooldowns, reached bool) persistence.AntState {
	profile := ant.Profile.String()
	mode := ant.Mode.String()
	carry := ant.Carry.String()
	return persistence.AntState{
		ID:         ant.ID,
		X:          pos.X,
		Y:          pos.Y,
		VX:         ptr(vel.X),
		VY:         ptr(vel.Y),
		Profile:    &profile,
		Mode:       &mode,
		Facing:     ptr(ant.Facing),
		Carry:      &carry,
		HomeColumn: ptr(ant.HomeColumn),
		Hunger:     ptr(ant.Hunger),
		Trail:      ptr(cd.Trail),

		ShaftTop:       ptr(ant.ShaftTop),
		ClimbRemaining: ptr(ant.ClimbRemaining),
		Target:         &persistence.Target{X: ant.TargetX, Y: ant.TargetY, Active: ant.HasTarget},
		DigAttempts:    ptr(ant.DigAttempts),
		DropAttempts:   ptr(ant.DropAttempts),
		CarryTime:      ptr(ant.CarryTime),
		StepAccum:      ptr(ant.StepAccum),
		WanderTimer:    ptr(ant.WanderTimer),
		DigCooldown:    ptr(cd.Dig),
		MarkerReached:  ptr(reached),
	}
}

func ptr[T any](v T) *T { return &v }

// Restore builds a session from a snapshot. Ant fields the snapshot lacks
// are filled with the defaults of the ant's profile; a missing profile
// means the configured one. opts.Seed of zero reuses the snapshot seed.
func Restore(cfg *config.Config, snap *persistence.Snapshot, opts Options) (*Session, error) {
	if err := snap.Check(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Refresh()
	g, err := snap.Grid()
	if err != nil {
		return nil, fmt.Errorf("restoring grid: %w", err)
	}
	if opts.Seed == 0 {
		opts.Seed = snap.Seed
	}

	s, err := newSession(cfg, g, opts)
	if err != nil {
		return nil, err
	}
	s.tick = snap.Tick
	s.stock = snap.Stock

	for _, fs := range snap.Food {
		if g.InBounds(fs.X, fs.Y) {
			s.ants.Food.Add(fs.X, fs.Y, fs.Amount)
		}
	}
	if snap.Marker != nil {
		s.SetMarker(snap.Marker.X, snap.Marker.Y)
	}
	for _, fs := range snap.Fields {
		values := s.fields.Values(fs.Name)
		if values == nil || len(values) != len(fs.Values) {
			slog.Warn("skipping field from snapshot", "field", fs.Name)
			continue
		}
		copy(values, fs.Values)
	}

	var maxID uint32
	for _, as := range snap.Ants {
		ant, vel, cd := s.hydrateAnt(as)
		s.placeAnt(ant, vel, cd, as.X, as.Y)
		maxID = max(maxID, as.ID)
	}
	s.nextID = max(snap.NextID, maxID+1)

	slog.Info("session restored", "tick", s.tick, "ants", s.antCount, "version", snap.Version)
	return s, nil
}

// hydrateAnt converts a stored ant, defaulting every missing field.
func (s *Session) hydrateAnt(as persistence.AntState) (components.Ant, components.Velocity, components.Cooldowns) {
	ant := components.Ant{ID: as.ID, Profile: s.profile, Facing: 1, Carry: grid.Air}
	if as.Profile != nil {
		if p, ok := components.ParseProfile(*as.Profile); ok {
			ant.Profile = p
		}
	}
	if as.Carry != nil {
		if m, err := grid.ParseMaterial(*as.Carry); err == nil && (m == grid.Air || m.IsGranular()) {
			ant.Carry = m
		}
	}
	ant.Mode = carryMode(ant.Carry)
	if as.Mode != nil {
		if m, ok := components.ParseMode(*as.Mode); ok {
			ant.Mode = m
		}
	}
	if as.Facing != nil && (*as.Facing == -1 || *as.Facing == 1) {
		ant.Facing = *as.Facing
	}

	s.hydrateProfile(&ant)
	if as.HomeColumn != nil {
		ant.HomeColumn = max(0, min(s.grid.W-1, *as.HomeColumn))
	}
	if as.Hunger != nil {
		ant.Hunger = max(0, min(1, *as.Hunger))
	}
	s.hydrateProgress(&ant, as)

	var vel components.Velocity
	if as.VX != nil {
		vel.X = *as.VX
	}
	if as.VY != nil {
		vel.Y = *as.VY
	}
	var cd components.Cooldowns
	if as.Trail != nil {
		cd.Trail = *as.Trail
	}
	if as.DigCooldown != nil {
		cd.Dig = max(0, *as.DigCooldown)
	}
	return ant, vel, cd
}

// hydrateProgress restores in-progress state. When a mode's state is
// missing the ant restarts from its carry mode instead of acting on zeroed
// targets.
func (s *Session) hydrateProgress(ant *components.Ant, as persistence.AntState) {
	if as.ShaftTop != nil {
		ant.ShaftTop = max(0, min(s.grid.H-1, *as.ShaftTop))
	} else if ant.Profile == components.ProfileTunnel {
		ant.ShaftTop = s.ants.SurfaceRef(ant.HomeColumn)
	}

	if as.Target != nil {
		ant.TargetX, ant.TargetY, ant.HasTarget = as.Target.X, as.Target.Y, as.Target.Active
	} else if ant.Mode == components.ModeDig {
		ant.Mode = carryMode(ant.Carry)
	}

	if as.ClimbRemaining != nil {
		ant.ClimbRemaining = max(0, *as.ClimbRemaining)
	} else if ant.Mode == components.ModeClimb {
		ant.Mode = carryMode(ant.Carry)
	}

	if as.DigAttempts != nil {
		ant.DigAttempts = max(0, *as.DigAttempts)
	}
	if as.DropAttempts != nil {
		ant.DropAttempts = max(0, *as.DropAttempts)
	}
	if as.CarryTime != nil {
		ant.CarryTime = max(0, *as.CarryTime)
	}
	if as.StepAccum != nil {
		ant.StepAccum = max(0, min(1, *as.StepAccum))
	}
	if as.WanderTimer != nil {
		ant.WanderTimer = *as.WanderTimer
	}
	if as.MarkerReached != nil && *as.MarkerReached {
		ant.MarkerGen = s.ants.MarkerGen()
	}
}

// placeAnt creates a restored ant, keeping its ID and clamping its position.
func (s *Session) placeAnt(ant components.Ant, vel components.Velocity, cd components.Cooldowns, x, y float32) {
	pos := components.Position{
		X: max(0, min(float32(s.grid.W)-1e-3, x)),
		Y: max(0, min(float32(s.grid.H)-1e-3, y)),
	}
	s.antMap.NewEntity(&pos, &vel, &ant, &cd)
	s.occ.Insert(pos.X, pos.Y)
	s.antCount++
}

func carryMode(m grid.Material) components.Mode {
	if m != grid.Air {
		return components.ModeCarry
	}
	return components.ModeWander
}
