package game

import (
	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/observer"
	"github.com/50thycal/ant-farm/persistence"
	"github.com/50thycal/ant-farm/systems"
	"github.com/50thycal/ant-farm/telemetry"
)

// AntView is a read-only copy of one ant for renderers and tests.
type AntView struct {
	ID         uint32
	X, Y       float32
	VX, VY     float32
	Profile    components.Profile
	Mode       components.Mode
	Facing     int8
	Carry      grid.Material
	Hunger     float32
	HomeColumn int
}

// Carrying reports whether the ant holds a material unit.
func (v AntView) Carrying() bool { return v.Carry != grid.Air }

// Grid returns the session grid. Callers must not modify it mid-tick.
func (s *Session) Grid() *grid.Grid { return s.grid }

// Config returns the configuration the session was built from.
func (s *Session) Config() *config.Config { return s.cfg }

// Tick returns the number of completed steps.
func (s *Session) Tick() int32 { return s.tick }

// Seed returns the seed the session's random source started from.
func (s *Session) Seed() int64 { return s.seed }

// AntCount returns the number of ants.
func (s *Session) AntCount() int { return s.antCount }

// Stock returns food eaten but not yet turned into ants.
func (s *Session) Stock() int { return s.stock }

// Nest returns the home region rectangle.
func (s *Session) Nest() systems.Rect { return s.nest }

// Food returns the food items present.
func (s *Session) Food() []systems.FoodItem { return s.ants.Food.Items }

// Marker returns the current marker, if any.
func (s *Session) Marker() (systems.Point, bool) {
	if s.ants.Marker == nil {
		return systems.Point{}, false
	}
	return *s.ants.Marker, true
}

// Field returns the values of the named field, or nil.
func (s *Session) Field(name string) []float32 { return s.fields.Values(name) }

// FieldNames lists the configured fields in order.
func (s *Session) FieldNames() []string {
	fields := s.fields.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// ActiveCells returns the number of sand cells still awake.
func (s *Session) ActiveCells() int { return s.sand.ActiveCount() }

// EachAnt calls fn for every ant.
func (s *Session) EachAnt(fn func(AntView)) {
	query := s.antFilter.Query()
	for query.Next() {
		pos, vel, ant, _ := query.Get()
		fn(AntView{
			ID:         ant.ID,
			X:          pos.X,
			Y:          pos.Y,
			VX:         vel.X,
			VY:         vel.Y,
			Profile:    ant.Profile,
			Mode:       ant.Mode,
			Facing:     ant.Facing,
			Carry:      ant.Carry,
			Hunger:     ant.Hunger,
			HomeColumn: ant.HomeColumn,
		})
	}
}

// Ants returns a copy of every ant.
func (s *Session) Ants() []AntView {
	out := make([]AntView, 0, s.antCount)
	s.EachAnt(func(v AntView) { out = append(out, v) })
	return out
}

// MaterialTotal counts granular cells on the grid plus units carried by ants.
// It stays constant across steps unless the interaction API adds or removes
// material.
func (s *Session) MaterialTotal() int {
	total := s.grid.CountGranular()
	s.EachAnt(func(v AntView) {
		if v.Carrying() {
			total++
		}
	})
	return total
}

// Frame builds the observer view of the current state.
func (s *Session) Frame() observer.Frame {
	f := observer.Frame{
		Tick:   s.tick,
		Width:  s.grid.W,
		Height: s.grid.H,
		Rows:   persistence.EncodeRows(s.grid),
		Ants:   make([]observer.AntFrame, 0, s.antCount),
	}
	s.EachAnt(func(v AntView) {
		af := observer.AntFrame{
			ID:      v.ID,
			X:       v.X,
			Y:       v.Y,
			Mode:    v.Mode.String(),
			Profile: v.Profile.String(),
		}
		if v.Carrying() {
			af.Carry = v.Carry.String()
		}
		f.Ants = append(f.Ants, af)
	})
	for _, it := range s.ants.Food.Items {
		f.Food = append(f.Food, observer.FoodFrame{X: it.X, Y: it.Y, Amount: it.Amount})
	}
	if m, ok := s.Marker(); ok {
		f.Marker = &[2]int{m.X, m.Y}
	}
	return f
}

// IsActive reports whether the sand cell at (x, y) is still settling.
func (s *Session) IsActive(x, y int) bool { return s.sand.IsActive(x, y) }

// Perf returns the session's tick timing collector.
func (s *Session) Perf() *telemetry.PerfCollector { return s.perfCollector }

// FindAnt returns the ant with the given ID.
func (s *Session) FindAnt(id uint32) (AntView, bool) {
	var found AntView
	ok := false
	s.EachAnt(func(v AntView) {
		if !ok && v.ID == id {
			found, ok = v, true
		}
	})
	return found, ok
}
