package game

import (
	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/systems"
)

// The interaction API edits the world between steps. Every call validates
// bounds and reports whether anything changed.

// DigAt removes the granular cell at (x, y).
func (s *Session) DigAt(x, y int) bool {
	if !s.grid.IsGranular(x, y) {
		return false
	}
	s.grid.SetMaterial(x, y, grid.Air)
	s.sand.Wake(x, y)
	return true
}

// AddMaterial fills empty cells within radius of (x, y) with m. Cells where
// an ant stands are skipped so nobody is buried by the brush.
func (s *Session) AddMaterial(x, y, radius int, m grid.Material) int {
	if !s.grid.InBounds(x, y) || m == grid.Air {
		return 0
	}
	s.ants.SyncOccupancy()
	n := 0
	s.eachInRadius(x, y, radius, func(cx, cy int) {
		if !s.grid.IsPassable(cx, cy) || s.occ.Occupied(cx, cy) {
			return
		}
		s.grid.SetMaterial(cx, cy, m)
		s.sand.Wake(cx, cy)
		n++
	})
	return n
}

// RemoveMaterial clears granular cells within radius of (x, y). Stone is
// left in place.
func (s *Session) RemoveMaterial(x, y, radius int) int {
	if !s.grid.InBounds(x, y) {
		return 0
	}
	n := 0
	s.eachInRadius(x, y, radius, func(cx, cy int) {
		if s.DigAt(cx, cy) {
			n++
		}
	})
	return n
}

// SetMarker places the attraction point foragers seek.
func (s *Session) SetMarker(x, y int) bool {
	if !s.grid.InBounds(x, y) {
		return false
	}
	s.ants.Marker = &systems.Point{X: x, Y: y}
	return true
}

// ClearMarker removes the attraction point.
func (s *Session) ClearMarker() {
	s.ants.Marker = nil
}

// AddResourceItem drops one unit of food into the empty cell at (x, y).
func (s *Session) AddResourceItem(x, y int) bool {
	if !s.grid.IsPassable(x, y) {
		return false
	}
	s.ants.Food.Add(x, y, 1)
	return true
}

// eachInRadius visits in-bounds cells within a disc of the given radius.
func (s *Session) eachInRadius(x, y, radius int, fn func(cx, cy int)) {
	if radius < 0 {
		radius = 0
	}
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			cx, cy := x+dx, y+dy
			if s.grid.InBounds(cx, cy) {
				fn(cx, cy)
			}
		}
	}
}
