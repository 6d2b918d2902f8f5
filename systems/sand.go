package systems

import (
	"math/rand"
	"slices"

	"github.com/50thycal/ant-farm/grid"
)

// SandSystem advances granular material one tick at a time: straight fall,
// then diagonal slide in a random preferred direction, then the other.
type SandSystem struct {
	g      *grid.Grid
	rng    *rand.Rand
	active *grid.ActiveSet

	useActive bool
	leftFirst bool // horizontal sweep direction for this tick

	order     []int32 // scratch copy of active indices, sorted per tick
	lastMoved int
}

// NewSandSystem creates the automaton. Every granular cell starts active.
func NewSandSystem(g *grid.Grid, rng *rand.Rand, useActiveSet bool) *SandSystem {
	s := &SandSystem{
		g:         g,
		rng:       rng,
		active:    grid.NewActiveSet(g.Len()),
		useActive: useActiveSet,
		order:     make([]int32, 0, 256),
		lastMoved: -1,
	}
	s.WakeAll()
	return s
}

// Step moves every eligible particle at most once. Cells occupied according
// to occ are treated as non-empty; occ may be nil. Returns particles moved.
func (s *SandSystem) Step(occ Blocker) int {
	s.leftFirst = !s.leftFirst
	moved := 0

	if s.useActive {
		s.order = append(s.order[:0], s.active.Indices()...)
		w := int32(s.g.W)
		leftFirst := s.leftFirst
		// Bottom row first, then by sweep direction within a row.
		slices.SortFunc(s.order, func(a, b int32) int {
			ya, yb := a/w, b/w
			if ya != yb {
				return int(yb - ya)
			}
			if leftFirst {
				return int(a - b)
			}
			return int(b - a)
		})
		for _, i := range s.order {
			x, y := s.g.Coords(int(i))
			if !s.g.IsGranular(x, y) {
				s.active.Remove(int(i))
				continue
			}
			if s.stepCell(x, y, occ) {
				moved++
			}
		}
	} else {
		for y := s.g.H - 1; y >= 0; y-- {
			for k := 0; k < s.g.W; k++ {
				x := k
				if !s.leftFirst {
					x = s.g.W - 1 - k
				}
				if !s.g.IsGranular(x, y) {
					continue
				}
				if s.stepCell(x, y, occ) {
					moved++
				}
			}
		}
	}

	s.lastMoved = moved
	return moved
}

// stepCell applies the move rules to the particle at (x, y).
func (s *SandSystem) stepCell(x, y int, occ Blocker) bool {
	blocked := false
	free := func(cx, cy int) bool {
		if !s.g.IsPassable(cx, cy) {
			return false
		}
		if occ != nil && occ.Occupied(cx, cy) {
			blocked = true
			return false
		}
		return true
	}

	if free(x, y+1) {
		s.move(x, y, x, y+1)
		return true
	}

	dir := 1
	if s.rng.Intn(2) == 0 {
		dir = -1
	}
	for _, d := range [2]int{dir, -dir} {
		// Both the diagonal and the lateral cell must be open so a particle
		// never slips through a corner.
		if free(x+d, y+1) && free(x+d, y) {
			s.move(x, y, x+d, y+1)
			return true
		}
	}

	// An ant in the way may step aside, so stay active while blocked by one.
	if s.useActive && !blocked && !s.belowActive(x, y) {
		s.active.Remove(s.g.Index(x, y))
	}
	return false
}

// belowActive reports whether any of the three cells beneath (x, y) is active.
func (s *SandSystem) belowActive(x, y int) bool {
	by := y + 1
	if by >= s.g.H {
		return false
	}
	for dx := -1; dx <= 1; dx++ {
		bx := x + dx
		if bx >= 0 && bx < s.g.W && s.active.Contains(s.g.Index(bx, by)) {
			return true
		}
	}
	return false
}

// move transfers the particle and updates the active set. The nest flag
// belongs to the cell, not the material, so it stays put.
func (s *SandSystem) move(x, y, nx, ny int) {
	m := s.g.MaterialAt(x, y)
	s.g.SetMaterial(x, y, grid.Air)
	s.g.SetMaterial(nx, ny, m)

	if !s.useActive {
		return
	}
	s.active.Remove(s.g.Index(x, y))
	s.active.Add(s.g.Index(nx, ny))
	for dx := -1; dx <= 1; dx++ {
		if s.g.IsGranular(x+dx, y-1) {
			s.active.Add(s.g.Index(x+dx, y-1))
		}
	}
}

// Wake marks granular cells in the 3x3 neighbourhood of (x, y) as active.
// Call after any external edit to the grid.
func (s *SandSystem) Wake(x, y int) {
	if !s.useActive {
		return
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if s.g.IsGranular(x+dx, y+dy) {
				s.active.Add(s.g.Index(x+dx, y+dy))
			}
		}
	}
}

// WakeAll marks every granular cell active.
func (s *SandSystem) WakeAll() {
	s.active.Clear()
	cells := s.g.Cells()
	for i := range cells {
		if cells[i].Material.IsGranular() {
			s.active.Add(i)
		}
	}
	s.lastMoved = -1
}

// ActiveCount returns the number of tracked cells. In full-scan mode it is
// the number of particles moved by the last step.
func (s *SandSystem) ActiveCount() int {
	if s.useActive {
		return s.active.Len()
	}
	if s.lastMoved < 0 {
		return 0
	}
	return s.lastMoved
}

// Settled reports whether no particle can move.
func (s *SandSystem) Settled() bool {
	if s.useActive {
		return s.active.Len() == 0
	}
	return s.lastMoved == 0
}

// IsActive reports whether the cell at (x, y) is tracked as movable.
func (s *SandSystem) IsActive(x, y int) bool {
	return s.g.InBounds(x, y) && s.active.Contains(s.g.Index(x, y))
}
