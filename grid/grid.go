// Package grid holds the cell model shared by the sand automaton, the ants
// and the renderers. The world is closed: anything outside the grid reads as
// solid and can never be entered.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a grid is created with a non-positive dimension.
var ErrInvalidSize = errors.New("grid: width and height must be positive")

// Material is the substance occupying a cell.
type Material uint8

const (
	Air   Material = iota // empty, passable
	Sand                  // granular
	Dirt                  // granular
	Stone                 // immovable
)

// IsGranular reports whether the material is subject to falling and sliding.
func (m Material) IsGranular() bool {
	return m == Sand || m == Dirt
}

// IsSolid reports whether the material blocks movement.
func (m Material) IsSolid() bool {
	return m != Air
}

func (m Material) String() string {
	switch m {
	case Air:
		return "air"
	case Sand:
		return "sand"
	case Dirt:
		return "dirt"
	case Stone:
		return "stone"
	}
	return fmt.Sprintf("material(%d)", uint8(m))
}

// ParseMaterial converts a config name into a Material.
func ParseMaterial(s string) (Material, error) {
	switch s {
	case "air", "":
		return Air, nil
	case "sand":
		return Sand, nil
	case "dirt":
		return Dirt, nil
	case "stone":
		return Stone, nil
	}
	return Air, fmt.Errorf("unknown material %q", s)
}

// Cell is one grid record.
type Cell struct {
	Material Material
	Nest     bool // part of the home region
}

// Grid is a fixed-size row-major array of cells indexed as y*W+x.
// Row 0 is the top of the world; y grows downward.
type Grid struct {
	W, H  int
	cells []Cell
}

// New allocates an all-air grid.
func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, w, h)
	}
	return &Grid{W: w, H: h, cells: make([]Cell, w*h)}, nil
}

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Index returns the linear index for in-bounds coordinates.
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Coords is the inverse of Index.
func (g *Grid) Coords(i int) (x, y int) { return i % g.W, i / g.W }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Get returns the cell at (x, y) and false when out of bounds.
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return g.cells[y*g.W+x], true
}

// Set replaces the cell at (x, y). Out-of-bounds writes are dropped.
func (g *Grid) Set(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.W+x] = c
}

// MaterialAt returns the material at (x, y); outside the grid is Stone.
func (g *Grid) MaterialAt(x, y int) Material {
	if !g.InBounds(x, y) {
		return Stone
	}
	return g.cells[y*g.W+x].Material
}

// SetMaterial changes only the material, keeping the zone flag.
func (g *Grid) SetMaterial(x, y int, m Material) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.W+x].Material = m
}

// IsSolid reports whether (x, y) blocks movement. Out of bounds is solid.
func (g *Grid) IsSolid(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.cells[y*g.W+x].Material.IsSolid()
}

// IsPassable reports whether (x, y) is empty. Out of bounds is not passable.
func (g *Grid) IsPassable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y*g.W+x].Material == Air
}

// IsGranular reports whether (x, y) holds diggable, falling material.
func (g *Grid) IsGranular(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y*g.W+x].Material.IsGranular()
}

// IsNest reports whether (x, y) is inside the home region.
func (g *Grid) IsNest(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y*g.W+x].Nest
}

// Cells exposes the backing slice for read-only iteration by renderers and
// serializers.
func (g *Grid) Cells() []Cell { return g.cells }

// CountGranular returns the number of granular cells.
func (g *Grid) CountGranular() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Material.IsGranular() {
			n++
		}
	}
	return n
}

// SurfaceRow returns the first solid row in column x scanning from the top,
// or H when the column is open to the floor.
func (g *Grid) SurfaceRow(x int) int {
	if x < 0 || x >= g.W {
		return 0
	}
	for y := 0; y < g.H; y++ {
		if g.cells[y*g.W+x].Material.IsSolid() {
			return y
		}
	}
	return g.H
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}
