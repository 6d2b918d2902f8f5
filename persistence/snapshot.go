// Package persistence saves and restores simulation state: a versioned
// snapshot document, a zstd file codec and a SQLite key-value store.
package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/50thycal/ant-farm/grid"
)

// SnapshotVersion is incremented when the format changes. Version 1
// documents (no fields, no per-ant profile) and version 2 documents (no
// in-progress ant state) still load.
const SnapshotVersion = 3

var (
	// ErrNotFound is returned when a key has no stored snapshot.
	ErrNotFound = errors.New("snapshot not found")
	// ErrVersion is returned for documents newer than this build understands.
	ErrVersion = errors.New("unsupported snapshot version")
)

// Snapshot holds the complete simulation state.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Rows encodes materials one string per row, one rune per cell.
	Rows []string `json:"rows"`
	// Nest lists the cell indices flagged as home region.
	Nest []int `json:"nest,omitempty"`

	Ants   []AntState   `json:"ants"`
	Food   []FoodState  `json:"food,omitempty"`
	Marker *PointState  `json:"marker,omitempty"`
	Fields []FieldState `json:"fields,omitempty"`

	Stock  int    `json:"stock,omitempty"`
	NextID uint32 `json:"next_id,omitempty"`
}

// AntState is one ant. Pointer fields are optional; missing values are
// filled from the profile defaults on restore.
type AntState struct {
	ID uint32  `json:"id"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`

	VX *float32 `json:"vx,omitempty"`
	VY *float32 `json:"vy,omitempty"`

	Profile    *string  `json:"profile,omitempty"`
	Mode       *string  `json:"mode,omitempty"`
	Facing     *int8    `json:"facing,omitempty"`
	Carry      *string  `json:"carry,omitempty"`
	HomeColumn *int     `json:"home_column,omitempty"`
	Hunger     *float32 `json:"hunger,omitempty"`
	Trail      *int32   `json:"trail,omitempty"`

	// In-progress state, version 3 on.
	ShaftTop       *int     `json:"shaft_top,omitempty"`
	ClimbRemaining *int32   `json:"climb_remaining,omitempty"`
	Target         *Target  `json:"target,omitempty"`
	DigAttempts    *int32   `json:"dig_attempts,omitempty"`
	DropAttempts   *int32   `json:"drop_attempts,omitempty"`
	CarryTime      *float32 `json:"carry_time,omitempty"`
	StepAccum      *float32 `json:"step_accum,omitempty"`
	WanderTimer    *float32 `json:"wander_timer,omitempty"`
	DigCooldown    *int32   `json:"dig_cooldown,omitempty"`
	MarkerReached  *bool    `json:"marker_reached,omitempty"`
}

// Target is an ant's dig cell or steering goal.
type Target struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Active bool    `json:"active"`
}

// FoodState is one food item.
type FoodState struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Amount int `json:"amount"`
}

// PointState is a cell coordinate.
type PointState struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FieldState holds one scalar field's values.
type FieldState struct {
	Name   string    `json:"name"`
	Values []float32 `json:"values"`
}

const materialRunes = ".sd#"

// EncodeRows converts a grid's materials into snapshot rows.
func EncodeRows(g *grid.Grid) []string {
	rows := make([]string, g.H)
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		b.Reset()
		for x := 0; x < g.W; x++ {
			b.WriteByte(materialRunes[g.MaterialAt(x, y)])
		}
		rows[y] = b.String()
	}
	return rows
}

// NestIndices lists the nest-flagged cells of g.
func NestIndices(g *grid.Grid) []int {
	var out []int
	for i, c := range g.Cells() {
		if c.Nest {
			out = append(out, i)
		}
	}
	return out
}

// Grid rebuilds the grid described by the snapshot.
func (s *Snapshot) Grid() (*grid.Grid, error) {
	g, err := grid.New(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	if len(s.Rows) != s.Height {
		return nil, fmt.Errorf("snapshot has %d rows, want %d", len(s.Rows), s.Height)
	}
	for y, row := range s.Rows {
		if len(row) != s.Width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), s.Width)
		}
		for x := 0; x < len(row); x++ {
			m := strings.IndexByte(materialRunes, row[x])
			if m < 0 {
				return nil, fmt.Errorf("row %d: unknown material %q", y, row[x])
			}
			g.SetMaterial(x, y, grid.Material(m))
		}
	}
	for _, i := range s.Nest {
		if i < 0 || i >= g.Len() {
			continue
		}
		x, y := g.Coords(i)
		c, _ := g.Get(x, y)
		c.Nest = true
		g.Set(x, y, c)
	}
	return g, nil
}

// Check rejects documents this build cannot load.
func (s *Snapshot) Check() error {
	if s.Version < 1 || s.Version > SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return nil
}
