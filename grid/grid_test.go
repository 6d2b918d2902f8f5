package grid

import (
	"errors"
	"testing"
)

func TestNewRejectsInvalidSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h)
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("New(%d, %d) error = %v, want ErrInvalidSize", tt.w, tt.h, err)
			}
		})
	}
}

func TestBoundaryAsymmetry(t *testing.T) {
	g, err := New(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	outside := [][2]int{{-1, 0}, {4, 0}, {0, -1}, {0, 3}}
	for _, p := range outside {
		if !g.IsSolid(p[0], p[1]) {
			t.Errorf("IsSolid(%d,%d) = false, want true outside grid", p[0], p[1])
		}
		if g.IsPassable(p[0], p[1]) {
			t.Errorf("IsPassable(%d,%d) = true, want false outside grid", p[0], p[1])
		}
		if _, ok := g.Get(p[0], p[1]); ok {
			t.Errorf("Get(%d,%d) reported in bounds", p[0], p[1])
		}
	}

	// Out-of-bounds writes are dropped without panicking.
	g.Set(10, 10, Cell{Material: Sand})
	g.SetMaterial(-3, 1, Dirt)
	if n := g.CountGranular(); n != 0 {
		t.Errorf("expected no granular cells after OOB writes, got %d", n)
	}
}

func TestSolidityMatchesMaterial(t *testing.T) {
	g, _ := New(4, 1)
	g.SetMaterial(0, 0, Air)
	g.SetMaterial(1, 0, Sand)
	g.SetMaterial(2, 0, Dirt)
	g.SetMaterial(3, 0, Stone)

	for x := 0; x < 4; x++ {
		m := g.MaterialAt(x, 0)
		if g.IsSolid(x, 0) == g.IsPassable(x, 0) {
			t.Errorf("cell %d (%s): solid and passable must be exclusive", x, m)
		}
		if g.IsSolid(x, 0) != (m.IsGranular() || m == Stone) {
			t.Errorf("cell %d (%s): solid=%v", x, m, g.IsSolid(x, 0))
		}
	}
	if !g.IsGranular(1, 0) || !g.IsGranular(2, 0) || g.IsGranular(3, 0) {
		t.Error("granular classification wrong")
	}
}

func TestSetKeepsNestFlagOnMaterialChange(t *testing.T) {
	g, _ := New(2, 2)
	g.Set(1, 1, Cell{Material: Air, Nest: true})
	g.SetMaterial(1, 1, Sand)
	c, _ := g.Get(1, 1)
	if !c.Nest || c.Material != Sand {
		t.Errorf("got %+v, want nest sand", c)
	}
}

func TestSurfaceRow(t *testing.T) {
	g, _ := New(3, 5)
	g.SetMaterial(0, 2, Dirt)
	g.SetMaterial(1, 4, Stone)

	if got := g.SurfaceRow(0); got != 2 {
		t.Errorf("SurfaceRow(0) = %d, want 2", got)
	}
	if got := g.SurfaceRow(1); got != 4 {
		t.Errorf("SurfaceRow(1) = %d, want 4", got)
	}
	if got := g.SurfaceRow(2); got != 5 {
		t.Errorf("SurfaceRow(2) = %d, want 5 (open column)", got)
	}
}

func TestIndexCoordsRoundtrip(t *testing.T) {
	g, _ := New(7, 5)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			gx, gy := g.Coords(g.Index(x, y))
			if gx != x || gy != y {
				t.Fatalf("roundtrip (%d,%d) -> (%d,%d)", x, y, gx, gy)
			}
		}
	}
}

func TestParseMaterial(t *testing.T) {
	for _, m := range []Material{Air, Sand, Dirt, Stone} {
		got, err := ParseMaterial(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMaterial(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMaterial("lava"); err == nil {
		t.Error("expected error for unknown material")
	}
}
