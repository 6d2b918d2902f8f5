package systems

import (
	"math/rand"
	"testing"

	"github.com/50thycal/ant-farm/grid"
)

// cellBlocker marks a fixed set of cells as occupied.
type cellBlocker map[[2]int]bool

func (b cellBlocker) Occupied(x, y int) bool { return b[[2]int{x, y}] }

func newSandGrid(t testing.TB, w, h int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSandFallsStraightDown(t *testing.T) {
	for _, active := range []bool{true, false} {
		name := "full scan"
		if active {
			name = "active set"
		}
		t.Run(name, func(t *testing.T) {
			g := newSandGrid(t, 3, 3)
			g.SetMaterial(1, 1, grid.Sand)
			s := NewSandSystem(g, rand.New(rand.NewSource(1)), active)

			if moved := s.Step(nil); moved != 1 {
				t.Fatalf("Step moved %d particles, want 1", moved)
			}
			if g.MaterialAt(1, 1) != grid.Air {
				t.Errorf("center = %v, want air", g.MaterialAt(1, 1))
			}
			if g.MaterialAt(1, 2) != grid.Sand {
				t.Errorf("cell below = %v, want sand", g.MaterialAt(1, 2))
			}
		})
	}
}

func TestSandSlidesDiagonally(t *testing.T) {
	g := newSandGrid(t, 3, 3)
	g.SetMaterial(1, 2, grid.Stone)
	g.SetMaterial(1, 1, grid.Sand)
	s := NewSandSystem(g, rand.New(rand.NewSource(7)), true)

	s.Step(nil)

	if g.MaterialAt(1, 1) != grid.Air {
		t.Fatalf("particle did not leave the stone top")
	}
	left, right := g.MaterialAt(0, 2), g.MaterialAt(2, 2)
	if (left == grid.Sand) == (right == grid.Sand) {
		t.Errorf("expected exactly one diagonal cell filled, got left=%v right=%v", left, right)
	}
}

func TestSandDiagonalPreferenceIsFair(t *testing.T) {
	const runs = 2000
	left, right := 0, 0
	for seed := int64(1); seed <= runs; seed++ {
		g := newSandGrid(t, 3, 3)
		g.SetMaterial(1, 2, grid.Stone)
		g.SetMaterial(1, 1, grid.Sand)
		NewSandSystem(g, rand.New(rand.NewSource(seed)), true).Step(nil)

		switch {
		case g.MaterialAt(0, 2) == grid.Sand:
			left++
		case g.MaterialAt(2, 2) == grid.Sand:
			right++
		}
	}

	if left+right != runs {
		t.Fatalf("only %d of %d particles slid", left+right, runs)
	}
	// 2000 fair coin flips land within 45-55% with overwhelming probability.
	if lo, hi := runs*45/100, runs*55/100; left < lo || left > hi {
		t.Errorf("left=%d right=%d, want a roughly even split", left, right)
	}
}

func TestSandStaysActiveAboveActiveCell(t *testing.T) {
	// Two stacked particles in a one-cell well; the lower one has an ant
	// beneath it.
	build := func() (*grid.Grid, *SandSystem) {
		g := newSandGrid(t, 3, 4)
		for _, c := range [][2]int{{0, 2}, {2, 2}, {0, 3}, {2, 3}} {
			g.SetMaterial(c[0], c[1], grid.Stone)
		}
		g.SetMaterial(1, 2, grid.Sand)
		g.SetMaterial(1, 1, grid.Sand)
		return g, NewSandSystem(g, rand.New(rand.NewSource(3)), true)
	}

	tests := []struct {
		name       string
		ant        bool
		wantActive bool
	}{
		{"active cell below keeps it", true, true},
		{"settled cell below drops it", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, s := build()
			if !tt.ant {
				g.SetMaterial(1, 3, grid.Stone)
			}
			occ := cellBlocker{{1, 3}: tt.ant}

			if moved := s.Step(occ); moved != 0 {
				t.Fatalf("moved %d particles, want none", moved)
			}
			if got := s.active.Contains(g.Index(1, 2)); got != tt.ant {
				t.Errorf("blocked particle active = %v, want %v", got, tt.ant)
			}
			if got := s.active.Contains(g.Index(1, 1)); got != tt.wantActive {
				t.Errorf("upper particle active = %v, want %v", got, tt.wantActive)
			}
		})
	}

	// Once the ant leaves, the stack falls together.
	g, s := build()
	s.Step(cellBlocker{{1, 3}: true})
	s.Step(nil)
	if g.MaterialAt(1, 3) != grid.Sand || g.MaterialAt(1, 2) != grid.Sand || g.MaterialAt(1, 1) != grid.Air {
		t.Errorf("stack did not fall after the ant left")
	}
}

func TestSandNoCornerSlip(t *testing.T) {
	// Diagonal open but lateral closed: the particle must stay.
	g := newSandGrid(t, 3, 3)
	g.SetMaterial(1, 2, grid.Stone)
	g.SetMaterial(0, 1, grid.Stone)
	g.SetMaterial(2, 1, grid.Stone)
	g.SetMaterial(1, 1, grid.Sand)
	s := NewSandSystem(g, rand.New(rand.NewSource(3)), true)

	if moved := s.Step(nil); moved != 0 {
		t.Fatalf("Step moved %d particles, want 0", moved)
	}
	if !s.Settled() {
		t.Errorf("expected settled after a blocked step, %d active", s.ActiveCount())
	}
}

func TestStoneNeverMoves(t *testing.T) {
	g := newSandGrid(t, 3, 4)
	g.SetMaterial(1, 0, grid.Stone)
	s := NewSandSystem(g, rand.New(rand.NewSource(1)), false)
	for i := 0; i < 5; i++ {
		s.Step(nil)
	}
	if g.MaterialAt(1, 0) != grid.Stone {
		t.Errorf("stone moved")
	}
}

func TestSandAgentAware(t *testing.T) {
	g := newSandGrid(t, 3, 3)
	g.SetMaterial(1, 1, grid.Sand)
	s := NewSandSystem(g, rand.New(rand.NewSource(1)), true)
	occ := cellBlocker{{0, 2}: true, {1, 2}: true, {2, 2}: true}

	if moved := s.Step(occ); moved != 0 {
		t.Fatalf("particle fell through an occupied cell")
	}
	if !s.IsActive(1, 1) {
		t.Errorf("particle blocked by an ant went to sleep")
	}

	if moved := s.Step(nil); moved != 1 {
		t.Fatalf("particle did not fall once the ant left")
	}
	if g.MaterialAt(1, 2) != grid.Sand {
		t.Errorf("cell below = %v, want sand", g.MaterialAt(1, 2))
	}
}

func TestSandSettlesAndConservesMass(t *testing.T) {
	for _, active := range []bool{true, false} {
		name := "full scan"
		if active {
			name = "active set"
		}
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			g := newSandGrid(t, 32, 24)
			for y := 0; y < 16; y++ {
				for x := 0; x < 32; x++ {
					switch r := rng.Float64(); {
					case r < 0.35:
						g.SetMaterial(x, y, grid.Sand)
					case r < 0.45:
						g.SetMaterial(x, y, grid.Dirt)
					case r < 0.48:
						g.SetMaterial(x, y, grid.Stone)
					}
				}
			}
			want := g.CountGranular()
			s := NewSandSystem(g, rng, active)

			const maxTicks = 2000
			settled := false
			for tick := 0; tick < maxTicks; tick++ {
				s.Step(nil)
				if got := g.CountGranular(); got != want {
					t.Fatalf("tick %d: granular count %d, want %d", tick, got, want)
				}
				if s.Settled() {
					settled = true
					break
				}
			}
			if !settled {
				t.Fatalf("not settled after %d ticks, %d active", maxTicks, s.ActiveCount())
			}

			// A settled pile has no particle above an empty cell.
			for y := 0; y < g.H-1; y++ {
				for x := 0; x < g.W; x++ {
					if g.IsGranular(x, y) && g.IsPassable(x, y+1) {
						t.Fatalf("particle at (%d,%d) floats over air", x, y)
					}
				}
			}
		})
	}
}

func TestSandWake(t *testing.T) {
	g := newSandGrid(t, 3, 4)
	g.SetMaterial(1, 2, grid.Sand)
	g.SetMaterial(1, 3, grid.Stone)
	s := NewSandSystem(g, rand.New(rand.NewSource(1)), true)
	for !s.Settled() {
		s.Step(nil)
	}

	g.SetMaterial(1, 0, grid.Sand)
	if s.IsActive(1, 0) {
		t.Fatalf("edited cell active before Wake")
	}
	s.Wake(1, 0)
	if !s.IsActive(1, 0) {
		t.Errorf("Wake did not activate the edited cell")
	}
}

func BenchmarkSandStep(b *testing.B) {
	for _, active := range []bool{true, false} {
		name := "FullScan"
		if active {
			name = "ActiveSet"
		}
		b.Run(name, func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			g := newSandGrid(b, 200, 120)
			for y := 48; y < 120; y++ {
				for x := 0; x < 200; x++ {
					g.SetMaterial(x, y, grid.Dirt)
				}
			}
			s := NewSandSystem(g, rng, active)
			b.ResetTimer()
			for n := 0; n < b.N; n++ {
				if n%50 == 0 {
					x := rng.Intn(200)
					g.SetMaterial(x, 48, grid.Air)
					s.Wake(x, 48)
				}
				s.Step(nil)
			}
		})
	}
}
