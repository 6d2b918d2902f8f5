package systems

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/grid"
)

// Rect is an axis-aligned cell rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the rectangle center in cell units.
func (r Rect) Center() (float32, float32) {
	return float32(r.X) + float32(r.W)/2, float32(r.Y) + float32(r.H)/2
}

// NestRect resolves the configured nest rectangle, clipped to the grid.
func NestRect(cfg *config.Config) Rect {
	r := Rect{
		X: cfg.Derived.NestX,
		Y: cfg.World.Nest.Y,
		W: cfg.World.Nest.Width,
		H: cfg.World.Nest.Height,
	}
	w, h := cfg.World.Width, cfg.World.Height
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X+r.W > w {
		r.W = w - r.X
	}
	if r.Y+r.H > h {
		r.H = h - r.Y
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// GenerateTerrain fills g with a noisy granular layer over a stone floor and
// carves the nest chamber. The surface line sits fill_ratio of the way up
// from the bottom and is displaced by up to surface_amplitude cells.
func GenerateTerrain(g *grid.Grid, cfg *config.Config, seed int64) {
	wc := cfg.World
	noise := opensimplex.NewNormalized(seed)

	base := float64(g.H) * (1 - wc.FillRatio)
	for x := 0; x < g.W; x++ {
		surface := g.H
		if wc.FillRatio > 0 {
			n := octaveNoise(noise, float64(x), 0, wc.SurfaceOctaves, wc.SurfaceScale, 0.5)
			surface = int(math.Round(base + (n-0.5)*2*wc.SurfaceAmplitude))
			surface = max(0, min(g.H, surface))
		}
		for y := 0; y < g.H; y++ {
			m := grid.Air
			switch {
			case y >= g.H-wc.StoneFloorRows:
				m = grid.Stone
			case y >= surface:
				m = cfg.Derived.FillMaterial
			}
			g.Set(x, y, grid.Cell{Material: m})
		}
	}

	nest := NestRect(cfg)
	for y := nest.Y; y < nest.Y+nest.H; y++ {
		for x := nest.X; x < nest.X+nest.W; x++ {
			g.Set(x, y, grid.Cell{Material: grid.Air, Nest: true})
		}
	}
}

// PlaceFood scatters n food items on the surface at random columns.
func PlaceFood(g *grid.Grid, rng *rand.Rand, n int) []FoodItem {
	items := make([]FoodItem, 0, n)
	for i := 0; i < n; i++ {
		x := rng.Intn(g.W)
		y := g.SurfaceRow(x) - 1
		if y < 0 {
			continue
		}
		items = append(items, FoodItem{X: x, Y: y, Amount: 1})
	}
	return items
}
