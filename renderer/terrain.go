// Package renderer draws the ant farm with raylib: the material grid, the
// scent fields, the ants and the glass box around them.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/50thycal/ant-farm/camera"
	"github.com/50thycal/ant-farm/grid"
)

// Base material colors before shading.
var (
	sandColor  = color.RGBA{R: 214, G: 184, B: 120, A: 255}
	dirtColor  = color.RGBA{R: 120, G: 84, B: 56, A: 255}
	stoneColor = color.RGBA{R: 88, G: 90, B: 96, A: 255}
	nestColor  = color.RGBA{R: 70, G: 40, B: 30, A: 90}
)

// TerrainRenderer uploads the grid as a one-pixel-per-cell texture and
// draws it scaled through the camera.
type TerrainRenderer struct {
	width  int
	height int

	tex    rl.Texture2D
	pixels []color.RGBA
	shade  []float32 // Per-cell brightness variation, fixed at creation

	initialized bool
}

// NewTerrainRenderer creates a renderer for a w x h grid. seed drives the
// grain pattern so a restored world looks the same.
func NewTerrainRenderer(w, h int, seed int64) *TerrainRenderer {
	noise := opensimplex.NewNormalized(seed)
	shade := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := noise.Eval2(float64(x)*0.35, float64(y)*0.35)
			fine := noise.Eval2(float64(x)*2.1+500, float64(y)*2.1+500)
			shade[y*w+x] = float32((n-0.5)*0.25 + (fine-0.5)*0.12)
		}
	}
	return &TerrainRenderer{
		width:  w,
		height: h,
		pixels: make([]color.RGBA, w*h),
		shade:  shade,
	}
}

// Init creates the GPU texture (must be called after raylib window is created).
func (r *TerrainRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(r.width, r.height, rl.Blank)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.UnloadImage(img)
	r.initialized = true
}

// Update rebuilds the texture from the grid.
func (r *TerrainRenderer) Update(g *grid.Grid) {
	if !r.initialized {
		r.Init()
	}
	if g.W != r.width || g.H != r.height {
		return
	}
	for i, c := range g.Cells() {
		_, y := g.Coords(i)
		depth := float32(y) / float32(r.height)
		r.pixels[i] = CellColor(c, r.shade[i], depth)
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the terrain texture over the world rectangle.
func (r *TerrainRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.width), Height: float32(r.height)}
	rl.DrawTexturePro(r.tex, src, WorldRect(cam), rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *TerrainRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// CellColor returns the display color of a cell. shade in about [-0.2, 0.2]
// varies brightness per cell; depth in [0,1] darkens material toward the
// bottom. Empty cells are transparent unless they belong to the nest.
func CellColor(c grid.Cell, shade, depth float32) color.RGBA {
	var base color.RGBA
	switch c.Material {
	case grid.Sand:
		base = sandColor
	case grid.Dirt:
		base = dirtColor
	case grid.Stone:
		base = stoneColor
	default:
		if c.Nest {
			return nestColor
		}
		return color.RGBA{}
	}
	k := (1 + shade) * (1 - depth*0.35)
	return color.RGBA{
		R: scaleChannel(base.R, k),
		G: scaleChannel(base.G, k),
		B: scaleChannel(base.B, k),
		A: 255,
	}
}

func scaleChannel(v uint8, k float32) uint8 {
	f := float32(v) * k
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}

// WorldRect is the screen rectangle covered by the whole world.
func WorldRect(cam *camera.Camera) rl.Rectangle {
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(cam.WorldW, cam.WorldH)
	return rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
