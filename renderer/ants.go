package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/camera"
	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/systems"
)

// AntSprite is what the renderer needs to know about one ant.
type AntSprite struct {
	X, Y     float32 // World position in cells
	Facing   int8
	Mode     components.Mode
	Carry    grid.Material
	Selected bool
}

// AntRenderer draws ants, food piles and the marker.
type AntRenderer struct {
	ShowModes bool // Color bodies by behavior mode instead of plain black
}

// NewAntRenderer creates a new ant renderer.
func NewAntRenderer() *AntRenderer {
	return &AntRenderer{}
}

// ModeColor returns the body color used when modes are shown.
func ModeColor(m components.Mode) rl.Color {
	switch m {
	case components.ModeDig:
		return rl.Color{R: 220, G: 120, B: 40, A: 255}
	case components.ModeCarry:
		return rl.Color{R: 200, G: 60, B: 60, A: 255}
	case components.ModeDrop:
		return rl.Color{R: 230, G: 200, B: 60, A: 255}
	case components.ModeSeek:
		return rl.Color{R: 60, G: 190, B: 80, A: 255}
	case components.ModeClimb:
		return rl.Color{R: 80, G: 160, B: 230, A: 255}
	case components.ModeDescend:
		return rl.Color{R: 150, G: 90, B: 210, A: 255}
	case components.ModeAscend:
		return rl.Color{R: 210, G: 90, B: 170, A: 255}
	}
	return rl.Color{R: 30, G: 24, B: 20, A: 255}
}

// Draw renders all ants. Off-screen ants are skipped.
func (r *AntRenderer) Draw(cam *camera.Camera, ants []AntSprite) {
	size := max(2, cam.Zoom*0.8)
	for i := range ants {
		a := &ants[i]
		if !cam.IsVisible(a.X, a.Y, 1) {
			continue
		}
		sx, sy := cam.WorldToScreen(a.X, a.Y)

		body := rl.Color{R: 30, G: 24, B: 20, A: 255}
		if r.ShowModes {
			body = ModeColor(a.Mode)
		}
		rl.DrawRectangleRec(rl.Rectangle{X: sx - size/2, Y: sy - size/2, Width: size, Height: size * 0.7}, body)

		// Head on the facing side
		hx := sx + float32(a.Facing)*size*0.55
		rl.DrawCircleV(rl.Vector2{X: hx, Y: sy - size*0.1}, size*0.3, body)

		if a.Carry != grid.Air {
			load := CellColor(grid.Cell{Material: a.Carry}, 0, 0)
			ls := size * 0.5
			rl.DrawRectangleRec(rl.Rectangle{X: hx - ls/2, Y: sy - size*0.1 - ls, Width: ls, Height: ls}, load)
		}

		if a.Selected {
			rl.DrawCircleLines(int32(sx), int32(sy), size*1.4, rl.Yellow)
		}
	}
}

// DrawFood renders food piles scaled by amount.
func (r *AntRenderer) DrawFood(cam *camera.Camera, items []systems.FoodItem) {
	for _, it := range items {
		cx, cy := float32(it.X)+0.5, float32(it.Y)+0.5
		if !cam.IsVisible(cx, cy, 2) {
			continue
		}
		sx, sy := cam.WorldToScreen(cx, cy)
		radius := cam.Zoom * (0.35 + 0.05*float32(min(it.Amount, 10)))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, rl.Color{R: 120, G: 200, B: 70, A: 255})
		rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.Color{R: 40, G: 90, B: 30, A: 255})
	}
}

// DrawMarker renders the user marker as a flag post on its cell.
func (r *AntRenderer) DrawMarker(cam *camera.Camera, p systems.Point) {
	x0, y0 := cam.WorldToScreen(float32(p.X)+0.5, float32(p.Y)+1)
	pole := max(6, cam.Zoom*2)
	rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x0, Y: y0 - pole}, 2, rl.White)
	rl.DrawTriangle(
		rl.Vector2{X: x0, Y: y0 - pole},
		rl.Vector2{X: x0, Y: y0 - pole*0.6},
		rl.Vector2{X: x0 + pole*0.5, Y: y0 - pole*0.8},
		rl.Red,
	)
}

// DrawNest outlines the home region.
func (r *AntRenderer) DrawNest(cam *camera.Camera, nest systems.Rect) {
	x0, y0 := cam.WorldToScreen(float32(nest.X), float32(nest.Y))
	x1, y1 := cam.WorldToScreen(float32(nest.X+nest.W), float32(nest.Y+nest.H))
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, rl.Color{R: 255, G: 220, B: 160, A: 90})
}
