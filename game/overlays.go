package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/ui"
)

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.uiOverlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.uiOverlays.Toggle(desc.ID)
		}
	}
}

// drawFieldOverlays uploads and draws every enabled scent field.
func (g *Game) drawFieldOverlays() {
	for name, o := range g.fieldOverlays {
		if !g.uiOverlays.IsEnabled(ui.FieldOverlayID(name)) {
			continue
		}
		o.Update(g.session.Field(name))
		o.Draw(g.camera)
	}
}

// drawActiveOverlays renders the enabled world-space debug overlays.
func (g *Game) drawActiveOverlays() {
	for _, id := range g.uiOverlays.EnabledOverlays() {
		switch id {
		case ui.OverlayNest:
			g.antRenderer.DrawNest(g.camera, g.session.Nest())
		case ui.OverlayActiveCells:
			g.drawActiveCells()
		}
	}
}

// drawActiveCells tints the visible sand cells that are still settling.
func (g *Game) drawActiveCells() {
	gr := g.session.Grid()
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()
	x0, y0 := max(0, int(minX)), max(0, int(minY))
	x1, y1 := min(gr.W-1, int(maxX)), min(gr.H-1, int(maxY))

	size := g.camera.Zoom
	tint := rl.Color{R: 255, G: 60, B: 60, A: 110}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !g.session.IsActive(x, y) {
				continue
			}
			sx, sy := g.camera.WorldToScreen(float32(x), float32(y))
			rl.DrawRectangleRec(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, tint)
		}
	}
}
