package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/renderer"
	"github.com/50thycal/ant-farm/ui"
)

// Draw renders one frame.
func (g *Game) Draw() {
	g.session.Perf().RecordFrame()
	s := g.session

	rl.BeginDrawing()

	g.background.Draw(g.camera)

	g.terrain.Update(s.Grid())
	g.terrain.Draw(g.camera)

	g.drawFieldOverlays()
	g.drawActiveOverlays()

	g.antRenderer.DrawFood(g.camera, s.Food())
	if m, ok := s.Marker(); ok {
		g.antRenderer.DrawMarker(g.camera, m)
	}

	g.antRenderer.ShowModes = g.uiOverlays.IsEnabled(ui.OverlayAntModes)
	g.antRenderer.Draw(g.camera, g.antSprites())

	g.background.DrawFrame(g.camera)

	g.drawUI()

	rl.EndDrawing()
}

// antSprites converts the session's ants into render sprites, reusing the
// buffer between frames.
func (g *Game) antSprites() []renderer.AntSprite {
	g.sprites = g.sprites[:0]
	g.session.EachAnt(func(v AntView) {
		g.sprites = append(g.sprites, renderer.AntSprite{
			X:        v.X,
			Y:        v.Y,
			Facing:   v.Facing,
			Mode:     v.Mode,
			Carry:    v.Carry,
			Selected: g.hasSelection && v.ID == g.selectedID,
		})
	})
	return g.sprites
}

// drawUI renders the HUD and panels.
func (g *Game) drawUI() {
	s := g.session

	g.uiHUD.Draw(ui.HUDData{
		Title:       "Ant Farm",
		Profile:     s.Config().World.Profile,
		Ants:        s.AntCount(),
		Stock:       s.Stock(),
		FoodItems:   len(s.Food()),
		Material:    s.MaterialTotal(),
		ActiveCells: s.ActiveCells(),
		Tick:        s.Tick(),
		Speed:       g.stepsPerUpdate,
		FPS:         rl.GetFPS(),
		Paused:      g.paused,
		Tool:        g.uiTools.Tool,
		BrushRadius: g.uiTools.BrushRadius,
	})

	g.uiTools.Draw()

	if g.uiOverlays.IsEnabled(ui.OverlayPerf) {
		g.uiPerfPanel.Draw(s.Perf().Stats())
	}
	if g.hasStats {
		g.uiColonyPanel.Draw(g.lastStats)
	}

	y := g.uiControlsPanel.Draw(g.uiOverlays)
	if g.hasSelection {
		if v, ok := s.FindAnt(g.selectedID); ok {
			if g.uiControlsPanel.IsVisible() {
				g.uiInspector.SetPosition(10, y+10)
			} else {
				g.uiInspector.SetPosition(10, 100)
			}
			g.uiInspector.Draw(antInfo(v))
		} else {
			g.hasSelection = false
		}
	} else {
		g.drawTooltip()
	}

	g.uiHUD.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"SPACE: Pause | S: Step | < >: Speed | 1-7: Tool | [ ]: Brush | C: Clear marker | F5: Save | O: Overlays | Wheel: Zoom")
}

// antInfo converts a view into inspector data.
func antInfo(v AntView) ui.AntInfo {
	carry := "nothing"
	if v.Carrying() {
		carry = v.Carry.String()
	}
	return ui.AntInfo{
		ID:         v.ID,
		Profile:    v.Profile,
		Mode:       v.Mode,
		Carry:      carry,
		Hunger:     v.Hunger,
		Speed:      length(v.VX, v.VY),
		HomeColumn: v.HomeColumn,
		X:          v.X,
		Y:          v.Y,
	}
}

// drawTooltip shows the cell under the cursor with its scent values.
func (g *Game) drawTooltip() {
	mouse := rl.GetMousePosition()
	if g.uiTools.Contains(mouse.X, mouse.Y) {
		return
	}
	x, y, ok := g.camera.ScreenToCell(mouse.X, mouse.Y)
	if !ok {
		return
	}
	lines := g.cellLines(x, y)

	const fontSize = 14
	const padding = 8
	const lineHeight = 16

	maxWidth := int32(0)
	for _, line := range lines {
		maxWidth = max(maxWidth, rl.MeasureText(line, fontSize))
	}
	tooltipWidth := maxWidth + padding*2
	tooltipHeight := int32(len(lines)*lineHeight + padding*2)

	// Offset from cursor, kept on screen
	tooltipX := int32(mouse.X) + 15
	tooltipY := int32(mouse.Y) + 15
	if tooltipX+tooltipWidth > int32(g.screenWidth)-10 {
		tooltipX = int32(mouse.X) - tooltipWidth - 10
	}
	if tooltipY+tooltipHeight > int32(g.screenHeight)-10 {
		tooltipY = int32(mouse.Y) - tooltipHeight - 10
	}

	rl.DrawRectangle(tooltipX, tooltipY, tooltipWidth, tooltipHeight, rl.Color{R: 28, G: 24, B: 20, A: 230})
	rl.DrawRectangleLines(tooltipX, tooltipY, tooltipWidth, tooltipHeight, rl.Color{R: 90, G: 70, B: 50, A: 255})
	for i, line := range lines {
		color := rl.LightGray
		if i == 0 {
			color = rl.White
		}
		rl.DrawText(line, tooltipX+padding, tooltipY+padding+int32(i*lineHeight), fontSize, color)
	}
}

// cellLines describes cell (x, y) for the tooltip.
func (g *Game) cellLines(x, y int) []string {
	s := g.session
	gr := s.Grid()
	c, _ := gr.Get(x, y)

	header := fmt.Sprintf("(%d, %d) %s", x, y, c.Material)
	if c.Nest {
		header += " [nest]"
	}
	lines := []string{header}
	if c.Material == grid.Sand && s.IsActive(x, y) {
		lines = append(lines, "settling")
	}
	for _, name := range s.FieldNames() {
		values := s.Field(name)
		if v := values[gr.Index(x, y)]; v > 0 {
			lines = append(lines, fmt.Sprintf("%s scent: %.3f", name, v))
		}
	}
	return lines
}
