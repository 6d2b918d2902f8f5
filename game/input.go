package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/ui"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyS) {
		g.session.Step(float32(g.cfg.Physics.DT))
	}

	if rl.IsKeyPressed(rl.KeyO) {
		g.uiControlsPanel.Toggle()
	}

	if rl.IsKeyPressed(rl.KeyF5) {
		dir := g.snapshotDir
		if dir == "" {
			dir = "."
		}
		if _, err := g.session.SaveFile(dir); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}

	if rl.IsKeyPressed(rl.KeyC) {
		g.session.ClearMarker()
	}

	for key := int32(rl.KeyOne); key <= rl.KeyNine; key++ {
		if rl.IsKeyPressed(key) {
			if tool, ok := ui.ToolForKey(key); ok {
				g.uiTools.Tool = tool
			}
		}
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) && g.uiTools.BrushRadius > 0 {
		g.uiTools.BrushRadius--
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) && g.uiTools.BrushRadius < g.uiTools.MaxRadius {
		g.uiTools.BrushRadius++
	}

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.background.Resize(w, h)
	g.layoutPanels()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Middle drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		g.camera.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleMouse applies the current tool under the cursor. Dig and brush
// tools repeat while the button is held; the others act once per click.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	if g.uiTools.Contains(mouse.X, mouse.Y) {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.hasSelection = false
		return
	}

	tool := g.uiTools.Tool
	pressed := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	held := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	if !pressed && !(held && tool.Repeats()) {
		return
	}

	if tool == ui.ToolInspect {
		wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		g.selectedID, g.hasSelection = nearestAnt(g.session.Ants(), wx, wy, 2)
		return
	}

	x, y, ok := g.camera.ScreenToCell(mouse.X, mouse.Y)
	if !ok {
		return
	}
	g.applyTool(tool, x, y, g.uiTools.BrushRadius)
}

// applyTool performs one tool action at cell (x, y).
func (g *Game) applyTool(tool ui.Tool, x, y, radius int) {
	s := g.session
	switch tool {
	case ui.ToolDig:
		s.DigAt(x, y)
	case ui.ToolSand:
		s.AddMaterial(x, y, radius, grid.Sand)
	case ui.ToolDirt:
		s.AddMaterial(x, y, radius, grid.Dirt)
	case ui.ToolRemove:
		s.RemoveMaterial(x, y, radius)
	case ui.ToolMarker:
		s.SetMarker(x, y)
	case ui.ToolFood:
		s.AddResourceItem(x, y)
	}
}
