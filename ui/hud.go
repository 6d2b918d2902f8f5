package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Profile     string
	Ants        int
	Stock       int
	FoodItems   int
	Material    int
	ActiveCells int
	Tick        int32
	Speed       int
	FPS         int32
	Paused      bool
	Tool        Tool
	BrushRadius int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Profile: %s | Ants: %d | Stock: %d | Food: %d", data.Profile, data.Ants, data.Stock, data.FoodItems),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Material: %d | Active: %d",
			data.Tick, data.Speed, data.FPS, data.Material, data.ActiveCells),
		10, 55, 16, rl.LightGray,
	)

	status := fmt.Sprintf("Tool: %s (r=%d)", data.Tool, data.BrushRadius)
	if data.Paused {
		status = "PAUSED | " + status
	}
	rl.DrawText(status, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel. Phases are listed in tick order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, phase := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// ColonyPanel renders the most recent telemetry window.
type ColonyPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewColonyPanel creates a new colony stats panel.
func NewColonyPanel(x, y, width int32) *ColonyPanel {
	return &ColonyPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ColonyPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel and returns the Y below it.
func (c *ColonyPanel) Draw(ws telemetry.WindowStats) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*8 + padding*2
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Colony", c.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	x := c.x + padding
	y = r.DrawLabelValue(x, y, "Digs", fmt.Sprintf("%d", ws.Digs))
	y = r.DrawLabelValue(x, y, "Drops", fmt.Sprintf("%d", ws.Drops))
	y = r.DrawLabelValue(x, y, "Eaten", fmt.Sprintf("%d", ws.FoodEaten))
	y = r.DrawLabelValue(x, y, "Spawned", fmt.Sprintf("%d", ws.Spawned))
	y = r.DrawLabelValue(x, y, "Carrying", fmt.Sprintf("%d", ws.Carrying))
	y = r.DrawLabelValue(x, y, "Hunger", fmt.Sprintf("%.2f (p90 %.2f)", ws.HungerMean, ws.HungerP90))

	return y
}
