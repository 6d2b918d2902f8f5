package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tool is the action a mouse click applies to the world.
type Tool int

const (
	ToolDig Tool = iota
	ToolSand
	ToolDirt
	ToolRemove
	ToolMarker
	ToolFood
	ToolInspect
)

var toolNames = []string{"Dig", "Sand", "Dirt", "Remove", "Marker", "Food", "Inspect"}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "Unknown"
}

// ToolCount returns the number of tools.
func ToolCount() int { return len(toolNames) }

// Brushed reports whether the tool uses the brush radius.
func (t Tool) Brushed() bool {
	return t == ToolSand || t == ToolDirt || t == ToolRemove
}

// Repeats reports whether holding the mouse button keeps applying the tool.
func (t Tool) Repeats() bool {
	return t == ToolDig || t.Brushed()
}

// ToolForKey maps number keys 1..7 to tools.
func ToolForKey(key int32) (Tool, bool) {
	i := key - rl.KeyOne
	if i < 0 || int(i) >= len(toolNames) {
		return 0, false
	}
	return Tool(i), true
}

// ToolPanel is a raygui panel for choosing a tool and brush size.
type ToolPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32

	Tool        Tool
	BrushRadius int
	MaxRadius   int
}

// NewToolPanel creates a tool panel with the dig tool selected.
func NewToolPanel(x, y, width int32) *ToolPanel {
	return &ToolPanel{
		renderer:    NewRenderer(),
		x:           x,
		y:           y,
		width:       width,
		Tool:        ToolDig,
		BrushRadius: 1,
		MaxRadius:   6,
	}
}

// SetPosition updates the panel position.
func (p *ToolPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height returns the panel height in pixels.
func (p *ToolPanel) Height() int32 {
	pad := p.renderer.Theme.Padding
	return pad*3 + 20 + int32(len(toolNames))*26 + 24
}

// Contains reports whether a screen point is over the panel.
func (p *ToolPanel) Contains(sx, sy float32) bool {
	return sx >= float32(p.x) && sx < float32(p.x+p.width) &&
		sy >= float32(p.y) && sy < float32(p.y+p.Height())
}

// Draw renders the panel and applies button and slider input.
func (p *ToolPanel) Draw() {
	r := p.renderer
	pad := r.Theme.Padding
	r.DrawPanel(p.x, p.y, p.width, p.Height())

	y := p.y + pad
	rl.DrawText("Tools", p.x+pad, y, 16, rl.White)
	y += 20

	bw := float32(p.width - pad*2)
	for i, name := range toolNames {
		label := fmt.Sprintf("%d  %s", i+1, name)
		bounds := rl.Rectangle{X: float32(p.x + pad), Y: float32(y), Width: bw, Height: 22}
		if gui.Button(bounds, label) {
			p.Tool = Tool(i)
		}
		if Tool(i) == p.Tool {
			rl.DrawRectangleLinesEx(bounds, 2, r.Theme.SectionHeader)
		}
		y += 26
	}

	y += pad
	radius := gui.SliderBar(
		rl.Rectangle{X: float32(p.x + pad + 40), Y: float32(y), Width: bw - 80, Height: 16},
		"Brush", fmt.Sprintf("%d", p.BrushRadius),
		float32(p.BrushRadius), 0, float32(p.MaxRadius),
	)
	p.BrushRadius = int(radius + 0.5)
}
