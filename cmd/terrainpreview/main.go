// Terrain preview tool - interactive surface generation with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/grid"
	"github.com/50thycal/ant-farm/renderer"
	"github.com/50thycal/ant-farm/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 640
	previewH     = 480
	panelX       = previewW + 30
	sliderW      = windowWidth - panelX - 90
)

// slider is one labelled float control over a world parameter.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(*config.WorldConfig) float32
	set      func(*config.WorldConfig, float32)
}

var sliders = []slider{
	{"Fill ratio", 0, 1, "%.2f",
		func(w *config.WorldConfig) float32 { return float32(w.FillRatio) },
		func(w *config.WorldConfig, v float32) { w.FillRatio = float64(v) }},
	{"Surface amplitude", 0, 40, "%.1f",
		func(w *config.WorldConfig) float32 { return float32(w.SurfaceAmplitude) },
		func(w *config.WorldConfig, v float32) { w.SurfaceAmplitude = float64(v) }},
	{"Surface scale", 0.001, 0.1, "%.3f",
		func(w *config.WorldConfig) float32 { return float32(w.SurfaceScale) },
		func(w *config.WorldConfig, v float32) { w.SurfaceScale = float64(v) }},
	{"Octaves", 1, 6, "%.0f",
		func(w *config.WorldConfig) float32 { return float32(w.SurfaceOctaves) },
		func(w *config.WorldConfig, v float32) { w.SurfaceOctaves = int(v) }},
	{"Stone floor rows", 0, 20, "%.0f",
		func(w *config.WorldConfig) float32 { return float32(w.StoneFloorRows) },
		func(w *config.WorldConfig, v float32) { w.StoneFloorRows = int(v) }},
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	defaults := cfg.World

	g, err := grid.New(cfg.World.Width, cfg.World.Height)
	if err != nil {
		log.Fatalf("failed to create grid: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(g.W, g.H, rl.Blank)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(texture, rl.FilterPoint)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, g.Len())

	seed := int64(12345)
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			cfg.Refresh()
			systems.GenerateTerrain(g, cfg, seed)
			fillPixels(pixels, g)
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 28, G: 24, B: 20, A: 255})

		rl.DrawRectangle(10, 10, previewW, previewH, rl.Color{R: 150, G: 190, B: 220, A: 255})
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(g.W), Height: float32(g.H)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{}, 0, rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.Color{R: 110, G: 80, B: 50, A: 255})

		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Grid: %dx%d  Granular: %d  Seed: %d", g.W, g.H, g.CountGranular(), seed),
			15, statsY, 16, rl.LightGray)

		y := float32(10)
		rl.DrawText("Surface Parameters", panelX, int32(y), 20, rl.RayWhite)
		y += 35

		for _, s := range sliders {
			rl.DrawText(s.label, panelX, int32(y), 14, rl.LightGray)
			y += 18
			cur := s.get(&cfg.World)
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: y, Width: sliderW, Height: 20},
				"", "", cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), panelX+sliderW+10, int32(y+2), 16, rl.RayWhite)
			if next != cur {
				s.set(&cfg.World, next)
				needsRegen = true
			}
			y += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, fillLabel(cfg.World.FillMaterial)) {
			if cfg.World.FillMaterial == "sand" {
				cfg.World.FillMaterial = "dirt"
			} else {
				cfg.World.FillMaterial = "sand"
			}
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		y += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Reset All") {
			cfg.World = defaults
			seed = 12345
			needsRegen = true
		}
		y += 55

		out := worldYAML(cfg.World)
		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.RayWhite)
		rl.DrawText(out, panelX, int32(y)+25, 14, rl.LightGray)

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

func fillLabel(material string) string {
	return "Fill: " + material
}

// fillPixels colors the grid the way the simulation view does, without
// per-cell shading.
func fillPixels(pixels []color.RGBA, g *grid.Grid) {
	for i, c := range g.Cells() {
		_, y := g.Coords(i)
		pixels[i] = renderer.CellColor(c, 0, float32(y)/float32(g.H))
	}
}

// worldYAML renders the surface parameters as a world config fragment.
func worldYAML(w config.WorldConfig) string {
	frag := map[string]any{
		"world": map[string]any{
			"fill_ratio":        round(w.FillRatio, 100),
			"fill_material":     w.FillMaterial,
			"surface_amplitude": round(w.SurfaceAmplitude, 10),
			"surface_scale":     round(w.SurfaceScale, 1000),
			"surface_octaves":   w.SurfaceOctaves,
			"stone_floor_rows":  w.StoneFloorRows,
		},
	}
	data, err := yaml.Marshal(frag)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func round(v, scale float64) float64 {
	return float64(int64(v*scale+0.5)) / scale
}
