package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/camera"
)

// BackgroundRenderer draws the room behind the farm, the sky inside the
// glass and the wooden frame around it.
type BackgroundRenderer struct {
	screenW, screenH float32

	room     rl.Color
	skyTop   rl.Color
	skyDeep  rl.Color
	frame    rl.Color
	frameInk rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW:  float32(screenW),
		screenH:  float32(screenH),
		room:     rl.Color{R: 24, G: 22, B: 26, A: 255},
		skyTop:   rl.Color{R: 178, G: 210, B: 232, A: 255},
		skyDeep:  rl.Color{R: 40, G: 34, B: 30, A: 255},
		frame:    rl.Color{R: 120, G: 82, B: 48, A: 255},
		frameInk: rl.Color{R: 60, G: 40, B: 24, A: 255},
	}
}

// Resize updates screen dimensions.
func (b *BackgroundRenderer) Resize(w, h float32) {
	b.screenW = w
	b.screenH = h
}

// Draw renders the background. Call before the terrain.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.room)

	world := WorldRect(cam)
	rl.DrawRectangleGradientV(
		int32(world.X), int32(world.Y), int32(world.Width), int32(world.Height),
		b.skyTop, b.skyDeep,
	)
}

// DrawFrame renders the frame around the glass. Call after the ants.
func (b *BackgroundRenderer) DrawFrame(cam *camera.Camera) {
	world := WorldRect(cam)
	thick := max(4, cam.Zoom*1.5)
	outer := rl.Rectangle{
		X:      world.X - thick,
		Y:      world.Y - thick,
		Width:  world.Width + 2*thick,
		Height: world.Height + 2*thick,
	}
	rl.DrawRectangleLinesEx(outer, thick, b.frame)
	rl.DrawRectangleLinesEx(world, 1, b.frameInk)
}
