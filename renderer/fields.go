package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/camera"
)

// FieldTint returns the overlay color for a named scent field.
func FieldTint(name string) color.RGBA {
	switch name {
	case "food":
		return color.RGBA{R: 90, G: 220, B: 90, A: 200}
	case "home":
		return color.RGBA{R: 120, G: 140, B: 255, A: 200}
	}
	return color.RGBA{R: 230, G: 120, B: 200, A: 200}
}

// FieldOverlay renders one scalar field as a soft translucent fog.
type FieldOverlay struct {
	width, height int
	tint          color.RGBA

	tex    rl.Texture2D
	pixels []color.RGBA

	initialized bool
}

// NewFieldOverlay creates an overlay for a w x h field.
func NewFieldOverlay(w, h int, tint color.RGBA) *FieldOverlay {
	return &FieldOverlay{
		width:  w,
		height: h,
		tint:   tint,
		pixels: make([]color.RGBA, w*h),
	}
}

// Init creates the GPU texture (must be called after raylib window is created).
func (o *FieldOverlay) Init() {
	if o.initialized {
		return
	}
	img := rl.GenImageColor(o.width, o.height, rl.Blank)
	o.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(o.tex, rl.FilterBilinear)
	rl.UnloadImage(img)
	o.initialized = true
}

// Update uploads new field values.
func (o *FieldOverlay) Update(values []float32) {
	if !o.initialized {
		o.Init()
	}
	if len(values) != o.width*o.height {
		return
	}
	for i, v := range values {
		o.pixels[i] = FieldPixel(v, o.tint)
	}
	rl.UpdateTexture(o.tex, o.pixels)
}

// Draw renders the overlay over the world rectangle.
func (o *FieldOverlay) Draw(cam *camera.Camera) {
	if !o.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(o.width), Height: float32(o.height)}
	rl.DrawTexturePro(o.tex, src, WorldRect(cam), rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (o *FieldOverlay) Unload() {
	if !o.initialized {
		return
	}
	rl.UnloadTexture(o.tex)
	o.initialized = false
}

// FieldPixel maps a field value in [0,1] to the tint with matching opacity.
// A square root lifts faint trails into view.
func FieldPixel(v float32, tint color.RGBA) color.RGBA {
	if v <= 0 {
		return color.RGBA{}
	}
	if v > 1 {
		v = 1
	}
	a := float32(math.Sqrt(float64(v))) * float32(tint.A)
	return color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: uint8(a)}
}
