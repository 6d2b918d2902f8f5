package ui

import (
	"fmt"
	"strings"
)

// ControlsPanel lists every registered overlay grouped by category, with
// its toggle key and current state.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel at (x, y).
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle flips visibility and reports the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the Y below it, or the panel's own Y
// when hidden.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	r := c.renderer
	pad := r.Theme.Padding
	sections := overlaySections(overlays)

	h := pad * 2
	for _, sd := range sections {
		h += r.SectionHeight(sd, overlays)
	}
	r.DrawPanel(c.x, c.y, c.width, h)

	y := c.y + pad
	for _, sd := range sections {
		y = r.DrawSection(c.x+pad, y, sd, overlays, c.width-pad*2)
	}
	return c.y + h
}

// overlaySections turns the registry into one section per category. The
// section title carries the enabled count and each row reads the live
// registry state, so the sections can be built once per frame and drawn
// with the shared field renderer.
func overlaySections(reg *OverlayRegistry) []SectionDescriptor {
	var out []SectionDescriptor
	for _, cat := range reg.Categories() {
		descs := reg.ByCategory(cat)
		on := 0
		fields := make([]FieldDescriptor, 0, len(descs))
		for _, d := range descs {
			if reg.IsEnabled(d.ID) {
				on++
			}
			fields = append(fields, FieldDescriptor{
				ID:         string(d.ID),
				Label:      keyLabel(d),
				Widget:     WidgetText,
				TextGetter: overlayState(d),
			})
		}
		out = append(out, SectionDescriptor{
			ID:     "overlays:" + cat,
			Title:  fmt.Sprintf("%s %d/%d", categoryTitle(cat), on, len(descs)),
			Fields: fields,
		})
	}
	return out
}

// keyLabel is the row label: the toggle key, or "-" for mouse-only overlays.
func keyLabel(d OverlayDescriptor) string {
	if d.KeyLabel == "" {
		return "-"
	}
	return "[" + d.KeyLabel + "]"
}

// overlayState reads the overlay's name and live state from the registry
// passed as the section data.
func overlayState(d OverlayDescriptor) func(any) string {
	return func(data any) string {
		if reg, ok := data.(*OverlayRegistry); ok && reg.IsEnabled(d.ID) {
			return d.Name + "  on"
		}
		return d.Name + "  off"
	}
}

func categoryTitle(cat string) string {
	if cat == "" {
		return "Other"
	}
	return strings.ToUpper(cat[:1]) + cat[1:]
}
