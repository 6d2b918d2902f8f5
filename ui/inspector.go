package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/components"
)

// AntInfo is the inspector's view of one ant.
type AntInfo struct {
	ID         uint32
	Profile    components.Profile
	Mode       components.Mode
	Carry      string
	Hunger     float32
	Speed      float32
	HomeColumn int
	X, Y       float32
}

// Inspector renders the selected ant's state.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	section  SectionDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		section:  AntSection(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel and returns the Y below it.
func (ins *Inspector) Draw(info AntInfo) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding*2 + r.Theme.LineHeight + 6 + r.SectionHeight(ins.section, info) + r.Theme.LineHeight
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	x := ins.x + padding

	rl.DrawText(fmt.Sprintf("Ant #%d", info.ID), x, y, 18, ModeTextColor(info.Mode))
	y += r.Theme.LineHeight + 6

	y = r.DrawSection(x, y, ins.section, info, ins.width-padding*2)
	y = r.DrawLabelValue(x, y, "Cell", fmt.Sprintf("(%d, %d)", int(info.X), int(info.Y)))

	return y
}

// AntSection builds the inspector layout from the ant field metadata.
func AntSection() SectionDescriptor {
	sd := SectionDescriptor{ID: "ant", Title: "State"}
	for _, meta := range components.AntFieldDescriptors() {
		fd := FieldDescriptor{
			ID:     meta.ID,
			Label:  meta.Label,
			Widget: WidgetText,
			Format: meta.Format,
		}
		if meta.IsBar {
			fd.Widget = WidgetBar
			fd.Range = FieldRange{Min: meta.Min, Max: meta.Max}
		}
		bindAntField(&fd)
		sd.Fields = append(sd.Fields, fd)
	}
	return sd
}

// bindAntField attaches getters for a field ID.
func bindAntField(fd *FieldDescriptor) {
	ant := func(data any) AntInfo {
		info, _ := data.(AntInfo)
		return info
	}
	switch fd.ID {
	case "id":
		fd.TextGetter = func(d any) string { return fmt.Sprintf("%d", ant(d).ID) }
	case "profile":
		fd.TextGetter = func(d any) string { return ant(d).Profile.String() }
	case "mode":
		fd.TextGetter = func(d any) string { return ant(d).Mode.String() }
	case "carry":
		fd.TextGetter = func(d any) string { return ant(d).Carry }
	case "hunger":
		fd.Getter = func(d any) float32 { return ant(d).Hunger }
		fd.Visible = func(d any) bool { return ant(d).Profile == components.ProfileForager }
	case "speed":
		fd.Getter = func(d any) float32 { return ant(d).Speed }
	case "home":
		fd.TextGetter = func(d any) string { return fmt.Sprintf("%d", ant(d).HomeColumn) }
		fd.Visible = func(d any) bool { return ant(d).Profile == components.ProfileTunnel }
	}
}

// ModeTextColor returns a readable header color for a mode.
func ModeTextColor(m components.Mode) rl.Color {
	switch m {
	case components.ModeDig, components.ModeCarry, components.ModeDrop:
		return rl.Orange
	case components.ModeSeek:
		return rl.Green
	case components.ModeClimb, components.ModeDescend, components.ModeAscend:
		return rl.SkyBlue
	}
	return rl.White
}
