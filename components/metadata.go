package components

import "strings"

// FieldDescriptor describes an ant attribute for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Min    float32 // Minimum value (for bars)
	Max    float32 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
}

// String returns the display name for a Mode.
func (m Mode) String() string {
	names := ModeNames()
	if int(m) < len(names) {
		return names[m]
	}
	return "Unknown"
}

// ModeNames returns the display names for all modes.
// The order matches the Mode constants.
func ModeNames() []string {
	return []string{"Wander", "Dig", "Carry", "Drop", "Seek", "Climb", "Descend", "Ascend"}
}

// ParseMode converts a mode name, in any case, into a Mode.
func ParseMode(s string) (Mode, bool) {
	for i, name := range ModeNames() {
		if strings.EqualFold(name, s) {
			return Mode(i), true
		}
	}
	return ModeWander, false
}

// ModeCount returns the number of modes.
func ModeCount() int {
	return len(ModeNames())
}

// String returns the config name for a Profile.
func (p Profile) String() string {
	names := ProfileNames()
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// ProfileNames returns the config names for all profiles.
func ProfileNames() []string {
	return []string{"sandbox", "tunnel", "forager"}
}

// AntFieldDescriptors returns metadata for the inspector panel.
func AntFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "id", Label: "ID", Format: "%d"},
		{ID: "profile", Label: "Profile"},
		{ID: "mode", Label: "Mode"},
		{ID: "carry", Label: "Carrying"},
		{ID: "hunger", Label: "Hunger", Format: "%.2f", Min: 0, Max: 1, IsBar: true},
		{ID: "speed", Label: "Speed", Format: "%.2f", Min: 0, Max: 10, IsBar: true},
		{ID: "home", Label: "Home", Format: "%d"},
	}
}
