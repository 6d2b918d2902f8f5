// Package components defines ECS components for the simulation.
package components

import "github.com/50thycal/ant-farm/grid"

// Mode is an ant's behavior state.
type Mode uint8

const (
	ModeWander  Mode = iota // Surface walking, no goal
	ModeDig                 // Removing a cell
	ModeCarry               // Holding material, heading for a drop site
	ModeDrop                // Looking for a cell to deposit into
	ModeSeek                // Hungry, heading for food
	ModeClimb               // Rising over an obstacle
	ModeDescend             // Tunnel: moving down the home shaft
	ModeAscend              // Tunnel: returning up the shaft with spoil
)

// Profile selects which behavior model drives an ant.
type Profile uint8

const (
	ProfileSandbox Profile = iota // Walk, climb, dig on contact, drop at random
	ProfileTunnel                 // Deterministic shaft digging around a home column
	ProfileForager                // Continuous physics with hunger and scent following
)

// ParseProfile converts a config name into a Profile.
func ParseProfile(s string) (Profile, bool) {
	for i, name := range ProfileNames() {
		if name == s {
			return Profile(i), true
		}
	}
	return ProfileSandbox, false
}

// Ant holds per-agent behavior state.
type Ant struct {
	ID      uint32
	Profile Profile
	Mode    Mode
	Facing  int8          // -1 left, +1 right
	Carry   grid.Material // Air when empty; at most one unit

	HomeColumn int // Tunnel shaft column
	ShaftTop   int // Tunnel: row where the current descent started
	HasTarget  bool
	TargetX    float32
	TargetY    float32

	Hunger    float32 // 0..1, forager only
	MarkerGen uint32  // Marker generation already reached; it no longer attracts

	DigAttempts    int32
	DropAttempts   int32
	ClimbRemaining int32   // Rows still to rise in ModeClimb
	StepAccum      float32 // Fractional grid steps owed
	CarryTime      float32 // Seconds spent holding the current unit
	WanderTimer    float32 // Seconds until the next random impulse
}

// Carrying reports whether the ant holds a material unit.
func (a *Ant) Carrying() bool {
	return a.Carry != grid.Air
}

// Cooldowns are integer countdown timers in ticks.
type Cooldowns struct {
	Dig   int32 // Steps left before the current dig completes
	Trail int32 // Ticks left laying food scent after eating
}

// Tick decrements every running timer.
func (c *Cooldowns) Tick() {
	if c.Dig > 0 {
		c.Dig--
	}
	if c.Trail > 0 {
		c.Trail--
	}
}
