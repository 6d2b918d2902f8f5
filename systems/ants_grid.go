package systems

import (
	"github.com/50thycal/ant-farm/components"
)

// stepSandbox advances a sandbox ant by one grid step: fall, climb, drop,
// or walk forward digging into material it bumps into.
func (s *AntSystem) stepSandbox(pos *components.Position, ant *components.Ant) {
	cx, cy := pos.Cell()
	if !s.g.IsPassable(cx, cy) {
		s.unbury(pos, ant)
		return
	}
	if ant.Mode != components.ModeClimb && s.g.IsPassable(cx, cy+1) {
		s.moveTo(pos, cx, cy+1)
		return
	}

	switch ant.Mode {
	case components.ModeClimb:
		s.stepClimb(pos, ant)
		return
	case components.ModeDrop:
		if s.tryDrop(pos, ant) {
			ant.Mode = components.ModeWander
		} else {
			ant.Mode = components.ModeCarry
		}
		return
	}

	ant.Mode = surfaceMode(ant)
	if ant.Carrying() {
		if s.rng.Float64() < s.cfg.DropChance || s.carryExpired(ant) {
			ant.Mode = components.ModeDrop
			return
		}
	} else if s.rng.Float64() < s.cfg.WanderDigChance && s.g.IsGranular(cx, cy+1) {
		if s.dig(ant, cx, cy+1) {
			ant.Mode = components.ModeCarry
			return
		}
	}

	if s.rng.Float64() < s.cfg.TurnChance {
		ant.Facing = -ant.Facing
	}
	s.walk(pos, ant, true)
}

// walk moves one cell forward, digging or climbing when blocked and turning
// around when neither works.
func (s *AntSystem) walk(pos *components.Position, ant *components.Ant, canDig bool) {
	cx, cy := pos.Cell()
	fx := cx + int(ant.Facing)
	if s.g.IsPassable(fx, cy) {
		s.moveTo(pos, fx, cy)
		return
	}
	if canDig && !ant.Carrying() && s.g.IsGranular(fx, cy) && s.rng.Float64() < s.cfg.DigChance {
		if s.dig(ant, fx, cy) {
			ant.Mode = components.ModeCarry
			return
		}
	}
	if s.tryClimb(pos, ant) {
		return
	}
	ant.Facing = -ant.Facing
}

// stepTunnel advances a tunnel ant by one grid step. Surface states walk
// with gravity; shaft states (descend, dig, ascend) cling to the walls.
func (s *AntSystem) stepTunnel(pos *components.Position, ant *components.Ant, cd *components.Cooldowns) {
	cx, cy := pos.Cell()
	if !s.g.IsPassable(cx, cy) {
		s.unbury(pos, ant)
		return
	}

	switch ant.Mode {
	case components.ModeDescend, components.ModeDig, components.ModeAscend, components.ModeClimb:
	default:
		if s.g.IsPassable(cx, cy+1) {
			s.moveTo(pos, cx, cy+1)
			return
		}
	}

	switch ant.Mode {
	case components.ModeClimb:
		s.stepClimb(pos, ant)

	case components.ModeDescend:
		s.tunnelDescend(pos, ant, cd)

	case components.ModeDig:
		s.tunnelDig(ant, cd)

	case components.ModeAscend:
		s.tunnelAscend(pos, ant, cd)

	case components.ModeCarry:
		if !ant.Carrying() {
			ant.Mode = components.ModeWander
			return
		}
		dropX := s.dropColumn(ant)
		if cx == dropX || s.carryExpired(ant) {
			ant.Mode = components.ModeDrop
			return
		}
		ant.Facing = dirTo(cx, dropX)
		s.walk(pos, ant, false)

	case components.ModeDrop:
		if s.tryDrop(pos, ant) {
			ant.Mode = components.ModeWander
		} else {
			ant.Mode = components.ModeCarry
		}

	default:
		if ant.Carrying() {
			ant.Mode = components.ModeCarry
			return
		}
		ant.Mode = components.ModeWander
		if cx == ant.HomeColumn {
			ant.Mode = components.ModeDescend
			ant.ShaftTop = s.SurfaceRef(cx)
			ant.HasTarget = true
			ant.DigAttempts = 0
			s.moveTo(pos, cx, cy)
			return
		}
		ant.Facing = dirTo(cx, ant.HomeColumn)
		s.walk(pos, ant, false)
	}
}

// tunnelDescend moves down the shaft, digging below until max_depth or
// stone, then extends a lateral gallery.
func (s *AntSystem) tunnelDescend(pos *components.Position, ant *components.Ant, cd *components.Cooldowns) {
	cx, cy := pos.Cell()
	if s.g.IsPassable(cx, cy+1) {
		s.moveTo(pos, cx, cy+1)
		return
	}
	if cy-ant.ShaftTop < s.cfg.MaxDepth && s.g.IsGranular(cx, cy+1) {
		s.beginDig(ant, cd, cx, cy+1)
		return
	}

	fx := cx + int(ant.Facing)
	switch {
	case s.g.IsPassable(fx, cy):
		s.moveTo(pos, fx, cy)
	case s.g.IsGranular(fx, cy):
		s.beginDig(ant, cd, fx, cy)
	default:
		ant.Facing = -ant.Facing
		ant.DigAttempts++
		if ant.DigAttempts > 2 {
			// Walled in on both sides: give up this shaft.
			ant.DigAttempts = 0
			ant.HasTarget = false
			ant.Mode = components.ModeAscend
		}
	}
}

func (s *AntSystem) beginDig(ant *components.Ant, cd *components.Cooldowns, x, y int) {
	ant.Mode = components.ModeDig
	ant.TargetX = float32(x)
	ant.TargetY = float32(y)
	cd.Dig = int32(s.cfg.DigCooldown)
}

// tunnelDig counts down the dig cooldown, then takes the target cell.
func (s *AntSystem) tunnelDig(ant *components.Ant, cd *components.Cooldowns) {
	tx, ty := int(ant.TargetX), int(ant.TargetY)
	if ant.Carrying() || !s.g.IsGranular(tx, ty) {
		ant.Mode = components.ModeDescend
		if ant.Carrying() {
			ant.Mode = components.ModeAscend
		}
		return
	}
	if cd.Dig > 0 {
		cd.Dig--
		return
	}
	s.dig(ant, tx, ty)
	ant.Mode = components.ModeAscend
}

// tunnelAscend walks back along the gallery to the home column, then climbs
// the shaft until the column beside it is open sky.
func (s *AntSystem) tunnelAscend(pos *components.Position, ant *components.Ant, cd *components.Cooldowns) {
	cx, cy := pos.Cell()

	if cx != ant.HomeColumn {
		dir := int(dirTo(cx, ant.HomeColumn))
		ant.Facing = int8(dir)
		if s.g.IsPassable(cx+dir, cy) {
			s.moveTo(pos, cx+dir, cy)
			return
		}
		s.clearBlock(pos, ant, cd, cx+dir, cy)
		return
	}

	side := s.dropSide(ant)
	for _, d := range [2]int{side, -side} {
		if s.openSky(cx+d, cy) {
			s.moveTo(pos, cx+d, cy)
			s.surface(ant, int8(d))
			return
		}
	}
	if s.g.IsPassable(cx, cy-1) {
		s.moveTo(pos, cx, cy-1)
		return
	}
	s.clearBlock(pos, ant, cd, cx, cy-1)
}

// clearBlock handles an obstruction in the way back up: dig it when empty
// handed, shed the load downward otherwise, give up on stone.
func (s *AntSystem) clearBlock(pos *components.Position, ant *components.Ant, cd *components.Cooldowns, x, y int) {
	if s.g.IsGranular(x, y) {
		if !ant.Carrying() {
			s.beginDig(ant, cd, x, y)
			return
		}
		cx, cy := pos.Cell()
		if !s.deposit(ant, cx, cy+1) {
			s.tryDrop(pos, ant)
		}
		return
	}
	ant.HasTarget = false
	ant.Mode = surfaceMode(ant)
}

// surface ends a shaft trip. An ant that abandoned its shaft picks a new
// home column.
func (s *AntSystem) surface(ant *components.Ant, facing int8) {
	ant.Facing = facing
	ant.Mode = surfaceMode(ant)
	if !ant.HasTarget {
		ant.HomeColumn = s.rng.Intn(s.g.W)
	}
	ant.HasTarget = false
}

// dropSide is the side of the home column where this ant piles spoil.
func (s *AntSystem) dropSide(ant *components.Ant) int {
	if ant.ID%2 == 1 {
		return -1
	}
	return 1
}

// dropColumn returns the spoil heap column, mirrored when off the grid.
func (s *AntSystem) dropColumn(ant *components.Ant) int {
	side := s.dropSide(ant)
	x := ant.HomeColumn + side*s.cfg.DropDistance
	if x < 0 || x >= s.g.W {
		x = ant.HomeColumn - side*s.cfg.DropDistance
	}
	return max(0, min(s.g.W-1, x))
}

// SurfaceRef is the row an ant standing on the ground beside column x
// occupies, used as depth zero for a new shaft.
func (s *AntSystem) SurfaceRef(x int) int {
	ref := s.g.H
	for _, nx := range [2]int{x - 1, x + 1} {
		if nx >= 0 && nx < s.g.W {
			ref = min(ref, s.g.SurfaceRow(nx))
		}
	}
	return ref - 1
}
