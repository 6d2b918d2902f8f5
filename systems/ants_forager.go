package systems

import (
	"math"

	"github.com/50thycal/ant-farm/components"
)

// Field names the forager reads and writes.
const (
	FieldFood = "food"
	FieldHome = "home"
)

// updateForager runs one tick of the continuous-position profile: choose an
// acceleration from the current mode, then integrate with gravity, speed
// clamp, drag and axis-separated collision.
func (s *AntSystem) updateForager(pos *components.Position, vel *components.Velocity, ant *components.Ant, cd *components.Cooldowns, dt float32) {
	cd.Tick()
	ant.Hunger = clamp01(ant.Hunger + float32(s.cfg.HungerRate)*dt)
	if ant.Carrying() {
		ant.CarryTime += dt
	}

	cx, cy := pos.Cell()
	if !s.g.IsPassable(cx, cy) {
		s.unbury(pos, ant)
		vel.X, vel.Y = 0, 0
		return
	}
	if cd.Trail > 0 {
		if f := s.fields.Field(FieldFood); f != nil {
			s.fields.Deposit(FieldFood, cx, cy, f.Deposit)
		}
	}

	var ax, ay float32
	switch ant.Mode {
	case components.ModeSeek:
		ax, ay = s.seek(pos, ant, cd)
	case components.ModeDig:
		s.foragerDig(ant, dt)
	case components.ModeCarry:
		ax, ay = s.carryOut(pos, ant)
	case components.ModeDrop:
		if s.tryDrop(pos, ant) {
			ant.Mode = components.ModeWander
		} else {
			ant.Mode = components.ModeCarry
		}
	case components.ModeWander:
		ax, ay = s.wander(pos, ant, cd, dt)
	default:
		// Grid-stepping modes carry no meaning here.
		ant.Mode = surfaceMode(ant)
	}

	if ant.Mode == components.ModeWander || ant.Mode == components.ModeSeek {
		s.digIfBlocked(pos, ant, ax, ay)
	}

	s.integrate(pos, vel, ax, ay, dt)
}

// wander drifts sideways with periodic random heading changes. A fed ant
// still laying trail heads home along the home scent.
func (s *AntSystem) wander(pos *components.Position, ant *components.Ant, cd *components.Cooldowns, dt float32) (float32, float32) {
	if ant.Carrying() {
		ant.Mode = components.ModeCarry
		return 0, 0
	}
	if ant.Hunger >= float32(s.cfg.HungerThreshold) && s.hasGoal(ant) {
		ant.Mode = components.ModeSeek
		return 0, 0
	}

	cx, cy := pos.Cell()
	if cd.Trail > 0 && !s.g.IsNest(cx, cy) {
		if dx, dy, v, ok := s.fields.Gradient(FieldHome, cx, cy); ok && v > float32(s.pher.FollowThreshold) {
			return s.steer(pos, ant, float32(cx+dx)+0.5, float32(cy+dy)+0.5)
		}
	}

	ant.WanderTimer -= dt
	if ant.WanderTimer <= 0 {
		ant.WanderTimer = float32(s.cfg.WanderInterval) * (0.5 + s.rng.Float32())
		if s.rng.Float32() < 0.5 {
			ant.Facing = -ant.Facing
		}
	}
	if s.rng.Float64() < s.cfg.WanderDigChance && s.g.IsGranular(cx, cy+1) {
		s.beginForagerDig(ant, cx, cy+1)
		return 0, 0
	}
	return float32(ant.Facing) * float32(s.cfg.Accel), 0
}

// seek steers toward the marker, then up the food scent gradient, then to
// the nearest food item. Food within goal_radius is eaten. Reaching the
// marker sates the ant, and that marker stops attracting it.
func (s *AntSystem) seek(pos *components.Position, ant *components.Ant, cd *components.Cooldowns) (float32, float32) {
	radius := float32(s.cfg.GoalRadius)

	if i := s.Food.Nearest(pos.X, pos.Y); i >= 0 {
		it := s.Food.Items[i]
		if distance(pos.X, pos.Y, float32(it.X)+0.5, float32(it.Y)+0.5) <= radius {
			s.Food.Consume(i)
			ant.Hunger = 0
			ant.HasTarget = false
			cd.Trail = int32(s.cfg.TrailTicks)
			ant.Mode = components.ModeWander
			s.Events.FoodEaten++
			return 0, 0
		}
	}

	if m := s.markerFor(ant); m != nil {
		mx, my := float32(m.X)+0.5, float32(m.Y)+0.5
		if distance(pos.X, pos.Y, mx, my) <= radius {
			ant.Hunger = 0
			ant.MarkerGen = s.MarkerGen()
			ant.Mode = components.ModeWander
			return 0, 0
		}
		return s.steer(pos, ant, mx, my)
	}

	cx, cy := pos.Cell()
	if dx, dy, v, ok := s.fields.Gradient(FieldFood, cx, cy); ok && v > float32(s.pher.FollowThreshold) {
		return s.steer(pos, ant, float32(cx+dx)+0.5, float32(cy+dy)+0.5)
	}

	if i := s.Food.Nearest(pos.X, pos.Y); i >= 0 {
		it := s.Food.Items[i]
		ant.HasTarget = true
		ant.TargetX, ant.TargetY = float32(it.X)+0.5, float32(it.Y)+0.5
		return s.steer(pos, ant, ant.TargetX, ant.TargetY)
	}

	ant.HasTarget = false
	ant.Mode = components.ModeWander
	return 0, 0
}

// carryOut takes a load up to open sky, where it is dropped outside the nest.
func (s *AntSystem) carryOut(pos *components.Position, ant *components.Ant) (float32, float32) {
	if !ant.Carrying() {
		ant.Mode = components.ModeWander
		return 0, 0
	}
	cx, cy := pos.Cell()
	if (s.openSky(cx, cy) && !s.g.IsNest(cx, cy)) || s.carryExpired(ant) {
		ant.Mode = components.ModeDrop
		return 0, 0
	}
	return float32(ant.Facing) * float32(s.cfg.Accel) * 0.5, -float32(s.cfg.Accel)
}

func (s *AntSystem) beginForagerDig(ant *components.Ant, x, y int) {
	ant.Mode = components.ModeDig
	ant.TargetX = float32(x)
	ant.TargetY = float32(y)
	ant.DigAttempts = 0
}

// digIfBlocked starts a dig when the ant pushes into granular material
// along the dominant axis of its acceleration.
func (s *AntSystem) digIfBlocked(pos *components.Position, ant *components.Ant, ax, ay float32) {
	if ant.Carrying() || (ax == 0 && ay == 0) {
		return
	}
	cx, cy := pos.Cell()
	tx, ty := cx+int(signf(ax)), cy
	if ay*ay > ax*ax {
		tx, ty = cx, cy+int(signf(ay))
	}
	if s.g.IsGranular(tx, ty) {
		s.beginForagerDig(ant, tx, ty)
	}
}

// foragerDig succeeds with probability dig_rate*dt per tick and gives up
// after max_dig_attempts failures.
func (s *AntSystem) foragerDig(ant *components.Ant, dt float32) {
	tx, ty := int(ant.TargetX), int(ant.TargetY)
	if ant.Carrying() || !s.g.IsGranular(tx, ty) {
		ant.Mode = surfaceMode(ant)
		return
	}
	if s.rng.Float64() < s.cfg.DigRate*float64(dt) {
		s.dig(ant, tx, ty)
		ant.Mode = components.ModeCarry
		return
	}
	ant.DigAttempts++
	if int(ant.DigAttempts) > s.cfg.MaxDigAttempts {
		ant.DigAttempts = 0
		ant.Mode = components.ModeWander
	}
}

// steer accelerates toward (tx, ty) and faces that way.
func (s *AntSystem) steer(pos *components.Position, ant *components.Ant, tx, ty float32) (float32, float32) {
	dx, dy := tx-pos.X, ty-pos.Y
	d := velocityMagnitude(dx, dy)
	if d < 1e-6 {
		return 0, 0
	}
	if dx != 0 {
		ant.Facing = int8(signf(dx))
	}
	a := float32(s.cfg.Accel) / d
	return dx * a, dy * a
}

func (s *AntSystem) hasGoal(ant *components.Ant) bool {
	return s.markerFor(ant) != nil || s.Food.Len() > 0
}

// integrate applies acceleration, gravity, speed clamp and drag, then moves
// along X and Y separately so a blocked axis does not stop the other.
// Vertical thrust needs a wall or ceiling to grip.
func (s *AntSystem) integrate(pos *components.Position, vel *components.Velocity, ax, ay, dt float32) {
	cx, cy := pos.Cell()
	roofed := s.g.IsSolid(cx, cy-1)
	grip := roofed || s.g.IsSolid(cx-1, cy) || s.g.IsSolid(cx+1, cy)
	if !grip {
		ay = 0
	}

	vel.X += ax * dt
	vel.Y += ay * dt

	gravity := float32(s.cfg.Gravity)
	if roofed {
		gravity *= float32(s.cfg.TunnelGravityScale)
	}
	vel.Y += gravity * dt

	maxSpeed := float32(s.cfg.MaxSpeed)
	if speed := velocityMagnitude(vel.X, vel.Y); maxSpeed > 0 && speed > maxSpeed {
		k := maxSpeed / speed
		vel.X *= k
		vel.Y *= k
	}

	drag := float32(math.Exp(-s.cfg.Friction * float64(dt)))
	vel.X *= drag
	vel.Y *= drag

	maxX := float32(s.g.W) - edgeEpsilon
	maxY := float32(s.g.H) - edgeEpsilon

	// Displacement per axis stays under one cell so walls are never skipped.
	nx := pos.X + clampFloat(vel.X*dt, -0.99, 0.99)
	if nx < 0 {
		nx = 0
		vel.X = -vel.X
	} else if nx > maxX {
		nx = maxX
		vel.X = -vel.X
	}
	if s.g.IsSolid(int(nx), int(pos.Y)) {
		nx = pos.X
		vel.X = 0
	}

	ny := pos.Y + clampFloat(vel.Y*dt, -0.99, 0.99)
	if ny < 0 {
		ny = 0
		vel.Y = -vel.Y
	} else if ny > maxY {
		ny = maxY
		vel.Y = -vel.Y
	}
	if s.g.IsSolid(int(nx), int(ny)) {
		ny = pos.Y
		vel.Y = 0
	}

	s.occ.Move(pos.X, pos.Y, nx, ny)
	pos.X, pos.Y = nx, ny
}
