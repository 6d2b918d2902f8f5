package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/grid"
)

// antWorld wires the systems an ant needs around a hand-built grid.
type antWorld struct {
	world  *ecs.World
	spawn  *ecs.Map4[components.Position, components.Velocity, components.Ant, components.Cooldowns]
	posMap *ecs.Map[components.Position]
	antMap *ecs.Map[components.Ant]

	g      *grid.Grid
	sand   *SandSystem
	fields *PheromoneSystem
	occ    *Occupancy
	ants   *AntSystem
}

// gridStepConfig makes every Update(1) take exactly one grid step with no
// random turns or digs.
func gridStepConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Ants.StepsPerSecond = 1
	cfg.Ants.TurnChance = 0
	cfg.Ants.WanderDigChance = 0
	cfg.Ants.DigChance = 0
	return cfg
}

func newAntWorld(t testing.TB, g *grid.Grid, cfg *config.Config) *antWorld {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	world := ecs.NewWorld()
	w := &antWorld{
		world:  world,
		spawn:  ecs.NewMap4[components.Position, components.Velocity, components.Ant, components.Cooldowns](world),
		posMap: ecs.NewMap[components.Position](world),
		antMap: ecs.NewMap[components.Ant](world),
		g:      g,
		sand:   NewSandSystem(g, rng, true),
		fields: NewPheromoneSystem(g.W, g.H, cfg.Pheromones.Fields),
		occ:    NewOccupancy(g.W, g.H),
	}
	w.ants = NewAntSystem(world, g, w.sand, w.fields, w.occ, rng, cfg)
	return w
}

func (w *antWorld) add(ant components.Ant, x, y float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	cd := components.Cooldowns{}
	return w.spawn.NewEntity(&pos, &vel, &ant, &cd)
}

// tick runs one session-ordered step: occupancy, sand, ants.
func (w *antWorld) tick(dt float32, sand bool) {
	w.ants.SyncOccupancy()
	if sand {
		w.sand.Step(w.occ)
	}
	w.ants.Update(dt)
}

func (w *antWorld) carried() int {
	n := 0
	for _, e := range w.entities() {
		if w.antMap.Get(e).Carrying() {
			n++
		}
	}
	return n
}

func (w *antWorld) entities() []ecs.Entity {
	var out []ecs.Entity
	filter := ecs.NewFilter1[components.Ant](w.world)
	query := filter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// floorGrid returns an air grid with stone on the bottom row and dirt
// filling the rows from surface down.
func floorGrid(t testing.TB, w, h, surface int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < w; x++ {
		for y := surface; y < h-1; y++ {
			g.SetMaterial(x, y, grid.Dirt)
		}
		g.SetMaterial(x, h-1, grid.Stone)
	}
	return g
}

func TestDropIntoCellAhead(t *testing.T) {
	g := floorGrid(t, 5, 5, 4)
	w := newAntWorld(t, g, gridStepConfig())
	e := w.add(components.Ant{ID: 1, Mode: components.ModeDrop, Facing: 1, Carry: grid.Sand}, 1.5, 3.5)

	w.tick(1, false)

	ant := w.antMap.Get(e)
	if ant.Carrying() {
		t.Fatalf("ant still carries %v", ant.Carry)
	}
	if g.MaterialAt(2, 3) != grid.Sand {
		t.Errorf("cell ahead = %v, want sand", g.MaterialAt(2, 3))
	}
	if ant.Mode != components.ModeWander {
		t.Errorf("mode = %v, want Wander", ant.Mode)
	}
	if w.ants.Events.Drops != 1 {
		t.Errorf("drops = %d, want 1", w.ants.Events.Drops)
	}
}

func TestDropFallsBackWhenBoxedIn(t *testing.T) {
	g := floorGrid(t, 5, 5, 4)
	for _, c := range [][2]int{{0, 3}, {2, 3}, {1, 2}, {0, 2}, {2, 2}} {
		g.SetMaterial(c[0], c[1], grid.Stone)
	}
	w := newAntWorld(t, g, gridStepConfig())
	e := w.add(components.Ant{ID: 1, Mode: components.ModeDrop, Facing: 1, Carry: grid.Sand}, 1.5, 3.5)

	w.tick(1, false)

	ant := w.antMap.Get(e)
	if !ant.Carrying() || ant.Mode != components.ModeCarry {
		t.Errorf("failed drop: carrying=%v mode=%v, want carrying in Carry", ant.Carrying(), ant.Mode)
	}
	if ant.DropAttempts != 1 {
		t.Errorf("drop attempts = %d, want 1", ant.DropAttempts)
	}
}

func TestClimbOverWall(t *testing.T) {
	g := floorGrid(t, 10, 12, 11)
	for y := 8; y <= 10; y++ {
		g.SetMaterial(3, y, grid.Stone)
	}
	w := newAntWorld(t, g, gridStepConfig())
	e := w.add(components.Ant{ID: 1, Mode: components.ModeWander, Facing: 1}, 2.5, 10.5)

	w.tick(1, false)
	ant := w.antMap.Get(e)
	if ant.Mode != components.ModeClimb || ant.ClimbRemaining != 3 {
		t.Fatalf("mode=%v remaining=%d, want Climb with 3 rows", ant.Mode, ant.ClimbRemaining)
	}
	if w.ants.Events.Climbs != 1 {
		t.Errorf("climbs = %d, want 1", w.ants.Events.Climbs)
	}

	for i := 0; i < 4; i++ {
		w.tick(1, false)
	}
	cx, cy := w.posMap.Get(e).Cell()
	if cx != 3 || cy != 7 {
		t.Errorf("ant at (%d,%d), want on top of the wall at (3,7)", cx, cy)
	}
}

func TestClimbBlockedByCeiling(t *testing.T) {
	g := floorGrid(t, 10, 12, 11)
	for y := 5; y <= 10; y++ {
		g.SetMaterial(3, y, grid.Stone)
	}
	g.SetMaterial(2, 9, grid.Stone)
	w := newAntWorld(t, g, gridStepConfig())
	e := w.add(components.Ant{ID: 1, Mode: components.ModeWander, Facing: 1}, 2.5, 10.5)

	w.tick(1, false)

	ant := w.antMap.Get(e)
	if ant.Mode == components.ModeClimb {
		t.Fatalf("climbed through a ceiling")
	}
	if ant.Facing != -1 {
		t.Errorf("facing = %d, want turned around", ant.Facing)
	}
}

func TestUnburySqueezesUp(t *testing.T) {
	g := floorGrid(t, 5, 5, 3)
	w := newAntWorld(t, g, gridStepConfig())
	e := w.add(components.Ant{ID: 1, Mode: components.ModeWander, Facing: 1}, 2.5, 3.5)

	w.tick(1, false)

	cx, cy := w.posMap.Get(e).Cell()
	if cx != 2 || cy != 2 {
		t.Errorf("buried ant at (%d,%d), want squeezed up to (2,2)", cx, cy)
	}
	if w.antMap.Get(e).Carrying() {
		t.Errorf("ant dug its way out with room above")
	}
}

func TestTunnelDigsShaft(t *testing.T) {
	g := floorGrid(t, 30, 30, 10)
	w := newAntWorld(t, g, gridStepConfig())
	e := w.add(components.Ant{
		ID:         1,
		Profile:    components.ProfileTunnel,
		Mode:       components.ModeWander,
		Facing:     1,
		HomeColumn: 15,
	}, 5.5, 9.5)

	digs, drops := 0, 0
	for i := 0; i < 400; i++ {
		w.tick(1, false)
		digs += w.ants.Events.Digs
		drops += w.ants.Events.Drops
	}

	if digs < 2 || drops < 1 {
		t.Fatalf("digs=%d drops=%d, want a working dig/drop cycle", digs, drops)
	}
	if g.MaterialAt(15, 10) != grid.Air {
		t.Errorf("shaft mouth at (15,10) = %v, want air", g.MaterialAt(15, 10))
	}
	if home := w.antMap.Get(e).HomeColumn; home != 15 {
		t.Errorf("home column moved to %d", home)
	}
}

func TestNoCarryLock(t *testing.T) {
	tests := []struct {
		name    string
		profile components.Profile
		dt      float32
		ticks   int
	}{
		{"sandbox", components.ProfileSandbox, 1, 200},
		{"tunnel", components.ProfileTunnel, 1, 400},
		{"forager", components.ProfileForager, 1.0 / 60, 4000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			g := floorGrid(t, 40, 20, 12)
			w := newAntWorld(t, g, cfg)
			e := w.add(components.Ant{
				ID:         1,
				Profile:    tt.profile,
				Mode:       components.ModeCarry,
				Facing:     1,
				Carry:      grid.Dirt,
				HomeColumn: 20,
			}, 10.5, 11.5)

			for i := 0; i < tt.ticks; i++ {
				w.tick(tt.dt, true)
				if !w.antMap.Get(e).Carrying() {
					return
				}
			}
			t.Fatalf("ant still carrying after %d ticks", tt.ticks)
		})
	}
}

func TestBoundsAndMassAcrossProfiles(t *testing.T) {
	profiles := []components.Profile{components.ProfileSandbox, components.ProfileTunnel, components.ProfileForager}
	for _, p := range profiles {
		t.Run(p.String(), func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Ants.DigChance = 0.5
			cfg.Ants.WanderDigChance = 0.05
			g := floorGrid(t, 24, 16, 8)
			w := newAntWorld(t, g, cfg)

			rng := rand.New(rand.NewSource(int64(p) + 1))
			for i := 0; i < 16; i++ {
				// Edge positions included on purpose.
				x := float32(rng.Intn(g.W)) + 0.5
				if i%4 == 0 {
					x = 0
				} else if i%4 == 1 {
					x = float32(g.W) - 0.01
				}
				w.add(components.Ant{
					ID:         uint32(i + 1),
					Profile:    p,
					Mode:       components.ModeWander,
					Facing:     1,
					HomeColumn: rng.Intn(g.W),
					Hunger:     rng.Float32(),
				}, x, 7.5)
			}

			want := g.CountGranular()
			dt := cfg.Derived.DT32
			for tick := 0; tick < 600; tick++ {
				w.tick(dt, true)

				for _, e := range w.entities() {
					pos := w.posMap.Get(e)
					if pos.X < 0 || pos.X >= float32(g.W) || pos.Y < 0 || pos.Y >= float32(g.H) {
						t.Fatalf("tick %d: ant at (%f,%f) outside %dx%d", tick, pos.X, pos.Y, g.W, g.H)
					}
				}
				if got := g.CountGranular() + w.carried(); got != want {
					t.Fatalf("tick %d: material total %d, want %d", tick, got, want)
				}
			}
		})
	}
}

func TestForagerEatsFood(t *testing.T) {
	g := floorGrid(t, 20, 10, 9)
	cfg := config.Defaults()
	w := newAntWorld(t, g, cfg)
	w.ants.Food.Add(10, 8, 1)
	e := w.add(components.Ant{
		ID:      1,
		Profile: components.ProfileForager,
		Mode:    components.ModeWander,
		Facing:  1,
		Hunger:  1,
	}, 5.5, 8.5)

	eaten := 0
	for i := 0; i < 2000 && eaten == 0; i++ {
		w.tick(cfg.Derived.DT32, false)
		eaten += w.ants.Events.FoodEaten
	}

	if eaten != 1 {
		t.Fatalf("food eaten = %d, want 1", eaten)
	}
	if w.ants.Food.Len() != 0 {
		t.Errorf("food item not consumed")
	}
	ant := w.antMap.Get(e)
	if ant.Hunger > 0.1 {
		t.Errorf("hunger = %f after eating, want reset", ant.Hunger)
	}
}

func TestForagerSeeksMarker(t *testing.T) {
	g := floorGrid(t, 30, 10, 9)
	cfg := config.Defaults()
	w := newAntWorld(t, g, cfg)
	w.ants.Marker = &Point{X: 20, Y: 8}
	e := w.add(components.Ant{
		ID:      1,
		Profile: components.ProfileForager,
		Mode:    components.ModeWander,
		Facing:  -1,
		Hunger:  1,
	}, 5.5, 8.5)

	reached := false
	for i := 0; i < 2000 && !reached; i++ {
		w.tick(cfg.Derived.DT32, false)
		pos := w.posMap.Get(e)
		reached = distance(pos.X, pos.Y, 20.5, 8.5) <= float32(cfg.Ants.GoalRadius)+0.5
	}
	if !reached {
		pos := w.posMap.Get(e)
		t.Fatalf("ant at (%f,%f) never reached the marker", pos.X, pos.Y)
	}
}

func TestForagerLeavesReachedMarkerForFood(t *testing.T) {
	g := floorGrid(t, 30, 10, 9)
	cfg := config.Defaults()
	cfg.Ants.HungerRate = 0.3
	w := newAntWorld(t, g, cfg)
	w.ants.Marker = &Point{X: 20, Y: 8}
	w.ants.Food.Add(2, 8, 1)
	e := w.add(components.Ant{
		ID:      1,
		Profile: components.ProfileForager,
		Mode:    components.ModeSeek,
		Facing:  1,
		Hunger:  1,
	}, 19.5, 8.5)

	sated := false
	eaten := 0
	for i := 0; i < 3000 && eaten == 0; i++ {
		w.tick(cfg.Derived.DT32, false)
		eaten += w.ants.Events.FoodEaten
		if w.antMap.Get(e).Hunger < 0.5 {
			sated = true
		}
	}

	if !sated {
		t.Error("hunger never dropped after reaching the marker")
	}
	if eaten != 1 {
		t.Fatalf("food eaten = %d, want 1 with the marker still set", eaten)
	}
	if w.ants.Marker == nil {
		t.Error("marker should stay until cleared")
	}
}

func TestNewMarkerAttractsAgain(t *testing.T) {
	g := floorGrid(t, 30, 10, 9)
	w := newAntWorld(t, g, config.Defaults())
	ant := &components.Ant{Profile: components.ProfileForager}

	w.ants.Marker = &Point{X: 20, Y: 8}
	ant.MarkerGen = w.ants.MarkerGen()
	if w.ants.hasGoal(ant) {
		t.Fatal("reached marker still counts as a goal")
	}

	w.ants.Marker = &Point{X: 4, Y: 8}
	if !w.ants.hasGoal(ant) {
		t.Error("replacement marker should attract the ant")
	}
}

func TestForagerHungerGrows(t *testing.T) {
	g := floorGrid(t, 10, 6, 5)
	cfg := config.Defaults()
	w := newAntWorld(t, g, cfg)
	e := w.add(components.Ant{ID: 1, Profile: components.ProfileForager, Facing: 1}, 4.5, 4.5)

	for i := 0; i < 60; i++ {
		w.tick(1, false)
	}
	h := w.antMap.Get(e).Hunger
	if h <= 0 || h > 1 {
		t.Errorf("hunger = %f, want in (0,1]", h)
	}
}

func TestUpdateIgnoresNonPositiveDelta(t *testing.T) {
	g := floorGrid(t, 5, 5, 4)
	w := newAntWorld(t, g, gridStepConfig())
	e := w.add(components.Ant{ID: 1, Mode: components.ModeWander, Facing: 1}, 1.5, 3.5)

	w.tick(0, false)
	w.tick(-1, false)

	if cx, _ := w.posMap.Get(e).Cell(); cx != 1 {
		t.Errorf("ant moved on a non-positive step")
	}
}

func BenchmarkAntUpdate(b *testing.B) {
	cfg := config.Defaults()
	g := floorGrid(b, cfg.World.Width, cfg.World.Height, 50)
	w := newAntWorld(b, g, cfg)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 60; i++ {
		w.add(components.Ant{
			ID:         uint32(i + 1),
			Profile:    components.Profile(i % 3),
			Facing:     1,
			HomeColumn: rng.Intn(g.W),
		}, float32(rng.Intn(g.W))+0.5, 49.5)
	}
	dt := cfg.Derived.DT32

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		w.tick(dt, true)
	}
}
