// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/50thycal/ant-farm/grid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Sand        SandConfig        `yaml:"sand"`
	Ants        AntsConfig        `yaml:"ants"`
	Pheromones  PheromonesConfig  `yaml:"pheromones"`
	Population  PopulationConfig  `yaml:"population"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Observer    ObserverConfig    `yaml:"observer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	CellSize  float64 `yaml:"cell_size"` // Pixels per cell at zoom 1
}

// NestConfig is the home region rectangle in cells. X < 0 centers it.
type NestConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WorldConfig holds grid dimensions and initial terrain parameters.
type WorldConfig struct {
	Width            int        `yaml:"width"`
	Height           int        `yaml:"height"`
	FillRatio        float64    `yaml:"fill_ratio"`        // Fraction of rows below the surface line
	FillMaterial     string     `yaml:"fill_material"`     // sand or dirt
	SurfaceAmplitude float64    `yaml:"surface_amplitude"` // Surface roughness in cells
	SurfaceScale     float64    `yaml:"surface_scale"`     // Noise frequency per cell
	SurfaceOctaves   int        `yaml:"surface_octaves"`
	StoneFloorRows   int        `yaml:"stone_floor_rows"`
	Profile          string     `yaml:"profile"` // sandbox, tunnel, forager
	InitialAnts      int        `yaml:"initial_ants"`
	FoodItems        int        `yaml:"food_items"`
	Nest             NestConfig `yaml:"nest"`
}

// PhysicsConfig holds the fixed simulation timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// SandConfig selects automaton variants.
type SandConfig struct {
	ActiveSet  bool `yaml:"active_set"`  // Track movable cells instead of scanning the grid
	AgentAware bool `yaml:"agent_aware"` // Ant-occupied cells block falling material
}

// AntsConfig holds agent behavior parameters. Probabilities are per step
// for the grid-stepping profiles and rates are per second for the forager.
type AntsConfig struct {
	StepsPerSecond  float64 `yaml:"steps_per_second"`
	MaxStepsPerTick int     `yaml:"max_steps_per_tick"`

	DigChance       float64 `yaml:"dig_chance"`
	DropChance      float64 `yaml:"drop_chance"`
	TurnChance      float64 `yaml:"turn_chance"`
	WanderDigChance float64 `yaml:"wander_dig_chance"`
	ClimbMax        int     `yaml:"climb_max"`
	MaxDropAttempts int     `yaml:"max_drop_attempts"`

	DropDistance int `yaml:"drop_distance"` // Tunnel: columns from home to the spoil heap
	MaxDepth     int `yaml:"max_depth"`     // Tunnel: rows below the surface before turning sideways
	DigCooldown  int `yaml:"dig_cooldown"`  // Steps spent removing one cell

	CarryTimeout float64 `yaml:"carry_timeout"` // Seconds before a carried unit is dropped anywhere

	Accel              float64 `yaml:"accel"`
	MaxSpeed           float64 `yaml:"max_speed"`
	Friction           float64 `yaml:"friction"`
	Gravity            float64 `yaml:"gravity"`
	TunnelGravityScale float64 `yaml:"tunnel_gravity_scale"`
	WanderInterval     float64 `yaml:"wander_interval"`

	HungerRate      float64 `yaml:"hunger_rate"`
	HungerThreshold float64 `yaml:"hunger_threshold"`
	GoalRadius      float64 `yaml:"goal_radius"`
	DigRate         float64 `yaml:"dig_rate"`
	MaxDigAttempts  int     `yaml:"max_dig_attempts"`
	TrailTicks      int     `yaml:"trail_ticks"`
}

// FieldConfig describes one scalar field.
type FieldConfig struct {
	Name      string  `yaml:"name"`
	Decay     float64 `yaml:"decay"`     // Subtracted per second
	Diffusion float64 `yaml:"diffusion"` // Smoothing fraction per second
	Deposit   float64 `yaml:"deposit"`   // Amount laid per ant step
}

// PheromonesConfig holds the field set and sources.
type PheromonesConfig struct {
	Fields          []FieldConfig `yaml:"fields"`
	FollowThreshold float64       `yaml:"follow_threshold"` // Gradient is followed only above this value
	FoodSource      float64       `yaml:"food_source"`      // Deposited on each food item per tick
	NestSource      float64       `yaml:"nest_source"`      // Deposited on each open nest cell per tick
}

// PopulationConfig holds the spawn rule.
type PopulationConfig struct {
	SpawnThreshold int `yaml:"spawn_threshold"` // Food units consumed per new ant
	MaxAnts        int `yaml:"max_ants"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// PersistenceConfig holds snapshot storage parameters.
type PersistenceConfig struct {
	DBPath        string `yaml:"db_path"`
	SnapshotDir   string `yaml:"snapshot_dir"`
	SnapshotEvery int    `yaml:"snapshot_every"` // Ticks between autosaves (0 = off)
}

// ObserverConfig holds the websocket frame stream parameters.
type ObserverConfig struct {
	Addr       string `yaml:"addr"`
	FrameEvery int    `yaml:"frame_every"` // Ticks between published frames
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32        // Physics.DT as float32
	WorldW32     float32        // World.Width as float32
	WorldH32     float32        // World.Height as float32
	FillMaterial grid.Material  // Parsed World.FillMaterial
	NestX        int            // Resolved nest origin
	FieldIndex   map[string]int // field name -> index in Pheromones.Fields
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Validate rejects configurations the simulation cannot be built from.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size %dx%d", ErrInvalid, c.World.Width, c.World.Height)
	}
	if c.World.FillRatio < 0 || c.World.FillRatio > 1 {
		return fmt.Errorf("%w: fill_ratio %v outside [0,1]", ErrInvalid, c.World.FillRatio)
	}
	if m, err := grid.ParseMaterial(c.World.FillMaterial); err != nil {
		return fmt.Errorf("%w: fill_material: %v", ErrInvalid, err)
	} else if !m.IsGranular() {
		return fmt.Errorf("%w: fill_material %q is not granular", ErrInvalid, c.World.FillMaterial)
	}
	switch c.World.Profile {
	case "sandbox", "tunnel", "forager":
	default:
		return fmt.Errorf("%w: unknown profile %q", ErrInvalid, c.World.Profile)
	}
	if c.World.InitialAnts <= 0 {
		return fmt.Errorf("%w: profile %q requires at least one ant", ErrInvalid, c.World.Profile)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("%w: physics.dt must be positive", ErrInvalid)
	}

	for name, p := range map[string]float64{
		"dig_chance":        c.Ants.DigChance,
		"drop_chance":       c.Ants.DropChance,
		"turn_chance":       c.Ants.TurnChance,
		"wander_dig_chance": c.Ants.WanderDigChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: ants.%s %v outside [0,1]", ErrInvalid, name, p)
		}
	}
	for name, v := range map[string]float64{
		"steps_per_second":     c.Ants.StepsPerSecond,
		"dig_rate":             c.Ants.DigRate,
		"hunger_rate":          c.Ants.HungerRate,
		"friction":             c.Ants.Friction,
		"tunnel_gravity_scale": c.Ants.TunnelGravityScale,
		"carry_timeout":        c.Ants.CarryTimeout,
	} {
		if v < 0 {
			return fmt.Errorf("%w: ants.%s must not be negative", ErrInvalid, name)
		}
	}
	if c.Ants.ClimbMax < 1 || c.Ants.MaxDropAttempts < 1 {
		return fmt.Errorf("%w: climb_max and max_drop_attempts must be at least 1", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Pheromones.Fields))
	for _, f := range c.Pheromones.Fields {
		if f.Name == "" || seen[f.Name] {
			return fmt.Errorf("%w: pheromone field name %q empty or duplicated", ErrInvalid, f.Name)
		}
		seen[f.Name] = true
		if f.Decay < 0 || f.Diffusion < 0 || f.Deposit < 0 {
			return fmt.Errorf("%w: pheromone field %q has a negative rate", ErrInvalid, f.Name)
		}
	}
	return nil
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.FillMaterial, _ = grid.ParseMaterial(c.World.FillMaterial)

	c.Derived.NestX = c.World.Nest.X
	if c.Derived.NestX < 0 {
		c.Derived.NestX = (c.World.Width - c.World.Nest.Width) / 2
	}

	c.Derived.FieldIndex = make(map[string]int, len(c.Pheromones.Fields))
	for i, f := range c.Pheromones.Fields {
		c.Derived.FieldIndex[f.Name] = i
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
