package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/50thycal/ant-farm/grid"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		t.Errorf("bad world size %dx%d", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Derived.FillMaterial != grid.Dirt {
		t.Errorf("FillMaterial = %v, want dirt", cfg.Derived.FillMaterial)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Error("DT32 not derived")
	}
	if _, ok := cfg.Derived.FieldIndex["food"]; !ok {
		t.Error("food field missing from FieldIndex")
	}
	if _, ok := cfg.Derived.FieldIndex["home"]; !ok {
		t.Error("home field missing from FieldIndex")
	}
	if want := (cfg.World.Width - cfg.World.Nest.Width) / 2; cfg.Derived.NestX != want {
		t.Errorf("NestX = %d, want centered %d", cfg.Derived.NestX, want)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	overlay := "world:\n  width: 40\n  profile: tunnel\nants:\n  dig_chance: 0.5\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay: %v", err)
	}
	if cfg.World.Width != 40 || cfg.World.Profile != "tunnel" || cfg.Ants.DigChance != 0.5 {
		t.Errorf("overlay not applied: %+v", cfg.World)
	}
	// Keys absent from the overlay keep their defaults.
	if cfg.World.Height != Defaults().World.Height {
		t.Errorf("height changed by overlay: %d", cfg.World.Height)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative height", func(c *Config) { c.World.Height = -4 }},
		{"fill ratio above one", func(c *Config) { c.World.FillRatio = 1.5 }},
		{"stone fill", func(c *Config) { c.World.FillMaterial = "stone" }},
		{"unknown profile", func(c *Config) { c.World.Profile = "queen" }},
		{"no ants", func(c *Config) { c.World.InitialAnts = 0 }},
		{"dig chance", func(c *Config) { c.Ants.DigChance = 2 }},
		{"negative dig rate", func(c *Config) { c.Ants.DigRate = -1 }},
		{"zero climb", func(c *Config) { c.Ants.ClimbMax = 0 }},
		{"duplicate field", func(c *Config) {
			c.Pheromones.Fields = append(c.Pheromones.Fields, c.Pheromones.Fields[0])
		}},
		{"negative decay", func(c *Config) { c.Pheromones.Fields[0].Decay = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Defaults()
	cfg.Ants.DropChance = 0.25
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Ants.DropChance != 0.25 {
		t.Errorf("DropChance = %v after roundtrip", back.Ants.DropChance)
	}
}
