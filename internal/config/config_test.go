package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero cell size", func(c *AppConfig) { c.Spatial.GridCellSize = 0 }},
		{"negative cell size", func(c *AppConfig) { c.Spatial.GridCellSize = -64 }},
		{"cell smaller than entities", func(c *AppConfig) { c.Spatial.GridCellSize = 16 }},
		{"zero tick rate", func(c *AppConfig) { c.Sim.TickRate = 0 }},
		{"zero field width", func(c *AppConfig) { c.Field.Width = 0 }},
		{"negative field height", func(c *AppConfig) { c.Field.Height = -1 }},
		{"zero player health", func(c *AppConfig) { c.Sim.PlayerHealth = 0 }},
		{"zero enemy health", func(c *AppConfig) { c.Sim.EnemyHealth = 0 }},
		{"bad port", func(c *AppConfig) { c.Server.Port = 70000 }},
		{"zero input rate", func(c *AppConfig) { c.Server.InputRate.PerSecond = 0 }},
		{"zero control burst", func(c *AppConfig) { c.Server.ControlRate.Burst = 0 }},
		{"no websocket slots", func(c *AppConfig) { c.Server.MaxWSPerIP = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FIELD_WIDTH", "800")
	t.Setenv("TICK_RATE", "30")
	t.Setenv("MAX_ENEMIES", "0")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTOPILOT", "true")
	t.Setenv("SEED", "42")

	cfg := Load()
	if cfg.Field.Width != 800 {
		t.Errorf("Field.Width = %v, want 800", cfg.Field.Width)
	}
	if cfg.Field.Height != 1080 {
		t.Errorf("Field.Height = %v, want default 1080", cfg.Field.Height)
	}
	if cfg.Sim.TickRate != 30 || cfg.Sim.MaxEnemies != 0 || !cfg.Sim.AutoPilot || cfg.Sim.Seed != 42 {
		t.Errorf("unexpected sim config %+v", cfg.Sim)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestServerRateLimits(t *testing.T) {
	t.Setenv("INPUT_RATE_PER_SEC", "60")
	t.Setenv("CONTROL_RATE_BURST", "5")

	cfg := ServerFromEnv()
	if cfg.InputRate != (RateLimit{PerSecond: 60, Burst: 80}) {
		t.Errorf("InputRate = %+v, want 60/s burst 80", cfg.InputRate)
	}
	if cfg.ControlRate != (RateLimit{PerSecond: 10, Burst: 5}) {
		t.Errorf("ControlRate = %+v, want 10/s burst 5", cfg.ControlRate)
	}

	path := filepath.Join(t.TempDir(), "limits.yaml")
	doc := []byte("server:\n  control_rate:\n    per_second: 2\n  max_ws_per_ip: 3\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}
	fileCfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := fileCfg.Server.ControlRate; got.PerSecond != 2 || got.Burst != 20 {
		t.Errorf("ControlRate = %+v, want 2/s with the default burst", got)
	}
	if fileCfg.Server.MaxWSPerIP != 3 || fileCfg.Server.InputRate != DefaultServer().InputRate {
		t.Errorf("unexpected server config %+v", fileCfg.Server)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("TICK_RATE", "fast")
	if got := Load().Sim.TickRate; got != DefaultSim().TickRate {
		t.Errorf("TickRate = %d, want default", got)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survivors.yaml")
	doc := []byte("field:\n  width: 640\nspatial:\n  grid_cell_size: 32\nsim:\n  max_enemies: 5\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Field.Width != 640 || cfg.Field.Height != 1080 {
		t.Errorf("Field = %+v", cfg.Field)
	}
	if cfg.Spatial.GridCellSize != 32 || cfg.Sim.MaxEnemies != 5 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Spatial, cfg.Sim)
	}
	if cfg.Sim.TickRate != 60 {
		t.Errorf("TickRate = %d, want default 60", cfg.Sim.TickRate)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("spatial:\n  grid_cell_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
