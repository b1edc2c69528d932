// Package config provides centralized configuration management.
// An AppConfig is built once by the driver and handed to the engine, grid,
// renderer and API. Nothing in the module reads configuration globals.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// =============================================================================
// PLAY FIELD CONFIGURATION
// =============================================================================

// FieldConfig is the size of the simulated play field in pixels.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultField returns the default play field.
func DefaultField() FieldConfig {
	return FieldConfig{
		Width:  1920,
		Height: 1080,
	}
}

// FieldFromEnv returns field configuration with environment variable overrides.
func FieldFromEnv() FieldConfig {
	cfg := DefaultField()

	if w := getEnvFloat("FIELD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("FIELD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}

	return cfg
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the tick driver and spawner settings.
type SimConfig struct {
	TickRate        int     `yaml:"tick_rate"`        // Ticks per second
	MaxEnemies      int     `yaml:"max_enemies"`      // Live enemy count the spawner maintains
	SafeArea        float64 `yaml:"safe_area"`        // No spawns within this distance of the player, per axis
	EnemyHealth     float64 `yaml:"enemy_health"`     // Health of spawned enemies
	EnemySpeed      float64 `yaml:"enemy_speed"`      // Pixels per second
	PlayerHealth    float64 `yaml:"player_health"`    // Starting and max health
	PlayerSpeed     float64 `yaml:"player_speed"`     // Pixels per second
	Seed            int64   `yaml:"seed"`             // 0 picks a time based seed
	ParallelWorkers int     `yaml:"parallel_workers"` // >1 resolves collisions on a worker pool
	AutoPilot       bool    `yaml:"autopilot"`        // Drive the player with the built-in bot
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:        60,
		MaxEnemies:      30,
		SafeArea:        200,
		EnemyHealth:     2,
		EnemySpeed:      60, // 0.6 x base speed of 100
		PlayerHealth:    10,
		PlayerSpeed:     100,
		ParallelWorkers: 1,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if me := getEnvInt("MAX_ENEMIES", -1); me >= 0 {
		cfg.MaxEnemies = me
	}
	if sa := getEnvFloat("SAFE_AREA", -1); sa >= 0 {
		cfg.SafeArea = sa
	}
	if s := os.Getenv("SEED"); s != "" {
		if seed, err := strconv.ParseInt(s, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if w := getEnvInt("PARALLEL_WORKERS", 0); w > 0 {
		cfg.ParallelWorkers = w
	}
	if os.Getenv("AUTOPILOT") == "true" {
		cfg.AutoPilot = true
	}

	return cfg
}

// =============================================================================
// SPATIAL CONFIGURATION
// =============================================================================

// SpatialConfig holds spatial indexing settings.
type SpatialConfig struct {
	// GridCellSize must be at least the largest projectile or enemy box,
	// otherwise overlaps across non-adjacent cells are missed.
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// MinGridCellSize is the side of the player and enemy boxes. Smaller cells
// are rejected; the engine repeats the check against the real entity sizes.
const MinGridCellSize = 32

// DefaultSpatial returns the default spatial configuration.
func DefaultSpatial() SpatialConfig {
	return SpatialConfig{
		GridCellSize: 64, // pixels
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// RateLimit is a token bucket kept per client IP.
type RateLimit struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// InputRate covers POST /api/input, which browsers stream at frame rate.
	// ControlRate covers every other route.
	InputRate   RateLimit `yaml:"input_rate"`
	ControlRate RateLimit `yaml:"control_rate"`
	MaxWSPerIP  int       `yaml:"max_ws_per_ip"`
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
		AllowedOrigins: []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		},
		InputRate:   RateLimit{PerSecond: 40, Burst: 80},
		ControlRate: RateLimit{PerSecond: 10, Burst: 20},
		MaxWSPerIP:  10,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if o := os.Getenv("ALLOWED_ORIGINS"); o != "" {
		cfg.AllowedOrigins = strings.Split(o, ",")
	}
	cfg.InputRate.PerSecond = getEnvFloat("INPUT_RATE_PER_SEC", cfg.InputRate.PerSecond)
	cfg.InputRate.Burst = getEnvInt("INPUT_RATE_BURST", cfg.InputRate.Burst)
	cfg.ControlRate.PerSecond = getEnvFloat("CONTROL_RATE_PER_SEC", cfg.ControlRate.PerSecond)
	cfg.ControlRate.Burst = getEnvInt("CONTROL_RATE_BURST", cfg.ControlRate.Burst)
	cfg.MaxWSPerIP = getEnvInt("MAX_WS_PER_IP", cfg.MaxWSPerIP)

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits caps what a single snapshot carries.
type ResourceLimits struct {
	MaxEnemies     int `yaml:"max_enemies"`     // Per-frame rendered enemy limit
	MaxProjectiles int `yaml:"max_projectiles"` // Per-frame rendered projectile limit
	MaxTexts       int `yaml:"max_texts"`       // Per-frame damage number limit
	MaxDrops       int `yaml:"max_drops"`       // Per-frame rendered drop limit
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxEnemies:     500,
		MaxProjectiles: 200,
		MaxTexts:       50,
		MaxDrops:       200,
	}
}

// =============================================================================
// DEBUG CONFIGURATION
// =============================================================================

// DebugConfig controls the observability server and event log.
type DebugConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ListenAddr   string `yaml:"listen_addr"`
	EventLogPath string `yaml:"event_log_path"` // Empty disables the event log file
}

// DefaultDebug returns the default debug configuration.
func DefaultDebug() DebugConfig {
	return DebugConfig{
		Enabled:      true,
		ListenAddr:   "127.0.0.1:6060",
		EventLogPath: "",
	}
}

// DebugFromEnv returns debug configuration with environment variable overrides.
func DebugFromEnv() DebugConfig {
	cfg := DefaultDebug()

	if os.Getenv("DEBUG_SERVER") == "false" {
		cfg.Enabled = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if p := os.Getenv("EVENT_LOG_PATH"); p != "" {
		cfg.EventLogPath = p
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Field   FieldConfig    `yaml:"field"`
	Sim     SimConfig      `yaml:"sim"`
	Spatial SpatialConfig  `yaml:"spatial"`
	Server  ServerConfig   `yaml:"server"`
	Limits  ResourceLimits `yaml:"limits"`
	Debug   DebugConfig    `yaml:"debug"`
}

// Default returns the complete configuration without any overrides.
func Default() AppConfig {
	return AppConfig{
		Field:   DefaultField(),
		Sim:     DefaultSim(),
		Spatial: DefaultSpatial(),
		Server:  DefaultServer(),
		Limits:  DefaultLimits(),
		Debug:   DefaultDebug(),
	}
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Field:   FieldFromEnv(),
		Sim:     SimFromEnv(),
		Spatial: DefaultSpatial(),
		Server:  ServerFromEnv(),
		Limits:  DefaultLimits(),
		Debug:   DebugFromEnv(),
	}
}

// LoadFile starts from defaults and overlays the YAML document at path.
// Keys absent from the file keep their default value. The result is validated.
func LoadFile(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that would break the simulation contracts.
// Nothing is clamped: a bad value is an error.
func (c AppConfig) Validate() error {
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("%w: field %gx%g must be positive", ErrInvalid, c.Field.Width, c.Field.Height)
	case c.Sim.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d must be positive", ErrInvalid, c.Sim.TickRate)
	case c.Sim.MaxEnemies < 0:
		return fmt.Errorf("%w: max enemies %d is negative", ErrInvalid, c.Sim.MaxEnemies)
	case c.Sim.EnemyHealth <= 0:
		return fmt.Errorf("%w: enemy health %g must be positive", ErrInvalid, c.Sim.EnemyHealth)
	case c.Sim.PlayerHealth <= 0:
		return fmt.Errorf("%w: player health %g must be positive", ErrInvalid, c.Sim.PlayerHealth)
	case c.Spatial.GridCellSize <= 0:
		return fmt.Errorf("%w: grid cell size %g must be positive", ErrInvalid, c.Spatial.GridCellSize)
	case c.Spatial.GridCellSize < MinGridCellSize:
		return fmt.Errorf("%w: grid cell size %g is smaller than the %d px entity box", ErrInvalid, c.Spatial.GridCellSize, MinGridCellSize)
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Server.Port)
	case !c.Server.InputRate.valid():
		return fmt.Errorf("%w: input rate %g/s burst %d must be positive", ErrInvalid, c.Server.InputRate.PerSecond, c.Server.InputRate.Burst)
	case !c.Server.ControlRate.valid():
		return fmt.Errorf("%w: control rate %g/s burst %d must be positive", ErrInvalid, c.Server.ControlRate.PerSecond, c.Server.ControlRate.Burst)
	case c.Server.MaxWSPerIP < 1:
		return fmt.Errorf("%w: max websocket connections per IP %d must be positive", ErrInvalid, c.Server.MaxWSPerIP)
	}
	return nil
}

func (r RateLimit) valid() bool { return r.PerSecond > 0 && r.Burst >= 1 }

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
