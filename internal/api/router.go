package api

import (
	"io"
	"net/http"

	"survivors/internal/chat"
	"survivors/internal/config"
	"survivors/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the game engine methods used by the API.
// This interface enables mocking for tests without spinning up the full game loop.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// GetSnapshot returns the latest lock-free immutable snapshot
	GetSnapshot() *game.GameSnapshot
	// Stats returns the player overlay stats
	Stats() game.PlayerStats
	// SetInput replaces the control state for the next tick
	SetInput(in game.InputSnapshot)
	// SetPaused freezes or resumes the simulation
	SetPaused(paused bool)
	// Paused reports the current pause state
	Paused() bool
	// ApplyReward applies a level up reward from the catalog
	ApplyReward(kind game.RewardKind) error
	// EquipWeapon places a catalog weapon in a slot
	EquipWeapon(slot int, id string) error
	// EventLogStats returns the event log counters
	EventLogStats() game.EventLogStats
}

// FrameRenderer draws a snapshot as a PNG image.
type FrameRenderer interface {
	EncodePNG(w io.Writer, snap *game.GameSnapshot) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	limits := config.DefaultServer()
//	limits.ControlRate = config.RateLimit{PerSecond: 1000, Burst: 1000}
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    Limits: &limits,
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the game engine (required)
	Engine EngineInterface

	// Renderer draws /api/frame.png. If nil the endpoint returns 503.
	Renderer FrameRenderer

	// Limiter is an optional pre-configured rate limiter.
	// If nil, a new one is built from Limits.
	Limiter *ClientLimiter

	// Limits supplies the input and control lane rates when Limiter is nil.
	// If both are nil, config.DefaultServer() is used.
	Limits *config.ServerConfig

	// Commands runs "!command" console lines for /api/command.
	// If nil, a handler with chat.DefaultRateLimitConfig is created.
	Commands *chat.Handler

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses AllowedOrigins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	engine   EngineInterface
	renderer FrameRenderer
	commands *chat.Handler
	limiter  *ClientLimiter
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// NewRouter has no side effects beyond the rate limiter and command handler
// it may create: no
// network listeners are opened. This makes it safe to use in tests with
// httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	rateLimiter := cfg.Limiter
	if rateLimiter == nil {
		limits := config.DefaultServer()
		if cfg.Limits != nil {
			limits = *cfg.Limits
		}
		rateLimiter = NewClientLimiter(limits)
	}
	inputLane := rateLimiter.Middleware(LaneInput)
	controlLane := rateLimiter.Middleware(LaneControl)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = AllowedOrigins()
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	commands := cfg.Commands
	if commands == nil {
		commands = chat.NewHandler(cfg.Engine)
	}

	h := &routerHandlers{
		engine:   cfg.Engine,
		renderer: cfg.Renderer,
		commands: commands,
		limiter:  rateLimiter,
	}

	r.Route("/api", func(r chi.Router) {
		// The input stream draws from its own bucket
		r.With(inputLane).Post("/input", h.handleInput)

		r.Group(func(r chi.Router) {
			r.Use(controlLane)
			h.controlRoutes(r)
		})
	})

	r.With(controlLane).Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

func (h *routerHandlers) controlRoutes(r chi.Router) {
	// Game state
	r.Get("/state", h.handleGetState)
	r.Get("/stats", h.handleGetStats)
	r.Get("/frame.png", h.handleGetFrame)

	// Controls
	r.Post("/pause", h.handlePause)

	// Level up menu
	r.Get("/rewards", h.handleGetRewards)
	r.Post("/rewards/apply", h.handleApplyReward)

	r.Get("/weapons", h.handleGetWeapons)
	r.Post("/weapons/equip", h.handleEquipWeapon)

	// Console
	r.Post("/command", h.handleCommand)
}
