package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"survivors/internal/api"
	"survivors/internal/config"
	"survivors/internal/game"
	"survivors/internal/render"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  SURVIVORS - GO ENGINE")
	log.Println("🎮 ================================")

	appConfig, err := loadConfig()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("🎮 Config: %d TPS, %gx%g field, %d enemies, cell %g",
		appConfig.Sim.TickRate, appConfig.Field.Width, appConfig.Field.Height,
		appConfig.Sim.MaxEnemies, appConfig.Spatial.GridCellSize)

	renderer, err := render.NewRenderer(appConfig.Field, nil, render.Options{
		ShowDebug: appConfig.Debug.Enabled,
		CellSize:  appConfig.Spatial.GridCellSize,
	})
	if err != nil {
		log.Fatalf("❌ Renderer: %v", err)
	}

	engineCfg := game.EngineConfigFrom(appConfig)
	engineCfg.Sprites = render.DefaultSprites()
	engine, err := game.NewEngine(engineCfg)
	if err != nil {
		log.Fatalf("❌ Game engine: %v", err)
	}
	limits := engine.GetLimits()
	log.Printf("🛡️ Resource limits: %d enemies, %d projectiles, %d drops, %d texts",
		limits.MaxEnemies, limits.MaxProjectiles, limits.MaxDrops, limits.MaxTexts)

	if err := engine.StartEventLog(appConfig.Debug.EventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
	} else if appConfig.Debug.EventLogPath != "" {
		log.Printf("📝 Event log: %s", appConfig.Debug.EventLogPath)
	}

	if err := api.StartDebugServer(api.ObservabilityConfigFrom(appConfig.Debug)); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	engine.SetTickObserver(api.ObserveTick)

	done := make(chan struct{})
	engine.SetGameOverHandler(func(stats game.PlayerStats) {
		log.Printf("💀 Survived %s: level %d, %d kills, $%d",
			engine.TimeString(), stats.Level, stats.Kills, stats.Money)
		if os.Getenv("EXIT_ON_GAME_OVER") == "true" {
			close(done)
		}
	})

	srv := appConfig.Server
	log.Printf("🛡️ Rate limits: input %g/s (burst %d), control %g/s (burst %d), %d sockets per IP",
		srv.InputRate.PerSecond, srv.InputRate.Burst, srv.ControlRate.PerSecond, srv.ControlRate.Burst, srv.MaxWSPerIP)
	server := api.NewServer(engine, renderer, srv)

	engine.Start()

	go func() {
		addr := ":" + strconv.Itoa(appConfig.Server.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
wait:
	for {
		select {
		case <-statsTicker.C:
			api.UpdateEventLogStats(engine.EventLogStats())
		case <-quit:
			break wait
		case <-done:
			break wait
		}
	}

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

// loadConfig reads CONFIG_FILE when set, otherwise defaults plus
// environment overrides.
func loadConfig() (config.AppConfig, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		log.Printf("📄 Loading config from %s", path)
		return config.LoadFile(path)
	}
	cfg := config.Load()
	return cfg, cfg.Validate()
}
