package api

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"survivors/internal/chat"
	"survivors/internal/config"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with WebSocket hub for real-time updates.
type Server struct {
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *ClientLimiter
	commands    *chat.Handler
	httpServer  *http.Server
}

// NewServer creates a new API server with origins and limits from cfg.
//
// Background workers do NOT start until Start() is called, so the server
// can be constructed in tests and driven through Router().
func NewServer(engine EngineInterface, renderer FrameRenderer, cfg config.ServerConfig) *Server {
	if len(cfg.AllowedOrigins) > 0 {
		SetAllowedOrigins(cfg.AllowedOrigins)
	}

	commands := chat.NewHandler(engine)
	s := &Server{
		wsHub:       NewWebSocketHub(engine, commands, cfg.MaxWSPerIP),
		rateLimiter: NewClientLimiter(cfg),
		commands:    commands,
	}

	s.router = NewRouter(RouterConfig{
		Engine:   engine,
		Renderer: renderer,
		Limiter:  s.rateLimiter,
		Commands: commands,
	})

	// This route needs the hub instance
	s.router.With(s.rateLimiter.Middleware(LaneControl)).Get("/ws", s.wsHub.HandleWebSocket)

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Start begins the HTTP server and the WebSocket workers. It blocks until
// the server stops; a clean Shutdown returns nil.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Printf("🌐 API server starting on %s", addr)
	err = s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Stop shuts the listener down and releases background workers.
func (s *Server) Stop(ctx context.Context) error {
	s.wsHub.Stop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.commands.Stop()
	return s.httpServer.Shutdown(ctx)
}
