package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/gin-gonic/gin"

	"github.com/sysdash/sysdash-agent/config"
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	handlers   *Handlers
	auth       *AuthService
	limiter    *RequestLimiter
	httpServer *http.Server
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	s := &Server{
		cfg:      cfg,
		router:   router,
		handlers: NewHandlers(cfg),
		auth:     NewAuthService(cfg.APIKey, cfg.JWTSecret),
		limiter:  NewRequestLimiter(cfg.RateLimitRPS),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(RecoveryMiddleware())
	s.router.Use(LoggerMiddleware())
	s.router.Use(CORSMiddleware(s.cfg.AllowedOrigins))
	s.router.Use(RateLimitMiddleware(s.limiter))
}

func (s *Server) setupRoutes() {
	// Health check (no auth)
	s.router.GET("/health", s.handlers.HealthCheck)

	// API routes (require auth)
	api := s.router.Group("/api")
	api.Use(AuthMiddleware(s.auth))
	{
		// Host info
		api.GET("/info", s.handlers.GetInfo)

		// Point-in-time telemetry
		api.GET("/metrics", s.handlers.GetSnapshot)
		api.GET("/metrics/cpu", s.handlers.GetCPU)
		api.GET("/metrics/memory", s.handlers.GetMemory)
		api.GET("/metrics/disk", s.handlers.GetDisk)
		api.GET("/metrics/network", s.handlers.GetNetwork)

		// Windowed summary
		api.GET("/summary", s.handlers.GetSummary)

		// Processes
		api.GET("/processes", s.handlers.ListProcesses)
		api.POST("/processes/:pid/kill", s.handlers.KillProcess)

		// Kill policy (read-only)
		api.GET("/policy", s.handlers.GetPolicy)

		// Real-time events (SSE)
		api.GET("/events", s.handlers.StreamEvents)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Starting sysdash-agent on %s", s.cfg.Addr())

	// Tell systemd we are ready to serve; a no-op outside systemd units.
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Printf("sd_notify failed: %v", err)
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Router returns the Gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
