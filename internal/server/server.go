// Package server wires the HTTP surface: router, middleware chain, and the
// listener lifecycle.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/instaclone/api/internal/auth"
	"github.com/instaclone/api/internal/logger"
	"github.com/instaclone/api/internal/server/middleware"
)

// Config describes the HTTP listener.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Tracing      bool
}

// ApplyDefaults fills zero-valued timeouts.
func (c *Config) ApplyDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
}

// NewRouter builds the Gin engine with the full middleware chain and the
// auth routes mounted under /api/v1/auth.
func NewRouter(cfg Config, handler *AuthHandler, authenticator *auth.Authenticator, log *logger.Logger) *gin.Engine {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true

	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestID())
	if cfg.Tracing {
		engine.Use(middleware.Tracing())
	}
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK})
	})

	authRoutes := engine.Group("/api/v1/auth")
	{
		authRoutes.POST("", handler.SignIn)
		authRoutes.POST("/signup", handler.SignUp)
		authRoutes.POST("/token", handler.RefreshToken)
		authRoutes.GET("/me", middleware.Authenticate(authenticator), handler.Me)
	}

	return engine
}

// Server is the HTTP server with h2c support so clients may speak cleartext
// HTTP/2 on the same port.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// New creates a Server around the given handler.
func New(cfg Config, handler http.Handler, log *logger.Logger) *Server {
	cfg.ApplyDefaults()

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          cfg.IdleTimeout,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      h2c.NewHandler(handler, h2s),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log.WithComponent("server"),
	}
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", map[string]interface{}{"addr": s.httpServer.Addr})

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
