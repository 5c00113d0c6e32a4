package server

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	ginhandler "user-signup-service/internal/adapter/gin/handler"
	ginrouter "user-signup-service/internal/adapter/gin/router"
	"user-signup-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, opts ginrouter.Options) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(handler, opts, httpAddress(cfg), l),
	}
}

// Start serves HTTP until the server is shut down. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.Logger.Info("REST API running", zap.String("address", s.Gin.Addr))

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
