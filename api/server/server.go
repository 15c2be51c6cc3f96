package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"task-store/api"
	"task-store/api/middleware"
	"task-store/config"
	"task-store/logger"
	"task-store/tasks/service"
	"time"
)

// Server wraps http.Server with graceful shutdown capabilities
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *logger.Logger
}

// dependencies contains all the dependencies needed to create a server
type dependencies struct {
	service service.TaskService
	config  *config.Config
	logger  *logger.Logger
}

// New creates a new server with all HTTP configuration
func New(svc service.TaskService, cfg *config.Config, lg *logger.Logger) *Server {
	deps := &dependencies{
		service: svc,
		config:  cfg,
		logger:  lg,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      newRouter(deps),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		config: cfg,
		logger: lg,
	}
}

// Handler exposes the fully wired router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// newRouter registers all routes and wraps them in middleware
func newRouter(deps *dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tasks", api.NewListTasksHandler(deps.service, deps.logger))
	mux.HandleFunc("POST /tasks", api.NewCreateTaskHandler(deps.service, deps.logger))
	mux.HandleFunc("PUT /tasks/{id}", api.NewUpdateTaskHandler(deps.service, deps.logger))
	mux.HandleFunc("DELETE /tasks/{id}", api.NewDeleteTaskHandler(deps.service, deps.logger))
	mux.HandleFunc("GET /health", api.NewHealthHandler(deps.config, deps.service, deps.logger))

	return applyMiddleware(mux, deps)
}

// applyMiddleware wraps the handler with all necessary middleware
func applyMiddleware(handler http.Handler, deps *dependencies) http.Handler {
	// Last applied = first executed
	wrapped := handler
	wrapped = middleware.CORSMiddleware(deps.config.CORSAllowedOrigins)(wrapped)
	wrapped = middleware.LoggingMiddleware(deps.logger)(wrapped)
	wrapped = middleware.RequestIDMiddleware(wrapped)

	return wrapped
}

// Start starts the server and blocks until SIGINT/SIGTERM or a listen failure
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", map[string]any{
			"address": s.config.Address(),
		})

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server failed to start", map[string]any{
				"error": err.Error(),
			})
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	s.logger.Info("Shutting down server")
	return s.shutdown()
}

// shutdown gracefully shuts down the server
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
