package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/haguru/jiraiya/internal/interfaces"
)

var (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 30 * time.Second
)

type Server struct {
	Port       string
	Host       string
	server     *http.Server
	mux        *http.ServeMux
	Logger     interfaces.Logger
	middleware []func(http.Handler) http.Handler
	once       sync.Once
	handler    http.Handler
}

// NewServer creates a new Server instance with the specified host and port.
func NewServer(host, port string, logger interfaces.Logger) *Server {
	mux := http.NewServeMux()
	server := &http.Server{
		Addr:         host + ":" + port,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	return &Server{
		Host:   host,
		Port:   port,
		server: server,
		mux:    mux,
		Logger: logger,
	}
}

// AddRoute registers handler for a ServeMux pattern such as "GET /api/posts/{id}".
// Invalid or conflicting patterns are reported as errors instead of panics.
func (s *Server) AddRoute(route string, handler func(w http.ResponseWriter, r *http.Request)) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to add route %q: %v", route, rec)
		}
	}()
	s.mux.HandleFunc(route, handler)
	s.Logger.Info("Route added", "route", route)
	return nil
}

// Use appends middleware. The first one added is the outermost. Middleware
// must be added before Handler or ListenAndServe is first called.
func (s *Server) Use(middleware ...func(http.Handler) http.Handler) {
	s.middleware = append(s.middleware, middleware...)
}

// Handler returns the mux wrapped in every registered middleware.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		var h http.Handler = s.mux
		for i := len(s.middleware) - 1; i >= 0; i-- {
			h = s.middleware[i](h)
		}
		s.handler = h
	})
	return s.handler
}

// ListenAndServe starts the HTTP server and blocks until it stops. A stop
// caused by Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.server.Handler = s.Handler()
	s.Logger.Info("Starting server", "host", s.Host, "port", s.Port)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error("Failed to start server", "error", err)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("Shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

var _ interfaces.Server = (*Server)(nil)
