package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	server *http.Server
	logger zerolog.Logger
	// appRouter holds the endpoints; chi rejects Use after routes exist, so
	// middleware goes on rootRouter and appRouter is mounted under it.
	appRouter  chi.Router
	rootRouter *chi.Mux
	mountOnce  sync.Once
}

type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func NewServer(cfg ServerConfig, router chi.Router, logger zerolog.Logger) *Server {
	s := &Server{
		logger:     logger,
		appRouter:  router,
		rootRouter: chi.NewRouter(),
	}

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.rootRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start serves until Shutdown; a clean shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("Starting server")
	return s.serve(func() error { return s.server.ListenAndServe() })
}

// Serve is Start on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info().Str("address", l.Addr().String()).Msg("Starting server")
	return s.serve(func() error { return s.server.Serve(l) })
}

func (s *Server) serve(run func() error) error {
	s.mount()
	if err := run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	s.mount()
	return s.rootRouter
}

func (s *Server) SetupMiddleware(middlewares ...func(http.Handler) http.Handler) {
	s.rootRouter.Use(middleware.RequestID)
	s.rootRouter.Use(middleware.RealIP)
	s.rootRouter.Use(middleware.StripSlashes)
	s.rootRouter.Use(middleware.CleanPath)
	s.rootRouter.Use(middleware.GetHead)
	s.rootRouter.Use(middleware.Compress(5))

	for _, mw := range middlewares {
		if mw != nil {
			s.rootRouter.Use(mw)
		}
	}
}

func (s *Server) mount() {
	s.mountOnce.Do(func() {
		s.rootRouter.Mount("/", s.appRouter)
	})
}
