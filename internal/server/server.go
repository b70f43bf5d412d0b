// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: handlers, services and middleware are wired
// here, and nowhere else. The storage backend is built by the caller and
// passed in, so tests can hand New an in-memory SQLite store.
//
//	cmd/server:  config.Load → open store → server.New(cfg, logger, store)
//	server.New:  validate.New → service.NewUserService → handler.NewUserHandler
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/user-api/internal/config"
	"github.com/sakif/user-api/internal/handler"
	"github.com/sakif/user-api/internal/middleware"
	"github.com/sakif/user-api/internal/repository"
	"github.com/sakif/user-api/internal/service"
	"github.com/sakif/user-api/internal/validate"
)

// Server represents the HTTP server and all its dependencies.
//
// The store is owned by the caller. Start never closes it, so the caller
// closes it after Start returns.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// New creates a new Server with the given config and storage backend.
func New(cfg config.Config, logger *slog.Logger, store repository.Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
//	GET    /healthz        → store liveness
//	GET    /user           → list users
//	POST   /user           → create user
//	PUT    /user/{id}      → replace user
//	PATCH  /user/{id}      → partial update
//	DELETE /user/{id}      → delete user
//
// Middleware runs in the order it is added. RequestID goes first so the
// access log and any panic trace carry the ID.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	userService := service.NewUserService(s.store, validate.New(), s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/user", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Post("/", userHandler.HandleCreate)
		r.Put("/{id}", userHandler.HandleReplace)
		r.Patch("/{id}", userHandler.HandlePatch)
		r.Delete("/{id}", userHandler.HandleDelete)
	})
}

// Start listens on the configured port and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", s.config.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then drains
// in-flight requests for up to ShutdownTimeout.
//
// The errgroup runs two goroutines: the HTTP server itself and a watcher
// that calls Shutdown once ctx is done. If the server fails first, the
// group context is canceled and the watcher exits too.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("driver", s.config.Driver),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down", slog.Duration("timeout", s.config.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
