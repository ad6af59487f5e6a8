// Package server wires the application together and runs the HTTP server.
//
// This is the composition root: it builds the store, the auth services, the
// GraphQL schema, and the router, in that order, so every dependency is
// created exactly once and handed down explicitly. main.go stays minimal —
// it just loads config and calls New + Start.
//
// ROUTES:
//
//	POST /graphql  → the single GraphQL endpoint (also serves GraphiQL on GET)
//	GET  /healthz  → liveness probe
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	gqlhandler "github.com/graphql-go/handler"

	"github.com/sakif/tea-journal/internal/auth"
	"github.com/sakif/tea-journal/internal/config"
	"github.com/sakif/tea-journal/internal/graph"
	"github.com/sakif/tea-journal/internal/middleware"
	"github.com/sakif/tea-journal/internal/service"
	"github.com/sakif/tea-journal/internal/store/sqlite"
)

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqlite.DB // closed during graceful shutdown
}

// New assembles the full dependency graph.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	// Global middleware, in order: request id → real ip → logging → panic
	// recovery.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTIssuer, s.config.JWTAudience)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	schema, err := graph.NewSchema(
		service.NewAuthService(s.db, tokens, passwords, s.logger),
		service.NewTeaService(s.db, s.logger),
	)
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}

	gql := gqlhandler.New(&gqlhandler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	})

	// The identity middleware wraps ONLY the GraphQL endpoint. It never
	// rejects a request — it attaches a lazy identity that resolvers await
	// when (and only when) they need the caller's id.
	s.router.With(auth.Middleware(tokens, s.logger)).Handle("/graphql", gql)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests (30s budget), close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("endpoint", fmt.Sprintf("http://localhost:%d/graphql", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
