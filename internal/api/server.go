// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/shopit/internal/platform/config"
	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/middleware"
	"github.com/taibuivan/shopit/internal/users/account"
	"github.com/taibuivan/shopit/internal/users/admin"
	"github.com/taibuivan/shopit/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Health serves the /health and /ready probes.
	Health *HealthHandler

	// Auth handles registration, login, logout and password recovery.
	Auth *auth.Handler

	// Account handles the signed-in user's own profile and password.
	Account *account.Handler

	// Admin handles user management for administrators.
	Admin *admin.Handler
}

// Security groups the credential checks applied to every request.
type Security struct {
	Verifier    middleware.TokenVerifier
	Revocations middleware.RevocationChecker
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, security Security, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(security.Verifier, security.Revocations))
	r.Use(middleware.CORS(middleware.CORSPolicy{
		AllowAll:     cfg.IsDevelopment(),
		OriginSuffix: cfg.AllowedOriginSuffix,
	}))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Health.Liveness)
	r.Get("/ready", h.Health.Readiness)

	// # Application API
	// Auth and account share the /password prefix, so they register on the
	// versioned router directly instead of being mounted.
	r.Route("/api/v1", func(api chi.Router) {
		h.Auth.RegisterRoutes(api)
		h.Account.RegisterRoutes(api)
		api.Mount("/admin", h.Admin.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
