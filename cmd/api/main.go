// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the ShopIt account API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the user store (PostgreSQL + migrations, or MongoDB + indexes).
//  4. Connect to Redis (logout denylist).
//  5. Load the JWT signing keys and pick a mailer.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/shopit/internal/api"
	"github.com/taibuivan/shopit/internal/platform/config"
	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/mail"
	redisstore "github.com/taibuivan/shopit/internal/platform/redis"
	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/internal/users/account"
	"github.com/taibuivan/shopit/internal/users/admin"
	"github.com/taibuivan/shopit/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store", cfg.StoreDriver),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. User Store ─────────────────────────────────────────────────────
	store, err := openUserStore(startupCtx, cfg, log)
	must(log, err, "open user store")
	defer store.close()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Credentials & Mail ─────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	mailer := newMailer(cfg, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	revocations := auth.NewRevocationStore(rdb)
	issuer := auth.NewIssuer(jwtSvc, cfg.JWTExpires)
	sessions := auth.SessionWriter{CookieTTL: cfg.CookieExpires, Secure: cfg.IsProduction()}

	authService := auth.NewService(store.users, revocations, issuer, mailer, cfg.ResetTokenTTL, log)
	accountService := account.NewService(store.users, issuer, log)
	adminService := admin.NewService(store.users, log)

	health := api.NewHealthHandler(log,
		store.probe,
		api.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}},
	)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log,
		api.Security{Verifier: jwtSvc, Revocations: revocations},
		api.Handlers{
			Health:  health,
			Auth:    auth.NewHandler(authService, sessions, cfg.PublicBaseURL),
			Account: account.NewHandler(accountService, sessions),
			Admin:   admin.NewHandler(adminService),
		},
	)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// newMailer picks SMTP delivery when a relay is configured, and the logging
// mailer otherwise.
func newMailer(cfg *config.Config, log *slog.Logger) mail.Mailer {
	if cfg.SMTP.Host == "" {
		log.Warn("smtp_not_configured_using_log_mailer")
		return mail.NewLogMailer(log)
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
	})
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
