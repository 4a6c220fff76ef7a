// Package main is the entry point for the lifecal server.
//
// Usage:
//
//	lifecal                 run the HTTP server
//	lifecal create-user     create an account from the command line
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/lifecal/internal/api"
	"github.com/zapponejosh/lifecal/internal/auth"
	"github.com/zapponejosh/lifecal/internal/commands"
	"github.com/zapponejosh/lifecal/internal/config"
	"github.com/zapponejosh/lifecal/internal/database"
	"github.com/zapponejosh/lifecal/internal/logger"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1:]); err != nil {
		log.Error("lifecal failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, args []string) error {
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", applied))

	if len(args) > 0 {
		switch args[0] {
		case "create-user":
			return commands.CreateUser(ctx, db, args[1:], log)
		case "serve":
		default:
			return fmt.Errorf("unknown command %q (want serve or create-user)", args[0])
		}
	}

	return serve(ctx, cfg, db, log)
}

func serve(ctx context.Context, cfg *config.Config, db *database.DB, log *slog.Logger) error {
	log.Info("starting lifecal",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	sessions := auth.NewManager(db, cfg, log)
	handlers, err := api.NewHandlers(db, sessions, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go cleanSessions(ctx, db, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("lifecal ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// cleanSessions deletes expired sessions until ctx is done.
func cleanSessions(ctx context.Context, db *database.DB, log *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := db.CleanExpiredSessions(ctx, now)
			if err != nil {
				log.Warn("session cleanup failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				log.Info("expired sessions removed", slog.Int64("count", n))
			}
		}
	}
}
