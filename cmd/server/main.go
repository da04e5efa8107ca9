// Package main is the entry point for the coin admin API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coin-admin-api/internal/config"
	"coin-admin-api/internal/handler"
	"coin-admin-api/internal/pkg/db"
	"coin-admin-api/internal/pkg/lock"
	"coin-admin-api/internal/repository"
	"coin-admin-api/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := db.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	log.Info().Msg("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	ledgerRepo := repository.NewLedgerRepository(dbPool.Pool)
	sessionRepo := repository.NewSessionRepository(dbPool.Pool)
	gameRepo := repository.NewGameRepository(dbPool.Pool)

	// Initialize per-user lock for session serialization
	userLock := lock.NewKeyLock()

	// Initialize services
	rosterService := service.NewRosterService(userRepo, ledgerRepo, sessionRepo)
	gameService := service.NewGameService(gameRepo, ledgerRepo)
	sessionService := service.NewSessionService(userRepo, sessionRepo, userLock)
	entryService := service.NewEntryService(ledgerRepo)

	// Assemble HTTP router
	router := handler.NewRouter(cfg, &handler.Dependencies{
		Roster:   rosterService,
		Games:    gameService,
		Sessions: sessionService,
		Entries:  entryService,
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server is starting...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	} else {
		log.Info().Msg("HTTP server stopped gracefully")
	}
}
