package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := setupDatabase(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	if database != nil {
		defer database.Close()
	}

	services, err := setupServices(ctx, cfg, database, clockwork.NewRealClock())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up services")
	}
	defer services.Close()

	coordinatorDone := make(chan struct{})
	go func() {
		defer close(coordinatorDone)
		if err := services.Coordinator.Run(ctx); err != nil {
			log.Error().Err(err).Msg("coordinator stopped")
		}
	}()

	if err := services.Janitor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start janitor")
	}
	defer services.Janitor.Stop()

	server := setupServer(cfg, services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("auctiond listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	services.Connections.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	<-coordinatorDone
}
