package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/config"
)

// loadConfig parses the server configuration and sets up the global logger
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(args)
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("service", "auctiond").
		Logger()

	log.Info().
		Str("http_addr", cfg.HTTPAddr).
		Str("db_driver", cfg.DB.Driver).
		Dur("bid_duration", cfg.BidDuration).
		Str("starting_budget", cfg.StartingBudget.String()).
		Bool("relay", cfg.NATSURL != "").
		Msg("configuration loaded")
	return cfg, nil
}
