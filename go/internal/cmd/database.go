package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/dbconfig"
	"github.com/mcdev12/auctionpro/go/internal/store"
)

// setupDatabase opens and migrates the SQL store. The memory driver needs
// no database and returns nil.
func setupDatabase(ctx context.Context, cfg dbconfig.Config) (*sql.DB, error) {
	if cfg.Driver == dbconfig.DriverMemory {
		log.Info().Msg("using in-memory repositories")
		return nil, nil
	}

	database, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, database, cfg.Driver); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
