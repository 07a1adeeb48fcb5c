package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/mcdev12/auctionpro/go/internal/dbconfig"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to the configured SQL database and pings it
func Open(ctx context.Context, cfg dbconfig.Config) (*sql.DB, error) {
	var driverName string
	switch cfg.Driver {
	case dbconfig.DriverPostgres:
		driverName = "postgres"
	case dbconfig.DriverSQLite:
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	database, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	if cfg.Driver == dbconfig.DriverSQLite {
		// sqlite allows a single writer
		database.SetMaxOpenConns(1)
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Driver == dbconfig.DriverPostgres {
		log.Info().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("database", cfg.Database).
			Msg("connected to database")
	} else {
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")
	}
	return database, nil
}

// Migrate creates the schema for driver if it does not exist
func Migrate(ctx context.Context, database *sql.DB, driver string) error {
	schema, err := migrations.ReadFile("migrations/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	if _, err := database.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply %s schema: %w", driver, err)
	}
	log.Info().Str("driver", driver).Msg("schema migrated")
	return nil
}
