package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcdev12/auctionpro/go/internal/dbconfig"
)

// EnvPrefix namespaces environment overrides, e.g. AUCTION_HTTP_ADDR
const EnvPrefix = "AUCTION"

// Config is the auctiond server configuration
type Config struct {
	HTTPAddr       string
	LogLevel       zerolog.Level
	BidDuration    time.Duration
	StartingBudget decimal.Decimal
	ExpiryWorkers  int
	InstanceID     string

	DB dbconfig.Config

	NATSURL    string
	NATSStream string

	ArchiveSchedule string
	ArchiveAfter    time.Duration

	CatalogueFile string
	CORSOrigins   []string
}

func flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "optional YAML config file")

	// server
	fs.String("http-addr", ":8080", "listen address")
	fs.String("log-level", "info", "zerolog level")
	fs.StringSlice("cors-origins", nil, "allowed CORS origins, empty allows any")
	fs.String("instance-id", "", "coordinator instance id, random when empty")

	// auction
	fs.Duration("bid-duration", 5*time.Second, "countdown per item, reset on every accepted bid")
	fs.String("starting-budget", "120", "budget every bidder starts a room with")
	fs.Int("expiry-workers", 4, "workers resolving expired countdowns")
	fs.String("archive-schedule", "@every 1m", "cron spec for archiving completed rooms")
	fs.Duration("archive-after", 10*time.Minute, "how long a completed room is kept")
	fs.String("catalogue-file", "", "YAML catalogue imported on boot")

	// db
	fs.String("db-driver", dbconfig.DriverMemory, "memory, postgres or sqlite")
	fs.String("db-host", "localhost", "")
	fs.Int("db-port", 5432, "")
	fs.String("db-user", "postgres", "")
	fs.String("db-password", "postgres", "")
	fs.String("db-name", "auctionpro", "")
	fs.String("db-sslmode", "disable", "")
	fs.String("sqlite-path", "auctionpro.db", "")

	// nats
	fs.String("nats-url", "", "NATS server, empty disables the event relay")
	fs.String("nats-stream", "AUCTION_EVENTS", "JetStream stream for room events")
	return fs
}

// Load parses args, then environment, then the optional config file.
// Flags set explicitly win over the environment, which wins over the file.
func Load(args []string) (*Config, error) {
	fs := flags("auctiond")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	budget, err := decimal.NewFromString(v.GetString("starting-budget"))
	if err != nil {
		return nil, fmt.Errorf("starting-budget: %w", err)
	}

	cfg := &Config{
		HTTPAddr:       v.GetString("http-addr"),
		LogLevel:       level,
		BidDuration:    v.GetDuration("bid-duration"),
		StartingBudget: budget,
		ExpiryWorkers:  v.GetInt("expiry-workers"),
		InstanceID:     v.GetString("instance-id"),
		DB: dbconfig.Config{
			Driver:     v.GetString("db-driver"),
			Host:       v.GetString("db-host"),
			Port:       v.GetInt("db-port"),
			User:       v.GetString("db-user"),
			Password:   v.GetString("db-password"),
			Database:   v.GetString("db-name"),
			SSLMode:    v.GetString("db-sslmode"),
			SQLitePath: v.GetString("sqlite-path"),
		},
		NATSURL:         v.GetString("nats-url"),
		NATSStream:      v.GetString("nats-stream"),
		ArchiveSchedule: v.GetString("archive-schedule"),
		ArchiveAfter:    v.GetDuration("archive-after"),
		CatalogueFile:   v.GetString("catalogue-file"),
		CORSOrigins:     v.GetStringSlice("cors-origins"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http-addr is required"))
	}
	if c.BidDuration <= 0 {
		errs = append(errs, errors.New("bid-duration must be positive"))
	}
	if !c.StartingBudget.IsPositive() {
		errs = append(errs, errors.New("starting-budget must be positive"))
	}
	if c.ExpiryWorkers <= 0 {
		errs = append(errs, errors.New("expiry-workers must be positive"))
	}
	if c.ArchiveAfter < 0 {
		errs = append(errs, errors.New("archive-after must not be negative"))
	}
	switch c.DB.Driver {
	case dbconfig.DriverMemory, dbconfig.DriverPostgres, dbconfig.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown db-driver %q", c.DB.Driver))
	}
	return errors.Join(errs...)
}
